package sqlbuilder

import (
	"sort"
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// BuildInsert renders an INSERT for the given column/value map. Columns are
// emitted in sorted order so the statement is deterministic.
func BuildInsert(dialectName, table string, values map[string]interface{}) (*BuildResult, error) {
	p, err := profileFor(dialectName)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, domain.NewQueryBuildError(domain.CodeEmptyValues,
			"insert requires at least one column value").
			WithContext("table", table)
	}
	escapedTable, err := escapeIdentifier(p, table)
	if err != nil {
		return nil, err
	}

	columns := sortedKeys(values)
	params := make([]interface{}, 0, len(columns))
	names := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, col := range columns {
		escaped, err := escapeIdentifier(p, col)
		if err != nil {
			return nil, err
		}
		names = append(names, escaped)
		placeholders = append(placeholders, bindParam(p, &params, values[col]))
	}

	query := "INSERT INTO " + escapedTable +
		" (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return &BuildResult{Query: query, Params: params}, nil
}

// BuildUpdate renders an UPDATE of the given columns constrained by the
// criteria map. Criteria entries become equality predicates AND-combined in
// sorted column order, and an empty criteria map is rejected so a caller
// cannot update a table unbounded by accident.
func BuildUpdate(dialectName, table string, values, criteria map[string]interface{}) (*BuildResult, error) {
	p, err := profileFor(dialectName)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, domain.NewQueryBuildError(domain.CodeEmptyValues,
			"update requires at least one column value").
			WithContext("table", table)
	}
	if len(criteria) == 0 {
		return nil, domain.NewQueryBuildError(domain.CodeEmptyCriteria,
			"update requires at least one criteria column").
			WithContext("table", table)
	}
	escapedTable, err := escapeIdentifier(p, table)
	if err != nil {
		return nil, err
	}

	params := make([]interface{}, 0, len(values)+len(criteria))
	sets := make([]string, 0, len(values))
	for _, col := range sortedKeys(values) {
		escaped, err := escapeIdentifier(p, col)
		if err != nil {
			return nil, err
		}
		sets = append(sets, escaped+" = "+bindParam(p, &params, values[col]))
	}
	where, err := renderCriteria(p, criteria, &params)
	if err != nil {
		return nil, err
	}

	query := "UPDATE " + escapedTable + " SET " + strings.Join(sets, ", ") + " WHERE " + where
	return &BuildResult{Query: query, Params: params}, nil
}

// BuildDelete renders a DELETE constrained by the criteria map. As with
// BuildUpdate, empty criteria are rejected.
func BuildDelete(dialectName, table string, criteria map[string]interface{}) (*BuildResult, error) {
	p, err := profileFor(dialectName)
	if err != nil {
		return nil, err
	}
	if len(criteria) == 0 {
		return nil, domain.NewQueryBuildError(domain.CodeEmptyCriteria,
			"delete requires at least one criteria column").
			WithContext("table", table)
	}
	escapedTable, err := escapeIdentifier(p, table)
	if err != nil {
		return nil, err
	}

	params := make([]interface{}, 0, len(criteria))
	where, err := renderCriteria(p, criteria, &params)
	if err != nil {
		return nil, err
	}

	query := "DELETE FROM " + escapedTable + " WHERE " + where
	return &BuildResult{Query: query, Params: params}, nil
}

func profileFor(dialectName string) (*dialect.Profile, error) {
	d, err := domain.ParseDialect(dialectName)
	if err != nil {
		return nil, err
	}
	return dialect.MustByName(d), nil
}

func renderCriteria(p *dialect.Profile, criteria map[string]interface{}, params *[]interface{}) (string, error) {
	clauses := make([]string, 0, len(criteria))
	for _, col := range sortedKeys(criteria) {
		escaped, err := escapeIdentifier(p, col)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, escaped+" = "+bindParam(p, params, criteria[col]))
	}
	return strings.Join(clauses, " AND "), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
