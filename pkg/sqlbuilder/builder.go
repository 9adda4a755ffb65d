package sqlbuilder

import (
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Builder accumulates the clauses of a SELECT statement. Chain methods
// mutate the receiver and return it; nothing is validated or rendered until
// Build or Validate is called, so a Builder can be assembled in any order.
type Builder struct {
	profile    *dialect.Profile
	distinct   bool
	fields     []SelectField
	table      string
	tableAlias string
	joins      []JoinClause
	conditions []Condition
	groupBys   []string
	havings    []Condition
	orders     []OrderClause
	limit      int
	offset     int
	hasLimit   bool
	hasOffset  bool
	forUpdate  bool
}

// New returns a Builder for the named dialect. The name goes through
// domain.ParseDialect, so the usual aliases are accepted.
func New(dialectName string) (*Builder, error) {
	d, err := domain.ParseDialect(dialectName)
	if err != nil {
		return nil, err
	}
	return &Builder{profile: dialect.MustByName(d)}, nil
}

// Clone returns a builder with the same clauses that shares no state with
// the receiver, so either can keep chaining without affecting the other.
func (b *Builder) Clone() *Builder {
	c := *b
	c.fields = append([]SelectField(nil), b.fields...)
	c.joins = append([]JoinClause(nil), b.joins...)
	c.conditions = append([]Condition(nil), b.conditions...)
	c.groupBys = append([]string(nil), b.groupBys...)
	c.havings = append([]Condition(nil), b.havings...)
	c.orders = append([]OrderClause(nil), b.orders...)
	return &c
}

// Select appends fields to the SELECT list. Without any call the statement
// selects *.
func (b *Builder) Select(fields ...string) *Builder {
	for _, f := range fields {
		b.fields = append(b.fields, SelectField{Expr: f})
	}
	return b
}

// SelectAs appends one aliased field to the SELECT list.
func (b *Builder) SelectAs(field, alias string) *Builder {
	b.fields = append(b.fields, SelectField{Expr: field, Alias: alias})
	return b
}

// Distinct marks the statement SELECT DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// From sets the table the statement reads from.
func (b *Builder) From(table string) *Builder {
	b.table = table
	return b
}

// FromAs sets the table with an alias.
func (b *Builder) FromAs(table, alias string) *Builder {
	b.table = table
	b.tableAlias = alias
	return b
}

// Where appends one predicate, AND-combined with the others.
func (b *Builder) Where(field string, op Operator, value interface{}) *Builder {
	b.conditions = append(b.conditions, Condition{Field: field, Operator: op, Value: value})
	return b
}

// WhereIn appends an IN predicate over the given values.
func (b *Builder) WhereIn(field string, values []interface{}) *Builder {
	return b.Where(field, OpIn, values)
}

// WhereNotIn appends a NOT IN predicate over the given values.
func (b *Builder) WhereNotIn(field string, values []interface{}) *Builder {
	return b.Where(field, OpNotIn, values)
}

// WhereNull appends an IS NULL predicate.
func (b *Builder) WhereNull(field string) *Builder {
	return b.Where(field, OpIsNull, nil)
}

// WhereNotNull appends an IS NOT NULL predicate.
func (b *Builder) WhereNotNull(field string) *Builder {
	return b.Where(field, OpIsNotNull, nil)
}

// WhereBetween appends a BETWEEN predicate over [lo, hi].
func (b *Builder) WhereBetween(field string, lo, hi interface{}) *Builder {
	return b.Where(field, OpBetween, []interface{}{lo, hi})
}

// Join appends an INNER JOIN. The ON expression is rendered verbatim.
func (b *Builder) Join(table, on string) *Builder {
	return b.JoinWith(JoinInner, table, "", on)
}

// LeftJoin appends a LEFT JOIN.
func (b *Builder) LeftJoin(table, on string) *Builder {
	return b.JoinWith(JoinLeft, table, "", on)
}

// RightJoin appends a RIGHT JOIN.
func (b *Builder) RightJoin(table, on string) *Builder {
	return b.JoinWith(JoinRight, table, "", on)
}

// JoinWith appends a join of the given type with an optional alias.
func (b *Builder) JoinWith(joinType JoinType, table, alias, on string) *Builder {
	b.joins = append(b.joins, JoinClause{Type: joinType, Table: table, Alias: alias, On: on})
	return b
}

// GroupBy appends grouping fields.
func (b *Builder) GroupBy(fields ...string) *Builder {
	b.groupBys = append(b.groupBys, fields...)
	return b
}

// Having appends one HAVING predicate, AND-combined with the others.
func (b *Builder) Having(field string, op Operator, value interface{}) *Builder {
	b.havings = append(b.havings, Condition{Field: field, Operator: op, Value: value})
	return b
}

// OrderBy appends an ascending ORDER BY entry.
func (b *Builder) OrderBy(field string) *Builder {
	b.orders = append(b.orders, OrderClause{Field: field})
	return b
}

// OrderByDesc appends a descending ORDER BY entry.
func (b *Builder) OrderByDesc(field string) *Builder {
	b.orders = append(b.orders, OrderClause{Field: field, Descending: true})
	return b
}

// Limit caps the number of returned rows.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	b.hasLimit = true
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	b.hasOffset = true
	return b
}

// ForUpdate requests row locks on the selected rows. Dialects without the
// clause omit it and Build records a warning.
func (b *Builder) ForUpdate() *Builder {
	b.forUpdate = true
	return b
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() domain.Dialect {
	return b.profile.Name()
}

// Build renders the accumulated clauses into a parameterized statement.
// Clauses appear in fixed order regardless of the order the chain methods
// were called in.
func (b *Builder) Build() (*BuildResult, error) {
	if b.table == "" {
		return nil, domain.NewQueryBuildError(domain.CodeMissingFromTable,
			"query has no FROM table")
	}

	var sb strings.Builder
	params := make([]interface{}, 0, len(b.conditions)+len(b.havings))
	var warnings []string

	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	fieldList, err := b.renderFields()
	if err != nil {
		return nil, err
	}
	sb.WriteString(fieldList)

	table, err := escapeIdentifier(b.profile, b.table)
	if err != nil {
		return nil, err
	}
	sb.WriteString(" FROM ")
	sb.WriteString(table)
	if b.tableAlias != "" {
		alias, err := escapeIdentifier(b.profile, b.tableAlias)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" AS ")
		sb.WriteString(alias)
	}

	for _, join := range b.joins {
		clause, err := b.renderJoin(join)
		if err != nil {
			return nil, err
		}
		sb.WriteString(clause)
	}

	if len(b.conditions) > 0 {
		where, err := renderConditions(b.profile, b.conditions, &params)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(b.groupBys) > 0 {
		groups := make([]string, 0, len(b.groupBys))
		for _, g := range b.groupBys {
			escaped, err := escapeIdentifier(b.profile, g)
			if err != nil {
				return nil, err
			}
			groups = append(groups, escaped)
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groups, ", "))
	}

	if len(b.havings) > 0 {
		having, err := renderConditions(b.profile, b.havings, &params)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" HAVING ")
		sb.WriteString(having)
	}

	if len(b.orders) > 0 {
		orders := make([]string, 0, len(b.orders))
		for _, o := range b.orders {
			escaped, err := escapeIdentifier(b.profile, o.Field)
			if err != nil {
				return nil, err
			}
			if o.Descending {
				escaped += " DESC"
			} else {
				escaped += " ASC"
			}
			orders = append(orders, escaped)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	sb.WriteString(b.profile.Pagination(b.limit, b.offset, b.hasLimit, b.hasOffset))

	if b.forUpdate {
		if b.profile.SupportsForUpdate() {
			sb.WriteString(" FOR UPDATE")
		} else {
			warnings = append(warnings, string(b.profile.Name())+" does not support FOR UPDATE, clause omitted")
		}
	}

	return &BuildResult{Query: sb.String(), Params: params, Warnings: warnings}, nil
}

// BuildCount renders a COUNT(*) statement over the same FROM, JOIN and
// WHERE clauses, ignoring ordering and pagination. Grouped queries cannot
// be counted this way and are rejected.
func (b *Builder) BuildCount() (*BuildResult, error) {
	if b.table == "" {
		return nil, domain.NewQueryBuildError(domain.CodeMissingFromTable,
			"query has no FROM table")
	}
	if len(b.groupBys) > 0 {
		return nil, domain.NewQueryBuildError(domain.CodeInvalidOperatorArgs,
			"cannot count a grouped query")
	}

	var sb strings.Builder
	params := make([]interface{}, 0, len(b.conditions))

	table, err := escapeIdentifier(b.profile, b.table)
	if err != nil {
		return nil, err
	}
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(table)
	if b.tableAlias != "" {
		alias, err := escapeIdentifier(b.profile, b.tableAlias)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" AS ")
		sb.WriteString(alias)
	}

	for _, join := range b.joins {
		clause, err := b.renderJoin(join)
		if err != nil {
			return nil, err
		}
		sb.WriteString(clause)
	}

	if len(b.conditions) > 0 {
		where, err := renderConditions(b.profile, b.conditions, &params)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	return &BuildResult{Query: sb.String(), Params: params}, nil
}

// Validate runs the structural checks Build would apply, without rendering.
func (b *Builder) Validate() ValidationResult {
	var result ValidationResult
	if b.table == "" {
		result.Errors = append(result.Errors, "query has no FROM table")
	}
	for _, cond := range append(append([]Condition{}, b.conditions...), b.havings...) {
		if !cond.Operator.Valid() {
			result.Errors = append(result.Errors, "unknown operator "+string(cond.Operator)+" on field "+cond.Field)
		}
	}
	if b.forUpdate && !b.profile.SupportsForUpdate() {
		result.Warnings = append(result.Warnings, string(b.profile.Name())+" does not support FOR UPDATE, clause omitted")
	}
	if b.hasOffset && !b.hasLimit && b.profile.Name() == domain.DialectMSSQL {
		result.Warnings = append(result.Warnings, "OFFSET without LIMIT returns all remaining rows")
	}
	result.Valid = len(result.Errors) == 0
	return result
}

func (b *Builder) renderFields() (string, error) {
	if len(b.fields) == 0 {
		return "*", nil
	}
	rendered := make([]string, 0, len(b.fields))
	for _, f := range b.fields {
		escaped, err := escapeIdentifier(b.profile, f.Expr)
		if err != nil {
			return "", err
		}
		if f.Alias != "" {
			alias, err := escapeIdentifier(b.profile, f.Alias)
			if err != nil {
				return "", err
			}
			escaped += " AS " + alias
		}
		rendered = append(rendered, escaped)
	}
	return strings.Join(rendered, ", "), nil
}

func (b *Builder) renderJoin(join JoinClause) (string, error) {
	table, err := escapeIdentifier(b.profile, join.Table)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(string(join.Type))
	sb.WriteString(" JOIN ")
	sb.WriteString(table)
	if join.Alias != "" {
		alias, err := escapeIdentifier(b.profile, join.Alias)
		if err != nil {
			return "", err
		}
		sb.WriteString(" AS ")
		sb.WriteString(alias)
	}
	if join.On != "" {
		sb.WriteString(" ON ")
		sb.WriteString(join.On)
	}
	return sb.String(), nil
}
