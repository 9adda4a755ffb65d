package sqlbuilder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// bindParam appends a value to the parameter list and returns the
// placeholder for its ordinal position. The list is shared across every
// clause of a statement so positions stay monotonic.
func bindParam(p *dialect.Profile, params *[]interface{}, value interface{}) string {
	*params = append(*params, value)
	return p.Placeholder(len(*params))
}

// renderConditions renders a list of predicates joined with AND, appending
// bound values to params in emission order.
func renderConditions(p *dialect.Profile, conds []Condition, params *[]interface{}) (string, error) {
	clauses := make([]string, 0, len(conds))
	for _, cond := range conds {
		clause, err := renderCondition(p, cond, params)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " AND "), nil
}

func renderCondition(p *dialect.Profile, cond Condition, params *[]interface{}) (string, error) {
	if !cond.Operator.Valid() {
		return "", domain.NewQueryBuildError(domain.CodeInvalidOperator,
			fmt.Sprintf("unknown operator %q", string(cond.Operator))).
			WithContext("field", cond.Field)
	}
	field, err := escapeIdentifier(p, cond.Field)
	if err != nil {
		return "", err
	}

	switch cond.Operator {
	case OpIsNull, OpIsNotNull:
		return field + " " + string(cond.Operator), nil

	case OpIn, OpNotIn:
		values, ok := toSlice(cond.Value)
		if !ok || len(values) == 0 {
			return "", domain.NewQueryBuildError(domain.CodeInvalidOperatorArgs,
				string(cond.Operator)+" requires a non-empty array value").
				WithContext("field", cond.Field)
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = bindParam(p, params, v)
		}
		return field + " " + string(cond.Operator) + " (" + strings.Join(placeholders, ", ") + ")", nil

	case OpBetween, OpNotBetween:
		values, ok := toSlice(cond.Value)
		if !ok || len(values) != 2 {
			return "", domain.NewQueryBuildError(domain.CodeInvalidOperatorArgs,
				string(cond.Operator)+" requires exactly two values").
				WithContext("field", cond.Field)
		}
		lo := bindParam(p, params, values[0])
		hi := bindParam(p, params, values[1])
		return field + " " + string(cond.Operator) + " " + lo + " AND " + hi, nil

	case OpRegexp:
		return renderRegexp(p, field, cond.Value, params), nil

	default:
		return field + " " + string(cond.Operator) + " " + bindParam(p, params, cond.Value), nil
	}
}

// renderRegexp handles the dialects that spell pattern matching differently.
// SQL Server has no native operator; the generic form is emitted and the
// caller is expected to have enabled an equivalent on the server side.
func renderRegexp(p *dialect.Profile, field string, value interface{}, params *[]interface{}) string {
	ph := bindParam(p, params, value)
	switch p.Name() {
	case domain.DialectPostgreSQL:
		return field + " ~ " + ph
	case domain.DialectOracle:
		return "REGEXP_LIKE(" + field + ", " + ph + ")"
	default:
		return field + " REGEXP " + ph
	}
}

// toSlice accepts both []interface{} and concretely typed slices, which is
// what map-decoded tool arguments tend to deliver.
func toSlice(value interface{}) ([]interface{}, bool) {
	if value == nil {
		return nil, false
	}
	if s, ok := value.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
