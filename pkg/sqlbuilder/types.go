// Package sqlbuilder renders parameterized SQL for the five supported
// dialects. A Builder accumulates clauses through a fluent interface and
// validates nothing until Build; standalone helpers construct DML statements
// directly from column/value maps. All identifier handling goes through the
// same sanitize-then-quote path, and every emitted placeholder corresponds
// positionally to one entry in the returned parameter list.
package sqlbuilder

// Operator is one of the fixed condition operators the builder accepts.
type Operator string

const (
	OpEq         Operator = "="
	OpNe         Operator = "!="
	OpLt         Operator = "<"
	OpLe         Operator = "<="
	OpGt         Operator = ">"
	OpGe         Operator = ">="
	OpLike       Operator = "LIKE"
	OpNotLike    Operator = "NOT LIKE"
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpIsNull     Operator = "IS NULL"
	OpIsNotNull  Operator = "IS NOT NULL"
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
	OpExists     Operator = "EXISTS"
	OpNotExists  Operator = "NOT EXISTS"
	OpRegexp     Operator = "REGEXP"
)

var validOperators = map[Operator]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
	OpLike: true, OpNotLike: true, OpIn: true, OpNotIn: true,
	OpIsNull: true, OpIsNotNull: true, OpBetween: true, OpNotBetween: true,
	OpExists: true, OpNotExists: true, OpRegexp: true,
}

// Valid reports whether the operator is part of the accepted set.
func (o Operator) Valid() bool {
	return validOperators[o]
}

// Condition is one predicate in a WHERE or HAVING clause.
type Condition struct {
	Field    string
	Operator Operator
	Value    interface{}
}

// SelectField is one entry in the SELECT list.
type SelectField struct {
	Expr  string
	Alias string
}

// JoinType enumerates the supported join kinds.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
)

// JoinClause is one JOIN in a query. On is rendered verbatim.
type JoinClause struct {
	Type  JoinType
	Table string
	Alias string
	On    string
}

// OrderClause is one ORDER BY entry.
type OrderClause struct {
	Field      string
	Descending bool
}

// BuildResult is the immutable outcome of rendering a statement. The n-th
// placeholder in Query binds the n-th entry of Params.
type BuildResult struct {
	Query    string
	Params   []interface{}
	Warnings []string
}

// ValidationResult reports structural checks without rendering.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}
