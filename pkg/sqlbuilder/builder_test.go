package sqlbuilder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*BuildResult, error)
		query   string
		params  []interface{}
	}{
		{
			name: "postgresql basic select",
			build: func() (*BuildResult, error) {
				b, _ := New("postgresql")
				return b.Select("id", "name").From("users").
					Where("age", OpGt, 18).Limit(10).Offset(5).Build()
			},
			query:  `SELECT "id", "name" FROM "users" WHERE "age" > $1 LIMIT 10 OFFSET 5`,
			params: []interface{}{18},
		},
		{
			name: "mysql default star",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Build()
			},
			query: "SELECT * FROM `users`",
		},
		{
			name: "mssql pagination",
			build: func() (*BuildResult, error) {
				b, _ := New("mssql")
				return b.From("users").OrderBy("id").Limit(10).Offset(20).Build()
			},
			query: "SELECT * FROM [users] ORDER BY [id] ASC OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		},
		{
			name: "mssql limit without offset",
			build: func() (*BuildResult, error) {
				b, _ := New("sqlserver")
				return b.From("users").Limit(10).Build()
			},
			query: "SELECT * FROM [users] OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY",
		},
		{
			name: "oracle uppercases identifiers",
			build: func() (*BuildResult, error) {
				b, _ := New("oracle")
				return b.Select("id").From("users").Where("name", OpEq, "x").Build()
			},
			query:  `SELECT "ID" FROM "USERS" WHERE "NAME" = :param1`,
			params: []interface{}{"x"},
		},
		{
			name: "mysql offset without limit",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Offset(5).Build()
			},
			query: "SELECT * FROM `users` OFFSET 5",
		},
		{
			name: "distinct with group by and having",
			build: func() (*BuildResult, error) {
				b, _ := New("postgresql")
				return b.Distinct().Select("dept", "COUNT(*) AS total").From("employees").
					Where("active", OpEq, true).
					GroupBy("dept").Having("COUNT(*)", OpGt, 3).Build()
			},
			query:  `SELECT DISTINCT "dept", COUNT(*) AS total FROM "employees" WHERE "active" = $1 GROUP BY "dept" HAVING COUNT(*) > $2`,
			params: []interface{}{true, 3},
		},
		{
			name: "joins with alias",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.Select("u.id", "o.total").FromAs("users", "u").
					JoinWith(JoinLeft, "orders", "o", "o.user_id = u.id").Build()
			},
			query: "SELECT `u`.`id`, `o`.`total` FROM `users` AS `u` LEFT JOIN `orders` AS `o` ON o.user_id = u.id",
		},
		{
			name: "in with placeholders per element",
			build: func() (*BuildResult, error) {
				b, _ := New("postgresql")
				return b.From("users").WhereIn("id", []interface{}{1, 2, 3}).Build()
			},
			query:  `SELECT * FROM "users" WHERE "id" IN ($1, $2, $3)`,
			params: []interface{}{1, 2, 3},
		},
		{
			name: "between binds two",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("orders").WhereBetween("total", 10, 100).Build()
			},
			query:  "SELECT * FROM `orders` WHERE `total` BETWEEN ? AND ?",
			params: []interface{}{10, 100},
		},
		{
			name: "null checks bind nothing",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").WhereNull("deleted_at").WhereNotNull("email").Build()
			},
			query: "SELECT * FROM `users` WHERE `deleted_at` IS NULL AND `email` IS NOT NULL",
		},
		{
			name: "order by descending",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").OrderBy("name").OrderByDesc("created_at").Build()
			},
			query: "SELECT * FROM `users` ORDER BY `name` ASC, `created_at` DESC",
		},
		{
			name: "postgresql for update",
			build: func() (*BuildResult, error) {
				b, _ := New("postgresql")
				return b.From("jobs").Where("state", OpEq, "queued").Limit(1).ForUpdate().Build()
			},
			query:  `SELECT * FROM "jobs" WHERE "state" = $1 LIMIT 1 FOR UPDATE`,
			params: []interface{}{"queued"},
		},
		{
			name: "identifier injection stripped",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users; DROP TABLE x").Build()
			},
			query: "SELECT * FROM `usersDROPTABLEx`",
		},
		{
			name: "postgresql regexp operator",
			build: func() (*BuildResult, error) {
				b, _ := New("postgresql")
				return b.From("users").Where("email", OpRegexp, ".*@example[.]com").Build()
			},
			query:  `SELECT * FROM "users" WHERE "email" ~ $1`,
			params: []interface{}{".*@example[.]com"},
		},
		{
			name: "oracle regexp uses function form",
			build: func() (*BuildResult, error) {
				b, _ := New("oracle")
				return b.From("users").Where("email", OpRegexp, "a+").Build()
			},
			query:  `SELECT * FROM "USERS" WHERE REGEXP_LIKE("EMAIL", :param1)`,
			params: []interface{}{"a+"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if result.Query != tt.query {
				t.Errorf("query = %q, want %q", result.Query, tt.query)
			}
			wantParams := tt.params
			if wantParams == nil {
				wantParams = []interface{}{}
			}
			if !reflect.DeepEqual(result.Params, wantParams) {
				t.Errorf("params = %v, want %v", result.Params, wantParams)
			}
		})
	}
}

func TestBuildSQLiteForUpdateOmitted(t *testing.T) {
	b, _ := New("sqlite")
	result, err := b.From("users").ForUpdate().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Query != "SELECT * FROM `users`" {
		t.Errorf("query = %q, FOR UPDATE should be omitted", result.Query)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one omission warning", result.Warnings)
	}
}

func TestBuildPlaceholderMonotonicAcrossClauses(t *testing.T) {
	b, _ := New("postgresql")
	result, err := b.Select("dept").From("employees").
		Where("active", OpEq, true).
		WhereIn("site", []interface{}{"a", "b"}).
		GroupBy("dept").
		Having("COUNT(*)", OpGe, 2).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `SELECT "dept" FROM "employees" WHERE "active" = $1 AND "site" IN ($2, $3) GROUP BY "dept" HAVING COUNT(*) >= $4`
	if result.Query != want {
		t.Errorf("query = %q, want %q", result.Query, want)
	}
	if len(result.Params) != 4 {
		t.Errorf("params = %v, want 4 entries", result.Params)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*BuildResult, error)
		code  string
	}{
		{
			name: "missing from table",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.Select("id").Build()
			},
			code: domain.CodeMissingFromTable,
		},
		{
			name: "empty in array",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").WhereIn("id", []interface{}{}).Build()
			},
			code: domain.CodeInvalidOperatorArgs,
		},
		{
			name: "in with scalar value",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Where("id", OpIn, 5).Build()
			},
			code: domain.CodeInvalidOperatorArgs,
		},
		{
			name: "between with wrong arity",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Where("age", OpBetween, []interface{}{1}).Build()
			},
			code: domain.CodeInvalidOperatorArgs,
		},
		{
			name: "unknown operator",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Where("id", Operator("=="), 1).Build()
			},
			code: domain.CodeInvalidOperator,
		},
		{
			name: "identifier empty after sanitize",
			build: func() (*BuildResult, error) {
				b, _ := New("mysql")
				return b.From("users").Where("; --", OpEq, 1).Build()
			},
			code: domain.CodeInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil {
				t.Fatal("Build() expected error, got nil")
			}
			var qbErr *domain.QueryBuildError
			if !errors.As(err, &qbErr) {
				t.Fatalf("error = %T, want *domain.QueryBuildError", err)
			}
			if qbErr.Code != tt.code {
				t.Errorf("code = %q, want %q", qbErr.Code, tt.code)
			}
		})
	}
}

func TestNewUnsupportedDialect(t *testing.T) {
	if _, err := New("db2"); err == nil {
		t.Fatal("New(db2) expected error, got nil")
	}
}

func TestValidate(t *testing.T) {
	b, _ := New("sqlite")
	result := b.Select("id").ForUpdate().Validate()
	if result.Valid {
		t.Error("Valid = true for query without FROM table")
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want one", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want FOR UPDATE omission warning", result.Warnings)
	}

	b2, _ := New("mysql")
	ok := b2.From("users").Validate()
	if !ok.Valid || len(ok.Errors) != 0 {
		t.Errorf("Validate() = %+v, want valid", ok)
	}
}

func TestBuildCount(t *testing.T) {
	b, _ := New("postgresql")
	b.Select("id", "name").From("users").Where("age", OpGt, 18).
		OrderBy("name").Limit(10).Offset(5)

	result, err := b.BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}
	want := `SELECT COUNT(*) FROM "users" WHERE "age" > $1`
	if result.Query != want {
		t.Errorf("query = %q, want %q", result.Query, want)
	}
	if len(result.Params) != 1 {
		t.Errorf("params = %v, want one", result.Params)
	}

	grouped, _ := New("postgresql")
	if _, err := grouped.From("users").GroupBy("dept").BuildCount(); err == nil {
		t.Error("BuildCount() on grouped query expected error")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b, _ := New("mysql")
	b.Select("id").From("users").Where("age", OpGt, 18)

	c := b.Clone()
	c.Where("active", OpEq, true).Limit(10).Offset(20)

	orig, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "SELECT `id` FROM `users` WHERE `age` > ?"
	if orig.Query != want {
		t.Errorf("original query = %q, want %q", orig.Query, want)
	}
	if len(orig.Params) != 1 {
		t.Errorf("original params = %v, want 1", orig.Params)
	}

	cloned, err := c.Build()
	if err != nil {
		t.Fatalf("clone Build() error = %v", err)
	}
	want = "SELECT `id` FROM `users` WHERE `age` > ? AND `active` = ? LIMIT 10 OFFSET 20"
	if cloned.Query != want {
		t.Errorf("clone query = %q, want %q", cloned.Query, want)
	}
}

func TestEscapeIdentifierPassthrough(t *testing.T) {
	b, _ := New("postgresql")
	result, err := b.Select("COUNT(*)", "name as n").From("users").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `SELECT COUNT(*), name as n FROM "users"`
	if result.Query != want {
		t.Errorf("query = %q, want %q", result.Query, want)
	}
}

func TestEscapeIdentifierDottedStar(t *testing.T) {
	b, _ := New("mysql")
	result, err := b.Select("u.*").FromAs("users", "u").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "SELECT `u`.* FROM `users` AS `u`"
	if result.Query != want {
		t.Errorf("query = %q, want %q", result.Query, want)
	}
}
