// Package dialect defines per-dialect SQL generation rules. Every dialect
// difference the builder or the adapters care about lives in one Profile
// value: identifier quoting, parameter placeholder syntax, pagination clause
// shape, and FOR UPDATE support. Callers select a Profile once and never
// branch on the dialect name again.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Profile holds the SQL generation rules for one dialect.
type Profile struct {
	name        domain.Dialect
	quote       func(string) string
	placeholder func(int) string
	offsetFetch bool
	forUpdate   bool
}

// Name returns the dialect this profile serves.
func (p *Profile) Name() domain.Dialect {
	return p.name
}

// Quote wraps a single identifier component in dialect quoting. The input is
// expected to be sanitized already; embedded quote characters are doubled as
// a second line of defense.
func (p *Profile) Quote(identifier string) string {
	return p.quote(identifier)
}

// Placeholder returns the parameter marker for the n-th parameter (1-based).
func (p *Profile) Placeholder(n int) string {
	return p.placeholder(n)
}

// SupportsForUpdate reports whether the dialect accepts FOR UPDATE.
func (p *Profile) SupportsForUpdate() bool {
	return p.forUpdate
}

// Pagination renders the dialect's pagination clause, including a leading
// space. hasLimit/hasOffset distinguish "unset" from an explicit zero.
// OFFSET/FETCH dialects default the offset to 0 when only a limit is set.
func (p *Profile) Pagination(limit, offset int, hasLimit, hasOffset bool) string {
	if !hasLimit && !hasOffset {
		return ""
	}

	if p.offsetFetch {
		if !hasLimit {
			return fmt.Sprintf(" OFFSET %d ROWS", offset)
		}
		off := 0
		if hasOffset {
			off = offset
		}
		return fmt.Sprintf(" OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", off, limit)
	}

	if !hasLimit {
		return fmt.Sprintf(" OFFSET %d", offset)
	}
	clause := fmt.Sprintf(" LIMIT %d", limit)
	if hasOffset {
		clause += fmt.Sprintf(" OFFSET %d", offset)
	}
	return clause
}

func backtickQuote(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

func doubleQuote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func bracketQuote(identifier string) string {
	return "[" + strings.ReplaceAll(identifier, "]", "]]") + "]"
}

func upperDoubleQuote(identifier string) string {
	return doubleQuote(strings.ToUpper(identifier))
}

func questionMark(int) string {
	return "?"
}

var profiles = map[domain.Dialect]*Profile{
	domain.DialectMySQL: {
		name:        domain.DialectMySQL,
		quote:       backtickQuote,
		placeholder: questionMark,
		forUpdate:   true,
	},
	domain.DialectPostgreSQL: {
		name:        domain.DialectPostgreSQL,
		quote:       doubleQuote,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		forUpdate:   true,
	},
	domain.DialectMSSQL: {
		name:        domain.DialectMSSQL,
		quote:       bracketQuote,
		placeholder: func(n int) string { return "@param" + strconv.Itoa(n) },
		offsetFetch: true,
		forUpdate:   true,
	},
	domain.DialectOracle: {
		name:        domain.DialectOracle,
		quote:       upperDoubleQuote,
		placeholder: func(n int) string { return ":param" + strconv.Itoa(n) },
		offsetFetch: true,
		forUpdate:   true,
	},
	domain.DialectSQLite: {
		name:        domain.DialectSQLite,
		quote:       backtickQuote,
		placeholder: questionMark,
		forUpdate:   false,
	},
}

// ByName returns the profile for a dialect.
func ByName(d domain.Dialect) (*Profile, error) {
	p, ok := profiles[d]
	if !ok {
		return nil, domain.NewConnectionError(d, domain.CodeUnsupportedDialect,
			"no dialect profile", nil)
	}
	return p, nil
}

// MustByName returns the profile for a dialect and panics if it is unknown.
// Intended for the fixed dialect constants.
func MustByName(d domain.Dialect) *Profile {
	p, err := ByName(d)
	if err != nil {
		panic(err)
	}
	return p
}
