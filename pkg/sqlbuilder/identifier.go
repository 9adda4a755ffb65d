package sqlbuilder

import (
	"regexp"
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

var identifierStrip = regexp.MustCompile(`[^A-Za-z0-9_$]`)

// escapeIdentifier quotes an identifier for the given dialect. A bare star,
// any expression containing parentheses, and anything carrying an inline
// " as " alias pass through untouched. Dotted names are escaped component
// by component. Everything else is stripped to [A-Za-z0-9_$] before
// quoting; an identifier left empty by the strip is rejected.
func escapeIdentifier(p *dialect.Profile, identifier string) (string, error) {
	if identifier == "*" {
		return identifier, nil
	}
	if strings.Contains(identifier, "(") || strings.Contains(strings.ToLower(identifier), " as ") {
		return identifier, nil
	}
	if strings.Contains(identifier, ".") {
		parts := strings.Split(identifier, ".")
		escaped := make([]string, 0, len(parts))
		for _, part := range parts {
			if part == "*" {
				escaped = append(escaped, part)
				continue
			}
			e, err := escapeSimple(p, part)
			if err != nil {
				return "", domain.NewQueryBuildError(domain.CodeInvalidIdentifier,
					"identifier component is empty after sanitizing").
					WithContext("identifier", identifier)
			}
			escaped = append(escaped, e)
		}
		return strings.Join(escaped, "."), nil
	}
	return escapeSimple(p, identifier)
}

func escapeSimple(p *dialect.Profile, identifier string) (string, error) {
	clean := identifierStrip.ReplaceAllString(identifier, "")
	if clean == "" {
		return "", domain.NewQueryBuildError(domain.CodeInvalidIdentifier,
			"identifier is empty after sanitizing").
			WithContext("identifier", identifier)
	}
	return p.Quote(clean), nil
}
