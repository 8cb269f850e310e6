package listing

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/AntoineGS/smaccounts/internal/account"
)

// Predicate reports whether a matches filter. filter is passed exactly as it
// was given to SetFilter.
type Predicate func(a account.ServiceAccount, filter string) bool

// attributeSeparator joins display attributes before substring matching so a
// filter can never match across two attributes.
const attributeSeparator = "◬"

// Structured filter fields, written as "field:value".
const (
	FieldID   = "id"
	FieldName = "name"
	FieldOrg  = "org"
)

// DefaultPredicate matches case-insensitively. An empty filter matches every
// account; "id:", "name:" and "org:" restrict the match to one attribute.
func DefaultPredicate(a account.ServiceAccount, filter string) bool {
	f := normalizeFilter(filter)
	if f == "" {
		return true
	}

	if field, value, ok := splitStructured(f); ok {
		return strings.Contains(strings.ToLower(fieldValue(a, field)), value)
	}

	joined := strings.ToLower(strings.Join(a.FilterAttributes(), attributeSeparator))
	return strings.Contains(joined, f)
}

func normalizeFilter(filter string) string {
	return strings.ToLower(strings.TrimSpace(filter))
}

// splitStructured expects an already normalized filter.
func splitStructured(f string) (field, value string, ok bool) {
	field, value, ok = strings.Cut(f, ":")
	if !ok {
		return "", "", false
	}
	switch field {
	case FieldID, FieldName, FieldOrg:
		return field, strings.TrimSpace(value), true
	default:
		return "", "", false
	}
}

func fieldValue(a account.ServiceAccount, field string) string {
	switch field {
	case FieldID:
		return a.ID
	case FieldOrg:
		return a.OrganizationID
	default:
		return a.Name
	}
}

// suggestName returns the name in items closest to the filter text, or ""
// when none is close enough to be a plausible typo.
func suggestName(items []account.ServiceAccount, filter string) string {
	f := normalizeFilter(filter)
	if field, value, ok := splitStructured(f); ok {
		if field != FieldName {
			return ""
		}
		f = value
	}
	if f == "" {
		return ""
	}

	limit := max(2, len([]rune(f))/3)
	best, bestDist := "", limit+1
	for _, a := range items {
		d := levenshtein.ComputeDistance(f, strings.ToLower(a.Name))
		if d < bestDist {
			best, bestDist = a.Name, d
		}
	}
	return best
}
