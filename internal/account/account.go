// Package account defines the service-account record shown by the list and
// persisted by the store.
package account

import (
	"strings"
	"time"
)

// DateLayout is the layout used when a date is shown or matched as text.
const DateLayout = "2006-01-02 15:04"

// ServiceAccount is a machine identity belonging to an organization.
// Identity is the ID; every other field is display data.
type ServiceAccount struct {
	CreationDate   time.Time
	RevisionDate   time.Time
	ID             string
	OrganizationID string
	Name           string
}

// FilterAttributes returns the display attributes in a fixed order:
// id, organization id, name, creation date, revision date.
func (a ServiceAccount) FilterAttributes() []string {
	return []string{
		a.ID,
		a.OrganizationID,
		a.Name,
		FormatDate(a.CreationDate),
		FormatDate(a.RevisionDate),
	}
}

// FormatDate renders t in UTC with DateLayout. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// IDs returns the identifiers of accounts in order.
func IDs(accounts []ServiceAccount) []string {
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids
}

// SortColumn names a column the list can be sorted by.
type SortColumn string

// Sortable columns.
const (
	SortNone    SortColumn = ""
	SortName    SortColumn = "name"
	SortCreated SortColumn = "created"
	SortRevised SortColumn = "revised"
)

// ParseSortColumn maps user input to a SortColumn.
func ParseSortColumn(s string) (SortColumn, bool) {
	switch SortColumn(strings.ToLower(strings.TrimSpace(s))) {
	case SortNone:
		return SortNone, true
	case SortName:
		return SortName, true
	case SortCreated:
		return SortCreated, true
	case SortRevised:
		return SortRevised, true
	}
	return SortNone, false
}

// Less reports whether a sorts before b on column in ascending order.
// Ties are broken by ID so the order is total.
func Less(a, b ServiceAccount, column SortColumn) bool {
	switch column {
	case SortName:
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
	case SortCreated:
		if !a.CreationDate.Equal(b.CreationDate) {
			return a.CreationDate.Before(b.CreationDate)
		}
	case SortRevised:
		if !a.RevisionDate.Equal(b.RevisionDate) {
			return a.RevisionDate.Before(b.RevisionDate)
		}
	case SortNone:
	}
	return a.ID < b.ID
}
