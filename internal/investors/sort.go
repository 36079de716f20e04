// Package investors holds the presentation logic of the investor pages:
// list sorting, asset-class aggregation, filtering and amount formatting.
package investors

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/bobmcallan/investor-portal/internal/models"
)

// SortField names an Investor attribute the list can be ordered by.
type SortField string

const (
	FieldName             SortField = "name"
	FieldInvestorType     SortField = "investor_type"
	FieldCountry          SortField = "country"
	FieldTotalCommitments SortField = "total_commitments"
)

// SortFields lists the sortable columns in display order.
var SortFields = []SortField{FieldName, FieldInvestorType, FieldCountry, FieldTotalCommitments}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the list view's active sort.
type SortState struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortState sorts by name, ascending.
func DefaultSortState() SortState {
	return SortState{Field: FieldName, Direction: Ascending}
}

// ParseSortState builds a state from query values. Unknown values fall back
// to the defaults independently.
func ParseSortState(field, direction string) SortState {
	s := DefaultSortState()
	if f := SortField(strings.TrimSpace(field)); slices.Contains(SortFields, f) {
		s.Field = f
	}
	if d := SortDirection(strings.ToLower(strings.TrimSpace(direction))); d == Descending {
		s.Direction = Descending
	}
	return s
}

// Toggle returns the state after selecting field: the same field flips the
// direction, another field becomes active in ascending order.
func (s SortState) Toggle(field SortField) SortState {
	if field == s.Field {
		if s.Direction == Ascending {
			return SortState{Field: field, Direction: Descending}
		}
		return SortState{Field: field, Direction: Ascending}
	}
	return SortState{Field: field, Direction: Ascending}
}

// Row is an investor positioned in the list with the id of its detail page.
type Row struct {
	models.Investor
	// DetailID is the 1-based position in the list response, which is how
	// the detail endpoint addresses investors.
	DetailID int `json:"detail_id"`
}

// Sort returns a new slice ordered by s. Strings compare lexicographically,
// totals numerically. Equal keys keep the order of the list response in both
// directions. The input is not modified; nil yields an empty slice.
func Sort(investors []models.Investor, s SortState) []Row {
	rows := lo.Map(investors, func(inv models.Investor, i int) Row {
		return Row{Investor: inv, DetailID: i + 1}
	})

	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compare(a.Investor, b.Investor, s.Field)
		if s.Direction == Descending {
			return -c
		}
		return c
	})

	return rows
}

func compare(a, b models.Investor, field SortField) int {
	switch field {
	case FieldInvestorType:
		return strings.Compare(a.InvestorType, b.InvestorType)
	case FieldCountry:
		return strings.Compare(a.Country, b.Country)
	case FieldTotalCommitments:
		return a.TotalCommitments.Cmp(b.TotalCommitments)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
