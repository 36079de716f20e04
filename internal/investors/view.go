package investors

import (
	"github.com/bobmcallan/investor-portal/internal/models"
)

// ListView is everything the investors list renders.
type ListView struct {
	Sort SortState `json:"sort"`
	Rows []Row     `json:"investors"`
}

// NewListView sorts the fetched investors. A nil response renders no rows.
func NewListView(resp *models.InvestorsResponse, s SortState) ListView {
	var investors []models.Investor
	if resp != nil {
		investors = resp.Investors
	}
	return ListView{Sort: s, Rows: Sort(investors, s)}
}

// DetailView is everything the investor detail page renders.
type DetailView struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"investor_type"`
	Country     string              `json:"country"`
	Totals      Totals              `json:"totals"`
	Selected    string              `json:"selected_asset_class,omitempty"`
	Commitments []models.Commitment `json:"commitments"`
}

// NewDetailView aggregates the investor's commitments and applies the
// asset-class selection. Totals always cover every commitment.
func NewDetailView(id int, detail *models.InvestorDetail, selected string) DetailView {
	v := DetailView{ID: id, Selected: selected}
	var commitments []models.Commitment
	if detail != nil {
		v.Name = detail.Name
		v.Type = detail.InvestorType
		v.Country = detail.Country
		commitments = detail.Commitments
	}
	v.Totals = Aggregate(commitments)
	v.Commitments = Filter(commitments, selected)
	if v.Commitments == nil {
		v.Commitments = []models.Commitment{}
	}
	return v
}
