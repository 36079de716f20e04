package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/lo"

	"github.com/bobmcallan/investor-portal/internal/client"
	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/interfaces"
	"github.com/bobmcallan/investor-portal/internal/investors"
)

const (
	listLoadingMessage = "Loading investors..."
	listToastMessage   = "Failed to fetch investors data"
	listErrorMessage   = "Error loading investors"
)

var columnLabels = map[investors.SortField]string{
	investors.FieldName:             "Name",
	investors.FieldInvestorType:     "Type",
	investors.FieldCountry:          "Country",
	investors.FieldTotalCommitments: "Total Commitment",
}

// InvestorListHandler serves the investors list page and its JSON mirror.
type InvestorListHandler struct {
	logger *common.Logger
	pages  *PageHandler
	source interfaces.InvestorSource
}

// NewInvestorListHandler creates a new investors list handler.
func NewInvestorListHandler(logger *common.Logger, pages *PageHandler, source interfaces.InvestorSource) *InvestorListHandler {
	return &InvestorListHandler{
		logger: loggerOrSilent(logger),
		pages:  pages,
		source: source,
	}
}

type sortHeader struct {
	Field     string
	Label     string
	Href      string
	Direction string
	Active    bool
	Numeric   bool
}

type investorRow struct {
	DetailID     int
	Name         string
	InvestorType string
	Country      string
	Total        string
	Href         string
}

type investorsPage struct {
	Headers []sortHeader
	Rows    []investorRow
}

func newInvestorsPage(view investors.ListView) investorsPage {
	headers := lo.Map(investors.SortFields, func(field investors.SortField, _ int) sortHeader {
		next := view.Sort.Toggle(field)
		return sortHeader{
			Field:     string(field),
			Label:     columnLabels[field],
			Href:      sortHref(next),
			Direction: string(view.Sort.Direction),
			Active:    view.Sort.Field == field,
			Numeric:   field == investors.FieldTotalCommitments,
		}
	})

	rows := lo.Map(view.Rows, func(row investors.Row, _ int) investorRow {
		return investorRow{
			DetailID:     row.DetailID,
			Name:         row.Name,
			InvestorType: row.InvestorType,
			Country:      row.Country,
			Total:        investors.FormatCurrency(row.TotalCommitments),
			Href:         "/investor/" + strconv.Itoa(row.DetailID),
		}
	})

	return investorsPage{Headers: headers, Rows: rows}
}

func sortHref(s investors.SortState) string {
	q := url.Values{}
	q.Set("sort", string(s.Field))
	q.Set("dir", string(s.Direction))
	return "/?" + q.Encode()
}

func sortStateFromQuery(r *http.Request) investors.SortState {
	q := r.URL.Query()
	return investors.ParseSortState(q.Get("sort"), q.Get("dir"))
}

// ServeHTTP handles GET / (the investors list page).
func (h *InvestorListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	state := sortStateFromQuery(r)
	page := h.pages.begin(w, shell{Title: "Investors", Page: "investors", Loading: listLoadingMessage})

	resp, err := h.source.ListInvestors(r.Context())
	if err != nil {
		logFetchFailure(h.logger, r, client.OpListInvestors, err)
		page.fail(listToastMessage, listErrorMessage)
		return
	}

	page.content("investors", newInvestorsPage(investors.NewListView(resp, state)))
}

// ServeAPI handles GET /api/investors.
func (h *InvestorListHandler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := h.source.ListInvestors(r.Context())
	if err != nil {
		logFetchFailure(h.logger, r, client.OpListInvestors, err)
		WriteError(w, http.StatusBadGateway, "Failed to fetch investors")
		return
	}

	WriteJSON(w, http.StatusOK, investors.NewListView(resp, sortStateFromQuery(r)))
}
