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
	"github.com/bobmcallan/investor-portal/internal/models"
)

const (
	detailLoadingMessage = "Loading investor details..."
	detailToastMessage   = "Failed to fetch investor details"
	detailErrorMessage   = "Error loading investor details"
)

// InvestorDetailHandler serves one investor's commitments page and its JSON mirror.
type InvestorDetailHandler struct {
	logger   *common.Logger
	pages    *PageHandler
	source   interfaces.InvestorSource
	currency string
}

// NewInvestorDetailHandler creates a new investor detail handler. Aggregate
// cards are labelled with the currency's symbol.
func NewInvestorDetailHandler(logger *common.Logger, pages *PageHandler, source interfaces.InvestorSource, currency string) *InvestorDetailHandler {
	return &InvestorDetailHandler{
		logger:   loggerOrSilent(logger),
		pages:    pages,
		source:   source,
		currency: currency,
	}
}

type assetClassCard struct {
	AssetClass string
	Amount     string
	Href       string
	Selected   bool
}

type commitmentRow struct {
	ID         int
	AssetClass string
	Currency   string
	Amount     string
}

type investorPage struct {
	Name         string
	InvestorType string
	Country      string
	Cards        []assetClassCard
	Commitments  []commitmentRow
}

func newInvestorPage(view investors.DetailView, currency string) investorPage {
	cards := lo.Map(view.Totals, func(total investors.AssetClassTotal, _ int) assetClassCard {
		return assetClassCard{
			AssetClass: total.AssetClass,
			Amount:     investors.FormatCardAmount(total.Amount, currency),
			Href:       investorHref(view.ID, investors.ToggleAssetClass(view.Selected, total.AssetClass)),
			Selected:   view.Selected == total.AssetClass,
		}
	})

	rows := lo.Map(view.Commitments, func(c models.Commitment, _ int) commitmentRow {
		return commitmentRow{
			ID:         c.ID,
			AssetClass: c.AssetClass,
			Currency:   c.Currency,
			Amount:     investors.FormatAmount(c.Amount),
		}
	})

	return investorPage{
		Name:         view.Name,
		InvestorType: view.Type,
		Country:      view.Country,
		Cards:        cards,
		Commitments:  rows,
	}
}

func investorHref(id int, assetClass string) string {
	href := "/investor/" + strconv.Itoa(id)
	if assetClass == "" {
		return href
	}
	return href + "?" + url.Values{"asset_class": {assetClass}}.Encode()
}

// ServeHTTP handles GET /investor/{id}.
func (h *InvestorDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rawID := r.PathValue("id")
	selected := r.URL.Query().Get("asset_class")
	page := h.pages.begin(w, shell{Title: "Investor", Page: "investor", Loading: detailLoadingMessage})

	id, err := strconv.Atoi(rawID)
	if err != nil {
		h.logger.ForContext(r.Context()).Warn().Str("id", rawID).Msg("invalid investor id")
		page.fail(detailToastMessage, detailErrorMessage)
		return
	}

	detail, err := h.source.GetInvestor(r.Context(), id)
	if err != nil {
		logFetchFailure(h.logger, r, client.OpGetInvestor, err)
		page.fail(detailToastMessage, detailErrorMessage)
		return
	}

	page.content("investor", newInvestorPage(investors.NewDetailView(id, detail, selected), h.currency))
}

// ServeAPI handles GET /api/investors/{id}.
func (h *InvestorDetailHandler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid investor id")
		return
	}

	detail, err := h.source.GetInvestor(r.Context(), id)
	if err != nil {
		logFetchFailure(h.logger, r, client.OpGetInvestor, err)
		WriteError(w, http.StatusBadGateway, "Failed to fetch investor details")
		return
	}

	WriteJSON(w, http.StatusOK, investors.NewDetailView(id, detail, r.URL.Query().Get("asset_class")))
}
