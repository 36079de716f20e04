package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/investor-portal/internal/client"
	"github.com/bobmcallan/investor-portal/internal/models"
)

// fakeSource is an in-memory InvestorSource.
type fakeSource struct {
	list    *models.InvestorsResponse
	details map[int]*models.InvestorDetail
	err     error
	calls   int
}

func (f *fakeSource) ListInvestors(ctx context.Context) (*models.InvestorsResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeSource) GetInvestor(ctx context.Context, id int) (*models.InvestorDetail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	detail, ok := f.details[id]
	if !ok {
		return nil, &client.FetchError{Op: client.OpGetInvestor, StatusCode: http.StatusNotFound}
	}
	return detail, nil
}

func investor(name, kind, country, total string) models.Investor {
	return models.Investor{
		Name:             name,
		InvestorType:     kind,
		Country:          country,
		TotalCommitments: decimal.RequireFromString(total),
	}
}

func sampleList() *models.InvestorsResponse {
	return &models.InvestorsResponse{Investors: []models.Investor{
		investor("Zeta", "bank", "China", "2500000000"),
		investor("Alpha", "fund manager", "Singapore", "0"),
		investor("Mid", "asset manager", "United States", "73000000"),
	}}
}

func newListHandler(source *fakeSource) *InvestorListHandler {
	return NewInvestorListHandler(nil, NewPageHandler(nil, false), source)
}

func TestInvestorList_RendersSortedTable(t *testing.T) {
	handler := newListHandler(&fakeSource{list: sampleList()})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %s", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Loading investors...") {
		t.Error("expected loading message in page shell")
	}
	if !strings.Contains(body, `class="investors-table"`) {
		t.Fatal("expected investors table")
	}

	alpha := strings.Index(body, ">Alpha<")
	mid := strings.Index(body, ">Mid<")
	zeta := strings.Index(body, ">Zeta<")
	if alpha < 0 || mid < 0 || zeta < 0 {
		t.Fatalf("expected all investors in body")
	}
	if !(alpha < mid && mid < zeta) {
		t.Errorf("expected name ascending order, got positions alpha=%d mid=%d zeta=%d", alpha, mid, zeta)
	}

	// Detail links follow the list response position, not the sorted row.
	if !strings.Contains(body, `href="/investor/2">Alpha<`) {
		t.Error("expected Alpha to link to /investor/2")
	}
	if !strings.Contains(body, `href="/investor/1">Zeta<`) {
		t.Error("expected Zeta to link to /investor/1")
	}

	if !strings.Contains(body, ">2.5B<") {
		t.Error("expected Zeta total formatted as 2.5B")
	}
	if !strings.Contains(body, ">-<") {
		t.Error("expected zero total formatted as -")
	}
	if !strings.Contains(body, ">0.1B<") {
		t.Error("expected 73M total formatted as 0.1B")
	}
}

func TestInvestorList_EveryCellLinksToDetail(t *testing.T) {
	handler := newListHandler(&fakeSource{list: sampleList()})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := w.Body.String()
	for _, href := range []string{"/investor/1", "/investor/2", "/investor/3"} {
		if n := strings.Count(body, `class="row-link" href="`+href+`"`); n != 4 {
			t.Errorf("expected 4 cells linking to %s, got %d", href, n)
		}
	}
}

func TestInvestorList_HeaderLinksToggleSort(t *testing.T) {
	handler := newListHandler(&fakeSource{list: sampleList()})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	// Active column flips direction; other columns start ascending.
	if !strings.Contains(body, `href="/?dir=desc&amp;sort=name"`) {
		t.Error("expected name header to link to descending sort")
	}
	if !strings.Contains(body, `href="/?dir=asc&amp;sort=country"`) {
		t.Error("expected country header to link to ascending sort")
	}
	if !strings.Contains(body, `href="/?dir=asc&amp;sort=total_commitments"`) {
		t.Error("expected total header to link to ascending sort")
	}
}

func TestInvestorList_SortFromQuery(t *testing.T) {
	handler := newListHandler(&fakeSource{list: sampleList()})

	req := httptest.NewRequest("GET", "/?sort=total_commitments&dir=desc", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	zeta := strings.Index(body, ">Zeta<")
	mid := strings.Index(body, ">Mid<")
	alpha := strings.Index(body, ">Alpha<")
	if !(zeta < mid && mid < alpha) {
		t.Errorf("expected total descending order, got positions zeta=%d mid=%d alpha=%d", zeta, mid, alpha)
	}
	if !strings.Contains(body, `href="/?dir=asc&amp;sort=total_commitments"`) {
		t.Error("expected active total header to link back to ascending")
	}
}

func TestInvestorList_UpstreamErrorRendersErrorState(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	handler := NewInvestorListHandler(nil, NewPageHandler(nil, false), client.NewInvestorClient(upstream.URL))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Error loading investors") {
		t.Error("expected static error message")
	}
	if !strings.Contains(body, "Failed to fetch investors data") {
		t.Error("expected error toast")
	}
	if strings.Contains(body, "<table") {
		t.Error("expected no table on error")
	}
}

func TestInvestorList_MalformedResponseRendersErrorState(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"investors":[`))
	}))
	defer upstream.Close()

	handler := NewInvestorListHandler(nil, NewPageHandler(nil, false), client.NewInvestorClient(upstream.URL))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Error loading investors") {
		t.Error("expected static error message")
	}
	if strings.Contains(body, "<table") {
		t.Error("expected no table on malformed response")
	}
}

func TestInvestorList_EmptyList(t *testing.T) {
	handler := newListHandler(&fakeSource{list: &models.InvestorsResponse{}})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `class="investors-table"`) {
		t.Error("expected table with header for empty list")
	}
	if strings.Contains(body, `class="investor-row"`) {
		t.Error("expected no investor rows")
	}
}

func TestInvestorList_RejectsPOST(t *testing.T) {
	source := &fakeSource{list: sampleList()}
	handler := newListHandler(source)

	req := httptest.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
	if source.calls != 0 {
		t.Errorf("expected no upstream call, got %d", source.calls)
	}
}

func TestInvestorListAPI_ReturnsSortedRows(t *testing.T) {
	handler := newListHandler(&fakeSource{list: sampleList()})

	req := httptest.NewRequest("GET", "/api/investors?sort=country&dir=desc", nil)
	w := httptest.NewRecorder()

	handler.ServeAPI(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Sort struct {
			Field     string `json:"field"`
			Direction string `json:"direction"`
		} `json:"sort"`
		Investors []struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			DetailID int    `json:"detail_id"`
		} `json:"investors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if body.Sort.Field != "country" || body.Sort.Direction != "desc" {
		t.Errorf("expected sort country/desc, got %s/%s", body.Sort.Field, body.Sort.Direction)
	}
	if len(body.Investors) != 3 {
		t.Fatalf("expected 3 investors, got %d", len(body.Investors))
	}
	want := []string{"United States", "Singapore", "China"}
	for i, country := range want {
		if body.Investors[i].Country != country {
			t.Errorf("row %d: expected country %s, got %s", i, country, body.Investors[i].Country)
		}
	}
	if body.Investors[0].DetailID != 3 {
		t.Errorf("expected Mid to keep detail id 3, got %d", body.Investors[0].DetailID)
	}
}

func TestInvestorListAPI_UpstreamError(t *testing.T) {
	handler := newListHandler(&fakeSource{err: &client.FetchError{Op: client.OpListInvestors, StatusCode: 500}})

	req := httptest.NewRequest("GET", "/api/investors", nil)
	w := httptest.NewRecorder()

	handler.ServeAPI(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["error"] != "Failed to fetch investors" {
		t.Errorf("expected fetch error message, got %s", body["error"])
	}
}
