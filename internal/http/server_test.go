package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banchee/internal/core"
	"banchee/internal/ledger/memory"
	"banchee/internal/services"
)

func newTestServer() *Server {
	tax := core.DefaultTaxonomy()
	records := memory.NewRecordStore(tax)
	budgets := memory.NewBudgetStore()
	svc := services.NewLedgerService(records, budgets, tax)
	editor := services.NewBulkEditor(records, tax)
	return NewServer(":0", svc, editor)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestTaxonomyEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	rr := doJSON(t, srv, http.MethodGet, "/api/taxonomy", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var out struct {
		ExpenseCategories []struct {
			Name          string   `json:"name"`
			Subcategories []string `json:"subcategories"`
		} `json:"expense_categories"`
		IncomeSources []string `json:"income_sources"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.ExpenseCategories) != 7 || out.ExpenseCategories[0].Name != "อาหาร" {
		t.Fatalf("unexpected categories %+v", out.ExpenseCategories)
	}
	if len(out.IncomeSources) != 7 {
		t.Fatalf("unexpected income sources %v", out.IncomeSources)
	}
}

func TestCreateRecordValidationAndSuccess(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	rr := doJSON(t, srv, http.MethodPost, "/api/records",
		`{"date":"2024-01-05","amount":120.50,"type":"expense","category":"อาหาร","subcategory":"มื้อเย็น","note":"ข้าวผัด"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"zero amount", `{"amount":0,"type":"expense","category":"อาหาร"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"amount":-5,"type":"expense","category":"อาหาร"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"amount":10,"type":"expense","category":"หมวดปลอม"}`, http.StatusUnprocessableEntity},
		{"garbage body", `{not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := doJSON(t, srv, http.MethodPost, "/api/records", tc.body)
		if rr.Code != tc.want {
			t.Fatalf("%s: status=%d want %d", tc.name, rr.Code, tc.want)
		}
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/records?window=all", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var list struct {
		Records []struct {
			Date     string  `json:"date"`
			Amount   float64 `json:"amount"`
			Type     string  `json:"type"`
			Category string  `json:"category"`
		} `json:"records"`
		Degraded bool `json:"degraded"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Records) != 1 {
		t.Fatalf("expected the one valid record, got %d", len(list.Records))
	}
	r := list.Records[0]
	if r.Date != "2024-01-05" || r.Amount != 120.50 || r.Type != "expense" || r.Category != "อาหาร" {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	seed := []string{
		`{"date":"2024-01-05","amount":100,"type":"expense","category":"อาหาร","subcategory":"มื้อเช้า"}`,
		`{"date":"2024-01-10","amount":50000,"type":"income","category":"เงินเดือน"}`,
	}
	for _, body := range seed {
		if rr := doJSON(t, srv, http.MethodPost, "/api/records", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed status=%d body=%s", rr.Code, rr.Body.String())
		}
	}
	if rr := doJSON(t, srv, http.MethodPut, "/api/budgets", `{"อาหาร":1000}`); rr.Code != http.StatusOK {
		t.Fatalf("budgets status=%d", rr.Code)
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard?window=all", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	var out struct {
		Window string `json:"window"`
		Totals struct {
			Income  float64 `json:"income"`
			Expense float64 `json:"expense"`
			Balance float64 `json:"balance"`
		} `json:"totals"`
		ExpenseByCategory []struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		} `json:"expense_by_category"`
		Daily []struct {
			Date  string  `json:"date"`
			Type  string  `json:"type"`
			Total float64 `json:"total"`
		} `json:"daily"`
		Budgets []struct {
			Category string  `json:"category"`
			Percent  float64 `json:"percent"`
			Status   string  `json:"status"`
		} `json:"budgets"`
		Count    int  `json:"count"`
		Degraded bool `json:"degraded"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Window != "all" || out.Count != 2 {
		t.Fatalf("window=%q count=%d", out.Window, out.Count)
	}
	if out.Totals.Income != 50000 || out.Totals.Expense != 100 || out.Totals.Balance != 49900 {
		t.Fatalf("unexpected totals %+v", out.Totals)
	}
	if len(out.Daily) != 2 || out.Daily[0].Date != "2024-01-05" {
		t.Fatalf("unexpected daily series %+v", out.Daily)
	}
	if len(out.Budgets) != 1 || out.Budgets[0].Percent != 10 || out.Budgets[0].Status != "ON_TRACK" {
		t.Fatalf("unexpected budget report %+v", out.Budgets)
	}
}

func TestBulkEditEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	table := `[
		{"date":"2024-01-05","amount":100,"category":"อาหาร","subcategory":"มื้อเช้า"},
		{"date":"2024-01-06","amount":200,"category":"เดินทาง","subcategory":"น้ำมัน"}
	]`
	if rr := doJSON(t, srv, http.MethodPut, "/api/records", table); rr.Code != http.StatusOK {
		t.Fatalf("bulk put status=%d body=%s", rr.Code, rr.Body.String())
	}

	// Row 1 has an unresolvable category: the whole table is rejected.
	bad := `[
		{"date":"2024-01-05","amount":100,"category":"อาหาร"},
		{"date":"2024-01-06","amount":200,"category":"หมวดปลอม"}
	]`
	rr := doJSON(t, srv, http.MethodPut, "/api/records", bad)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad table status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "row 1") {
		t.Fatalf("error should name the row, got %s", rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/records?window=all", "")
	var list struct {
		Records []struct {
			Category string `json:"category"`
		} `json:"records"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Records) != 2 {
		t.Fatalf("rejected table must not replace the store, got %d records", len(list.Records))
	}
}

func TestBudgetsRoundTrip(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	if rr := doJSON(t, srv, http.MethodPut, "/api/budgets", `{"อาหาร":3000,"เดินทาง":1500}`); rr.Code != http.StatusOK {
		t.Fatalf("put status=%d", rr.Code)
	}
	if rr := doJSON(t, srv, http.MethodPut, "/api/budgets", `{"เงินเดือน":1000}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown category put status=%d", rr.Code)
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/budgets", "")
	var out struct {
		Budgets  map[string]float64 `json:"budgets"`
		Degraded bool               `json:"degraded"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Budgets["อาหาร"] != 3000 || out.Budgets["เดินทาง"] != 1500 {
		t.Fatalf("unexpected budgets %+v", out.Budgets)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	defer srv.rateLimiter.stop()

	if rr := doJSON(t, srv, http.MethodDelete, "/api/records", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr := doJSON(t, srv, http.MethodPost, "/api/dashboard", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
}
