package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"banchee/internal/core"
	applog "banchee/internal/log"
	"banchee/internal/services"
)

// recordIn is the record-entry payload, mapped directly to the entry form.
type recordIn struct {
	Date        string      `json:"date,omitempty"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory,omitempty"`
	Note        string      `json:"note,omitempty"`
}

// recordOut is one record as rendered to the presentation layer.
type recordOut struct {
	Date        string     `json:"date"`
	Amount      core.Money `json:"amount"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Note        string     `json:"note"`
	CreatedAt   string     `json:"created_at"`
}

func toRecordOut(r core.Record) recordOut {
	createdAt := ""
	if !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt.Format(core.CreatedAtLayout)
	}
	return recordOut{
		Date:        r.Date.String(),
		Amount:      r.Amount,
		Type:        string(r.Type),
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Note:        r.Note,
		CreatedAt:   createdAt,
	}
}

// parseWindow maps the window query parameter to a time window. The two
// supported selections are the current calendar month (the default) and
// all time.
func parseWindow(r *http.Request) (core.Window, string) {
	switch strings.TrimSpace(r.URL.Query().Get("window")) {
	case "all":
		return core.AllTime(), "all"
	default:
		return core.MonthOf(time.Now()), "month"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders an error with the status its kind deserves: validation
// problems are the client's to fix, everything else is ours.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, core.ErrInvalidRecord) || errors.Is(err, core.ErrUnknownCategory) {
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path, applog.FieldError, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tax := s.svc.Taxonomy()
	type categoryOut struct {
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories"`
	}
	categories := make([]categoryOut, 0)
	for _, name := range tax.Categories() {
		subs, err := tax.Subcategories(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		categories = append(categories, categoryOut{Name: name, Subcategories: subs})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expense_categories": categories,
		"income_sources":     tax.IncomeSources(),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRecords(w, r)
	case http.MethodPost:
		s.handleCreateRecord(w, r)
	case http.MethodPut:
		s.handleBulkEdit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	window, name := parseWindow(r)
	records, degraded, err := s.svc.ListRecords(r.Context(), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recordOut, len(records))
	for i, rec := range records {
		out[i] = toRecordOut(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   name,
		"records":  out,
		"degraded": degraded,
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	satang, err := core.ParseDecimalToSatang(in.Amount.String())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if satang == 0 {
		// The entry form requires a positive amount; zero only ever enters
		// through the bulk editor.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "amount must be positive"})
		return
	}

	rec := core.Record{
		Amount:      core.Money{Satang: satang},
		Type:        core.NormalizeType(in.Type),
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Note:        in.Note,
	}
	if strings.TrimSpace(in.Date) != "" {
		rec.Date, err = core.ParseDate(in.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	if err := s.svc.AppendRecord(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Record created",
		applog.FieldRecordType, string(rec.Type),
		applog.FieldCategory, rec.Category,
		applog.FieldAmount, rec.Amount.String())
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleBulkEdit(w http.ResponseWriter, r *http.Request) {
	var rows []services.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.editor.Commit(r.Context(), rows); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Bulk edit accepted", applog.FieldRows, len(rows))
	writeJSON(w, http.StatusOK, map[string]any{"status": "replaced", "rows": len(rows)})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	window, name := parseWindow(r)
	dash, err := s.svc.Dashboard(r.Context(), window)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type categoryOut struct {
		Category string     `json:"category"`
		Amount   core.Money `json:"amount"`
	}
	type dailyOut struct {
		Date  string     `json:"date"`
		Type  string     `json:"type"`
		Total core.Money `json:"total"`
	}
	type budgetOut struct {
		Category  string     `json:"category"`
		Limit     core.Money `json:"limit"`
		Spent     core.Money `json:"spent"`
		Remaining core.Money `json:"remaining"`
		Percent   float64    `json:"percent"`
		Status    string     `json:"status"`
	}

	byCategory := make([]categoryOut, len(dash.ExpenseByCategory))
	for i, c := range dash.ExpenseByCategory {
		byCategory[i] = categoryOut{Category: c.Name, Amount: c.Amount}
	}
	daily := make([]dailyOut, len(dash.Daily))
	for i, p := range dash.Daily {
		daily[i] = dailyOut{Date: p.Date.String(), Type: string(p.Type), Total: p.Total}
	}
	budgets := make([]budgetOut, len(dash.Budgets))
	for i, b := range dash.Budgets {
		budgets[i] = budgetOut{
			Category:  b.Category,
			Limit:     b.Limit,
			Spent:     b.Spent,
			Remaining: b.Remaining,
			Percent:   b.Percent,
			Status:    string(b.State),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"window": name,
		"totals": map[string]core.Money{
			"income":  dash.Totals.Income,
			"expense": dash.Totals.Expense,
			"balance": dash.Balance,
		},
		"expense_by_category": byCategory,
		"daily":               daily,
		"budgets":             budgets,
		"count":               dash.Count,
		"average":             dash.Average,
		"degraded":            dash.Degraded,
	})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, degraded, err := s.svc.Budgets(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"budgets":  budgets,
			"degraded": degraded,
		})
	case http.MethodPut:
		var budgets core.Budgets
		if err := json.NewDecoder(r.Body).Decode(&budgets); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := s.svc.SetBudgets(r.Context(), budgets); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "categories": len(budgets)})
	default:
		w.Header().Set("Allow", "GET, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
