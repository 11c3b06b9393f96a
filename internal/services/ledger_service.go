// Package services orchestrates the ledger stores behind the operations the
// presentation layer calls: record entry, dashboard aggregation, budget
// management and the bulk-edit commit.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"banchee/internal/core"
	"banchee/internal/ledger"
)

// LedgerService wires the record and budget stores to the pure aggregation
// functions in core.
type LedgerService struct {
	records ledger.RecordStore
	budgets ledger.BudgetStore
	tax     core.Taxonomy
	now     func() time.Time
}

func NewLedgerService(records ledger.RecordStore, budgets ledger.BudgetStore, tax core.Taxonomy) *LedgerService {
	return &LedgerService{
		records: records,
		budgets: budgets,
		tax:     tax,
		now:     time.Now,
	}
}

// AppendRecord fills entry defaults (date = today, creation timestamp, the
// subcategory sentinel for incomes) and appends the record to the store.
func (s *LedgerService) AppendRecord(ctx context.Context, r core.Record) error {
	if r.Date.IsZero() {
		r.Date = core.DateOf(s.now())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.Type == core.Income || r.Subcategory == "" {
		r.Subcategory = core.NoSubcategory
	}
	if err := s.records.Append(ctx, r); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ListRecords returns the records inside the window, newest entry first
// (creation timestamp is the display sort key). The degraded flag is set
// when a corrupt record file was recovered as an empty ledger.
func (s *LedgerService) ListRecords(ctx context.Context, w core.Window) (records []core.Record, degraded bool, err error) {
	records, err = s.records.Load(ctx)
	if err != nil {
		if !errors.Is(err, ledger.ErrCorruptStore) {
			return nil, false, fmt.Errorf("load records: %w", err)
		}
		slog.WarnContext(ctx, "Record file corrupt, showing empty ledger", "error", err)
		degraded = true
	}
	records = w.Filter(records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, degraded, nil
}

// Dashboard is everything the summary page renders for one time window.
type Dashboard struct {
	Totals            core.Totals
	Balance           core.Money
	ExpenseByCategory []core.CategoryAmount
	Daily             []core.DailyPoint
	Budgets           []core.BudgetReport
	Count             int
	Average           core.Money

	// Degraded is set when a backing file was corrupt and the numbers are
	// computed over a recovered empty dataset.
	Degraded bool
}

// Dashboard loads both stores concurrently, filters records to the window
// and derives the aggregates and the budget report.
func (s *LedgerService) Dashboard(ctx context.Context, w core.Window) (Dashboard, error) {
	var (
		records []core.Record
		budgets core.Budgets
		dash    Dashboard
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.records.Load(gctx)
		if errors.Is(err, ledger.ErrCorruptStore) {
			slog.WarnContext(gctx, "Record file corrupt, dashboard degraded", "error", err)
			dash.Degraded = true
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.Load(gctx)
		if errors.Is(err, ledger.ErrCorruptStore) {
			slog.WarnContext(gctx, "Budget file corrupt, dashboard degraded", "error", err)
			dash.Degraded = true
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard data: %w", err)
	}

	view := w.Filter(records)
	spent := core.SumByCategory(view, core.Expense)

	dash.Totals = core.TotalsByType(view)
	dash.Balance = dash.Totals.Balance()
	dash.ExpenseByCategory = sortedCategoryAmounts(spent)
	dash.Daily = core.DailySeries(view)
	dash.Budgets = core.EvaluateBudgets(budgets, spent)
	dash.Count = core.Count(view)
	dash.Average = core.Average(view)
	return dash, nil
}

// Budgets returns the stored limits, degrading to an empty mapping when the
// budget file is corrupt.
func (s *LedgerService) Budgets(ctx context.Context) (budgets core.Budgets, degraded bool, err error) {
	budgets, err = s.budgets.Load(ctx)
	if err != nil {
		if !errors.Is(err, ledger.ErrCorruptStore) {
			return nil, false, fmt.Errorf("load budgets: %w", err)
		}
		slog.WarnContext(ctx, "Budget file corrupt, showing empty budgets", "error", err)
		degraded = true
	}
	return budgets, degraded, nil
}

// SetBudgets validates the limits against the expense taxonomy and
// overwrites the whole mapping.
func (s *LedgerService) SetBudgets(ctx context.Context, budgets core.Budgets) error {
	if err := budgets.Validate(); err != nil {
		return err
	}
	for category := range budgets {
		if !s.tax.HasCategory(category) {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
		}
	}
	if err := s.budgets.Save(ctx, budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	return nil
}

// Taxonomy returns the process-wide category configuration.
func (s *LedgerService) Taxonomy() core.Taxonomy {
	return s.tax
}

func sortedCategoryAmounts(sums map[string]core.Money) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Satang != out[j].Amount.Satang {
			return out[i].Amount.Satang > out[j].Amount.Satang
		}
		return out[i].Name < out[j].Name
	})
	return out
}
