package core

import "sort"

const (
	OnTrack    BudgetState = "ON_TRACK"
	OverBudget BudgetState = "OVER_BUDGET"
)

type (
	// BudgetState tells whether spending within a category is still under
	// its monthly limit.
	BudgetState string

	// Budgets maps expense category name to its monthly limit. A zero or
	// absent limit means "no budget set" for that category.
	Budgets map[string]Money

	// BudgetReport is the evaluated spend-vs-limit status of one category.
	BudgetReport struct {
		Category  string
		Limit     Money
		Spent     Money
		Remaining Money
		Percent   float64
		State     BudgetState
	}
)

// EvaluateBudgets combines the configured limits with per-category expense
// sums. Categories without a positive limit are skipped entirely rather than
// shown with an implicit zero budget. The output is sorted by category name
// so a given budget mapping always evaluates to the same ordering.
func EvaluateBudgets(budgets Budgets, spentByCategory map[string]Money) []BudgetReport {
	reports := make([]BudgetReport, 0, len(budgets))
	for category, limit := range budgets {
		if limit.Satang <= 0 {
			continue
		}
		spent := spentByCategory[category]
		percent := float64(spent.Satang) / float64(limit.Satang) * 100
		state := OnTrack
		if percent > 100 {
			state = OverBudget
		}
		reports = append(reports, BudgetReport{
			Category:  category,
			Limit:     limit,
			Spent:     spent,
			Remaining: limit.Sub(spent),
			Percent:   percent,
			State:     state,
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Category < reports[j].Category })
	return reports
}

// Validate checks that no limit is negative.
func (b Budgets) Validate() error {
	for _, limit := range b {
		if err := limit.Validate(); err != nil {
			return err
		}
	}
	return nil
}
