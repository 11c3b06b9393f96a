package core

import "sort"

// Totals is the income/expense split over a set of records.
type Totals struct {
	Income  Money
	Expense Money
}

// Balance returns income minus expense. Negative means overspent.
func (t Totals) Balance() Money {
	return t.Income.Sub(t.Expense)
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// DailyPoint is the total for one (date, type) pair, used to drive the
// daily income-vs-expense trend.
type DailyPoint struct {
	Date  Date
	Type  Type
	Total Money
}

// TotalsByType sums record amounts per transaction type.
func TotalsByType(records []Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Type {
		case Income:
			t.Income = t.Income.Add(r.Amount)
		default:
			t.Expense = t.Expense.Add(r.Amount)
		}
	}
	return t
}

// SumByCategory sums amounts per category, considering only records of the
// given type. Categories with no matching records are absent from the result;
// callers treat absence as zero.
func SumByCategory(records []Record, typ Type) map[string]Money {
	sums := make(map[string]Money)
	for _, r := range records {
		if r.Type != typ {
			continue
		}
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}
	return sums
}

// DailySeries groups records by (date, type) and returns one point per pair,
// ascending by date and then by type name. The grouping key makes the result
// independent of input order.
func DailySeries(records []Record) []DailyPoint {
	type key struct {
		day string
		typ Type
	}
	sums := make(map[key]DailyPoint)
	for _, r := range records {
		k := key{day: r.Date.String(), typ: r.Type}
		p, ok := sums[k]
		if !ok {
			p = DailyPoint{Date: r.Date, Type: r.Type}
		}
		p.Total = p.Total.Add(r.Amount)
		sums[k] = p
	}
	series := make([]DailyPoint, 0, len(sums))
	for _, p := range sums {
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool {
		if !series[i].Date.Equal(series[j].Date.Time) {
			return series[i].Date.Before(series[j].Date.Time)
		}
		return series[i].Type < series[j].Type
	})
	return series
}

// Count returns the number of records.
func Count(records []Record) int {
	return len(records)
}

// Average returns the mean amount over the records, zero when empty.
func Average(records []Record) Money {
	if len(records) == 0 {
		return Money{}
	}
	var sum int64
	for _, r := range records {
		sum += r.Amount.Satang
	}
	return Money{Satang: sum / int64(len(records))}
}
