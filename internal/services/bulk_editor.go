package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"banchee/internal/core"
	"banchee/internal/ledger"
)

// Row is one line of the bulk-edit table as handed back by a grid editor:
// everything still in its loose external shape, before normalization.
type Row struct {
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Note        string      `json:"note"`
	CreatedAt   string      `json:"created_at"`
}

// BulkEditor validates and commits a full-table overwrite of the record
// store. Identity is positional: a row missing from the edited table is a
// deleted record, with no tombstone left behind.
type BulkEditor struct {
	records ledger.RecordStore
	tax     core.Taxonomy
}

func NewBulkEditor(records ledger.RecordStore, tax core.Taxonomy) *BulkEditor {
	return &BulkEditor{records: records, tax: tax}
}

// Normalize coerces every row into the internal record shape: dates to the
// canonical form, amounts to non-negative satang, missing or unrecognized
// type tags to expense. A row whose category cannot be resolved fails the
// whole table with an error naming the row; bulk-edit input is free-form
// table data and gets the strict treatment rather than warn-and-skip.
func (e *BulkEditor) Normalize(rows []Row) ([]core.Record, error) {
	records := make([]core.Record, len(rows))
	for i, row := range rows {
		r, err := e.normalizeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records[i] = r
	}
	return records, nil
}

func (e *BulkEditor) normalizeRow(row Row) (core.Record, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Record{}, err
	}

	var amount core.Money
	if s := strings.TrimSpace(row.Amount.String()); s != "" {
		satang, err := core.ParseDecimalToSatang(s)
		if err != nil {
			return core.Record{}, err
		}
		amount = core.Money{Satang: satang}
	}

	typ := core.NormalizeType(row.Type)
	subcategory := strings.TrimSpace(row.Subcategory)
	if typ == core.Income || subcategory == "" {
		subcategory = core.NoSubcategory
	}

	var createdAt time.Time
	if s := strings.TrimSpace(row.CreatedAt); s != "" {
		createdAt, err = time.Parse(core.CreatedAtLayout, s)
		if err != nil {
			return core.Record{}, fmt.Errorf("%w: bad created_at %q", core.ErrInvalidRecord, s)
		}
	}

	r := core.Record{
		Date:        date,
		Amount:      amount,
		Type:        typ,
		Category:    strings.TrimSpace(row.Category),
		Subcategory: subcategory,
		Note:        row.Note,
		CreatedAt:   createdAt,
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	if err := e.tax.Resolve(r); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// Commit normalizes the table and replaces the stored record set with it.
// The replace is destructive and final.
func (e *BulkEditor) Commit(ctx context.Context, rows []Row) error {
	records, err := e.Normalize(rows)
	if err != nil {
		return err
	}
	if err := e.records.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replace records: %w", err)
	}
	slog.InfoContext(ctx, "Bulk edit committed", "rows", len(records))
	return nil
}
