// Package file implements the ledger stores on top of plain JSON files.
//
// Both files are human-readable and safe to hand-edit between runs. Every
// write is a whole-file replace staged through a temporary file and renamed
// into place, so a crash mid-write never leaves a truncated ledger behind.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"banchee/internal/core"
	"banchee/internal/ledger"
)

// recordJSON is the wire shape of one transaction. The raw Type string is
// the single normalization boundary for legacy files that predate the
// income variant and carry no type key.
type recordJSON struct {
	Date        core.Date  `json:"date"`
	Amount      core.Money `json:"amount"`
	Type        string     `json:"type,omitempty"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Note        string     `json:"note"`
	CreatedAt   string     `json:"created_at"`
}

func toWire(r core.Record) recordJSON {
	createdAt := ""
	if !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt.Format(core.CreatedAtLayout)
	}
	return recordJSON{
		Date:        r.Date,
		Amount:      r.Amount,
		Type:        string(r.Type),
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Note:        r.Note,
		CreatedAt:   createdAt,
	}
}

func fromWire(w recordJSON) core.Record {
	var createdAt time.Time
	if w.CreatedAt != "" {
		if t, err := time.Parse(core.CreatedAtLayout, w.CreatedAt); err == nil {
			createdAt = t
		}
	}
	return core.Record{
		Date:        w.Date,
		Amount:      w.Amount,
		Type:        core.NormalizeType(w.Type),
		Category:    w.Category,
		Subcategory: w.Subcategory,
		Note:        w.Note,
		CreatedAt:   createdAt,
	}
}

// RecordStore is the file-backed transaction collection.
type RecordStore struct {
	mu   sync.Mutex
	path string
	tax  core.Taxonomy
}

func NewRecordStore(path string, tax core.Taxonomy) *RecordStore {
	return &RecordStore{path: path, tax: tax}
}

// Load implements ledger.RecordStore. A missing file is an empty ledger; a
// file that cannot be decoded degrades to an empty ledger and reports
// ledger.ErrCorruptStore so the caller can warn instead of losing the
// condition silently.
func (s *RecordStore) Load(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *RecordStore) loadLocked(ctx context.Context) ([]core.Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return []core.Record{}, fmt.Errorf("read %s: %w", s.path, ledger.ErrCorruptStore)
	}
	var wire []recordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return []core.Record{}, fmt.Errorf("decode %s: %w", s.path, ledger.ErrCorruptStore)
	}
	records := make([]core.Record, len(wire))
	for i, w := range wire {
		records[i] = fromWire(w)
	}
	return records, nil
}

// Append implements ledger.RecordStore. The record is validated against the
// record invariants and the taxonomy, then the full set is rewritten with
// the new record last.
func (s *RecordStore) Append(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.tax.Resolve(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(ctx)
	if err != nil {
		// Same recovery as load: a corrupt ledger restarts empty. The
		// append still goes through so the user does not lose the entry.
		slog.WarnContext(ctx, "Record file corrupt, starting over",
			"path", s.path, "error", err)
	}
	records = append(records, r)
	if err := s.writeLocked(records); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record appended",
		"type", string(r.Type),
		"category", r.Category,
		"amount", r.Amount.String(),
		"date", r.Date.String(),
		"total_records", len(records))
	return nil
}

// ReplaceAll implements ledger.RecordStore. Every record is validated; a
// failure names the offending row and nothing is written.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []core.Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := s.tax.Resolve(r); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(records); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Record file replaced", "path", s.path, "records", len(records))
	return nil
}

func (s *RecordStore) writeLocked(records []core.Record) error {
	wire := make([]recordJSON, len(records))
	for i, r := range records {
		wire[i] = toWire(r)
	}
	data, err := encodeJSON(wire)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// BudgetStore is the file-backed category -> monthly limit mapping.
type BudgetStore struct {
	mu   sync.Mutex
	path string
}

func NewBudgetStore(path string) *BudgetStore {
	return &BudgetStore{path: path}
}

// Load implements ledger.BudgetStore.
func (s *BudgetStore) Load(ctx context.Context) (core.Budgets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return core.Budgets{}, nil
	}
	if err != nil {
		return core.Budgets{}, fmt.Errorf("read %s: %w", s.path, ledger.ErrCorruptStore)
	}
	var wire map[string]core.Money
	if err := json.Unmarshal(data, &wire); err != nil {
		return core.Budgets{}, fmt.Errorf("decode %s: %w", s.path, ledger.ErrCorruptStore)
	}
	budgets := make(core.Budgets, len(wire))
	for category, limit := range wire {
		budgets[category] = limit
	}
	return budgets, nil
}

// Save implements ledger.BudgetStore.
func (s *BudgetStore) Save(ctx context.Context, budgets core.Budgets) error {
	if err := budgets.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeJSON(budgets)
	if err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget file saved", "path", s.path, "categories", len(budgets))
	return nil
}

// encodeJSON marshals v indented and without HTML escaping, keeping the
// files diffable and the Thai category names legible.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic stages data in a temporary file in the target directory
// and renames it over the destination, so readers never observe a partial
// write even if the process dies mid-save.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
