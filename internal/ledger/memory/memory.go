// Package memory implements the ledger stores in process memory. It backs
// tests and the throwaway dev backend; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"banchee/internal/core"
)

// RecordStore keeps records in a slice, mirroring the positional identity
// of the file store.
type RecordStore struct {
	mu    sync.Mutex
	tax   core.Taxonomy
	items []core.Record
}

func NewRecordStore(tax core.Taxonomy) *RecordStore {
	return &RecordStore{tax: tax}
}

// Load implements ledger.RecordStore.
func (s *RecordStore) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// Append implements ledger.RecordStore.
func (s *RecordStore) Append(_ context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.tax.Resolve(r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return nil
}

// ReplaceAll implements ledger.RecordStore.
func (s *RecordStore) ReplaceAll(_ context.Context, records []core.Record) error {
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
	s.items = append([]core.Record(nil), records...)
	return nil
}

// BudgetStore keeps the limit mapping in memory.
type BudgetStore struct {
	mu      sync.Mutex
	budgets core.Budgets
}

func NewBudgetStore() *BudgetStore {
	return &BudgetStore{budgets: core.Budgets{}}
}

// Load implements ledger.BudgetStore.
func (s *BudgetStore) Load(_ context.Context) (core.Budgets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Budgets, len(s.budgets))
	for category, limit := range s.budgets {
		out[category] = limit
	}
	return out, nil
}

// Save implements ledger.BudgetStore.
func (s *BudgetStore) Save(_ context.Context, budgets core.Budgets) error {
	if err := budgets.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = make(core.Budgets, len(budgets))
	for category, limit := range budgets {
		s.budgets[category] = limit
	}
	return nil
}
