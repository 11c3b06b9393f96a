// Package ledger defines the ports between the ledger engine and its
// storage backends.
package ledger

import (
	"context"
	"errors"

	"banchee/internal/core"
)

// ErrCorruptStore marks a backing file that exists but could not be decoded.
// Stores recover by degrading to an empty dataset; callers are expected to
// surface the condition as a warning rather than swallow it.
var ErrCorruptStore = errors.New("corrupt store")

// Ports for storage backends.
type (
	// RecordStore is the durable transaction collection. The whole-file
	// read-modify-write cycle is the only durability mechanism: Append
	// rewrites the full set, and ReplaceAll is the bulk-edit commit path.
	RecordStore interface {
		// Load returns every stored record. A missing backing file is an
		// empty ledger, not an error. A corrupt file yields an empty
		// sequence together with an error wrapping ErrCorruptStore.
		Load(ctx context.Context) ([]core.Record, error)

		// Append validates the record and persists the full set plus it.
		Append(ctx context.Context, r core.Record) error

		// ReplaceAll validates and persists the given sequence verbatim,
		// with dates normalized to their canonical form.
		ReplaceAll(ctx context.Context, records []core.Record) error
	}

	// BudgetStore is the durable category -> monthly limit mapping.
	BudgetStore interface {
		// Load returns the stored limits; a missing file is an empty mapping.
		Load(ctx context.Context) (core.Budgets, error)

		// Save overwrites the whole mapping.
		Save(ctx context.Context, budgets core.Budgets) error
	}
)
