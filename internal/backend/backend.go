// Package backend selects and constructs the storage backend the ledger
// runs on.
package backend

import (
	"fmt"
	"log/slog"

	"banchee/internal/core"
	"banchee/internal/ledger"
	"banchee/internal/ledger/file"
	"banchee/internal/ledger/memory"
)

const (
	// FileBackend persists to directory-local JSON files. The default.
	FileBackend Type = "file"
	// MemoryBackend keeps everything in process memory. Dev and tests only.
	MemoryBackend Type = "memory"
)

// Type represents the kind of storage backend.
type Type string

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// File backend specific
	RecordsPath string
	BudgetPath  string
}

// Stores bundles the two ports a backend provides.
type Stores struct {
	Records ledger.RecordStore
	Budgets ledger.BudgetStore
}

// Factory creates store pairs based on configuration.
type Factory struct {
	logger *slog.Logger
	tax    core.Taxonomy
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger, tax core.Taxonomy) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger, tax: tax}
}

// CreateStores builds the record and budget stores for the configured backend.
func (f *Factory) CreateStores(cfg Config) (*Stores, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Stores{
			Records: memory.NewRecordStore(f.tax),
			Budgets: memory.NewBudgetStore(),
		}, nil
	default:
		if cfg.RecordsPath == "" || cfg.BudgetPath == "" {
			return nil, fmt.Errorf("file backend requires records and budget paths")
		}
		f.logger.Info("Initialized file backend",
			"records_path", cfg.RecordsPath,
			"budget_path", cfg.BudgetPath)
		return &Stores{
			Records: file.NewRecordStore(cfg.RecordsPath, f.tax),
			Budgets: file.NewBudgetStore(cfg.BudgetPath),
		}, nil
	}
}
