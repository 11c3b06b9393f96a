package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "RECORDS_FILE", "BUDGET_FILE", "DATA_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.RecordsFile != "expenses.json" {
		t.Errorf("RecordsFile = %q, want expenses.json", cfg.RecordsFile)
	}
	if cfg.BudgetFile != "budget.json" {
		t.Errorf("BudgetFile = %q, want budget.json", cfg.BudgetFile)
	}
	if cfg.DataBackend != "file" {
		t.Errorf("DataBackend = %q, want file", cfg.DataBackend)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/tmp/ledger")
	t.Setenv("RECORDS_FILE", "records.json")
	t.Setenv("DATA_BACKEND", "memory")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DataDir != "/tmp/ledger" {
		t.Errorf("DataDir = %q, want /tmp/ledger", cfg.DataDir)
	}
	if cfg.RecordsFile != "records.json" {
		t.Errorf("RecordsFile = %q, want records.json", cfg.RecordsFile)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/srv/ledger", RecordsFile: "expenses.json", BudgetFile: "budget.json"}
	if got := cfg.RecordsPath(); got != filepath.Join("/srv/ledger", "expenses.json") {
		t.Errorf("RecordsPath = %q", got)
	}
	if got := cfg.BudgetPath(); got != filepath.Join("/srv/ledger", "budget.json") {
		t.Errorf("BudgetPath = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		return &Config{
			Port:        "8081",
			DataDir:     t.TempDir(),
			RecordsFile: "expenses.json",
			BudgetFile:  "budget.json",
			DataBackend: "file",
		}
	}

	if err := valid(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"unknown backend", func(c *Config) { c.DataBackend = "sqlite" }, "invalid data backend"},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data directory cannot be empty"},
		{"empty records file", func(c *Config) { c.RecordsFile = "" }, "records file name cannot be empty"},
		{"same file twice", func(c *Config) { c.RecordsFile = "budget.json" }, "cannot be the same file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := &Config{
		Port:        "8081",
		DataDir:     dir,
		RecordsFile: "expenses.json",
		BudgetFile:  "budget.json",
		DataBackend: "file",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateMemoryBackendSkipsFileChecks(t *testing.T) {
	cfg := &Config{Port: "8081", DataBackend: "memory"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory backend should not require file settings: %v", err)
	}
}
