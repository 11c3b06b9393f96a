package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Ledger files
	DataDir     string
	RecordsFile string
	BudgetFile  string

	// Backend selection
	DataBackend string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		RecordsFile: getEnv("RECORDS_FILE", "expenses.json"),
		BudgetFile:  getEnv("BUDGET_FILE", "budget.json"),
		DataBackend: getEnv("DATA_BACKEND", "file"),
	}
}

// RecordsPath returns the record file location inside the data directory.
func (c *Config) RecordsPath() string {
	return filepath.Join(c.DataDir, c.RecordsFile)
}

// BudgetPath returns the budget file location inside the data directory.
func (c *Config) BudgetPath() string {
	return filepath.Join(c.DataDir, c.BudgetFile)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"file", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "file" {
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		} else if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.DataDir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
			}
		}
		if c.RecordsFile == "" {
			errors = append(errors, "records file name cannot be empty")
		}
		if c.BudgetFile == "" {
			errors = append(errors, "budget file name cannot be empty")
		}
		if c.RecordsFile == c.BudgetFile {
			errors = append(errors, "records file and budget file cannot be the same file")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
