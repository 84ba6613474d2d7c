package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/compsolve/internal/version"
)

// Output formats of the resolution plan.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPaths   []string // hcl files or directories of offered components
	InstalledPath  string   // hcl database of installed components
	BonusStorePath string   // hcl file of bonus flags
	Uninstall      []string // names or ids of installed components to remove
	Vars           map[string]string

	Policy       string
	SearchBudget int
	Format       string
	DOTPath      string
	MetricsFile  string
	Apply        bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.CatalogPaths) == 0 && cfg.InstalledPath == "" {
		return nil, errors.New("at least one catalog path or an installed database is required")
	}
	if _, err := version.ParsePolicy(cfg.Policy); err != nil {
		return nil, err
	}
	if cfg.SearchBudget < 0 {
		return nil, fmt.Errorf("search budget must not be negative, got %d", cfg.SearchBudget)
	}
	switch cfg.Format {
	case "":
		cfg.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'json'", cfg.Format)
	}
	if cfg.Apply && cfg.BonusStorePath == "" {
		return nil, errors.New("apply needs a bonus store path to write to")
	}
	return &cfg, nil
}
