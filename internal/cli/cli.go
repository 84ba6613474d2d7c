package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/compsolve/internal/app"
)

// Process exit codes.
const (
	ExitRuntime    = 1
	ExitUsage      = 2
	ExitResolution = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("compsolve", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
compsolve - resolves component installs, upgrades and removals.

Usage:
  compsolve [options] [CATALOG_PATH...]

Arguments:
  CATALOG_PATH
    Path to a single .hcl file or a directory containing .hcl files that
    describe the available components.

Options:
`)
		flagSet.PrintDefaults()
	}

	var catalogs, uninstall stringList
	vars := make(map[string]string)
	flagSet.Var(&catalogs, "catalog", "Path to a catalog file or directory. Repeatable.")
	flagSet.Var(&uninstall, "uninstall", "Name or id of an installed component to remove. Repeatable.")
	flagSet.Func("var", "Catalog variable as KEY=VALUE, available as var.KEY. Repeatable.", func(v string) error {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return errors.New("expected KEY=VALUE")
		}
		vars[key] = value
		return nil
	})
	installedFlag := flagSet.String("installed", "", "Path to the installed components database.")
	bonusStoreFlag := flagSet.String("bonus-store", "", "Path to the bonus flags file.")
	policyFlag := flagSet.String("policy", "promote-newest", "Version ordering. Options: 'promote-newest', 'strict', 'semver'.")
	budgetFlag := flagSet.Int("search-budget", 0, "Maximum number of search branches. 0 is unlimited.")
	formatFlag := flagSet.String("format", "text", "Plan output format. Options: 'text' or 'json'.")
	dotFlag := flagSet.String("dot", "", "Write the explored search tree as Graphviz DOT to this path.")
	metricsFileFlag := flagSet.String("metrics-file", "", "Write resolver metrics in Prometheus text format to this path.")
	applyFlag := flagSet.Bool("apply", false, "Persist the resulting bonus flags to the bonus store.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	catalogs = append(catalogs, flagSet.Args()...)
	if len(catalogs) == 0 && *installedFlag == "" {
		slog.Debug("No inputs provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		CatalogPaths:    catalogs,
		InstalledPath:   *installedFlag,
		BonusStorePath:  *bonusStoreFlag,
		Uninstall:       uninstall,
		Vars:            vars,
		Policy:          strings.ToLower(*policyFlag),
		SearchBudget:    *budgetFlag,
		Format:          strings.ToLower(*formatFlag),
		DOTPath:         *dotFlag,
		MetricsFile:     *metricsFileFlag,
		Apply:           *applyFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
