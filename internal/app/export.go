package app

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/compsolve/internal/searchtrace"
)

// export writes the optional search graph and metrics files. It runs after
// failed resolutions too, when they matter most.
func (app *App) export(trace *searchtrace.Trace) error {
	if path := app.config.DOTPath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create search graph file: %w", err)
		}
		if err := searchtrace.WriteDOT(f, trace); err != nil {
			f.Close()
			return fmt.Errorf("failed to write search graph: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		app.logger.Debug("Search graph written.", "path", path, "attempts", trace.Branches())
	}

	if path := app.config.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, app.registry); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		app.logger.Debug("Metrics written.", "path", path)
	}
	return nil
}
