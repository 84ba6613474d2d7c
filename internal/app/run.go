package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/compsolve/internal/bonusstore"
	"github.com/specialistvlad/compsolve/internal/catalog"
	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
	"github.com/specialistvlad/compsolve/internal/resolver"
	"github.com/specialistvlad/compsolve/internal/searchtrace"
)

// ResolutionError wraps a failure of the resolver itself, as opposed to a
// failure to load its inputs or write its outputs.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return "resolution failed: " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Run loads the inputs, resolves them and writes the plan.
func (app *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.ctx = ctx
	app.logger.Debug("App.Run method started.")

	app.healthCheckServer()
	defer app.closeHealthCheckServer()

	loader := catalog.NewLoader(app.config.Vars)
	available, err := loader.Load(ctx, app.config.CatalogPaths...)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	var installed []*component.Component
	if app.config.InstalledPath != "" {
		if _, err := os.Stat(app.config.InstalledPath); err != nil {
			return fmt.Errorf("failed to load installed components: %w", err)
		}
		installed, err = loader.Load(ctx, app.config.InstalledPath)
		if err != nil {
			return fmt.Errorf("failed to load installed components: %w", err)
		}
	}
	app.logger.Info("Inputs loaded.", "available", len(available), "installed", len(installed))

	var store bonusstore.Store = bonusstore.NewMemory(nil)
	var file *bonusstore.File
	if app.config.BonusStorePath != "" {
		file, err = bonusstore.OpenFile(app.config.BonusStorePath)
		if err != nil {
			return err
		}
		store = file
	}

	trace := searchtrace.New()
	res, resolveErr := app.resolver.Resolve(ctx, resolver.Input{
		Available: available,
		Installed: installed,
		Uninstall: app.selectUninstall(installed),
		Bonus:     store,
		Trace:     trace,
	})
	if err := app.export(trace); err != nil {
		return err
	}
	if resolveErr != nil {
		return &ResolutionError{Err: resolveErr}
	}

	if err := app.render(res, trace); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	app.logger.Info("🏁 Resolution finished.",
		"install", len(res.Install),
		"uninstall", len(res.Uninstall),
		"upgrade", len(res.Upgrade),
		"branches", trace.Branches(),
	)

	if app.config.Apply {
		if err := resolver.ApplyBonus(ctx, store, res); err != nil {
			return err
		}
		if err := file.Save(ctx); err != nil {
			return fmt.Errorf("failed to save bonus store: %w", err)
		}
		app.logger.Info("Bonus flags stored.", "path", file.Path(), "changes", len(res.Bonused))
	}

	app.logger.Debug("App.Run method finished.")
	return nil
}

// selectUninstall picks the installed components named by the uninstall
// arguments, matching either the full id or the name.
func (app *App) selectUninstall(installed []*component.Component) []*component.Component {
	var out []*component.Component
	for _, arg := range app.config.Uninstall {
		matched := false
		for _, c := range installed {
			if c.ID() == arg || c.Name == arg {
				out = append(out, c)
				matched = true
			}
		}
		if !matched {
			app.logger.Warn("Nothing installed matches uninstall request.", "request", arg)
		}
	}
	return out
}

// IsResolutionError reports whether err came from the resolver.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
