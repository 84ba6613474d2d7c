package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/compsolve/internal/app"
	"github.com/specialistvlad/compsolve/internal/cli"
)

// main is the entrypoint for the compsolve application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitRuntime)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer recoverPanic(&err)

	compsolveApp := app.NewApp(outW, logW, appConfig)
	if err := compsolveApp.Run(context.Background()); err != nil {
		if app.IsResolutionError(err) {
			return &cli.ExitError{Code: cli.ExitResolution, Message: err.Error()}
		}
		return err
	}
	return nil
}

// recoverPanic turns a panic in the app, raised on programmer errors, into
// an error stored in err. It must be deferred directly.
func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("application panicked: %v", r)
	}
}
