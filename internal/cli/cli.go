package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ghostview/internal/app"
	"github.com/specialistvlad/ghostview/internal/forest"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("ghostview", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ghostview - Runs open/close scripts against expandable proof diagrams and
emits the show/hide delta of every step.

Usage:
  ghostview [options] PATH [PATH...]

Arguments:
  PATH
    A .hcl file or a directory containing .hcl files with deduction and
    step blocks.

Options:
`)
		flagSet.PrintDefaults()
	}

	modeFlag := flagSet.String("mode", "unified", "Expansion mode. Options: 'unified' or 'embedded'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io server URL that receives every delta. Empty is disabled.")
	publishNSFlag := flagSet.String("publish-namespace", "/", "socket.io namespace used for publishing.")
	publishEventFlag := flagSet.String("publish-event", "delta", "socket.io event name deltas are emitted as.")
	insecureFlag := flagSet.Bool("insecure-skip-verify", false, "Skip TLS certificate verification for the publisher.")
	dotOutFlag := flagSet.String("dot-out", "", "Write the final visible diagram as DOT to this file.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		slog.Debug("No diagram path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	mode, err := forest.ParseMode(*modeFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(app.Config{
		Paths:              paths,
		Mode:               mode,
		LogFormat:          strings.ToLower(*logFormatFlag),
		LogLevel:           strings.ToLower(*logLevelFlag),
		HealthcheckPort:    *healthPortFlag,
		PublishURL:         *publishURLFlag,
		PublishNamespace:   *publishNSFlag,
		PublishEvent:       *publishEventFlag,
		InsecureSkipVerify: *insecureFlag,
		DotOut:             *dotOutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "paths", paths, "mode", mode.String())
	return config, false, nil
}
