// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/zap"

	"metaxsfr/internal/cli"
	"metaxsfr/internal/logging"
	"metaxsfr/internal/pivot"
	"metaxsfr/internal/taxon"
	"metaxsfr/internal/template"
	"metaxsfr/internal/version"
	"metaxsfr/internal/writers"
)

// Exit codes shared by every tool.
const (
	ExitOK        = 0
	ExitInput     = 2 // usage or input error
	ExitRuntime   = 3 // I/O or other runtime failure
	ExitCancelled = 130
)

// Prelude handles the usage, help, parse-error and version paths that every
// tool shares. When done is true the caller returns code immediately.
func Prelude(fset *flag.FlagSet, noArgs bool, parseErr error, showVersion bool, stdout, stderr io.Writer) (code int, done bool) {
	outw := bufio.NewWriter(stdout)
	flush := func(code int) int {
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return ExitOK
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return ExitRuntime
		}
		return code
	}
	usage := func(code int) int {
		fset.SetOutput(outw)
		fset.Usage()
		return flush(code)
	}

	switch {
	case noArgs, errors.Is(parseErr, flag.ErrHelp):
		return usage(ExitOK), true
	case parseErr != nil:
		_, _ = fmt.Fprintln(stderr, "error:", parseErr)
		return usage(ExitInput), true
	case showVersion:
		_, _ = fmt.Fprintf(outw, "%s version %s\n", fset.Name(), version.Version)
		return flush(ExitOK), true
	}
	return ExitOK, false
}

// NewLogger builds the stderr logger selected by the shared log flags.
func NewLogger(stderr io.Writer, f cli.LogFlags) *zap.Logger {
	return logging.New(stderr, logging.Options{Verbose: f.Verbose, Quiet: f.Quiet, JSON: f.JSON})
}

// ExitCode maps a failed operation to the process exit code.
func ExitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return ExitCancelled
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, taxon.ErrFormat),
		errors.Is(err, template.ErrMarkerNotFound),
		errors.Is(err, pivot.ErrEmptyInput),
		errors.Is(err, fs.ErrNotExist):
		return ExitInput
	default:
		return ExitRuntime
	}
}
