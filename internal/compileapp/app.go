// internal/compileapp/app.go
package compileapp

import (
	"context"
	"io"

	"go.uber.org/zap"

	"metaxsfr/internal/appcore"
	"metaxsfr/internal/cli"
	"metaxsfr/internal/logging"
	"metaxsfr/internal/output"
	"metaxsfr/internal/pivot"
)

// RunContext pivots per-sample summaries into one wide table and, when
// asked, concatenates per-sample taxonomy tables.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("compile-summaries", "compile sample summaries into one samples × taxa table")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseCompile(fs, argv)
	if code, done := appcore.Prelude(fs, len(argv) == 0, err, opts.Version, stdout, stderr); done {
		return code
	}

	log := appcore.NewLogger(stderr, opts.Log)
	defer logging.Sync(log)

	if err := ctx.Err(); err != nil {
		return appcore.ExitCancelled
	}
	m, err := Compile(opts.Summaries, opts.Out)
	if err != nil {
		log.Error("compile summaries", zap.Int("files", len(opts.Summaries)), zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}
	log.Info("summaries compiled",
		zap.String("out", opts.Out),
		zap.Int("samples", len(m.Samples)),
		zap.Int("taxa", len(m.Taxa)))

	if opts.TaxonomyOut == "" {
		return appcore.ExitOK
	}
	if err := Concat(opts.Taxonomies, opts.TaxonomyOut); err != nil {
		log.Error("concatenate taxonomy tables", zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}
	log.Info("taxonomy tables concatenated",
		zap.String("out", opts.TaxonomyOut),
		zap.Int("files", len(opts.Taxonomies)))
	return appcore.ExitOK
}

// Compile pivots paths and writes the wide table to out.
func Compile(paths []string, out string) (*pivot.Matrix, error) {
	m, err := pivot.Compile(paths)
	if err != nil {
		return nil, err
	}
	return m, output.WriteFile(out, m.WriteTSV)
}

// Concat merges taxonomy tables into out, keeping the first header.
func Concat(paths []string, out string) error {
	return output.WriteFile(out, func(w io.Writer) error {
		return pivot.ConcatTables(w, paths)
	})
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
