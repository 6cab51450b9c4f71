// internal/runapp/app.go
package runapp

import (
	"context"
	"io"

	"go.uber.org/zap"

	"metaxsfr/internal/appcore"
	"metaxsfr/internal/batch"
	"metaxsfr/internal/cli"
	"metaxsfr/internal/config"
	"metaxsfr/internal/logging"
	"metaxsfr/internal/version"
)

// RunContext processes every report, compiles the summaries and, with a
// template, generates the report.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("run", "end-to-end: process reports, compile summaries, generate the report")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseRun(fs, argv)
	if code, done := appcore.Prelude(fs, len(argv) == 0, err, opts.Version, stdout, stderr); done {
		return code
	}

	log := appcore.NewLogger(stderr, opts.Log)
	defer logging.Sync(log)

	cfg, err := config.LoadOrDefault(opts.Config)
	if err != nil {
		log.Error("load config", zap.String("path", opts.Config), zap.Error(err))
		return appcore.ExitInput
	}
	sel, err := cfg.Select(opts.Database, "", "", opts.MinAbundance)
	if err != nil {
		log.Error("select database", zap.String("database", opts.Database), zap.Error(err))
		return appcore.ExitInput
	}
	pv := opts.PipelineVersion
	if pv == "" {
		pv = version.Version
	}

	log.Info("starting run",
		zap.String("version", version.Version),
		zap.Int("reports", len(opts.Reports)),
		zap.String("type", opts.ReportType),
		zap.String("database", opts.Database))

	res, err := batch.Run(ctx, batch.Options{
		Reports:         opts.Reports,
		ReportType:      opts.ReportType,
		Database:        opts.Database,
		Selection:       sel,
		OutputDir:       opts.Output,
		Jobs:            opts.Jobs,
		Template:        opts.Template,
		Params:          opts.Params,
		PipelineVersion: pv,
		StartMarker:     cfg.StartMarker,
		EndMarker:       cfg.EndMarker,
		SaveJSON:        opts.SaveJSON,
		Archive:         opts.Archive,
	}, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}
	log.Info("run completed",
		zap.String("run_id", res.RunID),
		zap.Int("samples", len(res.Samples)),
		zap.String("summary", res.SummaryPath),
		zap.String("report", res.ReportPath))
	return appcore.ExitOK
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
