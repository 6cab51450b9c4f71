// internal/processapp/app.go
package processapp

import (
	"context"
	"io"

	"go.uber.org/zap"

	"metaxsfr/internal/appcore"
	"metaxsfr/internal/cli"
	"metaxsfr/internal/config"
	"metaxsfr/internal/logging"
	"metaxsfr/internal/output"
	"metaxsfr/internal/pipeline"
	"metaxsfr/internal/writers"
)

// RunContext processes one profiler report into a sample summary and a
// taxonomy table. Nothing is written when the report cannot be decoded.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("process-report", "per-sample summary and taxonomy tables from a kraken2, bracken or metaphlan4 report")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseProcess(fs, argv)
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
	sel, err := cfg.Select(opts.Database, opts.TaxidMap, opts.Ranks, opts.MinPercent)
	if err != nil {
		log.Error("select database", zap.String("database", opts.Database), zap.Error(err))
		return appcore.ExitInput
	}
	if err := ctx.Err(); err != nil {
		return appcore.ExitCancelled
	}

	log.Debug("processing sample",
		zap.String("sample", opts.SampleID),
		zap.String("report", opts.Report),
		zap.String("type", opts.ReportType),
		zap.Strings("ranks", sel.Schema),
		zap.Float64("min_percent", sel.Threshold))

	res, err := pipeline.Process(pipeline.Config{
		SampleID:     opts.SampleID,
		ReportPath:   opts.Report,
		ReportType:   opts.ReportType,
		Schema:       sel.Schema,
		Dictionary:   sel.Dictionary,
		MinAbundance: sel.Threshold,
	})
	if err != nil {
		log.Error("process report", zap.String("sample", opts.SampleID), zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}

	if err := Write(res, opts.Format, opts.OutSummary, opts.OutTaxonomy); err != nil {
		log.Error("write tables", zap.String("sample", opts.SampleID), zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}
	log.Info("sample processed",
		zap.String("sample", res.SampleID),
		zap.Int("summary_rows", len(res.Summary)),
		zap.Int("taxonomy_rows", len(res.Taxonomy)),
		zap.Int("resolved", res.Resolved))
	return appcore.ExitOK
}

// Write renders both tables of res in format to their paths.
func Write(res *pipeline.Result, format, summaryPath, taxonomyPath string) error {
	if err := output.WriteFile(summaryPath, func(w io.Writer) error {
		return writers.WriteSummary(format, w, res.Summary)
	}); err != nil {
		return err
	}
	return output.WriteFile(taxonomyPath, func(w io.Writer) error {
		return writers.WriteTaxonomy(format, w, res.Taxonomy, res.Schema)
	})
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
