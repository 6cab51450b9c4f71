// internal/generateapp/app.go
package generateapp

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"metaxsfr/internal/appcore"
	"metaxsfr/internal/cli"
	"metaxsfr/internal/config"
	"metaxsfr/internal/jsonutil"
	"metaxsfr/internal/logging"
	"metaxsfr/internal/output"
	"metaxsfr/internal/payload"
	"metaxsfr/internal/template"
	"metaxsfr/internal/version"
)

// Request is one report generation.
type Request struct {
	payload.Inputs
	Template string
	OutHTML  string
	SaveJSON string // optional payload snapshot path
}

// Generate builds the payload, optionally snapshots it, and splices it into
// the template. Payload warnings are logged, not returned.
func Generate(req Request, log *zap.Logger) error {
	rep, warns := payload.Build(req.Inputs)
	for _, w := range warns {
		log.Warn(w)
	}

	if req.SaveJSON != "" {
		if err := output.WriteFile(req.SaveJSON, func(w io.Writer) error {
			return jsonutil.EncodePretty(w, rep)
		}); err != nil {
			return err
		}
		log.Info("payload saved", zap.String("path", req.SaveJSON))
	}

	n, err := template.MutateFile(req.Template, req.OutHTML, rep.StartIdx, rep.EndIdx, rep)
	if err != nil {
		return err
	}
	log.Info("report generated",
		zap.String("path", req.OutHTML),
		zap.String("size", humanize.Bytes(uint64(n))),
		zap.Any("run_id", rep.LogData[payload.KeyRunID]))
	return nil
}

// RunContext generates the single-file HTML report.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("generate-report", "embed compiled tables and run metadata into the report template")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseGenerate(fs, argv)
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
	start, end := opts.StartMarker, opts.EndMarker
	if start == "" {
		start = cfg.StartMarker
	}
	if end == "" {
		end = cfg.EndMarker
	}
	pv := opts.PipelineVersion
	if pv == "" {
		pv = version.Version
	}
	if err := ctx.Err(); err != nil {
		return appcore.ExitCancelled
	}

	err = Generate(Request{
		Inputs: payload.Inputs{
			SummaryTable:    opts.SummaryTable,
			TaxonomyTable:   opts.TaxonomyTable,
			ParamsFile:      opts.Params,
			PipelineVersion: pv,
			StartMarker:     start,
			EndMarker:       end,
		},
		Template: opts.Template,
		OutHTML:  opts.OutHTML,
		SaveJSON: opts.SaveJSON,
	}, log)
	if err != nil {
		log.Error("generate report", zap.Error(err))
		return appcore.ExitCode(ctx, err)
	}
	return appcore.ExitOK
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
