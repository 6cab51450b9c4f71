// Package batch drives many reports through the per-sample pipeline,
// compiles the results and generates the report in one process.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"metaxsfr/internal/compileapp"
	"metaxsfr/internal/config"
	"metaxsfr/internal/generateapp"
	"metaxsfr/internal/payload"
	"metaxsfr/internal/pipeline"
	"metaxsfr/internal/processapp"
	"metaxsfr/internal/store/sqlite"
)

// Output names inside Options.OutputDir.
const (
	SamplesDir   = "samples"
	SummaryFile  = "sample_summaries.tsv"
	TaxonomyFile = "taxonomy.tsv"
	ReportFile   = "metaxsfr_report.html"
	PayloadFile  = "metaxsfr_report.json"
)

// Options configures one batch run.
type Options struct {
	Reports    []string
	ReportType string
	Database   string
	Selection  config.Selection
	OutputDir  string
	Jobs       int // 0 = runtime.NumCPU()

	Template        string // empty skips report generation
	Params          string
	PipelineVersion string
	StartMarker     string
	EndMarker       string
	SaveJSON        bool

	Archive string // SQLite path, optional
	Now     func() time.Time
}

// Sample is one processed report.
type Sample struct {
	ID           string
	Report       string
	SummaryPath  string
	TaxonomyPath string
	SummaryRows  int
	TaxonomyRows int
}

// Result lists what a run produced.
type Result struct {
	RunID        string
	Samples      []Sample
	SummaryPath  string
	TaxonomyPath string
	ReportPath   string // empty when no template was given
}

// SampleID derives a sample id from a report path: the base name up to its
// first dot after its first character, so "S1.kraken2.report.txt.gz"
// becomes "S1".
func SampleID(path string) string {
	base := filepath.Base(path)
	if len(base) > 1 {
		if i := strings.IndexByte(base[1:], '.'); i >= 0 {
			return base[:i+1]
		}
	}
	return base
}

// Run processes every report (bounded by Jobs), then compiles summaries,
// concatenates taxonomy tables and, with a template, writes the report.
// The first failing sample cancels the rest.
func Run(ctx context.Context, opt Options, log *zap.Logger) (*Result, error) {
	if len(opt.Reports) == 0 {
		return nil, fmt.Errorf("batch: no reports")
	}
	samples := make([]Sample, len(opt.Reports))
	seen := make(map[string]string, len(opt.Reports))
	sampleDir := filepath.Join(opt.OutputDir, SamplesDir)
	for i, rp := range opt.Reports {
		id := SampleID(rp)
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("batch: %s and %s share sample id %q", prev, rp, id)
		}
		seen[id] = rp
		samples[i] = Sample{
			ID:           id,
			Report:       rp,
			SummaryPath:  filepath.Join(sampleDir, id+".summary.tsv"),
			TaxonomyPath: filepath.Join(sampleDir, id+".taxonomy.tsv"),
		}
	}
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return nil, err
	}

	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	started := now()
	res := &Result{RunID: payload.NewRunID(started), Samples: samples}

	var archive *sqlite.Archive
	if opt.Archive != "" {
		a, err := sqlite.Open(ctx, opt.Archive)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		defer a.Close()
		if err := a.SaveRun(ctx, sqlite.Run{
			ID: res.RunID, ReportType: opt.ReportType, ReportDB: opt.Database, Created: started.Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("archive run: %w", err)
		}
		archive = a
	}

	jobs := opt.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range samples {
		s := &samples[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := pipeline.Process(pipeline.Config{
				SampleID:     s.ID,
				ReportPath:   s.Report,
				ReportType:   opt.ReportType,
				Schema:       opt.Selection.Schema,
				Dictionary:   opt.Selection.Dictionary,
				MinAbundance: opt.Selection.Threshold,
			})
			if err != nil {
				return fmt.Errorf("sample %s: %w", s.ID, err)
			}
			if err := processapp.Write(r, "tsv", s.SummaryPath, s.TaxonomyPath); err != nil {
				return fmt.Errorf("sample %s: %w", s.ID, err)
			}
			if archive != nil {
				if err := archive.SaveSample(gctx, res.RunID, s.ID, r.Summary, r.Taxonomy, r.Schema); err != nil {
					return fmt.Errorf("archive sample %s: %w", s.ID, err)
				}
			}
			s.SummaryRows, s.TaxonomyRows = len(r.Summary), len(r.Taxonomy)
			log.Info("sample processed",
				zap.String("sample", s.ID),
				zap.Int("summary_rows", s.SummaryRows),
				zap.Int("taxonomy_rows", s.TaxonomyRows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sumPaths := make([]string, len(samples))
	taxPaths := make([]string, len(samples))
	for i, s := range samples {
		sumPaths[i], taxPaths[i] = s.SummaryPath, s.TaxonomyPath
	}
	res.SummaryPath = filepath.Join(opt.OutputDir, SummaryFile)
	m, err := compileapp.Compile(sumPaths, res.SummaryPath)
	if err != nil {
		return nil, fmt.Errorf("compile summaries: %w", err)
	}
	log.Info("summaries compiled", zap.Int("samples", len(m.Samples)), zap.Int("taxa", len(m.Taxa)))

	res.TaxonomyPath = filepath.Join(opt.OutputDir, TaxonomyFile)
	if err := compileapp.Concat(taxPaths, res.TaxonomyPath); err != nil {
		return nil, fmt.Errorf("concatenate taxonomy: %w", err)
	}

	if opt.Template == "" {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.ReportPath = filepath.Join(opt.OutputDir, ReportFile)
	req := generateapp.Request{
		Inputs: payload.Inputs{
			SummaryTable:    res.SummaryPath,
			TaxonomyTable:   res.TaxonomyPath,
			ParamsFile:      opt.Params,
			PipelineVersion: opt.PipelineVersion,
			StartMarker:     opt.StartMarker,
			EndMarker:       opt.EndMarker,
			RunID:           res.RunID,
			Now:             func() time.Time { return started },
		},
		Template: opt.Template,
		OutHTML:  res.ReportPath,
	}
	if opt.SaveJSON {
		req.SaveJSON = filepath.Join(opt.OutputDir, PayloadFile)
	}
	if err := generateapp.Generate(req, log); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	return res, nil
}
