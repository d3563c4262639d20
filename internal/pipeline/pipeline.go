// Package pipeline orchestrates the one-shot batch run:
// load -> derive -> aggregate -> analyze -> render -> persist.
// Stages are strictly sequential and the in-memory table is only mutated by
// the enrichment stage; everything downstream has read access.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/config"
	"github.com/salescope/salescope-cli/internal/dataset"
	"github.com/salescope/salescope-cli/internal/enrich"
	"github.com/salescope/salescope-cli/internal/report"
	"github.com/salescope/salescope-cli/internal/sink"
	"github.com/salescope/salescope-cli/internal/stats"
	"github.com/salescope/salescope-cli/internal/utils"
)

// Artifact filenames inside the output directory.
const (
	CSVName       = "Enriched_Vehicle_Sales.csv"
	DBName        = "Vehicle_Sales.db"
	WorkbookName  = "Vehicle_Sales_Comprehensive_Analysis.xlsx"
	DashboardHTML = "Vehicle_Sales_Dashboard.html"
	DashboardPNG  = "Vehicle_Sales_Dashboard.png"
	ResultsName   = "analysis_results.json"
)

// RunResult summarizes a completed run for the caller.
type RunResult struct {
	RunID     string
	Rows      int
	Artifacts []string
	Warnings  []string
	Duration  time.Duration
}

// Run executes the full pipeline. Any error is fatal to the run except the
// static dashboard image, which degrades to a warning (the PDF then omits
// its image page).
func Run(ctx context.Context, cfg *config.Global, log zerolog.Logger) (*RunResult, error) {
	started := time.Now()
	res := &RunResult{RunID: uuid.NewString()}
	log = log.With().Str("run_id", res.RunID).Logger()

	// Load
	path, err := dataset.Resolve(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	res.Rows = len(t.Records)
	log.Info().
		Str("stage", "load").
		Str("input", path).
		Int("rows", t.Quality.Rows).
		Int("invalid_cells", t.Quality.InvalidTotal()).
		Msg("dataset loaded")
	for col, n := range t.Quality.Invalid {
		log.Warn().
			Str("stage", "load").
			Str("column", col).
			Msgf("%d of %d rows had an invalid %s; values coerced to missing", n, t.Quality.Rows, col)
	}
	for _, col := range t.Quality.Ignored {
		log.Warn().Str("stage", "load").Str("column", col).Msg("unexpected column ignored")
	}

	// Derive
	refYear := enrich.ReferenceYear(t, cfg.ReferenceYear)
	enrich.Derive(t, refYear)
	log.Info().
		Str("stage", "derive").
		Int("reference_year", refYear).
		Int64("total_sales_volume", t.TotalSalesVolume()).
		Msg("derived columns attached")

	// Aggregate
	summaries := aggregate.Summarize(t)
	log.Info().
		Str("stage", "aggregate").
		Int("top_models", len(summaries.TopModels)).
		Int("regions", len(summaries.Regions)).
		Int("fuel_types", len(summaries.Fuels)).
		Int("years", len(summaries.Years)).
		Msg("summary tables computed")

	// Analyze
	results := stats.Analyze(t)
	logStats(log, results)

	// Persist
	if err := utils.EnsureDir(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	summary := report.Build(res.RunID, t, summaries)

	csvPath := filepath.Join(cfg.OutputDir, CSVName)
	if err := sink.WriteCSV(csvPath, t); err != nil {
		return nil, err
	}
	res.addArtifact(log, "csv", csvPath)

	dbPath := filepath.Join(cfg.OutputDir, DBName)
	if err := sink.WriteSQLite(ctx, dbPath, cfg.SnapshotTable, t); err != nil {
		return nil, err
	}
	res.addArtifact(log, "sqlite", dbPath)

	xlsxPath := filepath.Join(cfg.OutputDir, WorkbookName)
	if err := sink.WriteWorkbook(xlsxPath, t, summaries, results); err != nil {
		return nil, err
	}
	res.addArtifact(log, "workbook", xlsxPath)

	jsonPath := filepath.Join(cfg.OutputDir, ResultsName)
	if err := sink.WriteResultsJSON(jsonPath, t, summary, summaries, results); err != nil {
		return nil, err
	}
	res.addArtifact(log, "results", jsonPath)

	pngPath := ""
	if !cfg.SkipDashboard {
		htmlPath := filepath.Join(cfg.OutputDir, DashboardHTML)
		if err := sink.WriteDashboardHTML(htmlPath, t, summaries); err != nil {
			return nil, err
		}
		res.addArtifact(log, "dashboard_html", htmlPath)

		pngPath = filepath.Join(cfg.OutputDir, DashboardPNG)
		if err := sink.WriteDashboardPNG(pngPath, t, summaries); err != nil {
			// The static image is the one optional artifact; the PDF falls
			// back to text-only pages.
			warn := fmt.Sprintf("static dashboard image skipped: %v", err)
			res.Warnings = append(res.Warnings, warn)
			log.Warn().Str("stage", "render").Msg(warn)
			pngPath = ""
		} else {
			res.addArtifact(log, "dashboard_png", pngPath)
		}
	}

	if !cfg.SkipPDF {
		pdfPath := filepath.Join(cfg.OutputDir, sink.PDFName(started))
		if err := sink.WritePDF(pdfPath, summary, pngPath); err != nil {
			return nil, err
		}
		res.addArtifact(log, "pdf", pdfPath)
	}

	res.Duration = time.Since(started)
	log.Info().
		Str("stage", "done").
		Int("artifacts", len(res.Artifacts)).
		Dur("elapsed", res.Duration).
		Msg("analysis complete")
	return res, nil
}

func (r *RunResult) addArtifact(log zerolog.Logger, kind, path string) {
	r.Artifacts = append(r.Artifacts, path)
	log.Info().Str("stage", "persist").Str("kind", kind).Str("path", path).Msg("artifact written")
}

func logStats(log zerolog.Logger, res *stats.Results) {
	ev := log.Info().Str("stage", "analyze")
	if res.Regression.Skipped {
		ev = ev.Str("regression", res.Regression.Reason)
	} else {
		ev = ev.
			Float64("regression_r2", stats.Round3(res.Regression.R2)).
			Float64("regression_slope", res.Regression.Slope)
	}
	if res.PriceTTest.Skipped {
		ev = ev.Str("ttest", res.PriceTTest.Reason)
	} else {
		ev = ev.
			Float64("ttest_t", stats.Round3(res.PriceTTest.T)).
			Float64("ttest_p", stats.Round3(res.PriceTTest.P)).
			Bool("ttest_significant", res.PriceTTest.Significant)
	}
	if res.EngineTrend.Skipped {
		ev = ev.Str("engine_trend", res.EngineTrend.Reason)
	} else {
		ev = ev.Str("engine_trend", fmt.Sprintf("%.2fL (%d) -> %.2fL (%d)",
			res.EngineTrend.FirstMean, res.EngineTrend.FirstYear,
			res.EngineTrend.LastMean, res.EngineTrend.LastYear))
	}
	ev.Msg("statistics computed")
}
