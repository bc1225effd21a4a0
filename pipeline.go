package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"r42copilot/analysis"
	"r42copilot/core"
	"r42copilot/insight"
	"r42copilot/logging"
	"r42copilot/pdfextract"
	"r42copilot/profile"
)

// Pipeline wires extraction, analysis, and the user store together. The
// analysis client is optional; without it uploads still extract and store.
type Pipeline struct {
	config   *core.Config
	store    *profile.Store
	analyzer *analysis.Client
	logger   *logging.Logger
}

// NewPipeline builds the orchestration layer. analyzer may be nil when no
// credential is configured.
func NewPipeline(cfg *core.Config, store *profile.Store, analyzer *analysis.Client, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		config:   cfg,
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// extractText pulls text from one PDF, preferring the structured parser and
// falling back to the byte scan so ingestion never fails on garbage input.
func (p *Pipeline) extractText(path string) string {
	extractor := pdfextract.NewExtractor(pdfextract.ExtractorConfig{MaxChars: p.config.MaxContentChars})
	result, err := extractor.Extract(path)
	if err == nil {
		p.logger.Info("structured extraction succeeded",
			zap.String("file", filepath.Base(path)),
			zap.Int("pages", result.ExtractedPages),
			zap.Int("chars", len(result.Text)))
		return result.Text
	}
	p.logger.Warn("structured extraction failed, falling back to byte scan",
		zap.String("file", filepath.Base(path)), zap.Error(err))

	scanner := pdfextract.NewScanner(pdfextract.ScannerConfig{MaxChars: p.config.MaxContentChars})
	text, scanErr := scanner.ScanFile(path)
	if scanErr != nil {
		p.logger.Error("byte scan failed", zap.String("file", filepath.Base(path)), zap.Error(scanErr))
		return pdfextract.PlaceholderText(filepath.Base(path))
	}
	return text
}

// Upload validates and ingests one PDF, storing the extracted text as a new
// report. Analysis is not run here.
func (p *Pipeline) Upload(path, platform string) (profile.UploadedReport, error) {
	if err := pdfextract.ValidateFile(path, p.config.MaxFileSize); err != nil {
		return profile.UploadedReport{}, err
	}

	text := p.extractText(path)
	report := profile.UploadedReport{
		Filename: filepath.Base(path),
		Platform: platform,
		Content:  text,
	}
	report.ID = p.store.AddReport(report)
	p.logger.Info("report stored",
		zap.String("id", report.ID),
		zap.String("file", report.Filename),
		zap.String("platform", platform))
	return p.store.Report(report.ID)
}

// UploadAndAnalyze ingests one PDF and immediately runs analysis on it.
func (p *Pipeline) UploadAndAnalyze(ctx context.Context, path, platform string) (profile.UploadedReport, error) {
	report, err := p.Upload(path, platform)
	if err != nil {
		return profile.UploadedReport{}, err
	}
	if err := p.AnalyzeReport(ctx, report.ID); err != nil {
		return report, err
	}
	return p.store.Report(report.ID)
}

// batchResult carries one file's extraction outcome out of the fan-out.
type batchResult struct {
	index  int
	report profile.UploadedReport
	err    error
}

// UploadBatch ingests several PDFs concurrently, then runs exactly one
// combined analysis over the joined texts and attaches the shared insights
// to every successfully stored report. Files that fail validation are
// reported individually and do not abort the rest.
func (p *Pipeline) UploadBatch(ctx context.Context, paths []string, platform string) ([]profile.UploadedReport, []error) {
	results := make([]batchResult, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			report, err := p.Upload(path, platform)
			results[i] = batchResult{index: i, report: report, err: err}
		}(i, path)
	}
	wg.Wait()

	var reports []profile.UploadedReport
	var errs []error
	var sections []string
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		reports = append(reports, r.report)
		sections = append(sections, fmt.Sprintf("=== %s ===\n%s", r.report.Filename, r.report.Content))
	}
	if len(reports) == 0 || p.analyzer == nil {
		return reports, errs
	}

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Filename
	}
	insights, err := p.analyzer.Analyze(ctx, analysis.Request{
		Content:  strings.Join(sections, "\n\n"),
		Platform: platform,
		Filename: strings.Join(names, ", "),
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("combined analysis failed: %w", err))
		return reports, errs
	}

	for i := range reports {
		if uerr := p.store.UpdateInsights(reports[i].ID, insights); uerr != nil {
			errs = append(errs, uerr)
			continue
		}
		reports[i].Insights = insights
	}
	return reports, errs
}

// ErrNoAnalyzer is returned when analysis is requested without a configured
// credential.
var ErrNoAnalyzer = errors.New("no analysis client configured")

// AnalyzeReport runs analysis for one stored report and persists the
// insights.
func (p *Pipeline) AnalyzeReport(ctx context.Context, reportID string) error {
	if p.analyzer == nil {
		return ErrNoAnalyzer
	}
	report, err := p.store.Report(reportID)
	if err != nil {
		return err
	}

	content := report.Content
	if content == "" {
		// Degraded persistence may have dropped the text.
		content = pdfextract.PlaceholderText(report.Filename)
	}
	insights, err := p.analyzer.Analyze(ctx, analysis.Request{
		Content:  content,
		Platform: report.Platform,
		Filename: report.Filename,
	})
	if err != nil {
		return err
	}
	return p.store.UpdateInsights(report.ID, insights)
}

// AnalyzeLatest runs analysis for the most recently uploaded report.
func (p *Pipeline) AnalyzeLatest(ctx context.Context) (profile.UploadedReport, error) {
	reports := p.store.ReportsLatestFirst()
	if len(reports) == 0 {
		return profile.UploadedReport{}, profile.ErrReportNotFound
	}
	if err := p.AnalyzeReport(ctx, reports[0].ID); err != nil {
		return profile.UploadedReport{}, err
	}
	return p.store.Report(reports[0].ID)
}

// DescribeAnalysisError maps pipeline failures to the message shown to the
// user.
func DescribeAnalysisError(err error) string {
	var cfgErr *core.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("%s %s", cfgErr.Message, cfgErr.Action)
	case errors.Is(err, ErrNoAnalyzer):
		return "No API key configured. Set OPENAI_API_KEY or ANTHROPIC_API_KEY and try again."
	case errors.Is(err, analysis.ErrUnusableResponse):
		return "The AI response could not be understood. Try again, or try a clearer report."
	case errors.Is(err, context.DeadlineExceeded):
		return "Analysis timed out. Check your connection and try again."
	default:
		var httpErr *analysis.HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Sprintf("The analysis request failed (status %d). Check your API key and connection.", httpErr.StatusCode)
		}
		var ins *insight.ValidationError
		if errors.As(err, &ins) {
			return "The AI response was incomplete. Try again with a clearer report."
		}
		return err.Error()
	}
}
