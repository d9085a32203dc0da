// Package analysis drives the research pipeline for one job: find local
// competitors, collect their site details, synthesize a market analysis
// with the language model, and render the PDF artifact.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"competitive-analysis/internal/domain"
)

// Stage names reported through Request.OnStage, in execution order.
const (
	StageSearching = "searching"
	StageScraping  = "scraping"
	StageAnalyzing = "analyzing"
	StageRendering = "rendering"
)

// Request contains the analysis inputs and execution callbacks for one run.
type Request struct {
	BusinessIdea string
	Location     string
	OnStage      func(stage string)
}

// Result contains the finished analysis and the artifact path.
type Result struct {
	Competitors []domain.Competitor
	Analysis    string
	PDFPath     string
}

// PipelineError is a stage-aware error for failed jobs.
type PipelineError struct {
	Stage   string
	Message string
	Err     error
}

// Error formats pipeline failures for job error fields.
func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Searcher finds seed competitor profiles for an idea and location.
type Searcher interface {
	FindCompetitors(ctx context.Context, businessIdea, location string) ([]domain.Competitor, error)
}

// Scraper fills competitor profiles from their websites. Per-site failures
// degrade individual profiles and never fail the batch.
type Scraper interface {
	Enrich(ctx context.Context, competitors []domain.Competitor) []domain.Competitor
}

// Completer sends one prompt to the language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Renderer writes the finished report and returns the artifact path.
type Renderer interface {
	Render(businessIdea, location string, competitors []domain.Competitor, analysis string) (string, error)
}

// Pipeline orchestrates the four research stages. Any stage failure halts
// the run; there are no retries and no partial results.
type Pipeline struct {
	searcher  Searcher
	scraper   Scraper
	completer Completer
	renderer  Renderer
	logger    *zap.Logger
}

// NewPipeline composes the production pipeline from its capabilities.
func NewPipeline(searcher Searcher, scraper Scraper, completer Completer, renderer Renderer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		searcher:  searcher,
		scraper:   scraper,
		completer: completer,
		renderer:  renderer,
		logger:    logger,
	}
}

// Run executes search, scrape, analyze, and render for one request.
// Model output gets presence checks only; its content flows to the
// renderer unvalidated.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	businessIdea := strings.TrimSpace(req.BusinessIdea)
	location := strings.TrimSpace(req.Location)
	if businessIdea == "" {
		return Result{}, &PipelineError{Stage: StageSearching, Message: "business idea is required"}
	}
	if location == "" {
		return Result{}, &PipelineError{Stage: StageSearching, Message: "location is required"}
	}

	emitStage(req.OnStage, StageSearching)
	competitors, err := p.searcher.FindCompetitors(ctx, businessIdea, location)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageSearching,
			Message: "competitor search failed",
			Err:     err,
		}
	}
	p.logger.Info("competitor search finished",
		zap.String("business_idea", businessIdea),
		zap.String("location", location),
		zap.Int("competitors", len(competitors)))

	emitStage(req.OnStage, StageScraping)
	competitors = p.scraper.Enrich(ctx, competitors)
	if err := ctx.Err(); err != nil {
		return Result{}, &PipelineError{Stage: StageScraping, Message: "job cancelled", Err: err}
	}

	emitStage(req.OnStage, StageAnalyzing)
	analysis, err := p.completer.Complete(ctx, BuildPrompt(businessIdea, location, competitors))
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageAnalyzing,
			Message: "language model analysis failed",
			Err:     err,
		}
	}
	if strings.TrimSpace(analysis) == "" {
		return Result{}, &PipelineError{
			Stage:   StageAnalyzing,
			Message: "language model returned an empty analysis",
		}
	}

	competitors = reconcileCompetitors(analysis, competitors, businessIdea, location)

	emitStage(req.OnStage, StageRendering)
	pdfPath, err := p.renderer.Render(businessIdea, location, competitors, analysis)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageRendering,
			Message: "pdf generation failed",
			Err:     err,
		}
	}

	return Result{
		Competitors: competitors,
		Analysis:    analysis,
		PDFPath:     pdfPath,
	}, nil
}

// emitStage forwards stage updates when a callback is configured.
func emitStage(cb func(stage string), stage string) {
	if cb != nil {
		cb(stage)
	}
}
