package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"competitive-analysis/internal/domain"
)

type fakeSearcher struct {
	competitors []domain.Competitor
	err         error
}

func (f *fakeSearcher) FindCompetitors(ctx context.Context, businessIdea, location string) ([]domain.Competitor, error) {
	return f.competitors, f.err
}

type fakeScraper struct{}

func (f *fakeScraper) Enrich(ctx context.Context, competitors []domain.Competitor) []domain.Competitor {
	out := make([]domain.Competitor, len(competitors))
	copy(out, competitors)
	for i := range out {
		out[i].Services = "enriched services"
	}
	return out
}

type fakeCompleter struct {
	text   string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type fakeRenderer struct {
	path string
	err  error
}

func (f *fakeRenderer) Render(businessIdea, location string, competitors []domain.Competitor, analysis string) (string, error) {
	return f.path, f.err
}

func seedCompetitors() []domain.Competitor {
	return []domain.Competitor{
		{BusinessName: "Monal Restaurant", URL: "https://www.monal.pk", Rank: 1},
		{BusinessName: "Kolachi", URL: "https://www.kolachi.pk", Rank: 2},
	}
}

// TestPipelineRunSuccess checks the happy path and stage ordering.
func TestPipelineRunSuccess(t *testing.T) {
	completer := &fakeCompleter{text: "## 1. MAJOR COMPETITORS\n1. Monal Restaurant - hilltop dining\n2. Kolachi - seaside BBQ\n\nSolid market."}
	pipeline := NewPipeline(
		&fakeSearcher{competitors: seedCompetitors()},
		&fakeScraper{},
		completer,
		&fakeRenderer{path: "/reports/out.pdf"},
		nil,
	)

	var stages []string
	result, err := pipeline.Run(context.Background(), Request{
		BusinessIdea: "restaurant",
		Location:     "Islamabad",
		OnStage:      func(stage string) { stages = append(stages, stage) },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantStages := []string{StageSearching, StageScraping, StageAnalyzing, StageRendering}
	if !reflect.DeepEqual(stages, wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	if result.PDFPath != "/reports/out.pdf" {
		t.Fatalf("pdf path = %q", result.PDFPath)
	}
	if len(result.Competitors) != 2 {
		t.Fatalf("competitors = %d, want 2", len(result.Competitors))
	}
	if result.Competitors[0].BusinessName != "Monal Restaurant" || result.Competitors[0].Rank != 1 {
		t.Fatalf("first competitor = %+v", result.Competitors[0])
	}
	if result.Competitors[0].Services != "enriched services" {
		t.Fatal("expected scraped profile to be reused for matched name")
	}
	if !strings.Contains(completer.prompt, "Monal Restaurant") {
		t.Fatal("prompt should carry competitor context")
	}
}

// TestPipelineRunSearchFailure checks stage attribution for search errors.
func TestPipelineRunSearchFailure(t *testing.T) {
	pipeline := NewPipeline(
		&fakeSearcher{err: errors.New("network down")},
		&fakeScraper{},
		&fakeCompleter{},
		&fakeRenderer{},
		nil,
	)

	_, err := pipeline.Run(context.Background(), Request{BusinessIdea: "gym", Location: "Lahore"})
	var pErr *PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("error type = %T, want *PipelineError", err)
	}
	if pErr.Stage != StageSearching {
		t.Fatalf("stage = %s, want searching", pErr.Stage)
	}
	if !strings.Contains(pErr.Error(), "competitor search failed") {
		t.Fatalf("message = %q", pErr.Error())
	}
}

// TestPipelineRunModelFailure checks the LLM failure path halts the run.
func TestPipelineRunModelFailure(t *testing.T) {
	renderer := &fakeRenderer{path: "/reports/should-not-exist.pdf"}
	pipeline := NewPipeline(
		&fakeSearcher{competitors: seedCompetitors()},
		&fakeScraper{},
		&fakeCompleter{err: errors.New("quota exceeded")},
		renderer,
		nil,
	)

	var stages []string
	_, err := pipeline.Run(context.Background(), Request{
		BusinessIdea: "coffee shop",
		Location:     "Islamabad",
		OnStage:      func(stage string) { stages = append(stages, stage) },
	})

	var pErr *PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("error type = %T, want *PipelineError", err)
	}
	if pErr.Stage != StageAnalyzing {
		t.Fatalf("stage = %s, want analyzing", pErr.Stage)
	}
	for _, stage := range stages {
		if stage == StageRendering {
			t.Fatal("rendering stage must not run after model failure")
		}
	}
}

// TestPipelineRunEmptyModelOutput checks the presence check on analyses.
func TestPipelineRunEmptyModelOutput(t *testing.T) {
	pipeline := NewPipeline(
		&fakeSearcher{competitors: seedCompetitors()},
		&fakeScraper{},
		&fakeCompleter{text: "   \n  "},
		&fakeRenderer{},
		nil,
	)

	_, err := pipeline.Run(context.Background(), Request{BusinessIdea: "bakery", Location: "Karachi"})
	var pErr *PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("error type = %T, want *PipelineError", err)
	}
	if pErr.Stage != StageAnalyzing {
		t.Fatalf("stage = %s, want analyzing", pErr.Stage)
	}
}

// TestPipelineRunRenderFailure checks stage attribution for PDF errors.
func TestPipelineRunRenderFailure(t *testing.T) {
	pipeline := NewPipeline(
		&fakeSearcher{competitors: seedCompetitors()},
		&fakeScraper{},
		&fakeCompleter{text: "useful analysis"},
		&fakeRenderer{err: errors.New("disk full")},
		nil,
	)

	_, err := pipeline.Run(context.Background(), Request{BusinessIdea: "bakery", Location: "Karachi"})
	var pErr *PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("error type = %T, want *PipelineError", err)
	}
	if pErr.Stage != StageRendering {
		t.Fatalf("stage = %s, want rendering", pErr.Stage)
	}
}

// TestPipelineRunRejectsBlankInput checks input validation before stages run.
func TestPipelineRunRejectsBlankInput(t *testing.T) {
	pipeline := NewPipeline(&fakeSearcher{}, &fakeScraper{}, &fakeCompleter{}, &fakeRenderer{}, nil)

	for _, req := range []Request{
		{BusinessIdea: "  ", Location: "Islamabad"},
		{BusinessIdea: "coffee shop", Location: ""},
	} {
		if _, err := pipeline.Run(context.Background(), req); err == nil {
			t.Fatalf("expected validation error for %+v", req)
		}
	}
}

// TestExtractCompetitorNames checks numbered and bulleted list parsing.
func TestExtractCompetitorNames(t *testing.T) {
	analysis := `# COMPETITIVE ANALYSIS REPORT

## 1. MAJOR COMPETITORS
1. Monal Restaurant - Hilltop dining with mountain views
2. Kolachi (seaside BBQ)
• Des Pardes: traditional cuisine
3. XY

Other text follows.`

	got := ExtractCompetitorNames(analysis)
	want := []string{"Monal Restaurant", "Kolachi", "Des Pardes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

// TestReconcileKeepsScrapedListWithoutNames checks the no-extraction path.
func TestReconcileKeepsScrapedListWithoutNames(t *testing.T) {
	scraped := seedCompetitors()
	got := reconcileCompetitors("prose without any lists", scraped, "restaurant", "Islamabad")
	if !reflect.DeepEqual(got, scraped) {
		t.Fatalf("competitors = %v, want scraped list unchanged", got)
	}
}

// TestReconcileSynthesizesUnknownNames checks profile synthesis for new names.
func TestReconcileSynthesizesUnknownNames(t *testing.T) {
	analysis := "1. Monal Restaurant - good\n2. Brand New Bistro - unknown"
	got := reconcileCompetitors(analysis, seedCompetitors(), "restaurant", "Islamabad")

	if len(got) != 2 {
		t.Fatalf("competitors = %d, want 2", len(got))
	}
	if got[0].URL != "https://www.monal.pk" {
		t.Fatal("matched name should reuse the scraped profile")
	}
	if got[1].BusinessName != "Brand New Bistro" || got[1].URL == "" {
		t.Fatalf("synthesized profile = %+v", got[1])
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("ranks = %d, %d", got[0].Rank, got[1].Rank)
	}
}
