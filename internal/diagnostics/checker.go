package diagnostics

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"competitive-analysis/internal/domain"
)

// Checker validates the external dependencies this service needs before
// accepting jobs: the model credential, the reports directory, and the
// search endpoint.
type Checker struct {
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
	probe      func(url string) error
}

// NewChecker builds a checker using real OS and network dependencies.
func NewChecker() *Checker {
	return &Checker{
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
		probe:      probeEndpoint,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkAPIKey(settings.GeminiAPIKey),
		c.checkReportsDir(settings.ReportsDir),
		c.checkSearchEndpoint(),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkAPIKey verifies the Gemini credential is configured.
func (c *Checker) checkAPIKey(apiKey string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "gemini_api_key",
		Name: "Gemini API key",
	}

	if strings.TrimSpace(apiKey) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "No API key is configured; analysis jobs will fail at the analyzing stage."
		item.Hint = "Set GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = "API key is configured."
	return item
}

// checkReportsDir validates the reports directory exists and is writable.
func (c *Checker) checkReportsDir(reportsDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "reports_dir",
		Name: "Reports directory",
	}

	if strings.TrimSpace(reportsDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Reports directory is empty."
		item.Hint = "Set reports_dir in the config file or REPORTS_DIR in the environment."
		return item
	}

	if err := c.mkdirAll(reportsDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Cannot create reports directory: " + reportsDir
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	probe, err := c.createTemp(reportsDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Reports directory is not writable: " + reportsDir
		item.Hint = "Adjust filesystem permissions for the reports directory."
		return item
	}
	name := probe.Name()
	probe.Close()
	_ = c.remove(name)

	item.Status = domain.DiagnosticStatusPass
	item.Message = "Reports directory is writable: " + filepath.Clean(reportsDir)
	return item
}

// checkSearchEndpoint probes the search host. Unreachability is a warning,
// not a failure, because jobs degrade to the catalog fallback.
func (c *Checker) checkSearchEndpoint() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "search_endpoint",
		Name: "Search endpoint",
	}

	if err := c.probe("https://duckduckgo.com"); err != nil {
		item.Status = domain.DiagnosticStatusWarn
		item.Message = "Search endpoint is unreachable; jobs will use catalog fallback data."
		item.Hint = "Check outbound network access if live competitor search is expected."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = "Search endpoint is reachable."
	return item
}

// probeEndpoint issues a short HEAD request against the given URL.
func probeEndpoint(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
