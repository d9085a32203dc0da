package diagnostics

import (
	"errors"
	"os"
	"testing"

	"competitive-analysis/internal/domain"
)

func testChecker() *Checker {
	c := NewChecker()
	c.probe = func(url string) error { return nil }
	return c
}

// TestRunAllChecksPass verifies a fully configured environment.
func TestRunAllChecksPass(t *testing.T) {
	c := testChecker()
	report := c.Run(domain.Settings{
		GeminiAPIKey: "key",
		ReportsDir:   t.TempDir(),
	})

	if report.HasFailures {
		t.Fatalf("unexpected failures: %+v", report.Items)
	}
	if len(report.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(report.Items))
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("expected generated timestamp")
	}
}

// TestRunMissingAPIKeyFails verifies the credential check.
func TestRunMissingAPIKeyFails(t *testing.T) {
	c := testChecker()
	report := c.Run(domain.Settings{ReportsDir: t.TempDir()})

	if !report.HasFailures {
		t.Fatal("expected failure for missing api key")
	}
	if report.Items[0].ID != "gemini_api_key" || report.Items[0].Status != domain.DiagnosticStatusFail {
		t.Fatalf("item = %+v", report.Items[0])
	}
	if report.Items[0].Hint == "" {
		t.Fatal("expected remediation hint")
	}
}

// TestRunUnwritableReportsDirFails verifies the write probe.
func TestRunUnwritableReportsDirFails(t *testing.T) {
	c := testChecker()
	c.createTemp = func(dir, pattern string) (*os.File, error) {
		return nil, errors.New("permission denied")
	}

	report := c.Run(domain.Settings{GeminiAPIKey: "key", ReportsDir: t.TempDir()})
	if !report.HasFailures {
		t.Fatal("expected failure for unwritable reports dir")
	}
}

// TestRunUnreachableSearchWarnsOnly verifies degraded search is not fatal.
func TestRunUnreachableSearchWarnsOnly(t *testing.T) {
	c := testChecker()
	c.probe = func(url string) error { return errors.New("no route to host") }

	report := c.Run(domain.Settings{GeminiAPIKey: "key", ReportsDir: t.TempDir()})
	if report.HasFailures {
		t.Fatal("search unreachability must not be a failure")
	}

	var found bool
	for _, item := range report.Items {
		if item.ID == "search_endpoint" {
			found = true
			if item.Status != domain.DiagnosticStatusWarn {
				t.Fatalf("status = %s, want warn", item.Status)
			}
		}
	}
	if !found {
		t.Fatal("missing search_endpoint item")
	}
}
