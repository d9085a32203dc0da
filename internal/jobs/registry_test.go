package jobs

import (
	"errors"
	"testing"

	"competitive-analysis/internal/domain"
)

// TestRegistryLifecycle verifies normal progression to completed state.
func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	job := r.Create("coffee shop", "Islamabad")
	if job.ID == "" {
		t.Fatal("expected non-empty job id")
	}
	if job.Status != domain.JobStatusStarted {
		t.Fatalf("status = %s, want started", job.Status)
	}

	for _, status := range []domain.JobStatus{
		domain.JobStatusSearching,
		domain.JobStatusScraping,
		domain.JobStatusAnalyzing,
		domain.JobStatusGeneratingPDF,
	} {
		if err := r.Update(job.ID, status, "working"); err != nil {
			t.Fatalf("update to %s: %v", status, err)
		}
	}

	competitors := []domain.Competitor{{BusinessName: "Coffee Wagera", Rank: 1}}
	if err := r.Complete(job.ID, competitors, "analysis text", "/tmp/report.pdf"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := r.Get(job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.PDFPath != "/tmp/report.pdf" {
		t.Fatalf("pdf path = %q", got.PDFPath)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if len(got.Competitors) != 1 {
		t.Fatalf("competitors = %d, want 1", len(got.Competitors))
	}
}

// TestRegistryRejectsBackwardTransition checks forward-only ordering.
func TestRegistryRejectsBackwardTransition(t *testing.T) {
	r := NewRegistry()
	job := r.Create("gym", "Lahore")

	if err := r.Update(job.ID, domain.JobStatusAnalyzing, "working"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := r.Update(job.ID, domain.JobStatusSearching, "working"); err == nil {
		t.Fatal("expected backward transition to be rejected")
	}

	got, _ := r.Get(job.ID)
	if got.Status != domain.JobStatusAnalyzing {
		t.Fatalf("status = %s, want analyzing after rejected move", got.Status)
	}
}

// TestRegistryTerminalStatesAreFinal checks no transitions leave terminal states.
func TestRegistryTerminalStatesAreFinal(t *testing.T) {
	r := NewRegistry()
	job := r.Create("restaurant", "Karachi")

	if err := r.Fail(job.ID, "search exploded"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if err := r.Update(job.ID, domain.JobStatusSearching, "retrying"); err == nil {
		t.Fatal("expected update after failure to be rejected")
	}
	if err := r.Complete(job.ID, nil, "", ""); err == nil {
		t.Fatal("expected complete after failure to be rejected")
	}

	got, err := r.Get(job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error != "search exploded" {
		t.Fatalf("error = %q", got.Error)
	}

	// Repeated reads of a terminal job return the same record.
	again, _ := r.Get(job.ID)
	if again.Status != got.Status || again.Error != got.Error {
		t.Fatalf("terminal reads differ: %+v vs %+v", again, got)
	}
}

// TestRegistryUnknownID checks the not-found contract on every operation.
func TestRegistryUnknownID(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("get error = %v, want ErrJobNotFound", err)
	}
	if err := r.Update("nope", domain.JobStatusSearching, ""); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("update error = %v, want ErrJobNotFound", err)
	}
	if err := r.Complete("nope", nil, "", ""); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("complete error = %v, want ErrJobNotFound", err)
	}
	if err := r.Fail("nope", "x"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("fail error = %v, want ErrJobNotFound", err)
	}
}

// TestRegistryIsolatesRecords checks snapshots do not alias stored state.
func TestRegistryIsolatesRecords(t *testing.T) {
	r := NewRegistry()
	job := r.Create("bakery", "Islamabad")

	snapshot, _ := r.Get(job.ID)
	snapshot.Status = domain.JobStatusFailed
	snapshot.Progress = "mutated copy"

	got, _ := r.Get(job.ID)
	if got.Status != domain.JobStatusStarted {
		t.Fatalf("status = %s, stored record was mutated through a snapshot", got.Status)
	}
}
