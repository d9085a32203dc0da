package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"competitive-analysis/internal/domain"
	"competitive-analysis/internal/jobs"
)

type analyzeRequest struct {
	BusinessIdea string `json:"business_idea"`
	Location     string `json:"location"`
}

type analyzeResponse struct {
	ID     string           `json:"id"`
	Status domain.JobStatus `json:"status"`
}

type statusResponse struct {
	ID          string           `json:"id"`
	Status      domain.JobStatus `json:"status"`
	Progress    string           `json:"progress,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   string           `json:"created_at"`
	CompletedAt string           `json:"completed_at,omitempty"`
}

type resultsResponse struct {
	ID           string              `json:"id"`
	BusinessIdea string              `json:"business_idea"`
	Location     string              `json:"location"`
	Competitors  []domain.Competitor `json:"competitors"`
	Analysis     string              `json:"analysis"`
}

type eventsResponse struct {
	Events []jobs.Event `json:"events"`
}

type healthResponse struct {
	Status      string                  `json:"status"`
	Diagnostics domain.DiagnosticReport `json:"diagnostics"`
}

// handleAnalyze accepts a new analysis request and starts a job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.BusinessIdea = strings.TrimSpace(req.BusinessIdea)
	req.Location = strings.TrimSpace(req.Location)
	if req.BusinessIdea == "" {
		respondError(w, http.StatusBadRequest, "business_idea is required")
		return
	}
	if req.Location == "" {
		respondError(w, http.StatusBadRequest, "location is required")
		return
	}

	job := s.startJob(req.BusinessIdea, req.Location)
	respondJSON(w, http.StatusAccepted, analyzeResponse{ID: job.ID, Status: job.Status})
}

// handleStatus reports the current lifecycle state of one job.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}

	resp := statusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleResults returns the structured output of a completed job.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusCompleted {
		respondError(w, http.StatusConflict, "results are not ready, current status: "+string(job.Status))
		return
	}

	respondJSON(w, http.StatusOK, resultsResponse{
		ID:           job.ID,
		BusinessIdea: job.BusinessIdea,
		Location:     job.Location,
		Competitors:  job.Competitors,
		Analysis:     job.Analysis,
	})
}

// handleDownload streams the finished PDF report.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusCompleted {
		respondError(w, http.StatusConflict, "report is not ready, current status: "+string(job.Status))
		return
	}
	if job.PDFPath == "" {
		s.logger.Error("completed job has no report path", zap.String("job_id", job.ID))
		respondError(w, http.StatusInternalServerError, "report file is missing")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(job.PDFPath)+`"`)
	http.ServeFile(w, r, job.PDFPath)
}

// handleEvents returns a job's events after the given sequence number.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}

	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = parsed
	}

	events := s.events.JobSince(job.ID, since)
	if events == nil {
		events = []jobs.Event{}
	}
	respondJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// handleHealth reports service liveness and startup diagnostics.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.diagnostics.HasFailures {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: status, Diagnostics: s.diagnostics})
}

// lookupJob resolves the path id into a job snapshot, writing a 404 on miss.
func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (domain.Job, bool) {
	id := mux.Vars(r)["id"]
	job, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, "job not found")
		} else {
			respondError(w, http.StatusInternalServerError, "job lookup failed")
		}
		return domain.Job{}, false
	}
	return job, true
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
