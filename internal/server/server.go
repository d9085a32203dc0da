// Package server exposes the analysis service over HTTP and drives job
// execution in the background.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"competitive-analysis/internal/analysis"
	"competitive-analysis/internal/domain"
	"competitive-analysis/internal/jobs"
)

// pipelineRunner isolates the research pipeline behind an interface.
type pipelineRunner interface {
	Run(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

// Server wires configuration, the job registry, and the pipeline, and
// owns one background goroutine per running job.
type Server struct {
	settings    domain.Settings
	logger      *zap.Logger
	registry    *jobs.Registry
	events      *jobs.EventBus
	pipeline    pipelineRunner
	diagnostics domain.DiagnosticReport
	assets      fs.FS

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New builds the server. A nil assets FS falls back to serving the
// frontend directory from disk.
func New(settings domain.Settings, logger *zap.Logger, pipeline pipelineRunner, diagnostics domain.DiagnosticReport, assets fs.FS) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		settings:    settings,
		logger:      logger,
		registry:    jobs.NewRegistry(),
		events:      jobs.NewEventBus(1000),
		pipeline:    pipeline,
		diagnostics: diagnostics,
		assets:      assets,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/status/{id}", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/results/{id}", s.handleResults).Methods(http.MethodGet)
	r.HandleFunc("/api/download/{id}", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id}", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.assets != nil {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(s.assets)))
	} else {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.settings.FrontendDir)))
	}
	return r
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully. Running pipelines are not awaited; their jobs simply stop
// being observable when the process exits.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.settings.ListenAddr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.settings.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startJob creates a job record and launches its pipeline goroutine. The
// cancel handle is retained per job so cancellation can be added later
// without changing the store.
func (s *Server) startJob(businessIdea, location string) domain.Job {
	job := s.registry.Create(businessIdea, location)

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[job.ID] = cancel
	s.mu.Unlock()

	s.publishStatus(job.ID, job.Status, job.Progress, "")
	s.logger.Info("job started",
		zap.String("job_id", job.ID),
		zap.String("business_idea", businessIdea),
		zap.String("location", location))

	go s.runAnalysisJob(ctx, job.ID, businessIdea, location)
	return job
}

// runAnalysisJob executes the pipeline and maps outcomes onto the job
// record and event feed.
func (s *Server) runAnalysisJob(ctx context.Context, jobID, businessIdea, location string) {
	defer s.clearJob(jobID)

	result, err := s.pipeline.Run(ctx, analysis.Request{
		BusinessIdea: businessIdea,
		Location:     location,
		OnStage: func(stage string) {
			status, ok := mapStageToStatus(stage)
			if !ok {
				return
			}
			if err := s.registry.Update(jobID, status, progressText(status)); err != nil {
				s.logger.Warn("stage update rejected",
					zap.String("job_id", jobID),
					zap.String("stage", stage),
					zap.Error(err))
				return
			}
			s.publishStatus(jobID, status, progressText(status), stage)
		},
	})
	if err != nil {
		if failErr := s.registry.Fail(jobID, err.Error()); failErr != nil {
			s.logger.Warn("failure update rejected", zap.String("job_id", jobID), zap.Error(failErr))
		}
		s.events.Publish(jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Message: err.Error(),
		})
		s.logger.Error("job failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	if completeErr := s.registry.Complete(jobID, result.Competitors, result.Analysis, result.PDFPath); completeErr != nil {
		s.logger.Warn("completion update rejected", zap.String("job_id", jobID), zap.Error(completeErr))
		return
	}
	s.events.Publish(jobs.Event{
		JobID:        jobID,
		Type:         jobs.EventTypeResult,
		Status:       domain.JobStatusCompleted,
		Message:      "Report generated",
		ArtifactPath: result.PDFPath,
	})
	s.logger.Info("job completed",
		zap.String("job_id", jobID),
		zap.String("artifact", result.PDFPath),
		zap.Int("competitors", len(result.Competitors)))
}

// publishStatus sends a normalized status event.
func (s *Server) publishStatus(jobID string, status domain.JobStatus, message, stage string) {
	s.events.Publish(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Stage:   stage,
		Message: message,
	})
}

// clearJob releases the cancel handle for a finished job.
func (s *Server) clearJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
		delete(s.cancels, jobID)
	}
}

// mapStageToStatus maps pipeline stage names to wire-visible statuses.
func mapStageToStatus(stage string) (domain.JobStatus, bool) {
	switch stage {
	case analysis.StageSearching:
		return domain.JobStatusSearching, true
	case analysis.StageScraping:
		return domain.JobStatusScraping, true
	case analysis.StageAnalyzing:
		return domain.JobStatusAnalyzing, true
	case analysis.StageRendering:
		return domain.JobStatusGeneratingPDF, true
	default:
		return "", false
	}
}

// progressText maps a status to its human-readable progress message.
func progressText(status domain.JobStatus) string {
	switch status {
	case domain.JobStatusSearching:
		return "Searching for competitors..."
	case domain.JobStatusScraping:
		return "Collecting competitor details..."
	case domain.JobStatusAnalyzing:
		return "Analyzing competitor data..."
	case domain.JobStatusGeneratingPDF:
		return "Generating PDF report..."
	default:
		return ""
	}
}
