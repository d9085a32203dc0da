package domain

import "time"

// JobStatus tracks each pipeline stage for a single analysis job.
type JobStatus string

const (
	JobStatusStarted       JobStatus = "started"
	JobStatusSearching     JobStatus = "searching"
	JobStatusScraping      JobStatus = "scraping"
	JobStatusAnalyzing     JobStatus = "analyzing"
	JobStatusGeneratingPDF JobStatus = "generating_pdf"
	JobStatusCompleted     JobStatus = "completed"
	JobStatusFailed        JobStatus = "failed"
)

// IsTerminal reports whether no further transitions can occur.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Competitor is one researched local competitor profile.
type Competitor struct {
	BusinessName string `json:"business_name"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	Services     string `json:"services"`
	ContactInfo  string `json:"contact_info"`
	Address      string `json:"address"`
	PricingInfo  string `json:"pricing_info"`
	Rank         int    `json:"competitor_rank"`
}

// Job stores one analysis request and its tracked lifecycle.
type Job struct {
	ID           string       `json:"id"`
	BusinessIdea string       `json:"business_idea"`
	Location     string       `json:"location"`
	Status       JobStatus    `json:"status"`
	Progress     string       `json:"progress,omitempty"`
	Error        string       `json:"error,omitempty"`
	Competitors  []Competitor `json:"competitors,omitempty"`
	Analysis     string       `json:"analysis,omitempty"`
	PDFPath      string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// Settings contains server runtime configuration.
type Settings struct {
	ListenAddr     string `yaml:"listen_addr" json:"listenAddr"`
	ReportsDir     string `yaml:"reports_dir" json:"reportsDir"`
	FrontendDir    string `yaml:"frontend_dir" json:"frontendDir"`
	GeminiAPIKey   string `yaml:"gemini_api_key" json:"-"`
	GeminiModel    string `yaml:"gemini_model" json:"geminiModel"`
	MaxCompetitors int    `yaml:"max_competitors" json:"maxCompetitors"`
}
