package config

import (
	"competitive-analysis/internal/domain"
)

// DefaultSettings returns baseline server configuration.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		ListenAddr:     ":8080",
		ReportsDir:     "reports",
		FrontendDir:    "frontend",
		GeminiModel:    "gemini-1.5-flash",
		MaxCompetitors: 5,
	}
}
