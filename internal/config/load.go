package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"competitive-analysis/internal/domain"
)

// Load reads settings from an optional YAML file and applies environment
// overrides on top. An empty path or a missing file yields defaults plus
// environment values.
func Load(path string) (domain.Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return domain.Settings{}, err
			}
		} else if err := yaml.Unmarshal(data, &settings); err != nil {
			return domain.Settings{}, err
		}
	}

	applyEnv(&settings)
	if settings.MaxCompetitors <= 0 {
		settings.MaxCompetitors = DefaultSettings().MaxCompetitors
	}
	return settings, nil
}

// applyEnv overlays environment variables onto loaded settings. The Gemini
// credential is env-only in the original deployment, so GEMINI_API_KEY and
// the legacy GOOGLE_API_KEY name are both honored.
func applyEnv(settings *domain.Settings) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		settings.ListenAddr = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		settings.ReportsDir = v
	}
	if v := os.Getenv("FRONTEND_DIR"); v != "" {
		settings.FrontendDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		settings.GeminiAPIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		settings.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		settings.GeminiModel = v
	}
	if v := os.Getenv("MAX_COMPETITORS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.MaxCompetitors = n
		}
	}
}
