package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"interpreter-gateway/internal/config"
	"interpreter-gateway/internal/provider"
)

// ConfigReport is the diagnostic returned by GET /api/config-check. It never
// contains a credential in full.
type ConfigReport struct {
	Status          string           `json:"status"`
	Timestamp       string           `json:"timestamp"`
	Provider        providerReport   `json:"provider"`
	APIKeys         apiKeyReport     `json:"apiKeys"`
	Recommendations []Recommendation `json:"recommendations"`
	Health          healthReport     `json:"health"`
}

type providerReport struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	BaseURL         string `json:"baseURL"`
	Model           string `json:"model"`
	SupportsTTS     bool   `json:"supportsTTS"`
	SupportsWhisper bool   `json:"supportsWhisper"`
}

type apiKeyReport struct {
	HasAPIKey       bool   `json:"hasApiKey"`
	APIKeyPreview   string `json:"apiKeyPreview,omitempty"`
	HasFallback     bool   `json:"hasOpenAIFallback"`
	FallbackPreview string `json:"openAIKeyPreview,omitempty"`
}

// Recommendation is one actionable configuration finding.
type Recommendation struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

type healthReport struct {
	Configured bool `json:"configured"`
	Ready      bool `json:"ready"`
	Warnings   int  `json:"warnings"`
	Errors     int  `json:"errors"`
}

func (s *Server) handleConfigCheck(c echo.Context) error {
	report := BuildConfigReport(s.cfg, s.router.Resolved(), s.router.HasFallback())
	return c.JSON(http.StatusOK, report)
}

// BuildConfigReport assembles the diagnostic for a resolved configuration.
// Shared by the HTTP endpoint and the check CLI command.
func BuildConfigReport(cfg config.Config, res provider.Resolved, hasFallback bool) ConfigReport {
	report := ConfigReport{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Provider: providerReport{
			Name:            res.ProviderName,
			Type:            res.ProviderID,
			BaseURL:         res.BaseURL,
			Model:           res.Model,
			SupportsTTS:     res.SupportsSpeech,
			SupportsWhisper: res.SupportsTranscription,
		},
		APIKeys: apiKeyReport{
			HasAPIKey:       res.APIKey != "",
			APIKeyPreview:   MaskCredential(res.APIKey),
			HasFallback:     res.FallbackAPIKey != "",
			FallbackPreview: MaskCredential(res.FallbackAPIKey),
		},
		Recommendations: []Recommendation{},
	}

	if res.APIKey == "" {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Severity: "CRITICAL",
			Message:  "API_KEY is not set.",
			Action:   "Set the API_KEY environment variable for the selected provider.",
		})
	}
	if (!res.SupportsSpeech || !res.SupportsTranscription) && !hasFallback {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Severity: "WARNING",
			Message:  "Selected provider lacks speech support and no fallback credential is configured; TTS and transcription will fail.",
			Action:   "Set OPENAI_API_KEY to enable the audio fallback client.",
		})
	}
	if res.ProviderID == "openrouter" && cfg.Provider.AppURL == "" {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Severity: "WARNING",
			Message:  "APP_URL is not set for OpenRouter; using the default value.",
			Action:   "Set the APP_URL environment variable to your site URL.",
		})
	}

	var warnings, errs int
	for _, r := range report.Recommendations {
		switch r.Severity {
		case "WARNING":
			warnings++
		case "CRITICAL":
			errs++
		}
	}
	report.Health = healthReport{
		Configured: res.APIKey != "",
		Ready:      res.APIKey != "" && res.BaseURL != "",
		Warnings:   warnings,
		Errors:     errs,
	}
	return report
}

// MaskCredential renders a credential preview that shows only the first 7
// and last 4 characters; short values collapse to "***" and empty ones to
// the empty string.
func MaskCredential(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 12 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
