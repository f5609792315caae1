package provider

import (
	"fmt"

	"interpreter-gateway/internal/config"
	"interpreter-gateway/internal/models"
)

const defaultAppURL = "https://chinese-interpreter.netlify.app"

// Resolved is the fully materialized configuration for one provider: the
// endpoint, model, credentials and capability flags a request will use. It is
// derived from configuration and never mutated afterwards.
type Resolved struct {
	ProviderID            string
	ProviderName          string
	BaseURL               string
	Model                 string
	APIKey                string
	FallbackAPIKey        string
	SupportsSpeech        bool
	SupportsTranscription bool
	ExtraHeaders          map[string]string
}

// Supports reports whether the resolved provider declares the capability.
func (r Resolved) Supports(c Capability) bool {
	switch c {
	case CapabilityChat:
		return true
	case CapabilitySpeech:
		return r.SupportsSpeech
	case CapabilityTranscription:
		return r.SupportsTranscription
	default:
		return false
	}
}

// HasCredential reports whether a primary credential is configured.
func (r Resolved) HasCredential() bool {
	return r.APIKey != ""
}

// Resolve materializes a provider configuration. It is deterministic and has
// no side effects: equivalent input always yields an equivalent result.
//
// Selection is case-insensitive and falls back to the default provider when
// unset or unrecognized. Endpoint and model overrides win over the provider's
// declared defaults when present. The "custom" variant requires an endpoint
// override; its absence is a configuration error.
func Resolve(cfg config.ProviderConfig) (Resolved, error) {
	desc, ok := Lookup(cfg.Name)
	if !ok {
		desc = Default()
	}

	res := Resolved{
		ProviderID:            desc.ID,
		ProviderName:          desc.Name,
		BaseURL:               desc.BaseURL,
		Model:                 desc.DefaultModel,
		APIKey:                cfg.APIKey,
		FallbackAPIKey:        cfg.FallbackAPIKey,
		SupportsSpeech:        desc.SupportsSpeech,
		SupportsTranscription: desc.SupportsTranscription,
		ExtraHeaders:          cloneHeaders(desc.ExtraHeaders),
	}

	if desc.ID == "custom" {
		if cfg.CustomBaseURL != "" {
			res.BaseURL = cfg.CustomBaseURL
		}
		if cfg.CustomModel != "" {
			res.Model = cfg.CustomModel
		}
	}

	if cfg.BaseURL != "" {
		res.BaseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		res.Model = cfg.Model
	}

	if res.BaseURL == "" {
		return Resolved{}, models.NewError(models.ErrConfiguration,
			fmt.Sprintf("provider %q requires an endpoint override (CUSTOM_API_BASE_URL or API_BASE_URL)", desc.ID)).
			WithProvider(desc.ID)
	}

	if desc.ID == "openrouter" {
		appURL := cfg.AppURL
		if appURL == "" {
			appURL = defaultAppURL
		}
		res.ExtraHeaders["HTTP-Referer"] = appURL
	}

	return res, nil
}

func cloneHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
