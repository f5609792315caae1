package provider

import (
	"sort"
	"strings"
)

// Capability names one operation a provider may support.
type Capability string

const (
	CapabilityChat          Capability = "chat completion"
	CapabilitySpeech        Capability = "speech synthesis"
	CapabilityTranscription Capability = "transcription"
)

// DefaultProviderID is the capability-complete provider used when no
// selection is configured and as the fallback target for audio capabilities.
const DefaultProviderID = "openai"

// Descriptor describes one provider preset. Descriptors are immutable and the
// set is fixed at process start; no dynamic registration exists.
type Descriptor struct {
	ID                    string
	Name                  string
	BaseURL               string
	DefaultModel          string
	SupportsSpeech        bool
	SupportsTranscription bool
	ExtraHeaders          map[string]string
}

// Supports reports whether the descriptor declares the capability.
func (d Descriptor) Supports(c Capability) bool {
	switch c {
	case CapabilityChat:
		return true
	case CapabilitySpeech:
		return d.SupportsSpeech
	case CapabilityTranscription:
		return d.SupportsTranscription
	default:
		return false
	}
}

var registry = map[string]Descriptor{
	"openai": {
		ID:                    "openai",
		Name:                  "OpenAI",
		BaseURL:               "https://api.openai.com/v1",
		DefaultModel:          "gpt-4o-mini",
		SupportsSpeech:        true,
		SupportsTranscription: true,
	},
	"deepseek": {
		ID:           "deepseek",
		Name:         "Deepseek",
		BaseURL:      "https://api.deepseek.com",
		DefaultModel: "deepseek-chat",
	},
	"openrouter": {
		ID:           "openrouter",
		Name:         "OpenRouter",
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "openai/gpt-4o-mini",
		ExtraHeaders: map[string]string{
			"X-Title": "Chinese Interpreter for Chengdu",
		},
	},
	"custom": {
		ID:           "custom",
		Name:         "Custom Provider",
		DefaultModel: "gpt-4o-mini",
	},
}

// Lookup returns the descriptor for the given provider id. Lookup is
// case-insensitive; ok is false for unknown ids.
func Lookup(id string) (Descriptor, bool) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(id))]
	return d, ok
}

// Default returns the descriptor for the built-in default provider.
func Default() Descriptor {
	return registry[DefaultProviderID]
}

// Descriptors returns the full preset table ordered by id.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
