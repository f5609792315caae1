package router

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"interpreter-gateway/internal/models"
	"interpreter-gateway/internal/provider"
	"interpreter-gateway/internal/provider/openai"
)

const (
	defaultHTTPTimeout     = 60 * time.Second
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
)

// Router dispatches capability requests to the primary provider client or,
// for audio capabilities the primary lacks, to a fallback client targeting
// the default provider. The primary remains authoritative for chat.
type Router struct {
	resolved provider.Resolved
	primary  *openai.Client
	fallback *openai.Client
	log      *zap.Logger
}

// New constructs a router for the resolved configuration. A nil httpClient
// gets a default with sane timeouts. The fallback client is built only when
// the primary lacks an audio capability and a secondary credential exists.
func New(res provider.Resolved, httpClient *http.Client, log *zap.Logger) (*Router, error) {
	if httpClient == nil {
		httpClient = NewHTTPClient(defaultHTTPTimeout)
	}
	if log == nil {
		log = zap.NewNop()
	}

	rt := &Router{resolved: res, log: log}

	if res.HasCredential() {
		primary, err := openai.New(res.ProviderID, res.BaseURL, res.Model, res.APIKey, res.ExtraHeaders, httpClient, log)
		if err != nil {
			return nil, fmt.Errorf("initialise %s client: %w", res.ProviderID, err)
		}
		rt.primary = primary
	}

	if (!res.SupportsSpeech || !res.SupportsTranscription) && res.FallbackAPIKey != "" {
		def := provider.Default()
		fallback, err := openai.New(def.ID, def.BaseURL, def.DefaultModel, res.FallbackAPIKey, nil, httpClient, log)
		if err != nil {
			return nil, fmt.Errorf("initialise fallback client: %w", err)
		}
		rt.fallback = fallback
		log.Info("fallback client configured for audio capabilities",
			zap.String("primary", res.ProviderID),
			zap.String("fallback", def.ID))
	}

	return rt, nil
}

// Resolved exposes the configuration the router was built from.
func (r *Router) Resolved() provider.Resolved {
	return r.resolved
}

// HasFallback reports whether a secondary audio client is configured.
func (r *Router) HasFallback() bool {
	return r.fallback != nil
}

// Chat routes a whole-body chat completion to the primary provider.
func (r *Router) Chat(ctx context.Context, messages []models.Message, temperature float64) (string, error) {
	client, err := r.clientFor(provider.CapabilityChat)
	if err != nil {
		return "", err
	}
	return client.Chat(ctx, messages, temperature)
}

// ChatStream routes a streamed chat completion to the primary provider.
func (r *Router) ChatStream(ctx context.Context, messages []models.Message, temperature float64) (<-chan models.StreamChunk, error) {
	client, err := r.clientFor(provider.CapabilityChat)
	if err != nil {
		return nil, err
	}
	return client.ChatStream(ctx, messages, temperature)
}

// Speech routes speech synthesis to a synthesis-capable client.
func (r *Router) Speech(ctx context.Context, text string) (models.SpeechResult, error) {
	client, err := r.clientFor(provider.CapabilitySpeech)
	if err != nil {
		return models.SpeechResult{}, err
	}
	return client.Speech(ctx, text)
}

// Transcribe routes audio transcription to a transcription-capable client.
func (r *Router) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	client, err := r.clientFor(provider.CapabilityTranscription)
	if err != nil {
		return "", err
	}
	return client.Transcribe(ctx, audio, mimeType)
}

// clientFor implements the capability decision table. It fails before any
// network traffic when no credential is configured or when the capability is
// unsupported with no fallback in place.
func (r *Router) clientFor(c provider.Capability) (*openai.Client, error) {
	if r.primary == nil {
		return nil, models.NewError(models.ErrConfiguration,
			"API_KEY is not configured; set it in the environment").
			WithProvider(r.resolved.ProviderID)
	}
	if c == provider.CapabilityChat || r.resolved.Supports(c) {
		return r.primary, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, models.NewError(models.ErrUnsupportedCapability,
		fmt.Sprintf("provider %q does not support %s and no fallback credential is configured", r.resolved.ProviderID, c)).
		WithProvider(r.resolved.ProviderID)
}

// NewHTTPClient builds the shared upstream HTTP client.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
