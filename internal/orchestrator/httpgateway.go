package orchestrator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"interpreter-gateway/internal/models"
)

// HTTPGateway talks to the gateway's HTTP endpoints. It is the network-side
// implementation of Gateway, decoding both the whole-body and event-stream
// chat transports.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPGateway creates a gateway client rooted at baseURL.
func NewHTTPGateway(baseURL string, client *http.Client, log *zap.Logger) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log,
	}
}

type chatBody struct {
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	Stream      bool             `json:"stream,omitempty"`
}

// Chat performs a whole-body chat completion.
func (g *HTTPGateway) Chat(ctx context.Context, messages []models.Message, temperature float64) (string, error) {
	resp, err := g.post(ctx, "/api/chat", chatBody{Messages: messages, Temperature: temperature})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", g.decodeError(resp)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", models.NewError(models.ErrUpstream, "decode chat response").WithCause(err)
	}
	return body.Content, nil
}

// ChatStream performs a streamed chat completion, decoding server-sent
// events. A transport read may split or join logical events; decoding is
// line-based so both cases reassemble correctly. The [DONE] sentinel is the
// authoritative end of stream.
func (g *HTTPGateway) ChatStream(ctx context.Context, messages []models.Message, temperature float64) (<-chan models.StreamChunk, error) {
	resp, err := g.post(ctx, "/api/chat", chatBody{Messages: messages, Temperature: temperature, Stream: true})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, g.decodeError(resp)
	}

	ch := make(chan models.StreamChunk)
	go func() {
		defer resp.Body.Close()
		defer close(ch)

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					ch <- models.StreamChunk{Err: models.NewError(models.ErrUpstream, "read event stream").WithCause(err)}
				}
				return
			}
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var event struct {
				Content string `json:"content"`
				Error   string `json:"error"`
			}
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				g.log.Debug("skipping unparseable stream event", zap.String("data", data))
				continue
			}
			if event.Error != "" {
				ch <- models.StreamChunk{Err: models.NewError(models.ErrUpstream, event.Error)}
				return
			}
			if event.Content != "" {
				ch <- models.StreamChunk{Content: event.Content}
			}
		}
	}()
	return ch, nil
}

// Speak requests speech synthesis, handling both the raw-binary and the
// base64-flagged JSON response shape.
func (g *HTTPGateway) Speak(ctx context.Context, text string) (models.SpeechResult, error) {
	resp, err := g.post(ctx, "/api/tts", map[string]string{"text": text})
	if err != nil {
		return models.SpeechResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.SpeechResult{}, g.decodeError(resp)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Audio       string `json:"audio"`
			Encoding    string `json:"encoding"`
			ContentType string `json:"contentType"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return models.SpeechResult{}, models.NewError(models.ErrUpstream, "decode audio response").WithCause(err)
		}
		audio, err := base64.StdEncoding.DecodeString(body.Audio)
		if err != nil {
			return models.SpeechResult{}, models.NewError(models.ErrUpstream, "decode base64 audio").WithCause(err)
		}
		return models.SpeechResult{Audio: audio, ContentType: body.ContentType}, nil
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SpeechResult{}, models.NewError(models.ErrUpstream, "read audio body").WithCause(err)
	}
	return models.SpeechResult{Audio: audio, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Transcribe uploads recorded audio as base64 and returns the recognized text.
func (g *HTTPGateway) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	payload := map[string]string{
		"audioData": base64.StdEncoding.EncodeToString(audio),
		"mimeType":  mimeType,
	}
	resp, err := g.post(ctx, "/api/transcribe", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", g.decodeError(resp)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", models.NewError(models.ErrUpstream, "decode transcription response").WithCause(err)
	}
	return body.Text, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, models.NewError(models.ErrUpstream, "gateway request failed").WithCause(err)
	}
	return resp, nil
}

// decodeError converts a gateway error body back into its taxonomy form.
func (g *HTTPGateway) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body struct {
		Error struct {
			Code    models.ErrorCode `json:"code"`
			Message string           `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		appErr := models.NewError(body.Error.Code, body.Error.Message)
		appErr.HTTPStatus = resp.StatusCode
		return appErr
	}
	return models.NewError(models.ErrUpstream,
		fmt.Sprintf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
}
