package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"interpreter-gateway/internal/models"
)

const (
	contentTypeJSON = "application/json"
	userAgent       = "interpreter-gateway/0.1"

	speechModel        = "tts-1"
	speechVoice        = "nova"
	speechFormat       = "mp3"
	speechContentType  = "audio/mpeg"
	transcriptionModel = "whisper-1"
	transcriptionLang  = "zh"
)

// Client talks to one OpenAI-compatible API endpoint. It covers the three
// capabilities the gateway needs: chat completion (whole-body and streamed),
// speech synthesis and audio transcription.
type Client struct {
	name          string
	apiKey        string
	model         string
	headers       map[string]string
	client        *http.Client
	log           *zap.Logger
	chatURL       string
	speechURL     string
	transcribeURL string
}

// New creates a client for the given provider endpoint.
func New(name, baseURL, model, apiKey string, headers map[string]string, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("http client must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("base url must not be empty")
	}

	return &Client{
		name:          name,
		apiKey:        apiKey,
		model:         model,
		headers:       headers,
		client:        httpClient,
		log:           log,
		chatURL:       baseURL + "/chat/completions",
		speechURL:     baseURL + "/audio/speech",
		transcribeURL: baseURL + "/audio/transcriptions",
	}, nil
}

// Name returns the provider name the client was built for.
func (c *Client) Name() string {
	return c.name
}

// Chat performs a whole-body chat completion and returns the assistant text.
func (c *Client) Chat(ctx context.Context, messages []models.Message, temperature float64) (string, error) {
	payload := chatPayload{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}

	httpReq, err := c.newJSONRequest(ctx, c.chatURL, payload)
	if err != nil {
		return "", err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", c.upstreamErr("chat request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return "", c.parseAPIError(httpResp)
	}

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", c.upstreamErr("decode chat response", err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewError(models.ErrUpstream, "response did not include choices").WithProvider(c.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatStream performs a streamed chat completion. Deltas arrive on the
// returned channel; a chunk with Err set terminates the stream. The channel
// is closed when the upstream signals completion.
func (c *Client) ChatStream(ctx context.Context, messages []models.Message, temperature float64) (<-chan models.StreamChunk, error) {
	payload := chatPayload{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      true,
	}

	httpReq, err := c.newJSONRequest(ctx, c.chatURL, payload)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, c.upstreamErr("chat stream request failed", err)
	}
	if httpResp.StatusCode >= 400 {
		defer httpResp.Body.Close()
		return nil, c.parseAPIError(httpResp)
	}

	ch := make(chan models.StreamChunk)
	go func() {
		defer httpResp.Body.Close()
		defer close(ch)

		reader := bufio.NewReader(httpResp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					ch <- models.StreamChunk{Err: c.upstreamErr("read stream", err)}
				}
				return
			}
			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var resp streamResponse
			if err := json.Unmarshal([]byte(data), &resp); err != nil {
				ch <- models.StreamChunk{Err: c.upstreamErr("decode stream chunk", err)}
				return
			}
			for _, choice := range resp.Choices {
				if choice.Delta.Content != "" {
					ch <- models.StreamChunk{Content: choice.Delta.Content}
				}
			}
		}
	}()
	return ch, nil
}

// Speech synthesizes text into compressed audio using a fixed voice.
func (c *Client) Speech(ctx context.Context, text string) (models.SpeechResult, error) {
	payload := speechPayload{
		Model:          speechModel,
		Voice:          speechVoice,
		Input:          text,
		ResponseFormat: speechFormat,
	}

	httpReq, err := c.newJSONRequest(ctx, c.speechURL, payload)
	if err != nil {
		return models.SpeechResult{}, err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return models.SpeechResult{}, c.upstreamErr("speech request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return models.SpeechResult{}, c.parseAPIError(httpResp)
	}

	audio, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return models.SpeechResult{}, c.upstreamErr("read audio body", err)
	}
	return models.SpeechResult{Audio: audio, ContentType: speechContentType}, nil
}

// Transcribe uploads audio as a named multipart file and returns the
// recognized text. The target language is fixed.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write multipart file: %w", err)
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", fmt.Errorf("write multipart field: %w", err)
	}
	if err := writer.WriteField("language", transcriptionLang); err != nil {
		return "", fmt.Errorf("write multipart field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.transcribeURL, &body)
	if err != nil {
		return "", fmt.Errorf("construct request: %w", err)
	}
	c.setCommonHeaders(httpReq)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", c.upstreamErr("transcription request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return "", c.parseAPIError(httpResp)
	}

	var resp transcriptionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", c.upstreamErr("decode transcription response", err)
	}
	return resp.Text, nil
}

func (c *Client) newJSONRequest(ctx context.Context, url string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", contentTypeJSON)
	return req, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) upstreamErr(msg string, cause error) error {
	c.log.Debug("upstream failure", zap.String("provider", c.name), zap.String("op", msg), zap.Error(cause))
	return models.NewError(models.ErrUpstream, msg).WithProvider(c.name).WithCause(cause)
}

type chatPayload struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	Stream      bool             `json:"stream,omitempty"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int            `json:"index"`
	Message      models.Message `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type streamResponse struct {
	ID      string         `json:"id"`
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Index        int            `json:"index"`
	Delta        models.Message `json:"delta"`
	FinishReason string         `json:"finish_reason"`
}

type speechPayload struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// parseAPIError normalizes a non-2xx upstream response. The credential never
// appears in the resulting message.
func (c *Client) parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return models.NewError(models.ErrUpstream,
			fmt.Sprintf("upstream status %d and unreadable body", resp.StatusCode)).
			WithProvider(c.name).WithCause(err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return models.NewError(models.ErrUpstream, apiErr.Error.Message).WithProvider(c.name)
	}
	return models.NewError(models.ErrUpstream,
		fmt.Sprintf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))).
		WithProvider(c.name)
}
