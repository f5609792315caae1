package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interpreter-gateway/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("openai", srv.URL, "gpt-4o-mini", "sk-test-credential-0000", nil, srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func userMessage(content string) []models.Message {
	return []models.Message{{Role: models.RoleUser, Content: content}}
}

func TestChat_ParsesAssistantText(t *testing.T) {
	var got struct {
		Model       string           `json:"model"`
		Messages    []models.Message `json:"messages"`
		Temperature float64          `json:"temperature"`
		Stream      bool             `json:"stream"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-credential-0000", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"你好"},"finish_reason":"stop"}]}`)
	})

	content, err := c.Chat(context.Background(), userMessage("hello"), 0.7)
	require.NoError(t, err)
	assert.Equal(t, "你好", content)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.False(t, got.Stream)
}

func TestChat_EmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cmpl-1","choices":[]}`)
	})

	_, err := c.Chat(context.Background(), userMessage("hello"), 0.7)
	require.Error(t, err)
	assert.Equal(t, models.ErrUpstream, models.CodeOf(err))
}

func TestChat_APIErrorWithoutCredentialLeak(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	})

	_, err := c.Chat(context.Background(), userMessage("hello"), 0.7)
	require.Error(t, err)
	assert.Equal(t, models.ErrUpstream, models.CodeOf(err))
	assert.Contains(t, err.Error(), "Incorrect API key provided")
	assert.NotContains(t, err.Error(), "sk-test-credential-0000")
}

func TestChat_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "upstream offline")
	})

	_, err := c.Chat(context.Background(), userMessage("hello"), 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream offline")
}

func TestChatStream_AssemblesDeltas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"id\":\"cmpl-1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"你\"}}]}\n\n")
		io.WriteString(w, "data: {\"id\":\"cmpl-1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"好\"}}]}\n\n")
		io.WriteString(w, "data: {\"id\":\"cmpl-1\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	})

	ch, err := c.ChatStream(context.Background(), userMessage("hello"), 0.7)
	require.NoError(t, err)

	var text string
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		text += chunk.Content
	}
	assert.Equal(t, "你好", text)
}

func TestChatStream_UpstreamErrorBeforeStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	})

	_, err := c.ChatStream(context.Background(), userMessage("hello"), 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestChatStream_MalformedChunkTerminates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		io.WriteString(w, "data: {not json\n\n")
	})

	ch, err := c.ChatStream(context.Background(), userMessage("hello"), 0.7)
	require.NoError(t, err)

	var chunks []models.StreamChunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	require.Error(t, last.Err)
	assert.Equal(t, models.ErrUpstream, models.CodeOf(last.Err))
}

func TestSpeech_ReturnsAudioBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		var payload struct {
			Model          string `json:"model"`
			Voice          string `json:"voice"`
			Input          string `json:"input"`
			ResponseFormat string `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "tts-1", payload.Model)
		assert.Equal(t, "nova", payload.Voice)
		assert.Equal(t, "你好", payload.Input)
		assert.Equal(t, "mp3", payload.ResponseFormat)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-mp3-bytes"))
	})

	result, err := c.Speech(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-mp3-bytes"), result.Audio)
	assert.Equal(t, "audio/mpeg", result.ContentType)
}

func TestTranscribe_SendsMultipartForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "zh", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "audio.webm", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("webm-audio"), data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"洗手间在哪里"}`)
	})

	text, err := c.Transcribe(context.Background(), []byte("webm-audio"), "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "洗手间在哪里", text)
}

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	_, err := New("openai", "", "gpt-4o-mini", "sk-key", nil, http.DefaultClient, nil)
	assert.Error(t, err)
}

func TestNew_ExtraHeadersApplied(t *testing.T) {
	var referer, title string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	t.Cleanup(srv.Close)

	headers := map[string]string{
		"HTTP-Referer": "https://chinese-interpreter.netlify.app",
		"X-Title":      "Chinese Interpreter",
	}
	c, err := New("openrouter", srv.URL, "some/model", "sk-key", headers, srv.Client(), nil)
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), userMessage("hi"), 0.7)
	require.NoError(t, err)
	assert.Equal(t, "https://chinese-interpreter.netlify.app", referer)
	assert.Equal(t, "Chinese Interpreter", title)
}
