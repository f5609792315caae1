package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"interpreter-gateway/internal/models"
)

const defaultTemperature = 0.7

type chatRequest struct {
	Messages    []models.Message `json:"messages"`
	Temperature *float64         `json:"temperature"`
	Stream      bool             `json:"stream"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	if req.Messages == nil {
		return models.NewError(models.ErrInvalidInput, "Invalid messages format")
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = clampTemperature(*req.Temperature)
	}

	ctx := c.Request().Context()

	if req.Stream {
		return s.streamChat(c, req.Messages, temperature)
	}

	content, err := s.router.Chat(ctx, req.Messages, temperature)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"content": content})
}

// streamChat relays the upstream stream as server-sent events. The HTTP
// status is committed before the first delta, so a later upstream failure is
// reported in-band as a terminal error event instead of a status change.
func (s *Server) streamChat(c echo.Context, messages []models.Message, temperature float64) error {
	ctx := c.Request().Context()

	ch, err := s.router.ChatStream(ctx, messages, temperature)
	if err != nil {
		return err
	}

	resp := c.Response()
	header := resp.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for chunk := range ch {
		if chunk.Err != nil {
			writeSSEData(resp, map[string]string{"error": chunk.Err.Error()})
			resp.Flush()
			return nil
		}
		if chunk.Content == "" {
			continue
		}
		writeSSEData(resp, map[string]string{"content": chunk.Content})
		resp.Flush()
	}

	fmt.Fprint(resp, "data: [DONE]\n\n")
	resp.Flush()
	return nil
}

func writeSSEData(resp *echo.Response, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(resp, "data: %s\n\n", data)
}

func clampTemperature(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 2:
		return 2
	default:
		return t
	}
}

type ttsRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTTS(c echo.Context) error {
	var req ttsRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	if strings.TrimSpace(req.Text) == "" {
		return models.NewError(models.ErrInvalidInput, "Text is required")
	}

	result, err := s.router.Speech(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}

	// Transports that cannot carry binary bodies ask for the base64 shape.
	if strings.Contains(c.Request().Header.Get("Accept"), "application/json") {
		return c.JSON(http.StatusOK, map[string]string{
			"audio":       base64.StdEncoding.EncodeToString(result.Audio),
			"encoding":    "base64",
			"contentType": result.ContentType,
		})
	}

	return c.Blob(http.StatusOK, result.ContentType, result.Audio)
}

type transcribeRequest struct {
	AudioData string `json:"audioData"`
	MimeType  string `json:"mimeType"`
}

func (s *Server) handleTranscribe(c echo.Context) error {
	var req transcribeRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	if req.AudioData == "" {
		return models.NewError(models.ErrInvalidInput, "Audio data is required")
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		return models.NewError(models.ErrInvalidInput, "audioData is not valid base64").WithCause(err)
	}

	text, err := s.router.Transcribe(c.Request().Context(), audio, req.MimeType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}
