package orchestrator

import (
	"context"

	"interpreter-gateway/internal/models"
)

// Gateway is the orchestrator's view of the API gateway. The HTTP client and
// test doubles both satisfy it.
type Gateway interface {
	// Chat performs a whole-body chat completion.
	Chat(ctx context.Context, messages []models.Message, temperature float64) (string, error)
	// ChatStream performs a streamed chat completion; the channel closes at
	// end of stream and a chunk with Err set terminates it.
	ChatStream(ctx context.Context, messages []models.Message, temperature float64) (<-chan models.StreamChunk, error)
	// Speak synthesizes text into audio.
	Speak(ctx context.Context, text string) (models.SpeechResult, error)
	// Transcribe converts recorded audio into text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
