package orchestrator

import (
	"strings"

	"interpreter-gateway/internal/models"
)

// assemble drains a stream of chunks into the final assistant text.
// Whole-body and streamed transports feed the same path: a whole-body reply
// is just a stream with a single delta. onDelta, when non-nil, observes each
// delta as it arrives for incremental display.
//
// On a stream error the accumulated text is discarded and the error
// returned; the caller must not append an assistant turn.
func assemble(ch <-chan models.StreamChunk, onDelta func(string)) (string, error) {
	var b strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Content == "" {
			continue
		}
		b.WriteString(chunk.Content)
		if onDelta != nil {
			onDelta(chunk.Content)
		}
	}
	return b.String(), nil
}
