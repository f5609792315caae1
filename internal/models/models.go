package models

// Turn roles in a conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single conversational message sent to the upstream model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamChunk carries one incremental text delta of a streamed chat response.
// A chunk with a non-nil Err terminates the stream.
type StreamChunk struct {
	Content string
	Err     error
}

// SpeechResult holds synthesized audio returned by a speech-capable provider.
type SpeechResult struct {
	Audio       []byte
	ContentType string
}
