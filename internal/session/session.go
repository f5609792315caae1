package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"interpreter-gateway/internal/interpreter"
	"interpreter-gateway/internal/models"
)

// MaxMessages caps user-submitted turns across all conversation modes of one
// session.
const MaxMessages = 20

// ErrBudgetExhausted marks a send attempt after the message budget ran out.
// It is distinct from network failure so the operator sees the boundary
// condition, not an error to retry.
var ErrBudgetExhausted = errors.New("message budget exhausted")

// Turn is one message in a session history.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the ordered history of one conversation mode. The first turn
// is always the rendered system instruction and is never removed.
type Session struct {
	systemPrompt string
	turns        []Turn
}

func newSession(systemPrompt string) *Session {
	s := &Session{systemPrompt: systemPrompt}
	s.turns = []Turn{newTurn(models.RoleSystem, systemPrompt)}
	return s
}

func newTurn(role, content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// SystemPrompt returns the rendered system instruction.
func (s *Session) SystemPrompt() string {
	return s.systemPrompt
}

// AppendUser appends a user turn before a request is sent.
func (s *Session) AppendUser(content string) Turn {
	t := newTurn(models.RoleUser, content)
	s.turns = append(s.turns, t)
	return t
}

// AppendAssistant appends an assistant turn after a successful response.
func (s *Session) AppendAssistant(content string) Turn {
	t := newTurn(models.RoleAssistant, content)
	s.turns = append(s.turns, t)
	return t
}

// Turns returns a copy of the history.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns including the system instruction.
func (s *Session) Len() int {
	return len(s.turns)
}

// Messages converts the history into the wire shape sent upstream.
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, 0, len(s.turns))
	for _, t := range s.turns {
		out = append(out, models.Message{Role: t.Role, Content: t.Content})
	}
	return out
}

func (s *Session) clear() {
	s.turns = []Turn{newTurn(models.RoleSystem, s.systemPrompt)}
}

// Settings records the persona/scenario/user-mode combination a session
// store was created from.
type Settings struct {
	PersonaID  string `json:"interpreterId"`
	ScenarioID string `json:"scenarioId"`
	UserModeID string `json:"userModeId"`
}

// Store holds one session per conversation mode plus the shared message
// budget counter. Mutation is guarded so concurrent sends to different modes
// stay independent.
type Store struct {
	mu       sync.Mutex
	settings Settings
	sessions map[interpreter.Mode]*Session
	count    int
}

// NewStore composes the system instruction for every conversation mode and
// seeds each history with it. Unknown catalog ids are an error.
func NewStore(settings Settings) (*Store, error) {
	persona, ok := interpreter.PersonaByID(settings.PersonaID)
	if !ok {
		return nil, fmt.Errorf("unknown persona %q", settings.PersonaID)
	}
	scenario, ok := interpreter.ScenarioByID(settings.ScenarioID)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", settings.ScenarioID)
	}
	userMode, ok := interpreter.UserModeByID(settings.UserModeID)
	if !ok {
		return nil, fmt.Errorf("unknown user mode %q", settings.UserModeID)
	}

	sessions := make(map[interpreter.Mode]*Session, len(interpreter.Modes()))
	for _, mode := range interpreter.Modes() {
		prompt, err := interpreter.Compose(mode, persona, scenario, userMode)
		if err != nil {
			return nil, err
		}
		sessions[mode] = newSession(prompt)
	}

	return &Store{settings: settings, sessions: sessions}, nil
}

// Settings returns the setup the store was created from.
func (st *Store) Settings() Settings {
	return st.settings
}

// Session returns the session for the given mode.
func (st *Store) Session(mode interpreter.Mode) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[mode]
}

// MessageCount returns how many user turns have been submitted.
func (st *Store) MessageCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.count
}

// Remaining returns how many user turns the budget still allows.
func (st *Store) Remaining() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return MaxMessages - st.count
}

// BeginTurn consumes one unit of the message budget and appends the user
// turn to the mode's history. It fails with ErrBudgetExhausted, appending
// nothing, once the budget is spent.
func (st *Store) BeginTurn(mode interpreter.Mode, content string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.count >= MaxMessages {
		return ErrBudgetExhausted
	}
	st.count++
	st.sessions[mode].AppendUser(content)
	return nil
}

// CompleteTurn appends the assistant turn after a successful response. A
// failed request never reaches this point, so history never holds an error
// placeholder.
func (st *Store) CompleteTurn(mode interpreter.Mode, content string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[mode].AppendAssistant(content)
}

// Clear resets one mode's history to just its system instruction. Other
// modes and the budget counter are untouched.
func (st *Store) Clear(mode interpreter.Mode) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[mode].clear()
}
