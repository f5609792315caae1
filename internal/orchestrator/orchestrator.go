package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"interpreter-gateway/internal/interpreter"
	"interpreter-gateway/internal/models"
	"interpreter-gateway/internal/session"
)

const defaultTemperature = 0.7

// ErrNotStarted marks an operation attempted before a session setup exists.
var ErrNotStarted = errors.New("no active session; start one first")

// ErrRequestInFlight marks a second send to a mode whose previous request has
// not resolved yet. Sends to different modes are independent.
var ErrRequestInFlight = errors.New("a request for this mode is already in flight")

// Orchestrator owns the per-mode sessions, enforces the message budget and
// reconciles gateway responses into conversation state. It is the in-process
// counterpart of the browser client.
type Orchestrator struct {
	gw        Gateway
	snapshots session.FileStore
	log       *zap.Logger
	streaming bool

	mu       sync.Mutex
	store    *session.Store
	inflight map[interpreter.Mode]bool
}

// New creates an orchestrator. When streaming is true, sends use the
// gateway's event-stream transport; otherwise the whole-body one. The final
// assembled text is identical either way.
func New(gw Gateway, snapshots session.FileStore, streaming bool, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		gw:        gw,
		snapshots: snapshots,
		log:       log,
		streaming: streaming,
		inflight:  make(map[interpreter.Mode]bool),
	}
}

// Start creates fresh sessions for the given setup, replacing any previous
// state and resetting the budget counter.
func (o *Orchestrator) Start(settings session.Settings) error {
	store, err := session.NewStore(settings)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.store = store
	o.mu.Unlock()
	o.log.Info("session started",
		zap.String("persona", settings.PersonaID),
		zap.String("scenario", settings.ScenarioID),
		zap.String("userMode", settings.UserModeID))
	return nil
}

// Started reports whether a session setup exists.
func (o *Orchestrator) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.store != nil
}

// Send submits a user turn for the given mode and returns the assistant
// text. The budget is checked before the turn is constructed; exhaustion is
// surfaced as ErrBudgetExhausted without any network call. On gateway
// failure the history keeps only the user turn and the error propagates.
// onDelta, when non-nil, observes incremental deltas during streaming.
func (o *Orchestrator) Send(ctx context.Context, mode interpreter.Mode, text string, onDelta func(string)) (string, error) {
	o.mu.Lock()
	if o.store == nil {
		o.mu.Unlock()
		return "", ErrNotStarted
	}
	if o.inflight[mode] {
		o.mu.Unlock()
		return "", ErrRequestInFlight
	}
	o.inflight[mode] = true
	store := o.store
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.inflight, mode)
		o.mu.Unlock()
	}()

	if err := store.BeginTurn(mode, text); err != nil {
		return "", err
	}
	messages := store.Session(mode).Messages()

	reply, err := o.complete(ctx, messages, onDelta)
	if err != nil {
		o.log.Warn("send failed", zap.Stringer("mode", mode), zap.Error(err))
		return "", err
	}

	store.CompleteTurn(mode, reply)
	return reply, nil
}

func (o *Orchestrator) complete(ctx context.Context, messages []models.Message, onDelta func(string)) (string, error) {
	if !o.streaming {
		content, err := o.gw.Chat(ctx, messages, defaultTemperature)
		if err != nil {
			return "", err
		}
		if onDelta != nil {
			onDelta(content)
		}
		return content, nil
	}

	ch, err := o.gw.ChatStream(ctx, messages, defaultTemperature)
	if err != nil {
		return "", err
	}
	return assemble(ch, onDelta)
}

// Speak synthesizes assistant text into audio via the gateway.
func (o *Orchestrator) Speak(ctx context.Context, text string) (models.SpeechResult, error) {
	return o.gw.Speak(ctx, text)
}

// Transcribe converts recorded audio into text via the gateway.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return o.gw.Transcribe(ctx, audio, mimeType)
}

// History returns the turn history for one mode.
func (o *Orchestrator) History(mode interpreter.Mode) ([]session.Turn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.store == nil {
		return nil, ErrNotStarted
	}
	return o.store.Session(mode).Turns(), nil
}

// Remaining returns how many sends the budget still allows.
func (o *Orchestrator) Remaining() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.store == nil {
		return 0
	}
	return o.store.Remaining()
}

// Clear resets one mode's history, leaving the other modes and the budget
// counter untouched.
func (o *Orchestrator) Clear(mode interpreter.Mode) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.store == nil {
		return ErrNotStarted
	}
	o.store.Clear(mode)
	return nil
}

// NewSession discards all histories and settings and resets the budget. The
// persisted snapshot is untouched until an explicit Save.
func (o *Orchestrator) NewSession() {
	o.mu.Lock()
	o.store = nil
	o.mu.Unlock()
	o.log.Info("session discarded")
}

// Save persists the current state as the named snapshot blob.
func (o *Orchestrator) Save() error {
	o.mu.Lock()
	store := o.store
	o.mu.Unlock()
	if store == nil {
		return ErrNotStarted
	}
	if err := o.snapshots.Save(store.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load replaces the current state with the persisted snapshot. A missing or
// malformed snapshot yields ok=false and leaves the current state alone.
func (o *Orchestrator) Load() (bool, error) {
	snap, ok := o.snapshots.Load()
	if !ok {
		return false, nil
	}
	store, err := session.Restore(snap)
	if err != nil {
		return false, nil
	}
	o.mu.Lock()
	o.store = store
	o.mu.Unlock()
	return true, nil
}
