package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"interpreter-gateway/internal/interpreter"
)

// SnapshotName is the fixed key the single persisted blob is stored under.
const SnapshotName = "chineseInterpreterSession.json"

// Snapshot is the persisted form of a session store: the setup, every mode's
// history and the budget counter. There is no versioning; a blob missing
// required fields is treated as absent on load.
type Snapshot struct {
	Settings     Settings          `json:"settings"`
	Messages     map[string][]Turn `json:"messages"`
	MessageCount int               `json:"messageCount"`
}

// Snapshot captures the store's current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	messages := make(map[string][]Turn, len(st.sessions))
	for mode, sess := range st.sessions {
		messages[mode.String()] = sess.Turns()
	}
	return Snapshot{
		Settings:     st.settings,
		Messages:     messages,
		MessageCount: st.count,
	}
}

func (s Snapshot) validate() error {
	if s.Settings.PersonaID == "" || s.Settings.ScenarioID == "" || s.Settings.UserModeID == "" {
		return errors.New("snapshot settings are incomplete")
	}
	if s.Messages == nil {
		return errors.New("snapshot has no message histories")
	}
	if s.MessageCount < 0 || s.MessageCount > MaxMessages {
		return fmt.Errorf("snapshot message count %d out of range", s.MessageCount)
	}
	return nil
}

// Restore rebuilds a store from a snapshot: system instructions are
// recomposed from the settings and each persisted history replaces the
// seeded one. Malformed snapshots fail closed.
func Restore(snap Snapshot) (*Store, error) {
	if err := snap.validate(); err != nil {
		return nil, err
	}

	st, err := NewStore(snap.Settings)
	if err != nil {
		return nil, err
	}

	for name, turns := range snap.Messages {
		mode, err := interpreter.ParseMode(name)
		if err != nil {
			return nil, err
		}
		if len(turns) == 0 {
			continue
		}
		sess := st.sessions[mode]
		sess.turns = append([]Turn(nil), turns...)
	}
	st.count = snap.MessageCount
	return st, nil
}

// FileStore persists the snapshot blob under a fixed name in a directory,
// standing in for the browser's local storage.
type FileStore struct {
	dir string
}

// NewFileStore creates a snapshot store rooted at dir.
func NewFileStore(dir string) FileStore {
	return FileStore{dir: dir}
}

func (f FileStore) path() string {
	return filepath.Join(f.dir, SnapshotName)
}

// Save writes the snapshot, replacing any previous one.
func (f FileStore) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(f.path(), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. Absent or malformed data yields ok=false rather
// than an error: a broken blob is the same as no blob.
func (f FileStore) Load() (Snapshot, bool) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	if err := snap.validate(); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Delete removes the persisted snapshot if present.
func (f FileStore) Delete() error {
	err := os.Remove(f.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
