package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interpreter-gateway/internal/interpreter"
	"interpreter-gateway/internal/models"
)

func testSettings() Settings {
	return Settings{
		PersonaID:  "General Interpreter",
		ScenarioID: "restaurant",
		UserModeID: "traveler",
	}
}

func TestNewStore_SeedsSystemInstruction(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)

	for _, mode := range interpreter.Modes() {
		sess := st.Session(mode)
		require.Equal(t, 1, sess.Len())
		turns := sess.Turns()
		assert.Equal(t, models.RoleSystem, turns[0].Role)
		assert.Equal(t, sess.SystemPrompt(), turns[0].Content)
		assert.NotEmpty(t, turns[0].ID)
	}
}

func TestNewStore_UnknownIDs(t *testing.T) {
	_, err := NewStore(Settings{PersonaID: "nobody", ScenarioID: "restaurant", UserModeID: "traveler"})
	assert.Error(t, err)

	_, err = NewStore(Settings{PersonaID: "General Interpreter", ScenarioID: "moon", UserModeID: "traveler"})
	assert.Error(t, err)
}

func TestBeginAndCompleteTurn(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)

	require.NoError(t, st.BeginTurn(interpreter.ModeInterpreter, "Where is the bathroom?"))
	assert.Equal(t, 1, st.MessageCount())
	assert.Equal(t, 2, st.Session(interpreter.ModeInterpreter).Len())

	st.CompleteTurn(interpreter.ModeInterpreter, "洗手间在哪里?")
	turns := st.Session(interpreter.ModeInterpreter).Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, models.RoleUser, turns[1].Role)
	assert.Equal(t, models.RoleAssistant, turns[2].Role)
	assert.Equal(t, "洗手间在哪里?", turns[2].Content)
}

func TestBudget_SharedAcrossModes(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)

	modes := interpreter.Modes()
	for i := 0; i < MaxMessages; i++ {
		mode := modes[i%len(modes)]
		require.NoError(t, st.BeginTurn(mode, "hello"))
	}
	assert.Equal(t, 0, st.Remaining())

	err = st.BeginTurn(interpreter.ModeInterpreter, "one too many")
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, MaxMessages, st.MessageCount())
}

func TestBudget_ExhaustionAppendsNothing(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)

	for i := 0; i < MaxMessages; i++ {
		require.NoError(t, st.BeginTurn(interpreter.ModeConsultation, "q"))
	}
	before := st.Session(interpreter.ModeInterpreter).Len()

	require.ErrorIs(t, st.BeginTurn(interpreter.ModeInterpreter, "rejected"), ErrBudgetExhausted)
	assert.Equal(t, before, st.Session(interpreter.ModeInterpreter).Len())
}

func TestClear_IsolatedPerMode(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)

	require.NoError(t, st.BeginTurn(interpreter.ModeInterpreter, "a"))
	st.CompleteTurn(interpreter.ModeInterpreter, "b")
	require.NoError(t, st.BeginTurn(interpreter.ModeConsultation, "c"))

	st.Clear(interpreter.ModeInterpreter)

	assert.Equal(t, 1, st.Session(interpreter.ModeInterpreter).Len())
	assert.Equal(t, 2, st.Session(interpreter.ModeConsultation).Len())
	assert.Equal(t, 2, st.MessageCount(), "clear must not reset the budget counter")

	turns := st.Session(interpreter.ModeInterpreter).Turns()
	assert.Equal(t, models.RoleSystem, turns[0].Role)
}

func TestMessages_WireShape(t *testing.T) {
	st, err := NewStore(testSettings())
	require.NoError(t, err)
	require.NoError(t, st.BeginTurn(interpreter.ModeInterpreter, "hi"))

	msgs := st.Session(interpreter.ModeInterpreter).Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
}
