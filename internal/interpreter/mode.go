package interpreter

import "fmt"

// Mode identifies one of the three fixed conversation contracts. The set is
// closed; switches over Mode are expected to be exhaustive.
type Mode int

const (
	// ModeInterpreter translates the user's utterance directly into Chinese
	// with a fixed three-section response shape.
	ModeInterpreter Mode = iota
	// ModeComprehension explains a Chinese utterance the user heard and
	// suggests responses.
	ModeComprehension
	// ModeConsultation gives free-form cultural guidance in the user's
	// native language.
	ModeConsultation
)

// Modes returns all conversation modes in display order.
func Modes() []Mode {
	return []Mode{ModeInterpreter, ModeComprehension, ModeConsultation}
}

// String returns the stable wire name of the mode, also used as the key in
// persisted snapshots.
func (m Mode) String() string {
	switch m {
	case ModeInterpreter:
		return "main"
	case ModeComprehension:
		return "chinese_input"
	case ModeConsultation:
		return "consultation"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a wire name back to its Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "main":
		return ModeInterpreter, nil
	case "chinese_input":
		return ModeComprehension, nil
	case "consultation":
		return ModeConsultation, nil
	default:
		return 0, fmt.Errorf("unknown conversation mode %q", name)
	}
}
