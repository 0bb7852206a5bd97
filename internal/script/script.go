package script

import (
	"errors"
	"fmt"
)

// Side is one of the two debate participants.
type Side int

const (
	Pro Side = iota
	Con
)

func (s Side) String() string {
	if s == Con {
		return "Con"
	}
	return "Pro"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Pro {
		return Con
	}
	return Pro
}

// Phase is a macro-stage of the debate. Phases are ordered.
type Phase int

const (
	Opening Phase = iota
	CrossExamination
	FreeDebate
	Closing
)

var phaseLabels = map[Phase]string{
	Opening:          "Opening Statements",
	CrossExamination: "Cross-Examination",
	FreeDebate:       "Free Debate",
	Closing:          "Closing Statements",
}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return fmt.Sprintf("Phase %d", int(p))
}

func (p Phase) String() string { return p.Label() }

// TurnType is the rhetorical task of a single turn.
type TurnType int

const (
	TurnOpening TurnType = iota
	TurnQuestion
	TurnAnswer
	TurnFreeDebate
	TurnClosing
)

var turnLabels = map[TurnType]string{
	TurnOpening:    "Opening Statement",
	TurnQuestion:   "Question",
	TurnAnswer:     "Answer",
	TurnFreeDebate: "Free Debate",
	TurnClosing:    "Closing Statement",
}

// Label returns the default turn label for the turn type.
func (t TurnType) Label() string {
	if l, ok := turnLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("Turn %d", int(t))
}

func (t TurnType) String() string { return t.Label() }

// TurnDescriptor fixes who speaks, in which phase, and with what task.
type TurnDescriptor struct {
	Side     Side
	Phase    Phase
	TurnType TurnType
	Label    string
}

func turn(side Side, phase Phase, tt TurnType) TurnDescriptor {
	return TurnDescriptor{Side: side, Phase: phase, TurnType: tt, Label: tt.Label()}
}

// Script is an immutable ordered list of turns.
type Script struct {
	turns []TurnDescriptor
}

// New copies turns into a Script after validating their ordering.
func New(turns []TurnDescriptor) (Script, error) {
	cp := make([]TurnDescriptor, len(turns))
	copy(cp, turns)
	s := Script{turns: cp}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// MustNew is New that panics on an invalid script. Used for package-level tables.
func MustNew(turns []TurnDescriptor) Script {
	s, err := New(turns)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of turns, which is the total debate length.
func (s Script) Len() int { return len(s.turns) }

// At returns the turn at index i. It panics when i is out of range.
func (s Script) At(i int) TurnDescriptor { return s.turns[i] }

var (
	ErrEmpty          = errors.New("script: no turns")
	ErrPhaseOrder     = errors.New("script: phases out of order")
	ErrUnansweredTurn = errors.New("script: question not answered by the opponent")
)

// Validate checks the ordering the prompt framing relies on: phases run
// Opening, CrossExamination, FreeDebate, Closing without going back, and every
// question is immediately followed by the opponent's answer. Short scripts
// that skip phases are allowed.
func (s Script) Validate() error {
	if len(s.turns) == 0 {
		return ErrEmpty
	}
	for i, t := range s.turns {
		if i > 0 && t.Phase < s.turns[i-1].Phase {
			return fmt.Errorf("%w: turn %d (%s) follows %s", ErrPhaseOrder, i, t.Phase, s.turns[i-1].Phase)
		}
		if t.TurnType != TurnQuestion {
			continue
		}
		if i+1 >= len(s.turns) {
			return fmt.Errorf("%w: turn %d is the last turn", ErrUnansweredTurn, i)
		}
		next := s.turns[i+1]
		if next.TurnType != TurnAnswer || next.Side != t.Side.Opponent() {
			return fmt.Errorf("%w: turn %d", ErrUnansweredTurn, i)
		}
	}
	return nil
}

// crossExamRound is one round of cross-examination: Con asks Pro, then Pro asks Con.
func crossExamRound() []TurnDescriptor {
	return []TurnDescriptor{
		turn(Con, CrossExamination, TurnQuestion),
		turn(Pro, CrossExamination, TurnAnswer),
		turn(Pro, CrossExamination, TurnQuestion),
		turn(Con, CrossExamination, TurnAnswer),
	}
}

func defaultTurns() []TurnDescriptor {
	turns := []TurnDescriptor{
		turn(Pro, Opening, TurnOpening),
		turn(Con, Opening, TurnOpening),
	}
	for range 3 {
		turns = append(turns, crossExamRound()...)
	}
	turns = append(turns,
		turn(Pro, FreeDebate, TurnFreeDebate),
		turn(Con, FreeDebate, TurnFreeDebate),
		turn(Pro, FreeDebate, TurnFreeDebate),
		turn(Con, FreeDebate, TurnFreeDebate),
		turn(Con, Closing, TurnClosing),
		turn(Pro, Closing, TurnClosing),
	)
	return turns
}

var defaultScript = MustNew(defaultTurns())

// Default returns the reference 20-turn script.
func Default() Script { return defaultScript }
