package debate

import (
	"context"
	"errors"
	"fmt"

	"github.com/lorenzotomasdiez/crossfire/internal/script"
)

// Config is the immutable setup of one debate.
type Config struct {
	Topic    string
	ProModel string
	ConModel string
}

// ModelFor returns the model that speaks for side.
func (c Config) ModelFor(side script.Side) string {
	if side == script.Con {
		return c.ConModel
	}
	return c.ProModel
}

// Entry is one completed turn.
type Entry struct {
	Side      script.Side
	Text      string
	Model     string
	Phase     script.Phase
	TurnLabel string
}

// Status summarises where a Driver is in its lifecycle.
type Status int

const (
	Idle Status = iota
	InFlight
	Finished
	Failed
)

func (s Status) String() string {
	switch s {
	case InFlight:
		return "in_flight"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	}
	return "idle"
}

// State is a point-in-time copy of the driver.
type State struct {
	ID        string
	Config    *Config
	Position  int
	Total     int
	Entries   []Entry
	Busy      bool
	LastError string
	Status    Status
}

// Generator produces the text of one turn. provider.Router satisfies it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ModelChecker reports whether a model can be selected before a debate starts.
type ModelChecker interface {
	CheckUsable(model string) error
}

var (
	ErrBusy       = errors.New("debate: a turn is already in flight")
	ErrDebateOver = errors.New("debate: debate is over, reset to start again")
	ErrNotStarted = errors.New("debate: no debate started")
	ErrStale      = errors.New("debate: result discarded after reset")
)

// ConfigurationError means the debate cannot start.
type ConfigurationError struct {
	Side   string
	Model  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Side == "" {
		return "debate: " + e.Reason
	}
	if e.Model == "" {
		return fmt.Sprintf("debate: %s side: %s", e.Side, e.Reason)
	}
	return fmt.Sprintf("debate: %s side (%s): %s", e.Side, e.Model, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
