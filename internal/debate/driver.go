package debate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lorenzotomasdiez/crossfire/internal/prompt"
	"github.com/lorenzotomasdiez/crossfire/internal/script"
	"go.uber.org/zap"
)

// DefaultTurnDelay is the pause before each provider call.
const DefaultTurnDelay = time.Second

// Driver steps a debate through its script one turn at a time.
//
// At most one turn is in flight. Start and Reset bump an epoch, and a result
// that arrives for an older epoch is dropped without touching state.
type Driver struct {
	script script.Script
	gen    Generator
	delay  time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	id       string
	cfg      *Config
	position int
	entries  []Entry
	busy     bool
	lastErr  error
	epoch    uint64

	OnPhase     func(script.Phase)
	OnTurnStart func(script.TurnDescriptor, string)
	OnTurn      func(Entry)
	OnError     func(error)
}

// Option configures a Driver.
type Option func(*Driver)

// WithScript replaces the default 20-turn script.
func WithScript(s script.Script) Option {
	return func(d *Driver) { d.script = s }
}

// WithTurnDelay sets the pacing delay. Zero disables it.
func WithTurnDelay(delay time.Duration) Option {
	return func(d *Driver) { d.delay = delay }
}

// WithLogger sets the driver logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates an idle driver with no debate started.
func NewDriver(gen Generator, opts ...Option) *Driver {
	d := &Driver{
		script: script.Default(),
		gen:    gen,
		delay:  DefaultTurnDelay,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start resets the driver and begins a new debate with cfg.
func (d *Driver) Start(cfg Config) error {
	if err := validateShape(cfg); err != nil {
		return err
	}

	d.mu.Lock()
	d.resetLocked()
	d.cfg = &cfg
	d.id = uuid.NewString()
	id := d.id
	d.mu.Unlock()

	d.logger.Info("debate started",
		zap.String("debate_id", id),
		zap.String("topic", cfg.Topic),
		zap.String("pro_model", cfg.ProModel),
		zap.String("con_model", cfg.ConModel),
		zap.Int("turns", d.script.Len()),
	)
	return nil
}

// Reset returns the driver to Idle at position 0 with no config. Any turn
// still in flight is discarded when it completes.
func (d *Driver) Reset() {
	d.mu.Lock()
	id := d.id
	d.resetLocked()
	d.mu.Unlock()

	if id != "" {
		d.logger.Info("debate reset", zap.String("debate_id", id))
	}
}

func (d *Driver) resetLocked() {
	d.epoch++
	d.id = ""
	d.cfg = nil
	d.position = 0
	d.entries = nil
	d.busy = false
	d.lastErr = nil
}

// Snapshot returns a copy of the current state.
func (d *Driver) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := State{
		ID:       d.id,
		Position: d.position,
		Total:    d.script.Len(),
		Entries:  append([]Entry(nil), d.entries...),
		Busy:     d.busy,
		Status:   d.statusLocked(),
	}
	if d.cfg != nil {
		cfg := *d.cfg
		st.Config = &cfg
	}
	if d.lastErr != nil {
		st.LastError = d.lastErr.Error()
	}
	return st
}

func (d *Driver) statusLocked() Status {
	switch {
	case d.busy:
		return InFlight
	case d.lastErr != nil:
		return Failed
	case d.cfg != nil && d.position >= d.script.Len():
		return Finished
	}
	return Idle
}

// Next returns the descriptor of the turn Advance would run.
func (d *Driver) Next() (script.TurnDescriptor, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg == nil || d.busy || d.lastErr != nil || d.position >= d.script.Len() {
		return script.TurnDescriptor{}, false
	}
	return d.script.At(d.position), true
}

// Advance runs the turn at the current position. On success the entry is
// appended and the position moves forward. A provider failure moves the
// driver to Failed with the position unchanged; it is not retried.
func (d *Driver) Advance(ctx context.Context) (Entry, error) {
	d.mu.Lock()
	switch {
	case d.cfg == nil:
		d.mu.Unlock()
		return Entry{}, ErrNotStarted
	case d.busy:
		d.mu.Unlock()
		return Entry{}, ErrBusy
	case d.lastErr != nil || d.position >= d.script.Len():
		d.mu.Unlock()
		return Entry{}, ErrDebateOver
	}

	pos := d.position
	desc := d.script.At(pos)
	cfg := *d.cfg
	epoch := d.epoch
	id := d.id
	transcript := Render(d.entries)
	d.busy = true
	d.mu.Unlock()

	model := cfg.ModelFor(desc.Side)
	text := prompt.Build(prompt.Request{
		Topic:      cfg.Topic,
		Transcript: transcript,
		Side:       desc.Side,
		Phase:      desc.Phase,
		TurnType:   desc.TurnType,
	})

	log := d.logger.With(
		zap.String("debate_id", id),
		zap.Int("position", pos),
		zap.Stringer("side", desc.Side),
		zap.String("model", model),
	)

	if err := d.pause(ctx); err != nil {
		d.mu.Lock()
		if d.epoch == epoch {
			d.busy = false
		}
		d.mu.Unlock()
		return Entry{}, fmt.Errorf("debate: %w", err)
	}

	log.Debug("turn requested", zap.String("turn", desc.Label))
	start := time.Now()
	out, err := d.gen.Generate(ctx, model, text)
	elapsed := time.Since(start)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.epoch != epoch {
		log.Debug("stale turn result discarded")
		return Entry{}, ErrStale
	}
	d.busy = false

	if err != nil {
		d.lastErr = err
		log.Warn("turn failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return Entry{}, fmt.Errorf("debate: %s %s: %w", desc.Side, desc.Label, err)
	}

	entry := Entry{
		Side:      desc.Side,
		Text:      out,
		Model:     model,
		Phase:     desc.Phase,
		TurnLabel: desc.Label,
	}
	d.entries = append(d.entries, entry)
	d.position++
	log.Info("turn completed", zap.String("turn", desc.Label), zap.Duration("elapsed", elapsed))
	if d.position == d.script.Len() {
		log.Info("debate finished", zap.Int("entries", len(d.entries)))
	}
	return entry, nil
}

func (d *Driver) modelFor(side script.Side) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg == nil {
		return ""
	}
	return d.cfg.ModelFor(side)
}

func (d *Driver) pause(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run advances until the debate finishes, fails, or ctx is done. It returns
// nil once the last turn completes.
func (d *Driver) Run(ctx context.Context) error {
	lastPhase := script.Phase(-1)
	for {
		if next, ok := d.Next(); ok {
			if next.Phase != lastPhase {
				lastPhase = next.Phase
				if d.OnPhase != nil {
					d.OnPhase(next.Phase)
				}
			}
			if d.OnTurnStart != nil {
				d.OnTurnStart(next, d.modelFor(next.Side))
			}
		}

		entry, err := d.Advance(ctx)
		switch {
		case err == nil:
			if d.OnTurn != nil {
				d.OnTurn(entry)
			}
		case errors.Is(err, ErrDebateOver) && d.Snapshot().Status == Finished:
			return nil
		case errors.Is(err, ErrStale):
			return err
		default:
			if d.OnError != nil {
				d.OnError(err)
			}
			return err
		}
	}
}
