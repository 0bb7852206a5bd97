package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"go.uber.org/zap"
)

// Generator produces one completion for one prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Factory builds a Generator bound to one API key.
type Factory func(apiKey string) Generator

// Router resolves a model id to its provider family and dispatches the call.
// The set of enabled families gates which models may be invoked at all.
type Router struct {
	registry  *models.Registry
	keys      models.KeySource
	factories map[models.Provider]Factory
	enabled   []models.Provider
	logger    *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithFactory registers the adapter factory for a provider family.
func WithFactory(p models.Provider, f Factory) Option {
	return func(r *Router) { r.factories[p] = f }
}

// WithEnabled replaces the set of invokable provider families.
func WithEnabled(providers ...models.Provider) Option {
	return func(r *Router) { r.enabled = append([]models.Provider(nil), providers...) }
}

// WithLogger sets the router logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// NewRouter returns a Router. Only Gemini is enabled unless WithEnabled says otherwise.
func NewRouter(registry *models.Registry, keys models.KeySource, opts ...Option) *Router {
	r := &Router{
		registry:  registry,
		keys:      keys,
		factories: map[models.Provider]Factory{},
		enabled:   []models.Provider{models.Gemini},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled returns the invokable provider families.
func (r *Router) Enabled() []models.Provider {
	return append([]models.Provider(nil), r.enabled...)
}

func (r *Router) isEnabled(p models.Provider) bool {
	if _, ok := r.factories[p]; !ok {
		return false
	}
	for _, e := range r.enabled {
		if e == p {
			return true
		}
	}
	return false
}

// Supports reports whether model belongs to an enabled family.
func (r *Router) Supports(model string) bool {
	m, ok := r.registry.Lookup(model)
	return ok && r.isEnabled(m.Provider)
}

// CheckUsable reports whether a model is known and has a credential.
// Environment support is checked later, at call time.
func (r *Router) CheckUsable(model string) error {
	m, ok := r.registry.Lookup(model)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	if strings.TrimSpace(r.keys.Get(string(m.Provider))) == "" {
		return fmt.Errorf("%w for %s", ErrNoCredential, m.Provider.DisplayName())
	}
	return nil
}

// Generate implements Generator.
func (r *Router) Generate(ctx context.Context, model, prompt string) (string, error) {
	m, ok := r.registry.Lookup(model)
	if !ok || !r.isEnabled(m.Provider) {
		return "", &UnsupportedModelError{Model: model, Supported: r.supported()}
	}

	key := strings.TrimSpace(r.keys.Get(string(m.Provider)))
	if key == "" {
		return "", &ProviderError{Provider: m.Provider, Kind: KindCredentialMissing}
	}

	start := time.Now()
	text, err := r.factories[m.Provider](key).Generate(ctx, model, prompt)
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			pe = Transport(err)
		}
		if pe.Provider == "" {
			pe.Provider = m.Provider
		}
		r.logger.Warn("provider call failed",
			zap.String("model", model),
			zap.String("provider", string(m.Provider)),
			zap.Stringer("kind", pe.Kind),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", pe
	}

	r.logger.Debug("provider call",
		zap.String("model", model),
		zap.String("provider", string(m.Provider)),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("completion_chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

func (r *Router) supported() []models.Provider {
	var out []models.Provider
	for _, p := range r.enabled {
		if _, ok := r.factories[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
