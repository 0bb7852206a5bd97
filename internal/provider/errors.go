package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/crossfire/internal/models"
)

// Kind classifies a provider failure.
type Kind int

const (
	KindTransport Kind = iota
	KindCredentialMissing
	KindCredentialRejected
)

func (k Kind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindCredentialRejected:
		return "credential_rejected"
	}
	return "transport"
}

// ProviderError is a failed generation call.
type ProviderError struct {
	Provider models.Provider
	Kind     Kind
	Err      error
}

func (e *ProviderError) Error() string {
	name := e.Provider.DisplayName()
	switch e.Kind {
	case KindCredentialMissing:
		return fmt.Sprintf("no %s API key is configured; add one with `crossfire keys set %s <key>`", name, e.Provider)
	case KindCredentialRejected:
		return fmt.Sprintf("the %s API key is invalid or was rejected; update it with `crossfire keys set %s <key>`", name, e.Provider)
	}
	if e.Err != nil {
		return fmt.Sprintf("the model failed to respond, check your network or API key: %v", e.Err)
	}
	return "the model failed to respond, check your network or API key"
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Rejected wraps err as a credential rejection.
func Rejected(err error) *ProviderError {
	return &ProviderError{Kind: KindCredentialRejected, Err: err}
}

// Transport wraps err as a generic call failure.
func Transport(err error) *ProviderError {
	return &ProviderError{Kind: KindTransport, Err: err}
}

// UnsupportedModelError is returned before any network call when a model
// cannot be invoked in this environment.
type UnsupportedModelError struct {
	Model     string
	Supported []models.Provider
}

func (e *UnsupportedModelError) Error() string {
	names := make([]string, len(e.Supported))
	for i, p := range e.Supported {
		names[i] = p.DisplayName()
	}
	if len(names) == 0 {
		return fmt.Sprintf("model %q is not supported in this environment", e.Model)
	}
	return fmt.Sprintf("model %q is not supported in this environment; only %s models can be used here, pick one in both seats",
		e.Model, strings.Join(names, " or "))
}

var (
	ErrUnknownModel = errors.New("provider: unknown model")
	ErrNoCredential = errors.New("provider: no credential configured")
)
