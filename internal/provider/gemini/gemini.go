// Package gemini adapts the Google GenAI SDK to provider.Generator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lorenzotomasdiez/crossfire/internal/provider"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// Adapter calls the Gemini API with one API key.
type Adapter struct {
	apiKey  string
	baseURL string
}

// New returns an Adapter for the public Gemini endpoint.
func New(apiKey string) *Adapter {
	return &Adapter{apiKey: apiKey}
}

// NewWithBaseURL returns an Adapter for a custom endpoint (for testing).
func NewWithBaseURL(apiKey, baseURL string) *Adapter {
	return &Adapter{apiKey: apiKey, baseURL: baseURL}
}

// Factory returns a provider.Factory. An empty baseURL uses the SDK default.
func Factory(baseURL string) provider.Factory {
	return func(apiKey string) provider.Generator {
		return NewWithBaseURL(apiKey, baseURL)
	}
}

// Generate sends prompt as a single user turn and returns the model's text.
func (a *Adapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  a.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if a.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: a.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", provider.Transport(fmt.Errorf("gemini: create client: %w", err))
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", provider.Transport(ErrEmptyResponse)
	}
	return text, nil
}

func classify(err error) error {
	wrapped := fmt.Errorf("gemini: %w", err)

	code, msg := 0, err.Error()
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, msg = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrPtr):
		code, msg = apiErrPtr.Code, apiErrPtr.Message
	}

	if code == http.StatusUnauthorized || code == http.StatusForbidden ||
		strings.Contains(msg, "API key not valid") {
		return provider.Rejected(wrapped)
	}
	return provider.Transport(wrapped)
}
