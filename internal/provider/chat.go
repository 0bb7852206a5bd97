package provider

import (
	"context"
	"errors"

	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/lorenzotomasdiez/crossfire/internal/openai"
)

// BaseURLs maps each OpenAI-compatible family to its endpoint.
var BaseURLs = map[models.Provider]string{
	models.OpenAI:   openai.OpenAIBaseURL,
	models.DeepSeek: openai.DeepSeekBaseURL,
	models.Kimi:     openai.KimiBaseURL,
}

type chatAdapter struct {
	client *openai.Client
}

// ChatFactory returns a Factory for an OpenAI-compatible endpoint.
func ChatFactory(baseURL string) Factory {
	return func(apiKey string) Generator {
		return &chatAdapter{client: openai.NewClientWithBaseURL(apiKey, baseURL)}
	}
}

func (a *chatAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	text, err := a.client.Complete(ctx, model, prompt)
	if err != nil {
		var se *openai.StatusError
		if errors.As(err, &se) && se.Unauthorized() {
			return "", Rejected(err)
		}
		return "", Transport(err)
	}
	return text, nil
}
