package models

import (
	"sort"
	"strings"
)

// Provider names a provider family. Credentials are stored per family.
type Provider string

const (
	Gemini   Provider = "gemini"
	OpenAI   Provider = "openai"
	DeepSeek Provider = "deepseek"
	Kimi     Provider = "kimi"
)

// Providers lists every known provider family in display order.
func Providers() []Provider {
	return []Provider{Gemini, OpenAI, DeepSeek, Kimi}
}

// DisplayName returns the vendor name shown to users.
func (p Provider) DisplayName() string {
	switch p {
	case Gemini:
		return "Gemini"
	case OpenAI:
		return "OpenAI"
	case DeepSeek:
		return "DeepSeek"
	case Kimi:
		return "Kimi (Moonshot)"
	}
	return string(p)
}

// ParseProvider accepts a provider name in any case.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Model is one invokable model id and the family that serves it.
type Model struct {
	ID       string
	Name     string
	Provider Provider
}

// KeySource exposes the configured secret per provider family.
type KeySource interface {
	Get(provider string) string
}

// Registry is the static model -> provider lookup table.
type Registry struct {
	models []Model
	byID   map[string]Model
}

// NewRegistry indexes models by id. Later duplicates are ignored.
func NewRegistry(models []Model) *Registry {
	r := &Registry{byID: make(map[string]Model, len(models))}
	for _, m := range models {
		if _, dup := r.byID[m.ID]; dup {
			continue
		}
		r.byID[m.ID] = m
		r.models = append(r.models, m)
	}
	return r
}

// Lookup finds a model by id.
func (r *Registry) Lookup(id string) (Model, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// All returns every model in table order.
func (r *Registry) All() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}

// Configured returns the models whose provider has a non-blank credential.
func (r *Registry) Configured(keys KeySource) []Model {
	var out []Model
	for _, m := range r.models {
		if strings.TrimSpace(keys.Get(string(m.Provider))) != "" {
			out = append(out, m)
		}
	}
	return out
}

// ByProvider groups model ids by family, sorted by id.
func (r *Registry) ByProvider(p Provider) []string {
	var ids []string
	for _, m := range r.models {
		if m.Provider == p {
			ids = append(ids, m.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// DefaultModels returns the built-in model table.
func DefaultModels() []Model {
	return []Model{
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: Gemini},
		{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: Gemini},
		{ID: "gpt-4o", Name: "OpenAI GPT-4o", Provider: OpenAI},
		{ID: "gpt-3.5-turbo", Name: "OpenAI GPT-3.5 Turbo", Provider: OpenAI},
		{ID: "deepseek-chat", Name: "DeepSeek Chat", Provider: DeepSeek},
		{ID: "moonshot-v1-8k", Name: "Kimi Moonshot V1 8K", Provider: Kimi},
	}
}

// Default returns a registry over DefaultModels.
func Default() *Registry {
	return NewRegistry(DefaultModels())
}
