package credentials

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// StorageKey is the fixed key the credential blob lives under.
const StorageKey = "apiKeys"

// Set is the provider -> secret mapping shared by every provider call.
// Reads take a read lock; Save is the only writer.
type Set struct {
	mu     sync.RWMutex
	keys   map[string]string
	kv     KV
	logger *zap.Logger
}

// Load reads the credential blob from kv. A missing blob yields an empty set.
func Load(kv KV, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{keys: map[string]string{}, kv: kv, logger: logger}

	blob, ok, err := kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("credentials: loading: %w", err)
	}
	if !ok || strings.TrimSpace(blob) == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(blob), &s.keys); err != nil {
		return nil, fmt.Errorf("credentials: decoding %s: %w", StorageKey, err)
	}
	logger.Debug("credentials loaded", zap.Strings("providers", s.providersLocked()))
	return s, nil
}

// Get returns the secret for provider, or "" when none is set.
func (s *Set) Get(provider string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[provider]
}

// Snapshot returns a copy of the whole mapping.
func (s *Set) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]string, len(s.keys))
	for k, v := range s.keys {
		cp[k] = v
	}
	return cp
}

// Save replaces the whole mapping and persists it before returning.
func (s *Set) Save(keys map[string]string) error {
	cp := make(map[string]string, len(keys))
	for k, v := range keys {
		cp[k] = strings.TrimSpace(v)
	}
	blob, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("credentials: encoding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Put(StorageKey, string(blob)); err != nil {
		return fmt.Errorf("credentials: saving: %w", err)
	}
	s.keys = cp
	s.logger.Info("credentials saved", zap.Strings("providers", s.providersLocked()))
	return nil
}

// With returns a copy of the current mapping with provider set to secret.
// Pass the result to Save.
func (s *Set) With(provider, secret string) map[string]string {
	keys := s.Snapshot()
	keys[provider] = secret
	return keys
}

// Masked returns the mapping with every secret reduced to its last four characters.
func (s *Set) Masked() map[string]string {
	out := s.Snapshot()
	for k, v := range out {
		out[k] = Mask(v)
	}
	return out
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}

func (s *Set) providersLocked() []string {
	var names []string
	for k, v := range s.keys {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// WithFallback serves stored secrets first and falls back to env for
// providers with no stored secret.
type WithFallback struct {
	Stored *Set
	Env    map[string]string
}

func (f WithFallback) Get(provider string) string {
	if v := strings.TrimSpace(f.Stored.Get(provider)); v != "" {
		return v
	}
	return f.Env[provider]
}
