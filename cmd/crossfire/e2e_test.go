package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type geminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

// mockGemini answers generateContent calls. failAt > 0 makes that call
// (1-based) fail with an invalid key error.
func mockGemini(t *testing.T, failAt int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var count atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := count.Add(1)
		if got := r.Header.Get("x-goog-api-key"); got != "test-key-123" {
			t.Errorf("bad api key header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if n == failAt {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
			return
		}

		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		prompt := ""
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}
		side := "Pro"
		if strings.Contains(prompt, "**Con**") {
			side = "Con"
		}
		text := fmt.Sprintf("%s argument number %d.", side, n)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server, &count
}

func setupEnv(t *testing.T, geminiURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CROSSFIRE_STORE_PATH", filepath.Join(home, "store.json"))
	t.Setenv("CROSSFIRE_TURN_DELAY", "0")
	t.Setenv("CROSSFIRE_LOG_LEVEL", "error")
	t.Setenv("CROSSFIRE_GEMINI_BASE_URL", geminiURL)
	t.Setenv("CROSSFIRE_ENABLED_PROVIDERS", "gemini")
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "DEEPSEEK_API_KEY", "KIMI_API_KEY"} {
		t.Setenv(k, "")
	}
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestE2EFullDebateWithMockServer(t *testing.T) {
	server, count := mockGemini(t, 0)
	home := setupEnv(t, server.URL+"/")
	outDir := filepath.Join(home, "transcripts")

	if _, err := run(t, "keys", "set", "gemini", "test-key-123"); err != nil {
		t.Fatalf("keys set: %v", err)
	}
	if info, err := os.Stat(filepath.Join(home, "store.json")); err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("store file not written with 0600: %v", err)
	}

	out, err := run(t, "debate",
		"--topic", "Should cities ban cars?",
		"--pro", "gemini-2.5-flash",
		"--con", "gemini-2.5-pro",
		"--output-dir", outDir,
		"--html")
	if err != nil {
		t.Fatalf("debate failed: %v\n%s", err, out)
	}
	if got := count.Load(); got != 20 {
		t.Errorf("expected 20 provider calls, got %d", got)
	}

	for _, want := range []string{"Opening Statements", "Cross-Examination", "Free Debate", "Closing Statements", "[20/20]", "Debate finished."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	mdPath := filepath.Join(outDir, "debate-Should_cities_ban_ca.md")
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("reading transcript: %v", err)
	}
	md := string(data)
	if !strings.HasPrefix(md, "# Debate Topic: Should cities ban cars?") {
		t.Errorf("transcript header wrong:\n%s", md[:80])
	}
	if got := strings.Count(md, "### **"); got != 20 {
		t.Errorf("expected 20 entries in transcript, got %d", got)
	}
	if !strings.Contains(md, "### **Pro (gemini-2.5-flash)** - Opening Statement\n\n> Pro argument number 1.") {
		t.Error("first entry should be the Pro opening")
	}
	if !strings.Contains(md, "### **Con (gemini-2.5-pro)** - Closing Statement") {
		t.Error("missing Con closing statement")
	}
	if _, err := os.Stat(strings.TrimSuffix(mdPath, ".md") + ".html"); err != nil {
		t.Errorf("html export missing: %v", err)
	}
}

func TestE2EInvalidKeyStopsDebate(t *testing.T) {
	server, count := mockGemini(t, 3)
	home := setupEnv(t, server.URL+"/")

	if _, err := run(t, "keys", "set", "gemini", "test-key-123"); err != nil {
		t.Fatalf("keys set: %v", err)
	}
	out, err := run(t, "debate", "--topic", "X", "--output-dir", filepath.Join(home, "out"))
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	if !strings.Contains(out, "Debate stopped") || !strings.Contains(out, "invalid or was rejected") {
		t.Errorf("expected rejected-key banner, got:\n%s", out)
	}
	if !strings.Contains(out, "[2/20]") || strings.Contains(out, "[3/20]") {
		t.Errorf("expected exactly two completed turns:\n%s", out)
	}
	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 provider calls, got %d", got)
	}
	data, err := os.ReadFile(filepath.Join(home, "out", "debate-X.md"))
	if err != nil {
		t.Fatalf("partial transcript not exported: %v", err)
	}
	if got := strings.Count(string(data), "### **"); got != 2 {
		t.Errorf("partial transcript has %d entries, want 2", got)
	}
	if !strings.Contains(out, "saved ") || strings.Contains(out, "Debate finished") {
		t.Errorf("expected saved path without finished line:\n%s", out)
	}
}

func TestE2EUnsupportedModelFailsFast(t *testing.T) {
	server, count := mockGemini(t, 0)
	home := setupEnv(t, server.URL+"/")

	run(t, "keys", "set", "gemini", "test-key-123")
	run(t, "keys", "set", "openai", "sk-openai-abcd")

	out, err := run(t, "debate", "--topic", "X", "--pro", "gpt-4o", "--con", "gemini-2.5-pro",
		"--output-dir", filepath.Join(home, "out"))
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	if !strings.Contains(out, "only Gemini models") {
		t.Errorf("expected unsupported-model banner, got:\n%s", out)
	}
	if got := count.Load(); got != 0 {
		t.Errorf("expected no provider calls, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(home, "out")); !os.IsNotExist(err) {
		t.Error("nothing should be exported before the first turn completes")
	}
}

func TestE2EMissingKeyIsConfigurationError(t *testing.T) {
	server, count := mockGemini(t, 0)
	setupEnv(t, server.URL+"/")

	_, err := run(t, "debate", "--topic", "X")
	if err == nil || !strings.Contains(err.Error(), "Pro side") {
		t.Fatalf("expected configuration error for the Pro side, got %v", err)
	}
	if got := count.Load(); got != 0 {
		t.Errorf("expected no provider calls, got %d", got)
	}
}

func TestE2EKeysListIsRedacted(t *testing.T) {
	home := setupEnv(t, "")
	run(t, "keys", "set", "gemini", "AIzaSecretValue9876")

	out, err := run(t, "keys", "list")
	if err != nil {
		t.Fatalf("keys list: %v", err)
	}
	if strings.Contains(out, "AIzaSecretValue") {
		t.Errorf("secret leaked: %s", out)
	}
	if !strings.Contains(out, "9876") || !strings.Contains(out, "gemini") {
		t.Errorf("unexpected listing: %s", out)
	}
	if !strings.Contains(out, "store: "+filepath.Join(home, "store.json")) {
		t.Errorf("listing should name the store file: %s", out)
	}

	if _, err := run(t, "keys", "remove", "gemini"); err != nil {
		t.Fatalf("keys remove: %v", err)
	}
	out, _ = run(t, "keys", "list")
	if !strings.Contains(out, "no API keys configured") {
		t.Errorf("expected empty listing after remove, got: %s", out)
	}
}

func TestE2EModels(t *testing.T) {
	setupEnv(t, "")
	run(t, "keys", "set", "gemini", "test-key-123")

	out, err := run(t, "models")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	lines := modelLines(out)
	if len(lines) != 6 {
		t.Fatalf("expected 6 models, got %d:\n%s", len(lines), out)
	}
	for _, line := range lines {
		usable := strings.HasPrefix(line, "*")
		gem := strings.Contains(line, "gemini-")
		if usable != gem {
			t.Errorf("line %q: usable=%v", line, usable)
		}
	}
	for _, header := range []string{"Gemini\n", "OpenAI (disabled)", "DeepSeek (disabled)", "Kimi (Moonshot) (disabled)"} {
		if !strings.Contains(out, header) {
			t.Errorf("missing provider header %q:\n%s", header, out)
		}
	}
	if strings.Index(out, "gemini-2.5-flash") > strings.Index(out, "gpt-3.5-turbo") {
		t.Errorf("models should be grouped by provider:\n%s", out)
	}

	out, _ = run(t, "models", "--configured")
	if n := len(modelLines(out)); n != 2 {
		t.Errorf("--configured listed %d models, want 2", n)
	}
	if strings.Contains(out, "OpenAI") {
		t.Errorf("--configured should omit providers without keys:\n%s", out)
	}
}

func modelLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestKeysSetRejectsUnknownProvider(t *testing.T) {
	setupEnv(t, "")
	if _, err := run(t, "keys", "set", "llama", "x"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
