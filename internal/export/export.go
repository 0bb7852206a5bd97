// Package export renders a finished debate to Markdown and HTML files.
package export

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/lorenzotomasdiez/crossfire/internal/debate"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const filenamePrefixRunes = 20

// Markdown renders the transcript document. Entries appear in append order,
// each as a heading followed by its text quoted line by line.
func Markdown(cfg debate.Config, entries []debate.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Debate Topic: %s\n\n", cfg.Topic)
	fmt.Fprintf(&sb, "**Pro Model:** %s\n", cfg.ProModel)
	fmt.Fprintf(&sb, "**Con Model:** %s\n\n", cfg.ConModel)
	sb.WriteString("---\n\n")

	for _, e := range entries {
		fmt.Fprintf(&sb, "### **%s (%s)** - %s\n\n", e.Side, e.Model, e.TurnLabel)
		sb.WriteString("> ")
		sb.WriteString(strings.ReplaceAll(e.Text, "\n", "\n> "))
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

// Filename returns "debate-<prefix>.md" where prefix is the first 20 runes of
// topic with anything other than ASCII letters, digits, '_', '-' or CJK
// ideographs replaced by '_'.
func Filename(topic string) string {
	return "debate-" + sanitize(topic) + ".md"
}

func sanitize(topic string) string {
	runes := []rune(topic)
	if len(runes) > filenamePrefixRunes {
		runes = runes[:filenamePrefixRunes]
	}
	for i, r := range runes {
		if !allowed(r) {
			runes[i] = '_'
		}
	}
	return string(runes)
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	case r >= 0x4E00 && r <= 0x9FA5:
		return true
	}
	return false
}

// HTML converts a Markdown document into a standalone HTML page.
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("export: render html: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

// Writer saves transcripts under one output directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates a Writer rooted at dir. A nil logger discards logs.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, logger: logger}
}

// Write saves the Markdown transcript, and an HTML rendering when withHTML is
// set, returning the paths written.
func (w *Writer) Write(cfg debate.Config, entries []debate.Entry, withHTML bool) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}

	md := Markdown(cfg, entries)
	mdPath := filepath.Join(w.dir, Filename(cfg.Topic))
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("export: write markdown: %w", err)
	}
	paths := []string{mdPath}

	if withHTML {
		page, err := HTML("Debate Topic: "+cfg.Topic, md)
		if err != nil {
			return paths, err
		}
		htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
		if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
			return paths, fmt.Errorf("export: write html: %w", err)
		}
		paths = append(paths, htmlPath)
	}

	w.logger.Info("transcript exported", zap.Strings("paths", paths), zap.Int("entries", len(entries)))
	return paths, nil
}
