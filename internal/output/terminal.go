// Package output renders debate progress for a terminal.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lorenzotomasdiez/crossfire/internal/debate"
	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/lorenzotomasdiez/crossfire/internal/script"
)

var (
	colorPro    = lipgloss.Color("#10B981")
	colorCon    = lipgloss.Color("#EF4444")
	colorPhase  = lipgloss.Color("#7C3AED")
	colorMuted  = lipgloss.Color("#9CA3AF")
	colorWarn   = lipgloss.Color("#F59E0B")
	colorAccent = lipgloss.Color("#3B82F6")
)

// Printer writes styled debate output to w.
type Printer struct {
	w io.Writer

	title   lipgloss.Style
	phase   lipgloss.Style
	pro     lipgloss.Style
	con     lipgloss.Style
	muted   lipgloss.Style
	errBox  lipgloss.Style
	success lipgloss.Style
	body    lipgloss.Style
}

// NewPrinter returns a Printer whose color support follows w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		phase:   r.NewStyle().Bold(true).Foreground(colorPhase),
		pro:     r.NewStyle().Bold(true).Foreground(colorPro),
		con:     r.NewStyle().Bold(true).Foreground(colorCon),
		muted:   r.NewStyle().Foreground(colorMuted),
		errBox:  r.NewStyle().Bold(true).Foreground(colorWarn).Border(lipgloss.RoundedBorder()).BorderForeground(colorCon).Padding(0, 1),
		success: r.NewStyle().Bold(true).Foreground(colorPro),
		body:    r.NewStyle().PaddingLeft(2),
	}
}

func (p *Printer) sideStyle(side script.Side) lipgloss.Style {
	if side == script.Con {
		return p.con
	}
	return p.pro
}

// Header prints the debate topic and the two seats.
func (p *Printer) Header(cfg debate.Config) {
	fmt.Fprintln(p.w, p.title.Render("Debate Topic: "+cfg.Topic))
	fmt.Fprintf(p.w, "%s %s\n", p.pro.Render("Pro:"), cfg.ProModel)
	fmt.Fprintf(p.w, "%s %s\n", p.con.Render("Con:"), cfg.ConModel)
}

// Phase prints a phase transition banner.
func (p *Printer) Phase(phase script.Phase) {
	fmt.Fprintf(p.w, "\n%s\n\n", p.phase.Render("=== "+phase.Label()+" ==="))
}

// Thinking prints the progress line for a turn about to run.
func (p *Printer) Thinking(desc script.TurnDescriptor, model string) {
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("%s (%s) is preparing the %s...", desc.Side, model, strings.ToLower(desc.Label))))
}

// Entry prints one completed turn in full.
func (p *Printer) Entry(n, total int, e debate.Entry) {
	head := p.sideStyle(e.Side).Render(fmt.Sprintf("%s (%s)", e.Side, e.Model))
	fmt.Fprintf(p.w, "%s %s %s\n", p.muted.Render(fmt.Sprintf("[%d/%d]", n, total)), head, p.muted.Render("- "+e.TurnLabel))
	fmt.Fprintf(p.w, "%s\n\n", p.body.Render(e.Text))
}

// Error prints the failure banner.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.errBox.Render("Debate stopped: "+msg))
}

// Finished prints the completion line and any exported files.
func (p *Printer) Finished(paths []string) {
	fmt.Fprintln(p.w, p.success.Render("Debate finished."))
	p.Saved(paths)
}

// Saved lists exported files.
func (p *Printer) Saved(paths []string) {
	for _, path := range paths {
		fmt.Fprintf(p.w, "  saved %s\n", path)
	}
}

// Keys prints redacted credentials, one provider per line, followed by the
// store they were read from.
func (p *Printer) Keys(masked map[string]string, store string) {
	if len(masked) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("no API keys configured"))
	} else {
		names := make([]string, 0, len(masked))
		for name := range masked {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(p.w, "%-10s %s\n", name, masked[name])
		}
	}
	if store != "" {
		fmt.Fprintln(p.w, p.muted.Render("store: "+store))
	}
}

// ProviderHeader opens a group of models served by one provider family.
func (p *Printer) ProviderHeader(provider models.Provider, enabled bool) {
	name := provider.DisplayName()
	if !enabled {
		name += " (disabled)"
	}
	fmt.Fprintln(p.w, p.phase.Render(name))
}

// Models prints the catalog, marking models that are usable in this
// environment.
func (p *Printer) Models(list []models.Model, usable func(models.Model) bool) {
	for _, m := range list {
		mark := p.muted.Render("-")
		if usable(m) {
			mark = p.success.Render("*")
		}
		fmt.Fprintf(p.w, "%s %-18s %-24s %s\n", mark, m.ID, m.Name, p.muted.Render(m.Provider.DisplayName()))
	}
}
