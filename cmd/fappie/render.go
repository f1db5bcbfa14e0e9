package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fappie/backend/internal/clipboard"
	"github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/pkg/logger"
)

type renderer struct {
	md *glamour.TermRenderer

	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	failed lipgloss.Style
}

func newRenderer(plain bool) *renderer {
	r := &renderer{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:  lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Faint(true),
		failed: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
	if plain {
		r.title, r.label, r.muted, r.failed = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
		return r
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		logger.Debugf("[cli] markdown renderer unavailable: %v", err)
		return r
	}
	r.md = md
	return r
}

// Body renders a generated body. Without a markdown renderer the text is
// printed verbatim.
func (r *renderer) Body(body string) string {
	if r.md != nil {
		if out, err := r.md.Render(body); err == nil {
			return out
		}
	}
	return ensureNewline(body)
}

func (r *renderer) Output(out conversation.Output) string {
	var b strings.Builder
	if out.Title != "" {
		b.WriteString(r.title.Render(out.Title))
		b.WriteString("\n")
	}
	b.WriteString(r.Body(out.Body))
	return b.String()
}

func (r *renderer) Assistant(text string) string {
	if text == "" {
		return ""
	}
	return r.label.Render("Fappie:") + " " + ensureNewline(text)
}

func (r *renderer) Error(text string) string {
	return r.failed.Render(text) + "\n"
}

func (r *renderer) Info(text string) string {
	return r.muted.Render(text) + "\n"
}

func (r *renderer) CopyResult(res clipboard.Result) string {
	switch res.Outcome {
	case clipboard.OutcomeRich:
		return r.muted.Render("Gekopieerd!")
	case clipboard.OutcomePlain:
		return r.muted.Render("Gekopieerd als platte tekst")
	default:
		return r.failed.Render("Kopiëren mislukt: " + errText(res.Err))
	}
}

func errText(err error) string {
	if err == nil {
		return "onbekende fout"
	}
	return err.Error()
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
