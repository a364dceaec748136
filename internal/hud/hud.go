package hud

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-stealth/internal/display"
)

// DefaultTemplate renders the round status followed by whatever the
// possessed agent can currently do.
const DefaultTemplate = `
{{- if eq .Round "running" }}{{ .Seconds }}s left, {{ .Returned }} returned.
{{- else }}Press [use] to start the round.{{ end }}
{{- with .Pending }} Taking over {{ . | title }}... {{ printf "%.0f" (mulf $.Progress 100) }}%{{ end }}
{{- if and .Switchable (not .Pending) }} Hold [hold] to take over {{ .Switchable | title }}.{{ end }}
{{- if .Holding }} Press [use] to drop the {{ .Holding }}.
{{- else if .Item }} Press [use] to pick up the {{ .Item }}.{{ end }}`

// Prompter shows prompt text to the player.
type Prompter interface {
	ShowPrompt(ctx context.Context, text string)
}

// View is what the HUD knows about the current frame.
type View struct {
	Round     string
	Remaining time.Duration
	Returned  int

	Possessed  string
	Switchable string
	Item       string
	Holding    string

	Pending  string
	Progress float64
}

// Seconds is the remaining round time rounded up to whole seconds.
func (v View) Seconds() int {
	return int((v.Remaining + time.Second - 1) / time.Second)
}

// HUD renders prompts and forwards them when they change.
type HUD struct {
	prompter Prompter
	tmpl     *template.Template
	width    int

	last string
}

type HUDOpt func(*HUD)

// WithWidth sets the wrap width of rendered prompts.
func WithWidth(w int) HUDOpt {
	return func(h *HUD) {
		h.width = w
	}
}

// NewHUD parses tmpl with the sprig function set. An empty tmpl uses
// DefaultTemplate.
func NewHUD(p Prompter, tmpl string, opts ...HUDOpt) (*HUD, error) {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	t, err := template.New("hud").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing hud template: %w", err)
	}

	h := &HUD{
		prompter: p,
		tmpl:     t,
		width:    display.DefaultWidth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Render expands the template for v and wraps it.
func (h *HUD) Render(v View) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("executing hud template: %w", err)
	}
	return display.WrapTo(strings.TrimSpace(buf.String()), h.width), nil
}

// Step renders v and shows it when it differs from what is on screen.
func (h *HUD) Step(ctx context.Context, v View) error {
	text, err := h.Render(v)
	if err != nil {
		return err
	}
	if text == h.last {
		return nil
	}
	h.last = text
	h.prompter.ShowPrompt(ctx, text)
	return nil
}
