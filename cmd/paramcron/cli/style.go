// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styler renders status labels for command output. On a terminal the
// labels are colored; anywhere else they are plain text so output
// stays stable for scripts and tests.
type Styler struct {
	ok      lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// NewStyler returns a Styler for output written to w.
func NewStyler(w io.Writer) *Styler {
	renderer := lipgloss.NewRenderer(w)
	if IsTerminal(w) {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Styler{
		ok:      renderer.NewStyle().Foreground(lipgloss.Color("2")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Status renders a level name ("ok", "warning", "error") in its color.
// Other names pass through unchanged.
func (s *Styler) Status(level string) string {
	switch level {
	case "ok":
		return s.ok.Render(level)
	case "warning":
		return s.warning.Render(level)
	case "error":
		return s.failure.Render(level)
	default:
		return level
	}
}
