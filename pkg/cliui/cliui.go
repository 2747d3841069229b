// Package cliui provides reusable terminal UI helpers (spinners, step
// indicators, event rendering) for lantern CLI commands.
package cliui

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lanternhq/lantern/pkg/rtdb"
	"github.com/lanternhq/lantern/pkg/utils"
)

var (
	SuccessMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))

	putStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	patchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	keepAliveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cancelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	var mu sync.Mutex

	// Run spinner animation in background
	go func() {
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			mu.Lock()
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)

	// Clear the spinner line and print final result
	mu.Lock()
	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)
	mu.Unlock()

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderEvent formats one database change event as a colorized line for
// the watch command. The data payload is compacted to a single JSON line.
func RenderEvent(ev rtdb.Event) string {
	label := eventLabel(ev.Type)

	if ev.Type == rtdb.EventTypeKeepAlive {
		return label
	}

	line := fmt.Sprintf("%s %s", label, pathStyle.Render(ev.Path))
	if ev.Data == nil {
		return line
	}

	raw, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Sprintf("%s %v", line, ev.Data)
	}

	return fmt.Sprintf("%s %s", line, utils.Truncate(string(raw), 512))
}

func eventLabel(t rtdb.EventType) string {
	switch t {
	case rtdb.EventTypePut:
		return putStyle.Render("PUT  ")
	case rtdb.EventTypePatch:
		return patchStyle.Render("PATCH")
	case rtdb.EventTypeKeepAlive:
		return keepAliveStyle.Render("KEEP-ALIVE")
	case rtdb.EventTypeCancel:
		return cancelStyle.Render("CANCEL")
	case rtdb.EventTypeAuthRevoked:
		return cancelStyle.Render("AUTH-REVOKED")
	default:
		return string(t)
	}
}
