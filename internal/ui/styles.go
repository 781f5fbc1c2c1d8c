package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray

	colorDraft     = 245 // gray
	colorPublished = 114 // green
	colorPaused    = 179 // amber
	colorArchived  = 131 // dull red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCmd, s)
}

// RenderStatus returns a workflow status string in its lifecycle color.
func RenderStatus(status string) string {
	if noColor {
		return status
	}
	var code int
	switch status {
	case "published":
		code = colorPublished
	case "paused":
		code = colorPaused
	case "archived":
		code = colorArchived
	default:
		code = colorDraft
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, status)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
