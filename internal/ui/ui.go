// Package ui prints the timestamped, leveled progress lines raven uses
// for lifecycle output.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Out is the destination for progress lines (settable for testing)
var Out io.Writer = os.Stdout

var levelStyles = map[string]lipgloss.Style{
	"INFO":    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	"WARN":    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"ERROR":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	"SUCCESS": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

func logf(level, format string, args ...any) {
	tag := "[" + level + "]"
	if style, ok := levelStyles[level]; ok {
		tag = style.Render(tag)
	}
	fmt.Fprintf(Out, "[%s] %s %s\n",
		time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

// Info prints an informational progress line
func Info(format string, args ...any) { logf("INFO", format, args...) }

// Warn prints a warning progress line
func Warn(format string, args ...any) { logf("WARN", format, args...) }

// Error prints an error progress line
func Error(format string, args ...any) { logf("ERROR", format, args...) }

// Success prints a success progress line
func Success(format string, args ...any) { logf("SUCCESS", format, args...) }

// Step prints an indented sub-step line under the current log line
func Step(format string, args ...any) {
	fmt.Fprintf(Out, "  -> %s\n", fmt.Sprintf(format, args...))
}
