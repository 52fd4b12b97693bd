package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetWriters redirects regular and error output. A nil writer restores the
// matching standard stream.
func SetWriters(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

// Success prints a success message with ✨ emoji and green color.
//
// Example:
//
//	output.Success("Created frame my-frame")
func Success(msg string) {
	fmt.Fprintln(stdout, successStyle.Render("✨ "+msg))
}

// Error prints an error message with ❌ emoji and red color to stderr.
func Error(msg string) {
	fmt.Fprintln(stderr, errorStyle.Render("❌ "+msg))
}

// Warn prints a warning to stderr. Use it for conditions the user should
// look at that do not stop the run.
func Warn(msg string) {
	fmt.Fprintln(stderr, warnStyle.Render("⚠️  "+msg))
}

// Info prints a progress or status message in cyan.
func Info(msg string) {
	fmt.Fprintln(stdout, infoStyle.Render(msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
//
// Example:
//
//	output.Step("cd my-frame")
//	output.Step("npm run dev")
func Step(msg string) {
	fmt.Fprintln(stdout, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(stdout, stepStyle.Render("🔍 "+msg))
	}
}
