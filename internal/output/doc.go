// Package output provides styled terminal output for frames-quickstart.
//
// # Usage
//
//	output.Info("Generating manifest...")
//	output.Success("Created frame my-frame")
//	output.Step("cd my-frame")
//	output.Error("destination already exists")
//
// # Verbose Mode
//
// Enable verbose output for debugging:
//
//	output.SetVerbose(true)
//	output.Verbose("Cloning https://github.com/lucas-neynar/frames-v2-quickstart.git")
//
// # Styling
//
// The package uses lipgloss for terminal styling, but abstracts these
// details away from callers:
//
//   - Success: ✨ green bold
//   - Error: ❌ red bold (written to stderr)
//   - Warn: ⚠️ yellow (written to stderr)
//   - Info: cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
