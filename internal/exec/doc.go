// Package exec runs the external tools frames-quickstart depends on (git and
// the package manager).
//
// Three modes are offered:
//
//   - Run streams the child's stdout/stderr to the executor's writers
//     unmodified. Used for the dependency install.
//   - RunWithSpinner shows a spinner on a terminal and keeps the child's output
//     out of the way; the tail of stderr is attached to the error on failure.
//     Used for the template clone.
//   - Capture collects stdout and returns it. Used for short git commands.
//
// GenericCommand is a fluent builder over an Executor:
//
//	err := exec.NewGenericCommand(executor, "git").
//	    WithArgs("init").
//	    WithDir(projectPath).
//	    Run(ctx)
//
// A missing binary produces an error with an install hint.
package exec
