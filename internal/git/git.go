// Package git wraps the git commands used to fetch the template and to start
// the generated project's history.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonhull/frames-quickstart/internal/exec"
	"github.com/simonhull/frames-quickstart/internal/output"
)

// Ops provides Git operations on top of an executor.
type Ops struct {
	exec *exec.Executor
}

// NewOps creates a Git operations helper.
func NewOps(executor *exec.Executor) *Ops {
	return &Ops{exec: executor}
}

// Clone clones url into dest. A non-empty ref selects a branch or tag.
// Output is hidden behind a spinner; git's stderr is part of the error.
func (g *Ops) Clone(ctx context.Context, url, ref, dest string) error {
	args := []string{"clone", "--quiet"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, "--", url, dest)

	// A missing or private repository must fail instead of waiting on a
	// credential prompt hidden behind the spinner.
	cmd := exec.NewGenericCommand(g.exec, "git").
		WithArgs(args...).
		WithEnv("GIT_TERMINAL_PROMPT=0").
		WithSpinner("Cloning template")
	output.Verbose(cmd.String())
	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// Init creates an empty repository in dir.
func (g *Ops) Init(ctx context.Context, dir string) error {
	if _, err := g.run(ctx, dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("initializing repository: %w", err)
	}
	return nil
}

// AddAll stages every file in dir.
func (g *Ops) AddAll(ctx context.Context, dir string) error {
	if _, err := g.run(ctx, dir, "add", "."); err != nil {
		return fmt.Errorf("staging files: %w", err)
	}
	return nil
}

// Commit records the staged files.
func (g *Ops) Commit(ctx context.Context, dir, message string) error {
	if _, err := g.run(ctx, dir, "commit", "--quiet", "-m", message); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// InitialCommit initializes a repository in dir and commits everything in it.
func (g *Ops) InitialCommit(ctx context.Context, dir, message string) error {
	if err := g.Init(ctx, dir); err != nil {
		return err
	}
	if err := g.AddAll(ctx, dir); err != nil {
		return err
	}
	return g.Commit(ctx, dir, message)
}

// CommitCount returns the number of commits reachable from HEAD.
func (g *Ops) CommitCount(ctx context.Context, dir string) (int, error) {
	out, err := g.run(ctx, dir, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, fmt.Errorf("counting commits: %w", err)
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%d", &n); err != nil {
		return 0, fmt.Errorf("parsing commit count %q: %w", out, err)
	}
	return n, nil
}

func (g *Ops) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.NewGenericCommand(g.exec, "git").
		WithArgs(args...).
		WithDir(dir)
	output.Verbose(cmd.String())
	return cmd.Capture(ctx)
}
