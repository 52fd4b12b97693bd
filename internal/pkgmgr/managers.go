package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonhull/frames-quickstart/internal/exec"
	"github.com/simonhull/frames-quickstart/internal/output"
)

// cliManager is a package manager driven by a single binary
type cliManager struct {
	name        string
	description string
	installArgs []string
	runPrefix   []string
}

func builtins() []Manager {
	return []Manager{
		cliManager{name: "npm", description: "Node's bundled package manager", installArgs: []string{"install"}, runPrefix: []string{"npm", "run"}},
		cliManager{name: "pnpm", description: "Fast, disk space efficient package manager", installArgs: []string{"install"}, runPrefix: []string{"pnpm"}},
		cliManager{name: "yarn", description: "Yarn package manager", installArgs: []string{"install"}, runPrefix: []string{"yarn"}},
		cliManager{name: "bun", description: "Bun runtime and package manager", installArgs: []string{"install"}, runPrefix: []string{"bun", "run"}},
	}
}

func (m cliManager) Name() string        { return m.name }
func (m cliManager) Description() string { return m.description }

func (m cliManager) Install(ctx context.Context, executor *exec.Executor, dir string) error {
	cmd := exec.NewGenericCommand(executor, m.name).
		WithArgs(m.installArgs...).
		WithDir(dir)
	output.Verbose(cmd.String())
	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("%s install: %w", m.name, err)
	}
	return nil
}

func (m cliManager) RunScript(script string) string {
	parts := append(append([]string{}, m.runPrefix...), script)
	return strings.Join(parts, " ")
}
