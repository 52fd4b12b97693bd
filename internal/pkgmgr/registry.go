// Package pkgmgr knows how to install dependencies with the JavaScript
// package managers a generated frame can use.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/simonhull/frames-quickstart/internal/exec"
)

// ErrUnknownManager is returned when a package manager is not registered.
var ErrUnknownManager = errors.New("unknown package manager")

// Manager is a package manager CLI.
type Manager interface {
	// Name returns the binary name used for registry lookup
	Name() string
	// Description returns a brief description
	Description() string
	// Install installs the dependencies declared in dir/package.json
	Install(ctx context.Context, executor *exec.Executor, dir string) error
	// RunScript returns the shell command that runs a package.json script
	RunScript(script string) string
}

// Registry holds the package managers available for installs.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]Manager
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]Manager)}
}

// NewDefaultRegistry creates a registry with npm, pnpm, yarn and bun.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, m := range builtins() {
		// builtins have unique, non-empty names
		_ = r.Register(m)
	}
	return r
}

// Register adds a manager to the registry
func (r *Registry) Register(m Manager) error {
	if m == nil {
		return fmt.Errorf("cannot register nil package manager")
	}

	name := m.Name()
	if name == "" {
		return fmt.Errorf("cannot register package manager with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.managers[name]; exists {
		return fmt.Errorf("package manager '%s' is already registered", name)
	}

	r.managers[name] = m
	return nil
}

// Get retrieves a manager by name
func (r *Registry) Get(name string) (Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.managers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownManager, name, r.namesLocked())
	}
	return m, nil
}

// List returns all registered manager names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Installer binds a manager to an executor.
type Installer struct {
	manager  Manager
	executor *exec.Executor
}

// NewInstaller returns an installer that runs m through executor. The
// executor's stdout and stderr receive the manager's output unmodified.
func NewInstaller(m Manager, executor *exec.Executor) *Installer {
	return &Installer{manager: m, executor: executor}
}

// Install installs dependencies in dir.
func (i *Installer) Install(ctx context.Context, dir string) error {
	return i.manager.Install(ctx, i.executor, dir)
}
