package pkgmgr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"
	"testing"

	"github.com/simonhull/frames-quickstart/internal/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommand re-enters the test binary as a fake package manager
func mockCommand(name string, args ...string) *osexec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := osexec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	wd, _ := os.Getwd()
	if _, err := os.Stat("fail-install"); err == nil {
		fmt.Fprintln(os.Stderr, "npm ERR! install failed")
		os.Exit(1)
	}
	fmt.Printf("%s in %s\n", strings.Join(args, " "), wd)
	os.Exit(0)
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{"bun", "npm", "pnpm", "yarn"}, r.List())

	m, err := r.Get("npm")
	require.NoError(t, err)
	assert.Equal(t, "npm", m.Name())
	assert.NotEmpty(t, m.Description())

	_, err = r.Get("cargo")
	require.ErrorIs(t, err, ErrUnknownManager)
	assert.Contains(t, err.Error(), "npm")
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.Error(t, r.Register(nil))
	require.Error(t, r.Register(cliManager{}))

	require.NoError(t, r.Register(cliManager{name: "npm"}))
	err := r.Register(cliManager{name: "npm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRunScript(t *testing.T) {
	r := NewDefaultRegistry()

	for name, want := range map[string]string{
		"npm":  "npm run dev",
		"pnpm": "pnpm dev",
		"yarn": "yarn dev",
		"bun":  "bun run dev",
	} {
		m, err := r.Get(name)
		require.NoError(t, err)
		assert.Equal(t, want, m.RunScript("dev"))
	}
}

func TestInstaller_Install(t *testing.T) {
	var stdout bytes.Buffer
	executor := exec.NewExecutor(&exec.Options{
		Stdout:      &stdout,
		Stderr:      &bytes.Buffer{},
		CommandFunc: mockCommand,
	})

	m, err := NewDefaultRegistry().Get("npm")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, NewInstaller(m, executor).Install(context.Background(), dir))

	out := stdout.String()
	assert.Contains(t, out, "npm install in ")

	wantInfo, err := os.Stat(dir)
	require.NoError(t, err)
	gotInfo, err := os.Stat(strings.TrimSpace(strings.SplitN(out, " in ", 2)[1]))
	require.NoError(t, err)
	assert.True(t, os.SameFile(wantInfo, gotInfo))
}

func TestInstaller_InstallFailure(t *testing.T) {
	var stderr bytes.Buffer
	executor := exec.NewExecutor(&exec.Options{
		Stdout:      &bytes.Buffer{},
		Stderr:      &stderr,
		CommandFunc: mockCommand,
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/fail-install", nil, 0644))

	m, err := NewDefaultRegistry().Get("pnpm")
	require.NoError(t, err)

	err = NewInstaller(m, executor).Install(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pnpm install")
	assert.Contains(t, stderr.String(), "npm ERR! install failed")
}
