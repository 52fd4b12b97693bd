package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	osexec "os/exec"
	"path/filepath"
	"testing"

	"github.com/simonhull/frames-quickstart/internal/exec"
	"github.com/simonhull/frames-quickstart/internal/git"
	"github.com/simonhull/frames-quickstart/internal/manifest"
	"github.com/simonhull/frames-quickstart/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerate_WithGit drives the real git collaborator and custody signer
// against a local template repository.
func TestGenerate_WithGit(t *testing.T) {
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("HOME", t.TempDir())
	output.SetWriters(&bytes.Buffer{}, &bytes.Buffer{})
	t.Cleanup(func() { output.SetWriters(nil, nil) })

	ops := git.NewOps(exec.NewExecutor(&exec.Options{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Env: []string{
			"GIT_AUTHOR_NAME=Frames Test",
			"GIT_AUTHOR_EMAIL=frames@example.com",
			"GIT_COMMITTER_NAME=Frames Test",
			"GIT_COMMITTER_EMAIL=frames@example.com",
			"GIT_CONFIG_NOSYSTEM=1",
		},
	}))
	ctx := context.Background()

	files := fullTemplate()
	delete(files, ".git/HEAD")
	template := writeTemplate(t, files)
	require.NoError(t, ops.InitialCommit(ctx, template, "template"))

	signer, err := manifest.NewCustodySigner("https://frames.example.com")
	require.NoError(t, err)

	work := t.TempDir()
	installer := &fakeInstaller{}
	g := New(Options{TemplateURL: template, ToolVersion: toolVersion, WorkDir: work}, ops, signer, installer)

	result, err := g.Generate(ctx, validInputs())
	require.NoError(t, err)

	n, err := ops.CommitCount(ctx, result.Path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(result.Path, filepath.FromSlash(ManifestPath)))
	require.NoError(t, err)
	require.NoError(t, manifest.Validate(data))

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	require.NoError(t, manifest.Verify(m.AccountAssociation))

	header, err := manifest.DecodeHeader(m.AccountAssociation.Header)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), header.FID)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", header.Key)

	payload, err := manifest.DecodePayload(m.AccountAssociation.Payload)
	require.NoError(t, err)
	assert.Equal(t, "frames.example.com", payload.Domain)

	assert.NoDirExists(t, filepath.Join(result.Path, ScaffoldDir))
	assert.Equal(t, []string{result.Path}, installer.dirs)
}
