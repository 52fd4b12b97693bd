package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/frames-quickstart/internal/descriptor"
	"github.com/simonhull/frames-quickstart/internal/input"
	"github.com/simonhull/frames-quickstart/internal/manifest"
	"github.com/simonhull/frames-quickstart/internal/output"
)

// Paths inside a generated project.
const (
	ManifestPath   = "public/manifest.json"
	DescriptorFile = "package.json"
	EnvExampleFile = ".env.example"
	EnvFile        = ".env"
	ReadmeFile     = "README.md"
	ScaffoldDir    = "bin"
	GitDir         = ".git"
)

// Values written into a generated project.
const (
	EnvFrameName        = "NEXT_PUBLIC_FRAME_NAME"
	EnvFrameDescription = "NEXT_PUBLIC_FRAME_DESCRIPTION"
	CommitMessage       = "initial commit from frames-v2-quickstart"
	DefaultVersion      = "0.1.0"
)

// ErrDestinationExists is returned when the project directory is already there.
var ErrDestinationExists = errors.New("destination already exists")

// VCS fetches the template and records the initial commit.
type VCS interface {
	Clone(ctx context.Context, url, ref, dest string) error
	InitialCommit(ctx context.Context, dir, message string) error
}

// Installer installs a project's dependencies.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// Options configures a Generator.
type Options struct {
	TemplateURL      string
	TemplateRef      string
	InitialVersion   string // defaults to DefaultVersion
	ToolVersion      string // stamped into the README banner
	WorkDir          string // parent of the new project; defaults to the working directory
	CleanupOnFailure bool
}

// Result describes a generated project.
type Result struct {
	ProjectName string
	Path        string
	Warnings    []string
}

// Generator creates projects from the template.
type Generator struct {
	opts      Options
	vcs       VCS
	signer    manifest.Signer
	installer Installer
}

// New creates a generator.
func New(opts Options, vcs VCS, signer manifest.Signer, installer Installer) *Generator {
	if opts.InitialVersion == "" {
		opts.InitialVersion = DefaultVersion
	}
	return &Generator{
		opts:      opts,
		vcs:       vcs,
		signer:    signer,
		installer: installer,
	}
}

// Destination returns the directory a project named name is generated in.
func (g *Generator) Destination(name string) (string, error) {
	dir := g.opts.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Join(dir, name), nil
}

// Generate creates the project described by in. Nothing is written when the
// inputs are invalid or the destination already exists. The seed phrase is
// wiped as soon as the manifest has been signed.
func (g *Generator) Generate(ctx context.Context, in *input.UserInputs) (*Result, error) {
	if in == nil {
		return nil, errors.New("no inputs")
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	name := in.Name()
	dest, err := g.Destination(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Lstat(dest); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking destination: %w", err)
	}

	result := &Result{ProjectName: name, Path: dest}
	warn := func(msg string) {
		result.Warnings = append(result.Warnings, msg)
		output.Warn(msg)
	}

	ops := g.operations(in, dest, warn)

	// The clone is the first operation; only what it created is cleaned up.
	created := false
	for i, op := range ops {
		output.Info(op.Description())
		if err := op.Execute(ctx); err != nil {
			if created && g.opts.CleanupOnFailure {
				g.cleanup(dest)
			}
			return nil, err
		}
		if i == 0 {
			created = true
		}
	}

	return result, nil
}

func (g *Generator) operations(in *input.UserInputs, dest string, warn func(string)) []Operation {
	return []Operation{
		&cloneOp{vcs: g.vcs, url: g.opts.TemplateURL, ref: g.opts.TemplateRef, dest: dest},
		&removeDirOp{path: filepath.Join(dest, GitDir), label: GitDir},
		&writeManifestOp{
			signer:    g.signer,
			accountID: in.AccountID,
			phrase:    in.SecretPhrase,
			path:      filepath.Join(dest, filepath.FromSlash(ManifestPath)),
		},
		&rewriteDescriptorOp{
			path:   filepath.Join(dest, DescriptorFile),
			update: descriptor.ProjectUpdate(in.Name(), g.opts.InitialVersion),
		},
		&removeDirOp{path: filepath.Join(dest, ScaffoldDir), label: ScaffoldDir},
		&envOp{dir: dest, name: in.ProjectName, description: in.Description, warn: warn},
		&readmeOp{path: filepath.Join(dest, ReadmeFile), version: g.opts.ToolVersion},
		&installOp{installer: g.installer, dir: dest},
		&commitOp{vcs: g.vcs, dir: dest, message: CommitMessage},
	}
}

func (g *Generator) cleanup(dest string) {
	if err := os.RemoveAll(dest); err != nil {
		output.Warn(fmt.Sprintf("could not remove %s: %v", dest, err))
		return
	}
	output.Warn(fmt.Sprintf("Removed partially generated project %s", dest))
}
