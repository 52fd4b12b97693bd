package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/simonhull/frames-quickstart/internal/descriptor"
	"github.com/simonhull/frames-quickstart/internal/manifest"
	"github.com/simonhull/frames-quickstart/internal/output"
	"github.com/simonhull/frames-quickstart/internal/secret"
)

// Operation is one step of the pipeline.
//
// Description is printed before Execute runs (e.g. "Generating manifest...").
type Operation interface {
	Description() string
	Execute(ctx context.Context) error
}

// cloneOp materializes the template at dest
type cloneOp struct {
	vcs  VCS
	url  string
	ref  string
	dest string
}

func (op *cloneOp) Description() string {
	return fmt.Sprintf("Creating a new Frames v2 app in %s", op.dest)
}

func (op *cloneOp) Execute(ctx context.Context) error {
	output.Verbose(fmt.Sprintf("Cloning %s", op.url))
	return op.vcs.Clone(ctx, op.url, op.ref, op.dest)
}

// removeDirOp deletes a directory if present
type removeDirOp struct {
	path  string
	label string
}

func (op *removeDirOp) Description() string {
	return fmt.Sprintf("Removing %s directory...", op.label)
}

func (op *removeDirOp) Execute(ctx context.Context) error {
	if err := os.RemoveAll(op.path); err != nil {
		return fmt.Errorf("removing %s: %w", op.label, err)
	}
	return nil
}

// writeManifestOp signs and writes the manifest
type writeManifestOp struct {
	signer    manifest.Signer
	accountID string
	phrase    *secret.Phrase
	path      string
}

func (op *writeManifestOp) Description() string {
	return "Generating manifest..."
}

func (op *writeManifestOp) Execute(ctx context.Context) error {
	data, err := op.signer.Sign(ctx, op.accountID, op.phrase)
	op.phrase.Wipe()
	if err != nil {
		return fmt.Errorf("signing manifest: %w", err)
	}
	if !isJSONObject(data) {
		return errors.New("signing manifest: signer did not return a JSON object")
	}

	if err := os.MkdirAll(filepath.Dir(op.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(op.path), err)
	}
	if err := os.WriteFile(op.path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// rewriteDescriptorOp applies the project update to package.json
type rewriteDescriptorOp struct {
	path   string
	update descriptor.Update
}

func (op *rewriteDescriptorOp) Description() string {
	return "Updating package.json..."
}

func (op *rewriteDescriptorOp) Execute(ctx context.Context) error {
	return descriptor.RewriteFile(op.path, op.update)
}

// envOp creates .env from .env.example
type envOp struct {
	dir         string
	name        string
	description string
	warn        func(string)
}

func (op *envOp) Description() string {
	return "Setting up environment variables..."
}

func (op *envOp) Execute(ctx context.Context) error {
	examplePath := filepath.Join(op.dir, EnvExampleFile)
	envPath := filepath.Join(op.dir, EnvFile)

	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		output.Info(EnvExampleFile + " does not exist, skipping copy and remove operations")
		return nil
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", EnvExampleFile, err)
	}

	if err := copyFile(examplePath, envPath); err != nil {
		return fmt.Errorf("copying %s: %w", EnvExampleFile, err)
	}
	if err := os.Remove(examplePath); err != nil {
		return fmt.Errorf("removing %s: %w", EnvExampleFile, err)
	}

	// Values are written as typed. A quote, newline or $ in either value
	// yields a line dotenv parsers read differently; checkEnv reports it.
	lines := EnvLines(op.name, op.description)
	if err := appendFile(envPath, lines); err != nil {
		return fmt.Errorf("writing %s: %w", EnvFile, err)
	}

	output.Info("Created " + EnvFile + " file from " + EnvExampleFile)
	op.checkEnv(envPath)
	return nil
}

// checkEnv re-reads .env and warns when the appended values do not parse
// back to what the user typed.
func (op *envOp) checkEnv(path string) {
	values, err := godotenv.Read(path)
	if err != nil {
		op.warn(fmt.Sprintf("%s could not be parsed: %v", EnvFile, err))
		return
	}
	want := map[string]string{
		EnvFrameName:        op.name,
		EnvFrameDescription: op.description,
	}
	for _, key := range []string{EnvFrameName, EnvFrameDescription} {
		if values[key] != want[key] {
			op.warn(fmt.Sprintf("%s in %s does not read back as entered; check its quoting", key, EnvFile))
		}
	}
}

// EnvLines returns the text appended to .env.
func EnvLines(name, description string) string {
	return fmt.Sprintf("\n%s=\"%s\"\n%s=\"%s\"", EnvFrameName, name, EnvFrameDescription, description)
}

// readmeOp prepends the generation banner to README.md
type readmeOp struct {
	path    string
	version string
}

func (op *readmeOp) Description() string {
	return "Updating README..."
}

func (op *readmeOp) Execute(ctx context.Context) error {
	banner := Banner(op.version)

	original, err := os.ReadFile(op.path)
	mode := os.FileMode(0644)
	switch {
	case errors.Is(err, os.ErrNotExist):
		original = nil
	case err != nil:
		return fmt.Errorf("reading README: %w", err)
	default:
		if info, statErr := os.Stat(op.path); statErr == nil {
			mode = info.Mode().Perm()
		}
	}

	content := make([]byte, 0, len(banner)+len(original))
	content = append(content, banner...)
	content = append(content, original...)
	if err := os.WriteFile(op.path, content, mode); err != nil {
		return fmt.Errorf("writing README: %w", err)
	}
	return nil
}

// Banner returns the comment prepended to generated READMEs.
func Banner(version string) string {
	return fmt.Sprintf("<!-- generated by frames-v2-quickstart version %s -->\n\n", version)
}

// installOp installs dependencies
type installOp struct {
	installer Installer
	dir       string
}

func (op *installOp) Description() string {
	return "Installing dependencies..."
}

func (op *installOp) Execute(ctx context.Context) error {
	if err := op.installer.Install(ctx, op.dir); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	return nil
}

// commitOp starts fresh history
type commitOp struct {
	vcs     VCS
	dir     string
	message string
}

func (op *commitOp) Description() string {
	return "Initializing git repository..."
}

func (op *commitOp) Execute(ctx context.Context) error {
	return op.vcs.InitialCommit(ctx, op.dir, op.message)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// isJSONObject reports whether data is a JSON object
func isJSONObject(data []byte) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(data, &obj) == nil && obj != nil
}
