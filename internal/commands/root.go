// Package commands implements the frames-quickstart command line.
package commands

import (
	"context"
	"fmt"
	"os"

	quickstart "github.com/simonhull/frames-quickstart"
	"github.com/simonhull/frames-quickstart/internal/config"
	"github.com/simonhull/frames-quickstart/internal/exec"
	"github.com/simonhull/frames-quickstart/internal/generator"
	"github.com/simonhull/frames-quickstart/internal/git"
	"github.com/simonhull/frames-quickstart/internal/input"
	"github.com/simonhull/frames-quickstart/internal/manifest"
	"github.com/simonhull/frames-quickstart/internal/output"
	"github.com/simonhull/frames-quickstart/internal/pkgmgr"
	"github.com/spf13/cobra"
)

// deps are the collaborators a run is wired with.
type deps struct {
	driver    input.Driver
	terminal  func() error // nil skips the interactive check
	executor  func() *exec.Executor
	vcs       func(*exec.Executor) generator.VCS
	installer func(pkgmgr.Manager, *exec.Executor) generator.Installer
	workDir   string // empty means the working directory
}

func defaultDeps() deps {
	return deps{
		driver:   input.NewSurveyDriver(),
		terminal: func() error { return input.RequireTerminal(os.Stdin) },
		executor: func() *exec.Executor { return exec.NewExecutor(nil) },
		vcs: func(e *exec.Executor) generator.VCS {
			return git.NewOps(e)
		},
		installer: func(m pkgmgr.Manager, e *exec.Executor) generator.Installer {
			return pkgmgr.NewInstaller(m, e)
		},
	}
}

// RootCmd creates and returns the root command for the frames-quickstart CLI
func RootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "frames-quickstart",
		Short: "Create a new Farcaster Frames v2 app",
		Long: `frames-quickstart creates a Farcaster Frames v2 app from the
frames-v2-quickstart template:
• Clones the template into ./<project-name>
• Signs public/manifest.json with your Farcaster custody key
• Sets up package.json, .env and README.md
• Installs dependencies and creates the first git commit

Your seed phrase is only used to sign the manifest. It is never stored.`,
		Version:       quickstart.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), d, configFile)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./frames-quickstart.yaml or ~/.config/frames-quickstart/frames-quickstart.yaml)")

	return cmd
}

func run(ctx context.Context, d deps, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		output.Verbose(fmt.Sprintf("Using config file %s", cfg.ConfigFile))
	}

	// Settings are checked before any question so a bad config never costs
	// the user their answers.
	mgr, err := pkgmgr.NewDefaultRegistry().Get(cfg.PackageManager)
	if err != nil {
		return err
	}
	signer, err := manifest.NewCustodySigner(cfg.AppURL)
	if err != nil {
		return err
	}
	output.Verbose(fmt.Sprintf("Manifest will be signed for %s", signer.Domain()))

	if d.terminal != nil {
		if err := d.terminal(); err != nil {
			return err
		}
	}

	in, err := input.NewCollector(d.driver).Collect(ctx)
	if err != nil {
		return err
	}
	defer in.SecretPhrase.Wipe()

	executor := d.executor()
	gen := generator.New(generator.Options{
		TemplateURL:      cfg.TemplateURL,
		TemplateRef:      cfg.TemplateRef,
		InitialVersion:   cfg.InitialVersion,
		ToolVersion:      quickstart.Version,
		WorkDir:          d.workDir,
		CleanupOnFailure: cfg.CleanupOnFailure,
	}, d.vcs(executor), signer, d.installer(mgr, executor))

	result, err := gen.Generate(ctx, in)
	if err != nil {
		return err
	}

	output.Success(fmt.Sprintf("Successfully created frame %s with git and dependencies installed!", result.ProjectName))
	output.Info("To run the app:")
	output.Step(fmt.Sprintf("cd %s", result.ProjectName))
	output.Step(mgr.RunScript("dev"))
	return nil
}
