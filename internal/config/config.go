// Package config loads frames-quickstart settings.
//
// Settings come from (highest precedence first) FRAMES_QUICKSTART_* environment
// variables, an explicit --config file or frames-quickstart.yaml found in the
// working directory or ~/.config/frames-quickstart, and built-in defaults.
// None of them are required.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
)

const (
	fileName  = "frames-quickstart"
	fileType  = "yaml"
	envPrefix = "FRAMES_QUICKSTART"

	// DefaultTemplateURL is the frames-v2-quickstart template repository.
	DefaultTemplateURL = "https://github.com/lucas-neynar/frames-v2-quickstart.git"
	// DefaultInitialVersion is the version generated packages start at.
	DefaultInitialVersion = "0.1.0"
)

// Config holds the resolved settings.
type Config struct {
	TemplateURL      string // template.url
	TemplateRef      string // template.ref, branch or tag; empty clones the default branch
	PackageManager   string // package_manager
	AppURL           string // manifest.app_url
	InitialVersion   string // initial_version
	CleanupOnFailure bool   // cleanup_on_failure
	ConfigFile       string // file the settings were read from, if any
}

// Dir returns the user config directory (~/.config/frames-quickstart).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", fileName)
	}
	return filepath.Join(home, ".config", fileName)
}

// Load reads configuration. configFile may be empty, in which case the
// default search paths are used and a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("template.url", DefaultTemplateURL)
	v.SetDefault("template.ref", "")
	v.SetDefault("package_manager", "npm")
	v.SetDefault("manifest.app_url", "http://localhost:3000")
	v.SetDefault("initial_version", DefaultInitialVersion)
	v.SetDefault("cleanup_on_failure", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		TemplateURL:      strings.TrimSpace(v.GetString("template.url")),
		TemplateRef:      strings.TrimSpace(v.GetString("template.ref")),
		PackageManager:   strings.TrimSpace(v.GetString("package_manager")),
		AppURL:           strings.TrimSpace(v.GetString("manifest.app_url")),
		InitialVersion:   strings.TrimSpace(v.GetString("initial_version")),
		CleanupOnFailure: v.GetBool("cleanup_on_failure"),
		ConfigFile:       v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.TemplateURL == "" {
		return errors.New("template.url must not be empty")
	}
	if c.PackageManager == "" {
		return errors.New("package_manager must not be empty")
	}
	if _, err := semver.StrictNewVersion(c.InitialVersion); err != nil {
		return fmt.Errorf("initial_version %q is not a semantic version: %w", c.InitialVersion, err)
	}
	u, err := url.Parse(c.AppURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("manifest.app_url %q must be an absolute URL", c.AppURL)
	}
	return nil
}
