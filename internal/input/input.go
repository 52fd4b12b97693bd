package input

import (
	"context"
	"errors"
	"strings"

	"github.com/simonhull/frames-quickstart/internal/manifest"
	"github.com/simonhull/frames-quickstart/internal/output"
	"github.com/simonhull/frames-quickstart/internal/secret"
)

// UserInputs are the answers a frame is generated from. ProjectName and
// Description hold the answers exactly as typed.
type UserInputs struct {
	ProjectName  string
	Description  string
	AccountID    string
	SecretPhrase *secret.Phrase
}

// Name returns the trimmed project name used for the directory and package.
func (u *UserInputs) Name() string {
	return strings.TrimSpace(u.ProjectName)
}

// Validate checks all four answers.
func (u *UserInputs) Validate() error {
	if err := ValidateProjectName(u.ProjectName); err != nil {
		return err
	}
	if err := ValidateDescription(u.Description); err != nil {
		return err
	}
	if err := ValidateAccountID(u.AccountID); err != nil {
		return err
	}
	if u.SecretPhrase.Empty() {
		return errors.New("Seed phrase cannot be empty")
	}
	return ValidateSeedPhrase(u.SecretPhrase.Reveal())
}

// ValidateProjectName rejects empty names and names that are not a single
// directory component.
func ValidateProjectName(s string) error {
	name := strings.TrimSpace(s)
	if name == "" {
		return errors.New("Project name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.New("Project name must be a single directory name")
	}
	return nil
}

// ValidateDescription rejects empty descriptions.
func ValidateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Description cannot be empty")
	}
	return nil
}

// ValidateAccountID rejects empty or non-numeric fids.
func ValidateAccountID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("FID cannot be empty")
	}
	if _, err := manifest.ParseAccountID(s); err != nil {
		return errors.New("FID must be a positive number")
	}
	return nil
}

// ValidateSeedPhrase rejects empty phrases and invalid BIP-39 mnemonics.
// The message never includes the phrase.
func ValidateSeedPhrase(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Seed phrase cannot be empty")
	}
	if err := manifest.ValidateMnemonic(s); err != nil {
		return errors.New("Seed phrase must be a valid 12 or 24 word recovery phrase")
	}
	return nil
}

// Collector asks for UserInputs through a Driver.
type Collector struct {
	driver Driver
}

// NewCollector creates a collector on top of driver.
func NewCollector(driver Driver) *Collector {
	return &Collector{driver: driver}
}

// Collect asks every question in order, re-asking until each answer is valid.
func (c *Collector) Collect(ctx context.Context) (*UserInputs, error) {
	name, err := c.ask(ctx, c.driver.Input, InputConfig{
		Message:   "What is the name of your frame?",
		Validator: ValidateProjectName,
	})
	if err != nil {
		return nil, err
	}

	description, err := c.ask(ctx, c.driver.Input, InputConfig{
		Message:   "Give a one-line description of your frame:",
		Validator: ValidateDescription,
	})
	if err != nil {
		return nil, err
	}

	fid, err := c.ask(ctx, c.driver.Input, InputConfig{
		Message:   "Enter your Farcaster FID:",
		Validator: ValidateAccountID,
	})
	if err != nil {
		return nil, err
	}

	phrase, err := c.ask(ctx, c.driver.Password, InputConfig{
		Message:   "Enter your Farcaster account seed phrase:",
		Help:      "Used once to sign public/manifest.json. It is not stored.",
		Validator: ValidateSeedPhrase,
	})
	if err != nil {
		return nil, err
	}

	return &UserInputs{
		ProjectName:  name,
		Description:  description,
		AccountID:    strings.TrimSpace(fid),
		SecretPhrase: secret.NewPhrase(phrase),
	}, nil
}

type askFunc func(ctx context.Context, cfg InputConfig) (string, error)

// ask re-prompts until cfg.Validator accepts the answer. Drivers may validate
// on their own as well; the check here keeps the contract driver-independent.
func (c *Collector) ask(ctx context.Context, prompt askFunc, cfg InputConfig) (string, error) {
	for {
		answer, err := prompt(ctx, cfg)
		if err != nil {
			return "", err
		}
		if verr := cfg.Validator(answer); verr != nil {
			output.Warn(verr.Error())
			continue
		}
		return answer, nil
	}
}
