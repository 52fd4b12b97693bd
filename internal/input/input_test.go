package input

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/simonhull/frames-quickstart/internal/output"
	"github.com/simonhull/frames-quickstart/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPhrase = "test test test test test test test test test test test junk"

// scriptedDriver replays answers in order and records what was asked
type scriptedDriver struct {
	answers   []string
	asked     []string
	passwords int
	err       error
}

func (d *scriptedDriver) next(cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.answers) == 0 {
		if d.err != nil {
			return "", d.err
		}
		return "", errors.New("script exhausted")
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return d.next(cfg)
}

func (d *scriptedDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.passwords++
	return d.next(cfg)
}

func quiet(t *testing.T) *bytes.Buffer {
	t.Helper()
	var errOut bytes.Buffer
	output.SetWriters(&bytes.Buffer{}, &errOut)
	t.Cleanup(func() { output.SetWriters(nil, nil) })
	return &errOut
}

func TestCollector_Collect(t *testing.T) {
	quiet(t)
	driver := &scriptedDriver{answers: []string{"my-frame", "A test frame", "1234", validPhrase}}

	inputs, err := NewCollector(driver).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my-frame", inputs.ProjectName)
	assert.Equal(t, "A test frame", inputs.Description)
	assert.Equal(t, "1234", inputs.AccountID)
	assert.Equal(t, validPhrase, inputs.SecretPhrase.Reveal())
	assert.Equal(t, 1, driver.passwords)
	assert.NoError(t, inputs.Validate())
}

func TestCollector_Reprompts(t *testing.T) {
	errOut := quiet(t)
	driver := &scriptedDriver{answers: []string{
		"   ", "my-frame",
		"", "A test frame",
		"abc", "1234",
		"not a phrase", validPhrase,
	}}

	inputs, err := NewCollector(driver).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my-frame", inputs.Name())
	assert.Len(t, driver.asked, 8)
	assert.Equal(t, driver.asked[0], driver.asked[1])
	assert.Contains(t, errOut.String(), "Project name cannot be empty")
	assert.Contains(t, errOut.String(), "FID must be a positive number")
	assert.NotContains(t, errOut.String(), "not a phrase")
}

func TestCollector_Interrupted(t *testing.T) {
	quiet(t)
	driver := &scriptedDriver{answers: []string{"my-frame"}, err: ErrInterrupted}

	_, err := NewCollector(driver).Collect(context.Background())
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestValidateProjectName(t *testing.T) {
	assert.NoError(t, ValidateProjectName("my-frame"))
	assert.NoError(t, ValidateProjectName("  padded  "))

	for _, bad := range []string{"", "   ", "\t\n", ".", "..", "a/b", `a\b`} {
		assert.Error(t, ValidateProjectName(bad), "%q", bad)
	}
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription("A test frame"))
	assert.EqualError(t, ValidateDescription("  "), "Description cannot be empty")
}

func TestValidateAccountID(t *testing.T) {
	assert.NoError(t, ValidateAccountID("1234"))
	assert.EqualError(t, ValidateAccountID(""), "FID cannot be empty")
	assert.Error(t, ValidateAccountID("0"))
	assert.Error(t, ValidateAccountID("12ab"))
}

func TestValidateSeedPhrase(t *testing.T) {
	assert.NoError(t, ValidateSeedPhrase(validPhrase))
	assert.EqualError(t, ValidateSeedPhrase(" "), "Seed phrase cannot be empty")

	err := ValidateSeedPhrase("hunter2 hunter2")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestUserInputs_Validate(t *testing.T) {
	base := func() *UserInputs {
		return &UserInputs{
			ProjectName:  "my-frame",
			Description:  "A test frame",
			AccountID:    "1234",
			SecretPhrase: secret.NewPhrase(validPhrase),
		}
	}

	assert.NoError(t, base().Validate())

	in := base()
	in.ProjectName = "  "
	assert.Error(t, in.Validate())

	in = base()
	in.SecretPhrase = nil
	assert.Error(t, in.Validate())

	in = base()
	in.SecretPhrase.Wipe()
	assert.Error(t, in.Validate())
}

func TestRequireTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	assert.ErrorIs(t, RequireTerminal(f), ErrNotInteractive)
}

func TestTranslateSurveyErr(t *testing.T) {
	other := errors.New("boom")
	assert.Equal(t, other, translateSurveyErr(other))
}
