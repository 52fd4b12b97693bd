package manifest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/simonhull/frames-quickstart/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development mnemonics and their first Ethereum accounts.
const (
	hardhatMnemonic = "test test test test test test test test test test test junk"
	hardhatAddress  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddress  = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
)

func TestDeriveCustodyKey(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		want     string
	}{
		{"hardhat", hardhatMnemonic, hardhatAddress},
		{"abandon", abandonMnemonic, abandonAddress},
		{"extra whitespace", "  test test test test test test\ttest test test test test   junk \n", hardhatAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := deriveCustodyKey(tt.mnemonic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Address(key.PubKey()))
		})
	}
}

func TestValidateMnemonic(t *testing.T) {
	assert.NoError(t, ValidateMnemonic(hardhatMnemonic))
	assert.ErrorIs(t, ValidateMnemonic("test test test"), ErrInvalidMnemonic)
	assert.ErrorIs(t, ValidateMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"), ErrInvalidMnemonic)
	assert.ErrorIs(t, ValidateMnemonic(""), ErrInvalidMnemonic)
}

func TestParseAccountID(t *testing.T) {
	fid, err := ParseAccountID(" 1234 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), fid)

	for _, bad := range []string{"", "0", "-3", "12a", "1.5"} {
		_, err := ParseAccountID(bad)
		assert.ErrorIs(t, err, ErrInvalidAccountID, bad)
	}
}

func TestSignPersonal_Recovers(t *testing.T) {
	key, err := deriveCustodyKey(hardhatMnemonic)
	require.NoError(t, err)

	msg := []byte("hello frames")
	sig := signPersonal(key, msg)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	got, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, hardhatAddress, got)

	other, err := RecoverAddress([]byte("tampered"), sig)
	if err == nil {
		assert.NotEqual(t, hardhatAddress, other)
	}
}

func TestCustodySigner_Sign(t *testing.T) {
	signer, err := NewCustodySigner("http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", signer.Domain())

	data, err := signer.Sign(context.Background(), "1234", secret.NewPhrase(hardhatMnemonic))
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	header, err := DecodeHeader(m.AccountAssociation.Header)
	require.NoError(t, err)
	assert.Equal(t, Header{FID: 1234, Type: "custody", Key: hardhatAddress}, *header)

	payload, err := DecodePayload(m.AccountAssociation.Payload)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", payload.Domain)

	require.NoError(t, Verify(m.AccountAssociation))

	assert.Equal(t, "http://localhost:3000", m.Frame.HomeURL)
	assert.Equal(t, "http://localhost:3000/icon.png", m.Frame.IconURL)
	assert.Equal(t, "http://localhost:3000/api/webhook", m.Frame.WebhookURL)
}

func TestCustodySigner_Deterministic(t *testing.T) {
	signer, err := NewCustodySigner("https://frame.example.com/")
	require.NoError(t, err)

	first, err := signer.Sign(context.Background(), "42", secret.NewPhrase(abandonMnemonic))
	require.NoError(t, err)
	second, err := signer.Sign(context.Background(), "42", secret.NewPhrase(abandonMnemonic))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCustodySigner_Errors(t *testing.T) {
	signer, err := NewCustodySigner("http://localhost:3000")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = signer.Sign(ctx, "abc", secret.NewPhrase(hardhatMnemonic))
	assert.ErrorIs(t, err, ErrInvalidAccountID)

	_, err = signer.Sign(ctx, "1", secret.NewPhrase("   "))
	assert.ErrorIs(t, err, ErrInvalidMnemonic)

	phrase := "not a real phrase at all"
	_, err = signer.Sign(ctx, "1", secret.NewPhrase(phrase))
	require.ErrorIs(t, err, ErrInvalidMnemonic)
	assert.NotContains(t, err.Error(), phrase)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = signer.Sign(cancelled, "1", secret.NewPhrase(hardhatMnemonic))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCustodySigner_InvalidURL(t *testing.T) {
	_, err := NewCustodySigner("localhost")
	assert.Error(t, err)
}

func TestVerify_RejectsForeignHeader(t *testing.T) {
	signer, err := NewCustodySigner("http://localhost:3000")
	require.NoError(t, err)
	data, err := signer.Sign(context.Background(), "7", secret.NewPhrase(hardhatMnemonic))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	forged, err := json.Marshal(Header{FID: 7, Type: "custody", Key: abandonAddress})
	require.NoError(t, err)
	m.AccountAssociation.Header = base64.RawURLEncoding.EncodeToString(forged)

	assert.Error(t, Verify(m.AccountAssociation))
}

func TestValidate(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		assert.Error(t, Validate([]byte("{")))
	})

	t.Run("not an object", func(t *testing.T) {
		var ve *ValidationError
		require.ErrorAs(t, Validate([]byte(`[1,2]`)), &ve)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := Validate([]byte(`{"accountAssociation":{"header":"abc"},"frame":{"version":"next","name":"x","homeUrl":"h","iconUrl":"i"}}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.NotEmpty(t, ve.Issues)
		assert.Contains(t, err.Error(), "/accountAssociation")
	})
}
