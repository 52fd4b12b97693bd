package manifest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/simonhull/frames-quickstart/internal/secret"
)

// Signer produces the manifest document for an account. Implementations
// must not retain, log or persist the phrase.
type Signer interface {
	Sign(ctx context.Context, accountID string, phrase *secret.Phrase) ([]byte, error)
}

// Manifest is the document served at /.well-known/farcaster.json by the
// generated app.
type Manifest struct {
	AccountAssociation AccountAssociation `json:"accountAssociation"`
	Frame              Frame              `json:"frame"`
}

// AccountAssociation is a JSON Farcaster Signature in compact form.
type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Frame carries the frame metadata fixed by the template.
type Frame struct {
	Version               string `json:"version"`
	Name                  string `json:"name"`
	IconURL               string `json:"iconUrl"`
	HomeURL               string `json:"homeUrl"`
	ImageURL              string `json:"imageUrl"`
	ButtonTitle           string `json:"buttonTitle"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
	WebhookURL            string `json:"webhookUrl"`
}

// Header identifies the signing account.
type Header struct {
	FID  uint64 `json:"fid"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Payload binds the signature to a domain.
type Payload struct {
	Domain string `json:"domain"`
}

// ErrInvalidAccountID is returned when the fid is not a positive integer.
var ErrInvalidAccountID = errors.New("account id must be a positive integer")

// ParseAccountID parses a Farcaster fid.
func ParseAccountID(accountID string) (uint64, error) {
	fid, err := strconv.ParseUint(strings.TrimSpace(accountID), 10, 64)
	if err != nil || fid == 0 {
		return 0, ErrInvalidAccountID
	}
	return fid, nil
}

// CustodySigner signs manifests with the custody key derived from the seed
// phrase.
type CustodySigner struct {
	appURL *url.URL
}

// NewCustodySigner creates a signer for an app served at appURL
// (e.g. "http://localhost:3000").
func NewCustodySigner(appURL string) (*CustodySigner, error) {
	u, err := url.Parse(appURL)
	if err != nil {
		return nil, fmt.Errorf("parsing app url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("app url %q must include scheme and host", appURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &CustodySigner{appURL: u}, nil
}

// Domain returns the host the account association is bound to.
func (s *CustodySigner) Domain() string {
	return s.appURL.Host
}

// Sign builds and signs the manifest, returning its compact JSON encoding.
func (s *CustodySigner) Sign(ctx context.Context, accountID string, phrase *secret.Phrase) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fid, err := ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	if phrase.Empty() {
		return nil, ErrInvalidMnemonic
	}

	key, err := deriveCustodyKey(phrase.Reveal())
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	header, err := encodeSegment(Header{FID: fid, Type: "custody", Key: Address(key.PubKey())})
	if err != nil {
		return nil, err
	}
	payload, err := encodeSegment(Payload{Domain: s.Domain()})
	if err != nil {
		return nil, err
	}
	sig := signPersonal(key, []byte(header+"."+payload))

	m := Manifest{
		AccountAssociation: AccountAssociation{
			Header:    header,
			Payload:   payload,
			Signature: base64.RawURLEncoding.EncodeToString(sig),
		},
		Frame: s.frame(),
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *CustodySigner) frame() Frame {
	return Frame{
		Version:               "next",
		Name:                  "Frames v2 Demo",
		IconURL:               s.url("icon.png"),
		HomeURL:               s.url(""),
		ImageURL:              s.url("opengraph-image"),
		ButtonTitle:           "Launch Frame",
		SplashImageURL:        s.url("splash.png"),
		SplashBackgroundColor: "#f7f7f7",
		WebhookURL:            s.url("api/webhook"),
	}
}

func (s *CustodySigner) url(path string) string {
	if path == "" {
		return s.appURL.String()
	}
	return s.appURL.JoinPath(path).String()
}

func encodeSegment(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %T: %w", v, err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeHeader decodes the header segment of an account association.
func DecodeHeader(segment string) (*Header, error) {
	var h Header
	if err := decodeSegment(segment, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// DecodePayload decodes the payload segment of an account association.
func DecodePayload(segment string) (*Payload, error) {
	var p Payload
	if err := decodeSegment(segment, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeSegment(segment string, v any) error {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return fmt.Errorf("decoding segment: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing segment: %w", err)
	}
	return nil
}

// Verify checks that the account association was signed by the custody
// address named in its header.
func Verify(a AccountAssociation) error {
	header, err := DecodeHeader(a.Header)
	if err != nil {
		return err
	}
	sig, err := base64.RawURLEncoding.DecodeString(a.Signature)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}
	signer, err := RecoverAddress([]byte(a.Header+"."+a.Payload), sig)
	if err != nil {
		return err
	}
	if !strings.EqualFold(signer, header.Key) {
		return fmt.Errorf("signature made by %s, header names %s", signer, header.Key)
	}
	return nil
}
