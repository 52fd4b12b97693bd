// Package secret holds sensitive user input in memory only.
//
// A Phrase never renders its contents through fmt, encoding/json or error
// messages; code that needs the value must call Reveal explicitly.
//
// Wipe zeroes only the Phrase's own buffer. Reveal returns an immutable
// string, and the prompt library and the BIP-39 functions consume strings as
// well; those copies stay in memory until the garbage collector reclaims
// them. Keep calls to Reveal to the places that must hand the value on.
package secret

import (
	"bytes"
	"fmt"
)

const redacted = "[REDACTED]"

// Phrase is an account seed phrase.
type Phrase struct {
	b []byte
}

// NewPhrase copies s into a new Phrase.
func NewPhrase(s string) *Phrase {
	return &Phrase{b: []byte(s)}
}

// Reveal returns the phrase. Callers must not log or persist the result.
func (p *Phrase) Reveal() string {
	if p == nil {
		return ""
	}
	return string(p.b)
}

// Empty reports whether the phrase is empty after trimming whitespace.
func (p *Phrase) Empty() bool {
	return p == nil || len(bytes.TrimSpace(p.b)) == 0
}

// Wipe zeroes the phrase. A wiped phrase is Empty.
func (p *Phrase) Wipe() {
	if p == nil {
		return
	}
	for i := range p.b {
		p.b[i] = 0
	}
	p.b = nil
}

func (p *Phrase) String() string   { return redacted }
func (p *Phrase) GoString() string { return redacted }

// Format redacts every verb, including %d and %x on the underlying bytes.
func (p *Phrase) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

// MarshalJSON encodes the phrase as "[REDACTED]".
func (p *Phrase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
