package secret

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhrase_Redacted(t *testing.T) {
	p := NewPhrase("test test test test test test test test test test test junk")

	for _, verb := range []string{"%v", "%s", "%q", "%#v", "%+v", "%x", "%d"} {
		got := fmt.Sprintf(verb, p)
		assert.Equal(t, "[REDACTED]", got, verb)
	}

	err := fmt.Errorf("signing with %v failed", p)
	assert.NotContains(t, err.Error(), "junk")

	data, err := json.Marshal(struct {
		Phrase *Phrase `json:"phrase"`
	}{p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phrase":"[REDACTED]"}`, string(data))
}

func TestPhrase_RevealAndWipe(t *testing.T) {
	p := NewPhrase("alpha beta")
	assert.Equal(t, "alpha beta", p.Reveal())
	assert.False(t, p.Empty())

	p.Wipe()
	assert.True(t, p.Empty())
	assert.Equal(t, "", p.Reveal())
}

func TestPhrase_Empty(t *testing.T) {
	assert.True(t, NewPhrase("   \t").Empty())
	assert.True(t, NewPhrase("").Empty())

	var p *Phrase
	assert.True(t, p.Empty())
	p.Wipe()
}

func TestPhrase_WipeZeroesBuffer(t *testing.T) {
	p := NewPhrase("test test junk")
	buf := p.b

	p.Wipe()
	assert.Equal(t, make([]byte, len(buf)), buf)
	assert.Nil(t, p.b)
}
