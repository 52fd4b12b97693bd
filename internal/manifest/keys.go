package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

const hardened = hdkeychain.HardenedKeyStart

// custodyPath is the default Ethereum account path used by Farcaster clients.
var custodyPath = []uint32{44 | hardened, 60 | hardened, 0 | hardened, 0, 0}

var (
	// ErrInvalidMnemonic is returned for phrases that are not valid BIP-39 mnemonics.
	ErrInvalidMnemonic = errors.New("seed phrase is not a valid BIP-39 mnemonic")
)

// NormalizeMnemonic applies NFKD and collapses whitespace between words.
func NormalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(norm.NFKD.String(phrase)), " ")
}

// ValidateMnemonic reports whether phrase is a valid BIP-39 mnemonic.
func ValidateMnemonic(phrase string) error {
	if !bip39.IsMnemonicValid(NormalizeMnemonic(phrase)) {
		return ErrInvalidMnemonic
	}
	return nil
}

// deriveCustodyKey returns the private key at custodyPath for phrase.
func deriveCustodyKey(phrase string) (*secp256k1.PrivateKey, error) {
	mnemonic := NormalizeMnemonic(phrase)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	// The network only selects extended key serialization, which is unused.
	node, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("deriving custody key: %w", err)
	}
	for _, index := range custodyPath {
		next, err := node.Derive(index)
		node.Zero()
		if err != nil {
			return nil, fmt.Errorf("deriving custody key: %w", err)
		}
		node = next
	}
	defer node.Zero()

	return node.ECPrivKey()
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Address returns the EIP-55 checksummed Ethereum address of pub.
func Address(pub *secp256k1.PublicKey) string {
	raw := keccak256(pub.SerializeUncompressed()[1:])[12:]
	lower := hex.EncodeToString(raw)
	hash := hex.EncodeToString(keccak256([]byte(lower)))

	out := make([]byte, len(lower))
	for i := range lower {
		c := lower[i]
		if c >= 'a' && hash[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// personalMessageHash is the EIP-191 version 0x45 digest of msg.
func personalMessageHash(msg []byte) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(msg))
	return keccak256([]byte(prefix), msg)
}

// signPersonal returns the 65 byte r || s || v signature with v in {27, 28}.
func signPersonal(key *secp256k1.PrivateKey, msg []byte) []byte {
	compact := ecdsa.SignCompact(key, personalMessageHash(msg), false)
	sig := make([]byte, 0, 65)
	sig = append(sig, compact[1:]...)
	return append(sig, compact[0])
}

// RecoverAddress returns the address that produced an EIP-191 signature
// over msg. It is the inverse of the signing step and is used to verify
// manifests.
func RecoverAddress(msg, sig []byte) (string, error) {
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	compact := make([]byte, 0, 65)
	compact = append(compact, sig[64])
	compact = append(compact, sig[:64]...)

	pub, _, err := ecdsa.RecoverCompact(compact, personalMessageHash(msg))
	if err != nil {
		return "", fmt.Errorf("recovering signer: %w", err)
	}
	return Address(pub), nil
}
