package identity

import (
	"crypto/ecdsa"
	"crypto/sha512"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultHDPath is the BIP44 account path identities are derived under when
// none is configured.
const DefaultHDPath = "m/44'/60'/0'/0"

const (
	// BIP39 standard parameters: seed = PBKDF2(mnemonic, "mnemonic"+password, 2048, 64, SHA512)
	pbkdf2Iterations = 2048
	pbkdf2KeyLength  = 64

	hardenedOffset = 0x80000000
)

// seedFromMnemonic converts a mnemonic phrase to a BIP39 seed. The passphrase
// is empty; the configuration surface has no slot for one.
func seedFromMnemonic(mnemonic string) []byte {
	return pbkdf2.Key([]byte(mnemonic), []byte("mnemonic"), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
}

// deriveKeyAtPath derives the ECDSA private key for a full BIP44 path
// (e.g. "m/44'/60'/0'/0/3") from a BIP39 seed.
func deriveKeyAtPath(seed []byte, path string) (*ecdsa.PrivateKey, error) {
	indices, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert derived key to ECDSA")
	}
	return privateKey, nil
}

// parseDerivationPath parses "m/44'/60'/0'/0/0" into child-key indices, the
// apostrophe marking a hardened segment.
func parseDerivationPath(path string) ([]uint32, error) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, errors.Errorf("invalid derivation path %q: must start with m/", path)
	}

	indices := make([]uint32, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		hardened := strings.HasSuffix(segment, "'")
		segment = strings.TrimSuffix(segment, "'")

		index, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, errors.Errorf("invalid derivation path segment %q", segment)
		}
		if index >= hardenedOffset {
			return nil, errors.Errorf("derivation path segment %q out of range", segment)
		}
		if hardened {
			index += hardenedOffset
		}
		indices = append(indices, uint32(index))
	}

	if len(indices) == 0 {
		return nil, errors.Errorf("invalid derivation path %q: no segments", path)
	}
	return indices, nil
}

// childPath appends an account index to an account-level path.
func childPath(hdPath string, index uint32) string {
	return fmt.Sprintf("%s/%d", strings.TrimSuffix(hdPath, "/"), index)
}
