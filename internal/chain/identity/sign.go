package identity

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const signatureLength = 65

// SignMessage signs an EIP-191 personal message and returns the 65-byte
// signature as hex, recovery id in Ethereum's 27/28 convention.
func (i *Identity) SignMessage(message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), i.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign message")
	}
	sig[signatureLength-1] += 27
	return hexutil.Encode(sig), nil
}

// VerifyMessage recovers the signer of an EIP-191 personal-message signature
// and reports whether it matches address. A structurally invalid signature is
// an error; a valid signature from a different key is simply false.
func VerifyMessage(message string, signatureHex string, address string) (bool, error) {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return false, errors.Wrap(err, "invalid signature encoding")
	}
	if len(sig) != signatureLength {
		return false, errors.Errorf("invalid signature length %d, want %d", len(sig), signatureLength)
	}

	// Accept both the raw 0/1 recovery id and the 27/28 convention.
	sig = append([]byte(nil), sig...)
	if sig[signatureLength-1] >= 27 {
		sig[signatureLength-1] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return false, errors.Wrap(err, "failed to recover public key")
	}

	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address), nil
}
