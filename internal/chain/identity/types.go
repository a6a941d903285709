package identity

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/conn"
)

// ErrNoIdentityAvailable is returned when no signing identity matches a
// request and none exists as a fallback.
var ErrNoIdentityAvailable = errors.New("no identity available")

// Identity is one signing key-pair. The private key and mnemonic stay
// unexported so they can never leak through logging or serialization; the
// wallet create/import operations read them through ExportPrivateKey and
// Mnemonic, the one sanctioned path for secret material.
type Identity struct {
	address        common.Address
	privateKey     *ecdsa.PrivateKey
	derivationPath string
	mnemonic       string

	pool *Pool
}

// Address returns the checksummed address.
func (i *Identity) Address() common.Address {
	return i.address
}

// PublicKeyHex returns the uncompressed public key as a hex string.
func (i *Identity) PublicKeyHex() string {
	return hexutil.Encode(crypto.FromECDSAPub(&i.privateKey.PublicKey))
}

// DerivationPath returns the BIP44 path this identity was derived at, or ""
// for raw and imported keys.
func (i *Identity) DerivationPath() string {
	return i.derivationPath
}

// Mnemonic returns the seed phrase the identity was derived from, or "" for
// raw and imported keys. Only wallet create/import responses may carry it.
func (i *Identity) Mnemonic() string {
	return i.mnemonic
}

// ExportPrivateKey returns the 0x-prefixed hex private key. Only wallet
// create/import responses may carry it.
func (i *Identity) ExportPrivateKey() string {
	return hexutil.Encode(crypto.FromECDSA(i.privateKey))
}

// Conn returns the connection the identity is currently bound to. The binding
// follows the pool's current network and is swapped in place on every switch.
func (i *Identity) Conn() *conn.Conn {
	return i.pool.boundConn()
}

// SignTx signs tx for the given chain id.
func (i *Identity) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), i.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	return signed, nil
}
