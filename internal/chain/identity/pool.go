package identity

import (
	"crypto/ecdsa"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/evm-agent/internal/chain/conn"
)

// hdBatchSize is the number of sequential identities derived from a configured
// mnemonic. Fixed by design: the batch is not configurable, tests and callers
// may rely on exactly ten derived accounts.
const hdBatchSize = 10

// Options carries the startup key material for the pool.
type Options struct {
	// RawKeys are hex private keys, with or without 0x prefix.
	RawKeys []string
	// Mnemonic, when set, derives hdBatchSize identities under HDPath
	// starting at AccountIndex.
	Mnemonic     string
	HDPath       string
	AccountIndex uint32
}

// Pool owns every signing identity, keyed by address, in insertion order. All
// identities are bound to one current connection; Rebind swaps that binding in
// a single step under the write lock, so a concurrent Resolve sees either the
// old or the new network, never a mix.
type Pool struct {
	mu         sync.RWMutex
	order      []common.Address
	identities map[common.Address]*Identity
	conn       *conn.Conn
}

// NewPool derives the startup identities and binds them to c. A malformed raw
// key is logged and skipped; it does not abort the remaining keys. The pool
// may come up empty, in which case signing operations fail with
// ErrNoIdentityAvailable until a wallet is created or imported.
func NewPool(c *conn.Conn, opts Options) *Pool {
	p := &Pool{
		identities: make(map[common.Address]*Identity),
		conn:       c,
	}

	for _, raw := range opts.RawKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			log.Warn().Err(err).Msg("Skipping malformed raw private key")
			continue
		}
		p.insert(&Identity{
			address:    crypto.PubkeyToAddress(key.PublicKey),
			privateKey: key,
			pool:       p,
		})
	}

	if opts.Mnemonic != "" {
		hdPath := opts.HDPath
		if hdPath == "" {
			hdPath = DefaultHDPath
		}

		seed := seedFromMnemonic(opts.Mnemonic)
		for i := uint32(0); i < hdBatchSize; i++ {
			path := childPath(hdPath, opts.AccountIndex+i)
			key, err := deriveKeyAtPath(seed, path)
			if err != nil {
				log.Warn().Str("path", path).Err(err).Msg("Skipping underivable HD path")
				continue
			}
			p.insert(&Identity{
				address:        crypto.PubkeyToAddress(key.PublicKey),
				privateKey:     key,
				derivationPath: path,
				mnemonic:       opts.Mnemonic,
				pool:           p,
			})
		}
	}

	log.Info().Int("identities", len(p.order)).Msg("Identity pool initialized")
	return p
}

// Rebind re-attaches every held identity to the new connection, preserving
// keys. Invoked by the connection pool on every successful network switch.
func (p *Pool) Rebind(c *conn.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn = c
}

// Resolve returns the identity for the given address, or the first identity in
// insertion order when address is empty. Fails with ErrNoIdentityAvailable
// when the pool is empty or the address is unknown.
func (p *Pool) Resolve(address string) (*Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.order) == 0 {
		return nil, errors.Wrap(ErrNoIdentityAvailable, "identity pool is empty")
	}
	if address == "" {
		return p.identities[p.order[0]], nil
	}

	id, ok := p.identities[common.HexToAddress(address)]
	if !ok {
		return nil, errors.Wrapf(ErrNoIdentityAvailable, "address %s", address)
	}
	return id, nil
}

// Create generates a fresh random identity, binds it to the current
// connection and returns it, private key included.
func (p *Pool) Create() (*Identity, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}
	return p.add(key), nil
}

// Import inserts an identity from a caller-supplied hex private key,
// overwriting any existing identity with the same address.
func (p *Pool) Import(privateKeyHex string) (*Identity, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return p.add(key), nil
}

// Addresses returns every held address in insertion order.
func (p *Pool) Addresses() []common.Address {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]common.Address(nil), p.order...)
}

func (p *Pool) add(key *ecdsa.PrivateKey) *Identity {
	id := &Identity{
		address:    crypto.PubkeyToAddress(key.PublicKey),
		privateKey: key,
		pool:       p,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.insert(id)

	log.Info().Str("address", id.address.Hex()).Msg("Identity added to pool")
	return id
}

// insert adds or replaces an identity. Callers hold the write lock (or run
// single-threaded during construction). Replacement keeps the original
// insertion position so the first-available fallback stays stable.
func (p *Pool) insert(id *Identity) {
	if _, exists := p.identities[id.address]; !exists {
		p.order = append(p.order, id.address)
	}
	p.identities[id.address] = id
}

func (p *Pool) boundConn() *conn.Conn {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn
}
