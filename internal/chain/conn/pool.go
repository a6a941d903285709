package conn

import (
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/evm-agent/internal/chain/registry"
)

// Pool owns one live connection per configured network plus the mutable
// current-network cursor. Connections are created eagerly at construction and
// read-only afterwards; the write lock guards only the cursor and the rebind
// handoff triggered by SwitchTo.
type Pool struct {
	mu       sync.RWMutex
	conns    map[string]*Conn
	current  string
	rebinder Rebinder
}

// NewPool dials every network in the registry. A connection that fails to
// construct is logged and left out of the pool; it does not abort startup.
// The cursor starts at defaultNetwork, falling back to the first available
// network (sorted by name) when the default itself failed to construct.
// An empty pool is the one fatal case.
func NewPool(ctx context.Context, reg *registry.Registry, defaultNetwork string) (*Pool, error) {
	conns := make(map[string]*Conn)

	for name, desc := range reg.All() {
		if desc.RPCURL == "" {
			log.Warn().Str("network", name).Msg("Network has no RPC URL, skipping")
			continue
		}

		rpcClient, err := rpc.DialContext(ctx, desc.RPCURL)
		if err != nil {
			log.Warn().
				Str("network", name).
				Str("rpc_url", desc.RPCURL).
				Err(err).
				Msg("Failed to construct network connection, skipping")
			continue
		}

		conns[name] = &Conn{
			desc:   desc,
			rpc:    rpcClient,
			client: ethclient.NewClient(rpcClient),
		}
	}

	if len(conns) == 0 {
		return nil, errors.New("no usable network connections could be constructed")
	}

	current := defaultNetwork
	if _, ok := conns[current]; !ok {
		names := sortedNames(conns)
		log.Warn().
			Str("default_network", defaultNetwork).
			Str("fallback", names[0]).
			Msg("Default network unavailable, falling back to first available network")
		current = names[0]
	}

	log.Info().
		Int("networks", len(conns)).
		Str("current", current).
		Msg("Connection pool initialized")

	return &Pool{conns: conns, current: current}, nil
}

// OnSwitch registers the rebinder invoked after every successful SwitchTo.
func (p *Pool) OnSwitch(r Rebinder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebinder = r
}

// Get returns the connection for name, or the current connection when name is
// empty. Fails with ErrNetworkNotConfigured for unknown names.
func (p *Pool) Get(name string) (*Conn, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if name == "" {
		name = p.current
	}
	c, ok := p.conns[name]
	if !ok {
		return nil, errors.Wrapf(ErrNetworkNotConfigured, "network %q", name)
	}
	return c, nil
}

// Current returns the connection the cursor points at. The cursor invariant
// guarantees this never fails after successful construction.
func (p *Pool) Current() *Conn {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conns[p.current]
}

// CurrentName returns the name of the active network.
func (p *Pool) CurrentName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// SwitchTo moves the cursor to name and rebinds dependents to the new
// connection. Fails with ErrNetworkNotConfigured (cursor untouched) when name
// is absent. The write lock serializes the switch against Get/Current, and
// the rebinder performs its own full-set rebind under the identity pool's
// write lock, so no reader observes a half-switched state.
func (p *Pool) SwitchTo(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.conns[name]
	if !ok {
		return errors.Wrapf(ErrNetworkNotConfigured, "network %q", name)
	}

	p.current = name
	if p.rebinder != nil {
		p.rebinder.Rebind(c)
	}

	log.Info().Str("network", name).Msg("Switched current network")
	return nil
}

// Names returns the names of all usable connections, sorted.
func (p *Pool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedNames(p.conns)
}

// Close tears down every connection. Called once at shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		c.Close()
	}
}

func sortedNames(conns map[string]*Conn) []string {
	names := make([]string, 0, len(conns))
	for name := range conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
