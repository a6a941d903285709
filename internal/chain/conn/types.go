package conn

import (
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/registry"
)

// ErrNetworkNotConfigured is returned when a requested network name was never
// registered or its connection failed to construct at startup.
var ErrNetworkNotConfigured = errors.New("network not configured")

// Conn is the live handle to one network's RPC endpoint. Constructed once per
// network at pool initialization, never mutated, closed only at shutdown.
type Conn struct {
	desc   registry.NetworkDescriptor
	rpc    *rpc.Client
	client *ethclient.Client
}

// Name returns the logical network name.
func (c *Conn) Name() string {
	return c.desc.Name
}

// Descriptor returns the network descriptor this connection was built from.
func (c *Conn) Descriptor() registry.NetworkDescriptor {
	return c.desc
}

// Client returns the typed ethclient handle.
func (c *Conn) Client() *ethclient.Client {
	return c.client
}

// RPC returns the raw JSON-RPC handle, used where ethclient maps "not found"
// to an error but the caller needs to treat absence as a normal outcome.
func (c *Conn) RPC() *rpc.Client {
	return c.rpc
}

// Close tears down the underlying transport.
func (c *Conn) Close() {
	c.client.Close()
}

// Rebinder is notified after every successful network switch so dependent
// state (the identity pool) can re-attach to the new connection.
type Rebinder interface {
	Rebind(conn *Conn)
}
