package conn_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/registry"
	"github/chapool/evm-agent/internal/test"
)

type recordingRebinder struct {
	rebinds []string
}

func (r *recordingRebinder) Rebind(c *conn.Conn) {
	r.rebinds = append(r.rebinds, c.Name())
}

func TestPoolGetAndChainID(t *testing.T) {
	reg, _ := test.StubRegistry(t, map[string]int64{"mainnet": 1, "polygon": 137})

	pool, err := conn.NewPool(context.Background(), reg, "mainnet")
	require.NoError(t, err)
	defer pool.Close()

	for name, want := range map[string]int64{"mainnet": 1, "polygon": 137} {
		c, err := pool.Get(name)
		require.NoError(t, err)

		chainID, err := c.Client().ChainID(context.Background())
		require.NoError(t, err)
		assert.Zero(t, chainID.Cmp(big.NewInt(want)), name)
		assert.Equal(t, want, c.Descriptor().ChainID, name)
	}

	// Empty name resolves through the cursor.
	c, err := pool.Get("")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", c.Name())

	_, err = pool.Get("ganache")
	require.ErrorIs(t, err, conn.ErrNetworkNotConfigured)
}

func TestPoolSwitchTo(t *testing.T) {
	reg, _ := test.StubRegistry(t, map[string]int64{"mainnet": 1, "polygon": 137})

	pool, err := conn.NewPool(context.Background(), reg, "mainnet")
	require.NoError(t, err)
	defer pool.Close()

	rebinder := &recordingRebinder{}
	pool.OnSwitch(rebinder)

	require.NoError(t, pool.SwitchTo("polygon"))
	assert.Equal(t, "polygon", pool.CurrentName())
	assert.Equal(t, []string{"polygon"}, rebinder.rebinds)

	// Unknown target: cursor untouched, no rebind.
	err = pool.SwitchTo("devnet")
	require.ErrorIs(t, err, conn.ErrNetworkNotConfigured)
	assert.Equal(t, "polygon", pool.CurrentName())
	assert.Len(t, rebinder.rebinds, 1)
}

func TestPoolSkipsBrokenNetworks(t *testing.T) {
	reg, _ := test.StubRegistry(t, map[string]int64{"polygon": 137})
	reg.Register(map[string]registry.NetworkDescriptor{
		"broken": {Name: "broken", ChainID: 1, RPCURL: "::/not-a-url"},
	})

	pool, err := conn.NewPool(context.Background(), reg, "mainnet")
	require.NoError(t, err)
	defer pool.Close()

	// The broken network is absent, mainnet had no URL, so the cursor fell
	// back to the only usable connection.
	assert.Equal(t, "polygon", pool.CurrentName())
	assert.Equal(t, []string{"polygon"}, pool.Names())

	_, err = pool.Get("broken")
	require.ErrorIs(t, err, conn.ErrNetworkNotConfigured)
}

func TestPoolFailsWithZeroConnections(t *testing.T) {
	reg, _ := test.StubRegistry(t, nil)

	_, err := conn.NewPool(context.Background(), reg, "mainnet")
	require.Error(t, err)
}
