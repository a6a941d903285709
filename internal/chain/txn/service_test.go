package txn_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/chain/txn"
	"github/chapool/evm-agent/internal/test"
)

const (
	testKey0     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testAddress1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// newService wires a transaction service against a single stub node named
// "devnet" with chain id 31337.
func newService(t *testing.T, rawKeys []string) (*txn.Service, *test.RPCNode) {
	t.Helper()

	reg, nodes := test.StubRegistry(t, map[string]int64{"devnet": 31337})
	pool, err := conn.NewPool(context.Background(), reg, "devnet")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ids := identity.NewPool(pool.Current(), identity.Options{RawKeys: rawKeys})
	pool.OnSwitch(ids)

	return txn.NewService(pool, ids), nodes["devnet"]
}

// submittedTx decodes the raw transaction recorded by the stub node.
func submittedTx(t *testing.T, node *test.RPCNode) *types.Transaction {
	t.Helper()

	calls := node.Calls("eth_sendRawTransaction")
	require.Len(t, calls, 1)

	var rawHex string
	require.NoError(t, json.Unmarshal(calls[0][0], &rawHex))

	raw, err := hexutil.Decode(rawHex)
	require.NoError(t, err)

	tx := new(types.Transaction)
	require.NoError(t, tx.UnmarshalBinary(raw))
	return tx
}

func TestSendFullySpecifiedDynamicFee(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	var submittedHash string
	node.Handle("eth_sendRawTransaction", func(params []json.RawMessage) (any, *test.RPCError) {
		var rawHex string
		if err := json.Unmarshal(params[0], &rawHex); err != nil {
			return nil, &test.RPCError{Code: -32602, Message: err.Error()}
		}
		raw, _ := hexutil.Decode(rawHex)
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, &test.RPCError{Code: -32602, Message: err.Error()}
		}
		submittedHash = tx.Hash().Hex()
		return submittedHash, nil
	})
	node.Handle("eth_getTransactionReceipt", func(_ []json.RawMessage) (any, *test.RPCError) {
		return test.ReceiptResult(submittedHash, "0x1", 7), nil
	})

	// Both a legacy gasPrice and a complete EIP-1559 pair: the pair must win
	// and gasPrice must not appear in the submitted transaction.
	result, err := service.Send(context.Background(), txn.Request{
		To:                   testAddress1,
		Value:                "0.1",
		Nonce:                swag.Uint64(4),
		GasLimit:             "21000",
		GasPrice:             "5000000000",
		MaxFeePerGas:         "10000000000",
		MaxPriorityFeePerGas: "1000000000",
	})
	require.NoError(t, err)

	tx := submittedTx(t, node)
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, "10000000000", tx.GasFeeCap().String())
	assert.Equal(t, "1000000000", tx.GasTipCap().String())
	assert.Equal(t, uint64(4), tx.Nonce())

	assert.Equal(t, "100000000000000000", result.Value, "0.1 units in wei")
	assert.Equal(t, testAddress0, result.From)
	assert.Equal(t, testAddress1, result.To)
	assert.Equal(t, "10000000000", result.MaxFeePerGas)
	assert.Empty(t, result.GasPrice, "gasPrice is ignored when the pair is present")
	assert.Equal(t, int64(31337), result.ChainID)
	assert.Equal(t, "7", result.BlockNumber)
	assert.Equal(t, "success", result.Status)

	// Everything was caller-supplied, so no pricing round trips happened.
	assert.Empty(t, node.Calls("eth_estimateGas"))
	assert.Empty(t, node.Calls("eth_getTransactionCount"))
}

func TestSendLegacyGasPrice(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	node.Handle("eth_sendRawTransaction", test.StaticResult(test.HashOf(0x11)))
	node.Handle("eth_getTransactionReceipt", test.StaticResult(test.ReceiptResult(test.HashOf(0x11), "0x1", 3)))

	result, err := service.Send(context.Background(), txn.Request{
		To:       testAddress1,
		Value:    "1",
		Nonce:    swag.Uint64(0),
		GasLimit: "21000",
		GasPrice: "5000000000",
	})
	require.NoError(t, err)

	tx := submittedTx(t, node)
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, "5000000000", tx.GasPrice().String())
	assert.Equal(t, "5000000000", result.GasPrice)
	assert.Empty(t, result.MaxFeePerGas)
	assert.Equal(t, "1000000000000000000", result.Value)
}

func TestSendDefaultsToNodeFeeData(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	node.Handle("eth_getBlockByNumber", test.StaticResult(test.HeaderResult(100, "0x3b9aca00"))) // baseFee 1 gwei
	node.Handle("eth_maxPriorityFeePerGas", test.StaticResult("0x3b9aca00"))                     // tip 1 gwei
	node.Handle("eth_getTransactionCount", test.StaticResult("0x2"))
	node.Handle("eth_estimateGas", test.StaticResult("0x5208"))
	node.Handle("eth_sendRawTransaction", test.StaticResult(test.HashOf(0x22)))
	node.Handle("eth_getTransactionReceipt", test.StaticResult(test.ReceiptResult(test.HashOf(0x22), "0x1", 101)))

	_, err := service.Send(context.Background(), txn.Request{To: testAddress1, Value: "0.5"})
	require.NoError(t, err)

	tx := submittedTx(t, node)
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, "3000000000", tx.GasFeeCap().String(), "2*baseFee + tip")
	assert.Equal(t, "1000000000", tx.GasTipCap().String())
	assert.Equal(t, uint64(2), tx.Nonce(), "nonce discovered from the node")
	assert.Equal(t, uint64(21000), tx.Gas(), "gas limit estimated by the node")
}

func TestSendNodeRejection(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	node.Handle("eth_sendRawTransaction", test.StaticError(-32000, "insufficient funds for gas * price + value"))

	_, err := service.Send(context.Background(), txn.Request{
		To:       testAddress1,
		Value:    "1",
		Nonce:    swag.Uint64(0),
		GasLimit: "21000",
		GasPrice: "1000000000",
	})
	require.Error(t, err)

	var submissionErr *txn.SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Contains(t, submissionErr.Error(), "insufficient funds")
}

func TestSendWithoutIdentity(t *testing.T) {
	service, _ := newService(t, nil)

	_, err := service.Send(context.Background(), txn.Request{To: testAddress1, Value: "1"})
	require.ErrorIs(t, err, identity.ErrNoIdentityAvailable)
}

func TestSendUnknownFromAddress(t *testing.T) {
	service, _ := newService(t, []string{testKey0})

	_, err := service.Send(context.Background(), txn.Request{From: testAddress1, To: testAddress0})
	require.ErrorIs(t, err, identity.ErrNoIdentityAvailable)
}

func TestEstimateGasWithExplicitPair(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	node.Handle("eth_estimateGas", test.StaticResult("0x5208"))

	estimate, err := service.EstimateGas(context.Background(), txn.Request{
		To:                   testAddress1,
		Value:                "0.1",
		MaxFeePerGas:         "10000000000",
		MaxPriorityFeePerGas: "1000000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "21000", estimate.GasLimit)
	assert.Equal(t, "10000000000", estimate.MaxFeePerGas)
	assert.Empty(t, estimate.GasPrice)
	// 21000 * 10 gwei = 210000000000000 wei = 0.00021 ETH
	assert.Equal(t, "0.00021", estimate.EstimatedCost)
	assert.Equal(t, "ETH", estimate.Currency)
}

func TestEstimateGasLegacyChain(t *testing.T) {
	service, node := newService(t, []string{testKey0})

	node.Handle("eth_getBlockByNumber", test.StaticResult(test.HeaderResult(100, ""))) // no baseFee: pre-London
	node.Handle("eth_gasPrice", test.StaticResult("0x3b9aca00"))
	node.Handle("eth_estimateGas", test.StaticResult("0x5208"))

	estimate, err := service.EstimateGas(context.Background(), txn.Request{To: testAddress1, Value: "1"})
	require.NoError(t, err)

	assert.Equal(t, "1000000000", estimate.GasPrice)
	assert.Empty(t, estimate.MaxFeePerGas)
	assert.Equal(t, "0.000021", estimate.EstimatedCost)
}
