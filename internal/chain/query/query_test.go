package query_test

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/query"
	"github/chapool/evm-agent/internal/test"
)

func newService(t *testing.T) (*query.Service, *test.RPCNode) {
	t.Helper()

	reg, nodes := test.StubRegistry(t, map[string]int64{"devnet": 31337})
	pool, err := conn.NewPool(context.Background(), reg, "devnet")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return query.NewService(pool), nodes["devnet"]
}

func TestBalance(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_getBalance", test.StaticResult("0xde0b6b3a7640000")) // 1 ETH
	node.Handle("eth_getTransactionCount", test.StaticResult("0x5"))

	balance, err := service.Balance(context.Background(), "", test.AddressOf(0x42))
	require.NoError(t, err)

	assert.Equal(t, "1000000000000000000", balance.Balance)
	assert.Equal(t, "1", balance.Formatted)
	assert.Equal(t, "ETH", balance.Currency)
	assert.Equal(t, uint64(5), balance.Nonce)
}

func TestBlockByNumber(t *testing.T) {
	service, node := newService(t)

	result := test.HeaderResult(42, "0x3b9aca00")
	result["hash"] = test.HashOf(0xaa)
	result["transactions"] = []string{test.HashOf(0x01), test.HashOf(0x02)}
	node.Handle("eth_getBlockByNumber", test.StaticResult(result))

	block, err := service.Block(context.Background(), "", swag.Int64(42))
	require.NoError(t, err)
	require.NotNil(t, block)

	assert.Equal(t, "42", block.Number)
	assert.Equal(t, test.HashOf(0xaa), block.Hash)
	assert.Equal(t, "1000000000", block.BaseFeePerGas)
	assert.Equal(t, []string{test.HashOf(0x01), test.HashOf(0x02)}, block.Transactions)

	calls := node.Calls("eth_getBlockByNumber")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `"0x2a"`, string(calls[0][0]), "block number goes over the wire in hex")
}

func TestBlockDefaultsToLatest(t *testing.T) {
	service, node := newService(t)

	result := test.HeaderResult(100, "")
	result["hash"] = test.HashOf(0xaa)
	result["transactions"] = []string{}
	node.Handle("eth_getBlockByNumber", test.StaticResult(result))

	block, err := service.Block(context.Background(), "", nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, "100", block.Number)
	assert.Empty(t, block.BaseFeePerGas)

	calls := node.Calls("eth_getBlockByNumber")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `"latest"`, string(calls[0][0]))
}

func TestBlockNotFoundIsNotAnError(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_getBlockByNumber", test.NullResult())

	block, err := service.Block(context.Background(), "", swag.Int64(99999999999))
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestTransactionWaitsForReceipt(t *testing.T) {
	service, node := newService(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)
	to := common.HexToAddress(test.AddressOf(0x42))

	signed, err := types.SignNewTx(key, types.LatestSignerForChainID(big.NewInt(31337)), &types.DynamicFeeTx{
		ChainID:   big.NewInt(31337),
		Nonce:     3,
		To:        &to,
		Value:     big.NewInt(1000),
		Gas:       21000,
		GasFeeCap: big.NewInt(2000000000),
		GasTipCap: big.NewInt(1000000000),
	})
	require.NoError(t, err)

	encoded, err := json.Marshal(signed)
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal(encoded, &result))
	result["from"] = from.Hex()
	result["blockHash"] = test.HashOf(0xbb)
	result["blockNumber"] = "0x7"

	node.Handle("eth_getTransactionByHash", test.StaticResult(result))
	node.Handle("eth_getTransactionReceipt", test.StaticResult(test.ReceiptResult(signed.Hash().Hex(), "0x1", 7)))

	tx, err := service.Transaction(context.Background(), "", signed.Hash().Hex())
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, signed.Hash().Hex(), tx.Hash)
	assert.Equal(t, from.Hex(), tx.From)
	assert.Equal(t, to.Hex(), tx.To)
	assert.Equal(t, "1000", tx.Value)
	assert.Equal(t, uint64(3), tx.Nonce)
	assert.Equal(t, "2000000000", tx.MaxFeePerGas)
	assert.Empty(t, tx.GasPrice)
	assert.Equal(t, "7", tx.BlockNumber)
	assert.Equal(t, "21000", tx.GasUsed)
	assert.Equal(t, "success", tx.Status)
}

func TestTransactionNotFoundIsNotAnError(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_getTransactionByHash", test.NullResult())

	tx, err := service.Transaction(context.Background(), "", test.HashOf(0xcc))
	require.NoError(t, err)
	assert.Nil(t, tx)
	assert.Empty(t, node.Calls("eth_getTransactionReceipt"), "no receipt wait for unknown transactions")
}

func TestLogs(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_getLogs", test.StaticResult([]any{
		map[string]any{
			"address":          test.AddressOf(0x42),
			"topics":           []string{test.HashOf(0x01)},
			"data":             "0x1234",
			"blockNumber":      "0x10",
			"transactionHash":  test.HashOf(0x02),
			"transactionIndex": "0x0",
			"blockHash":        test.HashOf(0x03),
			"logIndex":         "0x1",
			"removed":          false,
		},
	}))

	records, err := service.Logs(context.Background(), "", query.LogFilter{
		Address:   []string{test.AddressOf(0x42)},
		FromBlock: swag.Int64(0),
		ToBlock:   swag.Int64(100),
		Topics:    [][]string{{test.HashOf(0x01)}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, common.HexToAddress(test.AddressOf(0x42)).Hex(), records[0].Address)
	assert.Equal(t, []string{test.HashOf(0x01)}, records[0].Topics)
	assert.Equal(t, "0x1234", records[0].Data)
	assert.Equal(t, "16", records[0].BlockNumber)
	assert.Equal(t, uint(1), records[0].LogIndex)
}

func TestLogsEmpty(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_getLogs", test.StaticResult([]any{}))

	records, err := service.Logs(context.Background(), "", query.LogFilter{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFeeDataWithBaseFee(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_gasPrice", test.StaticResult("0x77359400"))                               // 2 gwei
	node.Handle("eth_getBlockByNumber", test.StaticResult(test.HeaderResult(1, "0x3b9aca00"))) // baseFee 1 gwei
	node.Handle("eth_maxPriorityFeePerGas", test.StaticResult("0x3b9aca00"))                   // tip 1 gwei

	fees, err := service.FeeData(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2000000000", fees.GasPrice)
	assert.Equal(t, "1000000000", fees.BaseFeePerGas)
	assert.Equal(t, "3000000000", fees.MaxFeePerGas, "2*baseFee + tip")
	assert.Equal(t, "1000000000", fees.MaxPriorityFeePerGas)
}

func TestFeeDataPreLondon(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_gasPrice", test.StaticResult("0x77359400"))
	node.Handle("eth_getBlockByNumber", test.StaticResult(test.HeaderResult(1, "")))

	fees, err := service.FeeData(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2000000000", fees.GasPrice)
	assert.Empty(t, fees.MaxFeePerGas)
	assert.Empty(t, fees.MaxPriorityFeePerGas)
	assert.Empty(t, node.Calls("eth_maxPriorityFeePerGas"))
}

// vitalikNameHash is the ENS namehash of "vitalik.eth", a fixed value of the
// algorithm usable as a known-answer check.
const vitalikNameHash = "ee6c4522aab0003e8d14cd40a6af439055fd2577951148c14b6cea9a53475835"

func TestResolveName(t *testing.T) {
	service, node := newService(t)

	resolverAddr := common.HexToAddress(test.AddressOf(0x51))
	resolvedAddr := common.HexToAddress(test.AddressOf(0x52))

	node.Handle("eth_call", func(params []json.RawMessage) (any, *test.RPCError) {
		data := callInput(params[0])
		switch {
		case strings.HasPrefix(data, "0x0178b8bf"): // resolver(bytes32)
			if !strings.HasSuffix(data, vitalikNameHash) {
				return nil, &test.RPCError{Code: -32602, Message: "unexpected namehash"}
			}
			return packAddress(resolverAddr), nil
		case strings.HasPrefix(data, "0x3b3b57de"): // addr(bytes32)
			return packAddress(resolvedAddr), nil
		case strings.HasPrefix(data, "0x59d1d43c"): // text(bytes32,string)
			return packString("https://example.com/avatar.png"), nil
		default:
			return nil, &test.RPCError{Code: -32601, Message: "unknown selector"}
		}
	})

	info, err := service.ResolveName(context.Background(), "", "vitalik.eth")
	require.NoError(t, err)

	assert.Equal(t, "vitalik.eth", info.Name)
	assert.Equal(t, resolverAddr.Hex(), info.Resolver)
	assert.Equal(t, resolvedAddr.Hex(), info.Address)
	assert.Equal(t, "https://example.com/avatar.png", info.Avatar)
}

func TestResolveNameWithoutResolver(t *testing.T) {
	service, node := newService(t)

	node.Handle("eth_call", test.StaticResult(packAddress(common.Address{})))

	info, err := service.ResolveName(context.Background(), "", "nobody.eth")
	require.NoError(t, err)

	assert.Equal(t, "nobody.eth", info.Name)
	assert.Empty(t, info.Resolver)
	assert.Empty(t, info.Address)
	require.Len(t, node.Calls("eth_call"), 1, "no resolver means no further lookups")
}

func TestResolveNameAvatarFailureIsBestEffort(t *testing.T) {
	service, node := newService(t)

	resolverAddr := common.HexToAddress(test.AddressOf(0x51))
	resolvedAddr := common.HexToAddress(test.AddressOf(0x52))

	node.Handle("eth_call", func(params []json.RawMessage) (any, *test.RPCError) {
		data := callInput(params[0])
		switch {
		case strings.HasPrefix(data, "0x0178b8bf"):
			return packAddress(resolverAddr), nil
		case strings.HasPrefix(data, "0x3b3b57de"):
			return packAddress(resolvedAddr), nil
		default:
			return nil, &test.RPCError{Code: 3, Message: "execution reverted"}
		}
	})

	info, err := service.ResolveName(context.Background(), "", "vitalik.eth")
	require.NoError(t, err)

	assert.Equal(t, resolvedAddr.Hex(), info.Address)
	assert.Empty(t, info.Avatar)
}

// callInput extracts the calldata from an eth_call parameter object. Newer
// client versions send it as "input", older ones as "data".
func callInput(param json.RawMessage) string {
	var msg struct {
		Input string `json:"input"`
		Data  string `json:"data"`
	}
	_ = json.Unmarshal(param, &msg)
	if msg.Input != "" {
		return msg.Input
	}
	return msg.Data
}

// packAddress ABI-encodes a single address return value.
func packAddress(addr common.Address) string {
	return hexutil.Encode(common.LeftPadBytes(addr.Bytes(), 32))
}

// packString ABI-encodes a single string return value.
func packString(s string) string {
	out := make([]byte, 0, 64+len(s))
	out = append(out, common.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(big.NewInt(int64(len(s))).Bytes(), 32)...)
	out = append(out, common.RightPadBytes([]byte(s), (len(s)+31)/32*32)...)
	return hexutil.Encode(out)
}
