package test

import (
	"fmt"
	"strings"
	"testing"

	"github/chapool/evm-agent/internal/chain/registry"
)

// ZeroBloom is an empty 256-byte logs bloom in hex.
var ZeroBloom = "0x" + strings.Repeat("0", 512)

// HashOf returns a deterministic 32-byte hex hash filled with b.
func HashOf(b byte) string {
	return "0x" + strings.Repeat(fmt.Sprintf("%02x", b), 32)
}

// AddressOf returns a deterministic 20-byte hex address filled with b.
func AddressOf(b byte) string {
	return "0x" + strings.Repeat(fmt.Sprintf("%02x", b), 20)
}

// ReceiptResult builds an eth_getTransactionReceipt result accepted by
// go-ethereum's receipt decoding. status is "0x1" for success, "0x0" for a
// revert.
func ReceiptResult(txHash string, status string, blockNumber int64) map[string]any {
	return map[string]any{
		"type":              "0x2",
		"status":            status,
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"effectiveGasPrice": "0x3b9aca00",
		"logsBloom":         ZeroBloom,
		"logs":              []any{},
		"transactionHash":   txHash,
		"blockHash":         HashOf(0xbb),
		"blockNumber":       fmt.Sprintf("0x%x", blockNumber),
		"transactionIndex":  "0x0",
	}
}

// HeaderResult builds an eth_getBlockByNumber header accepted by go-ethereum's
// header decoding. baseFeeHex may be "" for a pre-London chain.
func HeaderResult(number int64, baseFeeHex string) map[string]any {
	header := map[string]any{
		"parentHash":       HashOf(0x00),
		"sha3Uncles":       "0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347",
		"miner":            AddressOf(0x00),
		"stateRoot":        HashOf(0x01),
		"transactionsRoot": "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421",
		"receiptsRoot":     "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421",
		"logsBloom":        ZeroBloom,
		"difficulty":       "0x0",
		"number":           fmt.Sprintf("0x%x", number),
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x5208",
		"timestamp":        "0x6502f880",
		"extraData":        "0x",
		"mixHash":          HashOf(0x02),
		"nonce":            "0x0000000000000000",
	}
	if baseFeeHex != "" {
		header["baseFeePerGas"] = baseFeeHex
	}
	return header
}

// StubRegistry builds a registry whose only usable networks are backed by
// fresh stub nodes, one per requested chain id. The built-in networks stay
// registered but get no RPC URL, so the connection pool skips them.
func StubRegistry(t *testing.T, chainIDs map[string]int64) (*registry.Registry, map[string]*RPCNode) {
	t.Helper()

	reg := registry.New()
	for _, name := range reg.Names() {
		reg.OverrideRPC(name, "")
	}

	nodes := make(map[string]*RPCNode, len(chainIDs))
	descriptors := make(map[string]registry.NetworkDescriptor, len(chainIDs))
	for name, chainID := range chainIDs {
		node := StartRPCNode(t, chainID)
		nodes[name] = node
		descriptors[name] = registry.NetworkDescriptor{
			Name:           name,
			ChainID:        chainID,
			RPCURL:         node.URL(),
			CurrencySymbol: "ETH",
		}
	}
	reg.Register(descriptors)

	return reg, nodes
}
