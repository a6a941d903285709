package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The fee precedence is documented policy, pinned here exactly: a complete
// EIP-1559 pair beats legacy gasPrice, gasPrice alone selects legacy, an
// incomplete pair does not count as a pair.
func TestSelectFeeMode(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want feeMode
	}{
		{"nothing set", Request{}, feeModeNode},
		{"legacy only", Request{GasPrice: "5"}, feeModeLegacy},
		{"pair only", Request{MaxFeePerGas: "10", MaxPriorityFeePerGas: "1"}, feeModeDynamic},
		{"pair beats legacy", Request{GasPrice: "5", MaxFeePerGas: "10", MaxPriorityFeePerGas: "1"}, feeModeDynamic},
		{"half a pair falls back to legacy", Request{GasPrice: "5", MaxFeePerGas: "10"}, feeModeLegacy},
		{"half a pair alone defers to node", Request{MaxPriorityFeePerGas: "1"}, feeModeNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectFeeMode(tt.req))
		})
	}
}

func TestParseWei(t *testing.T) {
	v, err := parseWei("gasPrice", "5000000000")
	assert.NoError(t, err)
	assert.Equal(t, "5000000000", v.String())

	for _, bad := range []string{"", "-1", "0x5", "five"} {
		_, err := parseWei("gasPrice", bad)
		assert.Error(t, err, bad)
	}
}
