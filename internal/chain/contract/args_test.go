package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, name string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

func TestCoerceArg(t *testing.T) {
	addr := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	tests := []struct {
		name    string
		abiType string
		value   any
		want    any
		wantErr string
	}{
		{name: "address", abiType: "address", value: addr, want: common.HexToAddress(addr)},
		{name: "address from garbage", abiType: "address", value: "nope", wantErr: "hex address"},
		{name: "uint256 from string", abiType: "uint256", value: "115792089237316195423570985008687907853269984665640564039457584007913129639935", want: mustBig("115792089237316195423570985008687907853269984665640564039457584007913129639935")},
		{name: "uint256 from number", abiType: "uint256", value: float64(42), want: big.NewInt(42)},
		{name: "uint8", abiType: "uint8", value: float64(255), want: uint8(255)},
		{name: "uint8 overflow", abiType: "uint8", value: float64(256), wantErr: "out of range"},
		{name: "uint negative", abiType: "uint64", value: "-1", wantErr: "out of range"},
		{name: "int32", abiType: "int32", value: "-7", want: int32(-7)},
		{name: "bool", abiType: "bool", value: true, want: true},
		{name: "string", abiType: "string", value: "hello", want: "hello"},
		{name: "bytes", abiType: "bytes", value: "0x1234", want: []byte{0x12, 0x34}},
		{name: "bytes32 wrong length", abiType: "bytes32", value: "0x1234", wantErr: "expected 32 bytes"},
		{name: "uint256 slice", abiType: "uint256[]", value: []any{"1", "2"}, want: []*big.Int{big.NewInt(1), big.NewInt(2)}},
		{name: "non-integer", abiType: "uint256", value: 1.5, wantErr: "expected an integer"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerceArg(mustType(t, tc.abiType), tc.value)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoerceArgsLengthMismatch(t *testing.T) {
	inputs := abi.Arguments{{Type: mustType(t, "address")}}
	_, err := coerceArgs(inputs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 argument(s), got 0")
}

func TestRenderValue(t *testing.T) {
	assert.Equal(t, "1000", renderValue(big.NewInt(1000)))
	assert.Equal(t, "0x1234", renderValue([]byte{0x12, 0x34}))
	assert.Equal(t, true, renderValue(true))

	addr := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	assert.Equal(t, addr.Hex(), renderValue(addr))

	var fixed [4]byte
	copy(fixed[:], []byte{0xde, 0xad, 0xbe, 0xef})
	assert.Equal(t, "0xdeadbeef", renderValue(fixed))

	assert.Equal(t, []any{"1", "2"}, renderValue([]*big.Int{big.NewInt(1), big.NewInt(2)}))
}

func mustBig(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}
