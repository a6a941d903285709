package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github/chapool/evm-agent/internal/util"
)

func TestIsHexAddress(t *testing.T) {
	assert.True(t, util.IsHexAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.False(t, util.IsHexAddress("f39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.False(t, util.IsHexAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb9226"))
	assert.False(t, util.IsHexAddress("0xZ39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
}

func TestIsTxHash(t *testing.T) {
	assert.True(t, util.IsTxHash("0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"))
	assert.False(t, util.IsTxHash("0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944"))
	assert.False(t, util.IsTxHash("88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"))
}

func TestIsPrivateKeyHex(t *testing.T) {
	assert.True(t, util.IsPrivateKeyHex("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"))
	assert.True(t, util.IsPrivateKeyHex("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"))
	assert.False(t, util.IsPrivateKeyHex("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff8"))
}
