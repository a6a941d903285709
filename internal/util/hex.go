package util

import "regexp"

// Wire-shape patterns for hex-encoded chain values. The same patterns are
// published in the tool schemas so callers can validate client-side.
const (
	AddressPattern    = `^0x[a-fA-F0-9]{40}$`
	TxHashPattern     = `^0x[a-fA-F0-9]{64}$`
	PrivateKeyPattern = `^(0x)?[a-fA-F0-9]{64}$`
)

var (
	addressRegexp    = regexp.MustCompile(AddressPattern)
	txHashRegexp     = regexp.MustCompile(TxHashPattern)
	privateKeyRegexp = regexp.MustCompile(PrivateKeyPattern)
)

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsHexAddress(s string) bool {
	return addressRegexp.MatchString(s)
}

// IsTxHash reports whether s is a 0x-prefixed 32-byte hex hash.
func IsTxHash(s string) bool {
	return txHashRegexp.MatchString(s)
}

// IsPrivateKeyHex reports whether s is a 32-byte hex private key, with or
// without the 0x prefix.
func IsPrivateKeyHex(s string) bool {
	return privateKeyRegexp.MatchString(s)
}
