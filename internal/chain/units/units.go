// Package units converts between human decimal amounts ("0.1") and integer
// base-unit amounts (wei). Conversion is pure string/big.Int arithmetic:
// 256-bit chain quantities do not survive a trip through float64.
package units

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// EtherDecimals is the base-unit precision of ETH-like native currencies.
const EtherDecimals = 18

// Parse converts a decimal amount in whole currency units to base units.
// "0.1" with 18 decimals yields 100000000000000000. Fails on negative input,
// malformed input, or more fractional digits than the currency carries.
func Parse(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return big.NewInt(0), nil
	}
	if strings.HasPrefix(amount, "-") {
		return nil, errors.Errorf("negative amount %q", amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, errors.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, errors.Errorf("invalid decimal amount %q", amount)
	}
	return out, nil
}

// Format renders a base-unit amount as a decimal string in whole currency
// units, trailing zeros trimmed. The inverse of Parse.
func Format(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Abs(amount)
	if amount.Sign() < 0 {
		sign = "-"
	}

	div := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, rem := new(big.Int).QuoRem(abs, div, new(big.Int))

	if rem.Sign() == 0 {
		return sign + whole.String()
	}

	frac := strings.TrimRight(leftPad(rem.String(), decimals), "0")
	return sign + whole.String() + "." + frac
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
