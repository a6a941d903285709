package txn

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// feeMode names the fee model a request resolves to.
type feeMode int

const (
	// feeModeNode defers pricing to current node fee data.
	feeModeNode feeMode = iota
	// feeModeLegacy prices with a single gas price.
	feeModeLegacy
	// feeModeDynamic prices with an EIP-1559 fee pair.
	feeModeDynamic
)

// selectFeeMode is the documented precedence policy: a complete EIP-1559 pair
// wins and any legacy gasPrice is ignored silently; gasPrice alone selects a
// legacy transaction; otherwise pricing falls to the node's fee data.
func selectFeeMode(req Request) feeMode {
	if req.MaxFeePerGas != "" && req.MaxPriorityFeePerGas != "" {
		return feeModeDynamic
	}
	if req.GasPrice != "" {
		return feeModeLegacy
	}
	return feeModeNode
}

// feeFields holds resolved per-gas prices in wei. Exactly one of gasPrice or
// the feeCap/tipCap pair is set.
type feeFields struct {
	gasPrice *big.Int
	feeCap   *big.Int
	tipCap   *big.Int
}

// baseFeeMultiplier leaves headroom for base-fee growth between pricing and
// inclusion: feeCap = 2*baseFee + tip.
const baseFeeMultiplier = 2

// suggestFees prices a request from node fee data, preferring the EIP-1559
// model and falling back to legacy gas price on pre-London chains.
func suggestFees(ctx context.Context, client *ethclient.Client) (feeFields, error) {
	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return feeFields{}, errors.Wrap(err, "failed to get latest header")
	}

	if head.BaseFee != nil {
		tip, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return feeFields{}, errors.Wrap(err, "failed to suggest gas tip cap")
		}
		feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(baseFeeMultiplier))
		feeCap.Add(feeCap, tip)
		return feeFields{feeCap: feeCap, tipCap: tip}, nil
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return feeFields{}, errors.Wrap(err, "failed to suggest gas price")
	}
	return feeFields{gasPrice: gasPrice}, nil
}

// parseWei parses a decimal wei string.
func parseWei(field string, value string) (*big.Int, error) {
	out, ok := new(big.Int).SetString(value, 10)
	if !ok || out.Sign() < 0 {
		return nil, errors.Errorf("invalid %s %q: want a non-negative decimal wei amount", field, value)
	}
	return out, nil
}

// resolveFees turns a request's fee fields into concrete per-gas prices
// according to selectFeeMode.
func resolveFees(ctx context.Context, client *ethclient.Client, req Request) (feeFields, error) {
	switch selectFeeMode(req) {
	case feeModeDynamic:
		feeCap, err := parseWei("maxFeePerGas", req.MaxFeePerGas)
		if err != nil {
			return feeFields{}, err
		}
		tipCap, err := parseWei("maxPriorityFeePerGas", req.MaxPriorityFeePerGas)
		if err != nil {
			return feeFields{}, err
		}
		return feeFields{feeCap: feeCap, tipCap: tipCap}, nil

	case feeModeLegacy:
		gasPrice, err := parseWei("gasPrice", req.GasPrice)
		if err != nil {
			return feeFields{}, err
		}
		return feeFields{gasPrice: gasPrice}, nil

	default:
		return suggestFees(ctx, client)
	}
}

// perGasCeiling returns the price used for worst-case cost math.
func (f feeFields) perGasCeiling() *big.Int {
	if f.feeCap != nil {
		return f.feeCap
	}
	if f.gasPrice != nil {
		return f.gasPrice
	}
	return big.NewInt(0)
}
