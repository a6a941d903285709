package tools

import (
	"context"

	"github/chapool/evm-agent/internal/chain/txn"
	"github/chapool/evm-agent/internal/util"
)

// feeProperties are the optional pricing fields shared by the transaction
// tools. When both EIP-1559 fields are present any gasPrice is ignored.
var feeProperties = map[string]Property{
	"gasLimit":             {Type: "string", Description: "Gas limit as a decimal string; estimated when omitted."},
	"gasPrice":             {Type: "string", Description: "Legacy gas price in wei; ignored when the EIP-1559 pair is set."},
	"maxFeePerGas":         {Type: "string", Description: "EIP-1559 max fee per gas in wei."},
	"maxPriorityFeePerGas": {Type: "string", Description: "EIP-1559 priority fee per gas in wei."},
}

// TransactionTools exposes native-currency transfers and gas estimation.
func TransactionTools(txns *txn.Service) []Tool {
	schema := func(required ...string) Schema {
		properties := map[string]Property{
			"to":      {Type: "string", Description: "Recipient address.", Pattern: util.AddressPattern},
			"from":    {Type: "string", Description: "Sending wallet; first available when omitted.", Pattern: util.AddressPattern},
			"value":   {Type: "string", Description: "Amount in whole native-currency units, e.g. \"0.1\"."},
			"data":    {Type: "string", Description: "Optional hex calldata."},
			"nonce":   {Type: "integer", Description: "Explicit nonce; discovered from the node when omitted."},
			"chainId": {Type: "integer", Description: "Explicit chain id; the network's id when omitted."},
			"network": networkProperty,
		}
		for name, prop := range feeProperties {
			properties[name] = prop
		}
		return objectSchema(properties, required...)
	}

	return []Tool{
		{
			Name:        "send_transaction",
			Description: "Send a native-currency transaction and block until it is confirmed on chain.",
			Schema:      schema("to"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				req, err := requestFromArgs(args)
				if err != nil {
					return nil, err
				}
				return txns.Send(ctx, req)
			},
		},
		{
			Name:        "estimate_gas",
			Description: "Estimate gas and worst-case cost for a transaction without submitting it.",
			Schema:      schema("to"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				req, err := requestFromArgs(args)
				if err != nil {
					return nil, err
				}
				return txns.EstimateGas(ctx, req)
			},
		},
	}
}

func requestFromArgs(args Args) (txn.Request, error) {
	req := txn.Request{
		To:                   args.String("to"),
		From:                 args.String("from"),
		Value:                args.String("value"),
		Data:                 args.String("data"),
		GasLimit:             args.String("gasLimit"),
		GasPrice:             args.String("gasPrice"),
		MaxFeePerGas:         args.String("maxFeePerGas"),
		MaxPriorityFeePerGas: args.String("maxPriorityFeePerGas"),
		Network:              args.String("network"),
	}

	var err error
	if req.Nonce, err = args.Uint64Ptr("nonce"); err != nil {
		return req, err
	}
	if req.ChainID, err = args.Int64Ptr("chainId"); err != nil {
		return req, err
	}
	return req, nil
}
