package tools

import (
	"context"

	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/query"
	"github/chapool/evm-agent/internal/util"
)

var errTopicShape = errors.Wrap(ErrInvalidArgument, `argument "topics" must be an array of strings or string arrays`)

// networkProperty is shared by every tool that optionally targets a network
// other than the current one.
var networkProperty = Property{
	Type:        "string",
	Description: "Target network; the current network when omitted.",
}

// QueryTools exposes the read-only query façade.
func QueryTools(queries *query.Service) []Tool {
	return []Tool{
		{
			Name:        "get_balance",
			Description: "Get the native-currency balance and pending nonce of an address.",
			Schema: objectSchema(map[string]Property{
				"address": {Type: "string", Description: "Address to inspect.", Pattern: util.AddressPattern},
				"network": networkProperty,
			}, "address"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				address, err := args.StringRequired("address")
				if err != nil {
					return nil, err
				}
				return queries.Balance(ctx, args.String("network"), address)
			},
		},
		{
			Name:        "get_block",
			Description: "Get a block by number, the latest when omitted. An unknown block yields null, not an error.",
			Schema: objectSchema(map[string]Property{
				"blockNumber": {Type: "integer", Description: "Block number; latest when omitted."},
				"network":     networkProperty,
			}),
			Execute: func(ctx context.Context, args Args) (any, error) {
				number, err := args.Int64Ptr("blockNumber")
				if err != nil {
					return nil, err
				}
				return queries.Block(ctx, args.String("network"), number)
			},
		},
		{
			Name:        "get_transaction",
			Description: "Get a transaction by hash, waiting for its receipt. An unknown hash yields null, not an error.",
			Schema: objectSchema(map[string]Property{
				"hash":    {Type: "string", Description: "Transaction hash.", Pattern: util.TxHashPattern},
				"network": networkProperty,
			}, "hash"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				hash, err := args.StringRequired("hash")
				if err != nil {
					return nil, err
				}
				return queries.Transaction(ctx, args.String("network"), hash)
			},
		},
		{
			Name:        "get_logs",
			Description: "Fetch event logs by address, block range and topics. No matches yields an empty array.",
			Schema: objectSchema(map[string]Property{
				"address":   {Type: "array", Description: "Contract addresses to match.", Items: &Property{Type: "string", Pattern: util.AddressPattern}},
				"fromBlock": {Type: "integer", Description: "First block of the range."},
				"toBlock":   {Type: "integer", Description: "Last block of the range."},
				"topics":    {Type: "array", Description: "Positional topic filters; inner arrays list accepted values.", Items: &Property{Type: "array", Items: &Property{Type: "string"}}},
				"network":   networkProperty,
			}),
			Execute: func(ctx context.Context, args Args) (any, error) {
				filter, err := logFilterFromArgs(args)
				if err != nil {
					return nil, err
				}
				return queries.Logs(ctx, args.String("network"), filter)
			},
		},
		{
			Name:        "get_fee_data",
			Description: "Get the network's current fee data: legacy gas price plus the EIP-1559 pair where the chain supports it.",
			Schema: objectSchema(map[string]Property{
				"network": networkProperty,
			}),
			Execute: func(ctx context.Context, args Args) (any, error) {
				return queries.FeeData(ctx, args.String("network"))
			},
		},
		{
			Name:        "resolve_name",
			Description: "Resolve an ENS name to an address, with best-effort resolver and avatar details.",
			Schema: objectSchema(map[string]Property{
				"name":    {Type: "string", Description: "ENS name, e.g. vitalik.eth."},
				"network": networkProperty,
			}, "name"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				name, err := args.StringRequired("name")
				if err != nil {
					return nil, err
				}
				return queries.ResolveName(ctx, args.String("network"), name)
			},
		},
	}
}

func logFilterFromArgs(args Args) (query.LogFilter, error) {
	var filter query.LogFilter
	var err error

	if filter.Address, err = args.StringSlice("address"); err != nil {
		return filter, err
	}
	if filter.FromBlock, err = args.Int64Ptr("fromBlock"); err != nil {
		return filter, err
	}
	if filter.ToBlock, err = args.Int64Ptr("toBlock"); err != nil {
		return filter, err
	}

	positions, err := args.AnySlice("topics")
	if err != nil {
		return filter, err
	}
	for _, position := range positions {
		switch v := position.(type) {
		case nil:
			filter.Topics = append(filter.Topics, nil)
		case string:
			filter.Topics = append(filter.Topics, []string{v})
		case []any:
			var values []string
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return filter, errTopicShape
				}
				values = append(values, s)
			}
			filter.Topics = append(filter.Topics, values)
		default:
			return filter, errTopicShape
		}
	}
	return filter, nil
}
