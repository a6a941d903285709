package tools

import (
	"context"

	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/registry"
)

// NetworkInfo is the tool-facing view of one network.
type NetworkInfo struct {
	Name            string `json:"name"`
	ChainID         int64  `json:"chainId"`
	CurrencySymbol  string `json:"currencySymbol"`
	CurrencyDecimal int    `json:"currencyDecimals"`
	ExplorerURL     string `json:"explorerUrl,omitempty"`
	Connected       bool   `json:"connected"`
	Current         bool   `json:"current"`
}

// NetworkTools exposes the network registry and the current-network cursor.
func NetworkTools(reg *registry.Registry, conns *conn.Pool) []Tool {
	connected := func() map[string]bool {
		out := make(map[string]bool)
		for _, name := range conns.Names() {
			out[name] = true
		}
		return out
	}

	describe := func(name string) NetworkInfo {
		desc, _ := reg.Get(name)
		return NetworkInfo{
			Name:            desc.Name,
			ChainID:         desc.ChainID,
			CurrencySymbol:  desc.CurrencySymbol,
			CurrencyDecimal: desc.CurrencyDecimals,
			ExplorerURL:     desc.ExplorerURL,
		}
	}

	return []Tool{
		{
			Name:        "list_networks",
			Description: "List all configured networks with their chain ids and connection state.",
			Schema:      objectSchema(nil),
			Execute: func(_ context.Context, _ Args) (any, error) {
				up := connected()
				current := conns.CurrentName()

				networks := make([]NetworkInfo, 0, len(reg.Names()))
				for _, name := range reg.Names() {
					info := describe(name)
					info.Connected = up[name]
					info.Current = name == current
					networks = append(networks, info)
				}
				return networks, nil
			},
		},
		{
			Name:        "current_network",
			Description: "Show the network the current-network cursor points at.",
			Schema:      objectSchema(nil),
			Execute: func(_ context.Context, _ Args) (any, error) {
				info := describe(conns.CurrentName())
				info.Connected = true
				info.Current = true
				return info, nil
			},
		},
		{
			Name:        "switch_network",
			Description: "Move the current-network cursor to another configured network. Every identity is re-bound to the new network.",
			Schema: objectSchema(map[string]Property{
				"network": {Type: "string", Description: "Name of a configured network, e.g. mainnet or sepolia."},
			}, "network"),
			Execute: func(_ context.Context, args Args) (any, error) {
				name, err := args.StringRequired("network")
				if err != nil {
					return nil, err
				}
				if err := conns.SwitchTo(name); err != nil {
					return nil, err
				}
				info := describe(name)
				info.Connected = true
				info.Current = true
				return info, nil
			},
		},
	}
}
