package registry

// defaultDecimals is the base-unit precision of every built-in native currency.
const defaultDecimals = 18

// builtinNetworks is the canonical table of well-known networks. User-supplied
// descriptors (RPC overrides, extra networks) are merged over it at startup.
var builtinNetworks = map[string]NetworkDescriptor{
	"mainnet": {
		Name:             "mainnet",
		ChainID:          1,
		RPCURL:           "https://eth.llamarpc.com",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://etherscan.io",
	},
	"sepolia": {
		Name:             "sepolia",
		ChainID:          11155111,
		RPCURL:           "https://rpc.sepolia.org",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://sepolia.etherscan.io",
	},
	"polygon": {
		Name:             "polygon",
		ChainID:          137,
		RPCURL:           "https://polygon-rpc.com",
		CurrencySymbol:   "POL",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://polygonscan.com",
	},
	"arbitrum": {
		Name:             "arbitrum",
		ChainID:          42161,
		RPCURL:           "https://arb1.arbitrum.io/rpc",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://arbiscan.io",
	},
	"optimism": {
		Name:             "optimism",
		ChainID:          10,
		RPCURL:           "https://mainnet.optimism.io",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://optimistic.etherscan.io",
	},
	"base": {
		Name:             "base",
		ChainID:          8453,
		RPCURL:           "https://mainnet.base.org",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://basescan.org",
	},
	"avalanche": {
		Name:             "avalanche",
		ChainID:          43114,
		RPCURL:           "https://api.avax.network/ext/bc/C/rpc",
		CurrencySymbol:   "AVAX",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://snowtrace.io",
	},
	"bsc": {
		Name:             "bsc",
		ChainID:          56,
		RPCURL:           "https://bsc-dataseed.binance.org",
		CurrencySymbol:   "BNB",
		CurrencyDecimals: defaultDecimals,
		ExplorerURL:      "https://bscscan.com",
	},
}
