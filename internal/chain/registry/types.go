package registry

// NetworkDescriptor describes one reachable network. Immutable once registered;
// the logical name is the uniqueness key everywhere in the service.
type NetworkDescriptor struct {
	Name             string `json:"name"`
	ChainID          int64  `json:"chainId"`
	RPCURL           string `json:"rpcUrl"`
	CurrencySymbol   string `json:"currencySymbol"`
	CurrencyDecimals int    `json:"currencyDecimals"`
	ExplorerURL      string `json:"explorerUrl,omitempty"`
}
