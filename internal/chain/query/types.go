package query

// Balance reports an address's balance in wei alongside its pending nonce.
// Formatted is the balance rendered in whole native-currency units.
type Balance struct {
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	Formatted string `json:"formatted"`
	Currency  string `json:"currency"`
	Nonce     uint64 `json:"nonce"`
}

// Block is the normalized view of a block header plus its transaction hashes.
type Block struct {
	Number        string   `json:"number"`
	Hash          string   `json:"hash"`
	ParentHash    string   `json:"parentHash"`
	Timestamp     uint64   `json:"timestamp"`
	Miner         string   `json:"miner"`
	GasLimit      string   `json:"gasLimit"`
	GasUsed       string   `json:"gasUsed"`
	BaseFeePerGas string   `json:"baseFeePerGas,omitempty"`
	Transactions  []string `json:"transactions"`
}

// Transaction is the normalized view of a transaction together with its
// receipt. Lookups always wait for the receipt, so Status and GasUsed are
// populated whenever the transaction is found.
type Transaction struct {
	Hash                 string `json:"hash"`
	From                 string `json:"from,omitempty"`
	To                   string `json:"to,omitempty"`
	Value                string `json:"value"`
	Data                 string `json:"data,omitempty"`
	Nonce                uint64 `json:"nonce"`
	GasLimit             string `json:"gasLimit"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	BlockNumber          string `json:"blockNumber,omitempty"`
	BlockHash            string `json:"blockHash,omitempty"`
	GasUsed              string `json:"gasUsed,omitempty"`
	Status               string `json:"status,omitempty"`
}

// LogFilter selects logs by address, block range and topics. Topics follow
// the node's positional semantics: the outer slice is the position, the inner
// slice the accepted values at that position (nil/empty matches anything).
type LogFilter struct {
	Address   []string   `json:"address,omitempty"`
	FromBlock *int64     `json:"fromBlock,omitempty"`
	ToBlock   *int64     `json:"toBlock,omitempty"`
	Topics    [][]string `json:"topics,omitempty"`
}

// LogRecord is one emitted log entry.
type LogRecord struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
	LogIndex    uint     `json:"logIndex"`
	Removed     bool     `json:"removed"`
}

// FeeData is the node's current pricing snapshot. The EIP-1559 fields are
// empty on pre-London chains.
type FeeData struct {
	GasPrice             string `json:"gasPrice"`
	BaseFeePerGas        string `json:"baseFeePerGas,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
}

// ENSInfo is the outcome of a forward ENS lookup. Resolver and Avatar are
// filled on a best-effort basis; Address is empty when the name has no
// resolver or the resolver knows no address.
type ENSInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Resolver string `json:"resolver,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}
