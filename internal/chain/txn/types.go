package txn

import "fmt"

// Request is a logical transfer or contract-call request. Every numeric field
// is a decimal string; Value is denominated in whole native-currency units,
// the fee fields in wei.
type Request struct {
	To    string `json:"to"`
	From  string `json:"from,omitempty"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`

	GasLimit             string `json:"gasLimit,omitempty"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`

	Nonce   *uint64 `json:"nonce,omitempty"`
	ChainID *int64  `json:"chainId,omitempty"`

	// Network optionally targets a configured network explicitly instead of
	// the current-network cursor.
	Network string `json:"network,omitempty"`
}

// Result is the normalized record of a confirmed transaction. All chain
// quantities are decimal strings; Value is the raw base-unit amount.
type Result struct {
	Hash                 string `json:"hash"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	Value                string `json:"value"`
	Data                 string `json:"data,omitempty"`
	GasLimit             string `json:"gasLimit"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	Nonce                uint64 `json:"nonce"`
	ChainID              int64  `json:"chainId"`
	BlockNumber          string `json:"blockNumber,omitempty"`
	BlockHash            string `json:"blockHash,omitempty"`
	Status               string `json:"status,omitempty"`
}

// GasEstimate is the fee quote for a request. EstimatedCost is rendered in
// whole native-currency units.
type GasEstimate struct {
	GasLimit             string `json:"gasLimit"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	EstimatedCost        string `json:"estimatedCost"`
	Currency             string `json:"currency"`
}

// SubmissionError wraps a node-side rejection (insufficient funds, nonce
// conflict, revert at estimation). Submissions are never retried
// automatically: nonce reuse makes a blind retry unsafe.
type SubmissionError struct {
	cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.cause
}
