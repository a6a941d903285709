package contract

import "github/chapool/evm-agent/internal/chain/txn"

// CallRequest is a read-only invocation against a deployed contract. ABI is
// the caller-supplied interface description as a JSON fragment; Args arrive
// loosely typed and are coerced to the method's input types.
type CallRequest struct {
	Network string `json:"network,omitempty"`
	Address string `json:"address"`
	ABI     string `json:"abi"`
	Method  string `json:"method"`
	Args    []any  `json:"args,omitempty"`
}

// CallResult carries the decoded return values, or a string error when the
// invocation failed. Callers always get a structured result; a bad
// method/arg combination never aborts the caller.
type CallResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendRequest is a state-changing invocation. Value is denominated in whole
// native-currency units, as in a plain transfer.
type SendRequest struct {
	Network string `json:"network,omitempty"`
	Address string `json:"address"`
	ABI     string `json:"abi"`
	Method  string `json:"method"`
	Args    []any  `json:"args,omitempty"`
	From    string `json:"from,omitempty"`
	Value   string `json:"value,omitempty"`
}

// SendResult carries the confirmed transaction, or a string error under the
// same non-propagating policy as CallResult.
type SendResult struct {
	Success     bool        `json:"success"`
	Transaction *txn.Result `json:"transaction,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// DeployRequest submits a contract-creation transaction. Bytecode is the
// hex-encoded deployment code; constructor Args are coerced like method args.
type DeployRequest struct {
	Network  string `json:"network,omitempty"`
	ABI      string `json:"abi"`
	Bytecode string `json:"bytecode"`
	Args     []any  `json:"args,omitempty"`
	From     string `json:"from,omitempty"`
	Value    string `json:"value,omitempty"`
}

// DeployResult reports the deployed contract. The ABI is echoed back so the
// caller can immediately invoke the new contract.
type DeployResult struct {
	Address         string `json:"address"`
	ABI             string `json:"abi"`
	TransactionHash string `json:"transactionHash"`
}
