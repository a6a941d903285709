package query

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/units"
)

// Service is the read-only query façade. Every method takes an optional
// network name; the empty string targets the current-network cursor. No
// identity is needed for any of these.
type Service struct {
	conns *conn.Pool
}

// NewService creates the query service.
func NewService(conns *conn.Pool) *Service {
	return &Service{conns: conns}
}

// Balance returns the wei balance and pending nonce of an address.
func (s *Service) Balance(ctx context.Context, network string, address string) (*Balance, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(address)

	balance, err := c.Client().BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	nonce, err := c.Client().PendingNonceAt(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	desc := c.Descriptor()
	return &Balance{
		Address:   addr.Hex(),
		Balance:   balance.String(),
		Formatted: units.Format(balance, desc.CurrencyDecimals),
		Currency:  desc.CurrencySymbol,
		Nonce:     nonce,
	}, nil
}

// Block looks up a block by number, latest when number is nil. A block that
// does not exist yields (nil, nil): absence is a normal outcome here, not a
// failure.
func (s *Service) Block(ctx context.Context, network string, number *int64) (*Block, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}

	arg := "latest"
	if number != nil {
		arg = hexutil.EncodeBig(big.NewInt(*number))
	}

	// The raw client keeps the node's explicit null visible; ethclient would
	// surface it as a NotFound error instead.
	var raw json.RawMessage
	if err := c.RPC().CallContext(ctx, &raw, "eth_getBlockByNumber", arg, false); err != nil {
		return nil, errors.Wrap(err, "failed to get block")
	}
	if isNull(raw) {
		return nil, nil
	}

	var head types.Header
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(err, "failed to decode block header")
	}
	var body struct {
		Hash         common.Hash   `json:"hash"`
		Transactions []common.Hash `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrap(err, "failed to decode block body")
	}

	block := &Block{
		Number:       head.Number.String(),
		Hash:         body.Hash.Hex(),
		ParentHash:   head.ParentHash.Hex(),
		Timestamp:    head.Time,
		Miner:        head.Coinbase.Hex(),
		GasLimit:     new(big.Int).SetUint64(head.GasLimit).String(),
		GasUsed:      new(big.Int).SetUint64(head.GasUsed).String(),
		Transactions: make([]string, 0, len(body.Transactions)),
	}
	if head.BaseFee != nil {
		block.BaseFeePerGas = head.BaseFee.String()
	}
	for _, hash := range body.Transactions {
		block.Transactions = append(block.Transactions, hash.Hex())
	}
	return block, nil
}

// Transaction looks up a transaction by hash. An unknown hash yields
// (nil, nil). A known transaction blocks until its receipt is available, so
// the returned record carries final status and gas used; the wait is
// cancellable through ctx.
func (s *Service) Transaction(ctx context.Context, network string, hash string) (*Transaction, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.RPC().CallContext(ctx, &raw, "eth_getTransactionByHash", common.HexToHash(hash)); err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	if isNull(raw) {
		return nil, nil
	}

	tx := new(types.Transaction)
	if err := json.Unmarshal(raw, tx); err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction")
	}
	var meta struct {
		From *common.Address `json:"from"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction sender")
	}

	receipt, err := bind.WaitMined(ctx, c.Client(), tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed waiting for transaction receipt")
	}

	result := &Transaction{
		Hash:        tx.Hash().Hex(),
		Value:       tx.Value().String(),
		Nonce:       tx.Nonce(),
		GasLimit:    new(big.Int).SetUint64(tx.Gas()).String(),
		BlockNumber: receipt.BlockNumber.String(),
		BlockHash:   receipt.BlockHash.Hex(),
		GasUsed:     new(big.Int).SetUint64(receipt.GasUsed).String(),
	}
	if meta.From != nil {
		result.From = meta.From.Hex()
	}
	if to := tx.To(); to != nil {
		result.To = to.Hex()
	}
	if len(tx.Data()) > 0 {
		result.Data = hexutil.Encode(tx.Data())
	}
	if tx.Type() == types.DynamicFeeTxType {
		result.MaxFeePerGas = tx.GasFeeCap().String()
		result.MaxPriorityFeePerGas = tx.GasTipCap().String()
	} else {
		result.GasPrice = tx.GasPrice().String()
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		result.Status = "success"
	} else {
		result.Status = "reverted"
	}
	return result, nil
}

// Logs fetches logs matching the filter. No matches yields an empty slice.
func (s *Service) Logs(ctx context.Context, network string, filter LogFilter) ([]LogRecord, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}

	q := ethereum.FilterQuery{}
	for _, addr := range filter.Address {
		q.Addresses = append(q.Addresses, common.HexToAddress(addr))
	}
	if filter.FromBlock != nil {
		q.FromBlock = big.NewInt(*filter.FromBlock)
	}
	if filter.ToBlock != nil {
		q.ToBlock = big.NewInt(*filter.ToBlock)
	}
	for _, position := range filter.Topics {
		var hashes []common.Hash
		for _, topic := range position {
			hashes = append(hashes, common.HexToHash(topic))
		}
		q.Topics = append(q.Topics, hashes)
	}

	logs, err := c.Client().FilterLogs(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get logs")
	}

	records := make([]LogRecord, 0, len(logs))
	for _, entry := range logs {
		record := LogRecord{
			Address:     entry.Address.Hex(),
			Topics:      make([]string, 0, len(entry.Topics)),
			Data:        hexutil.Encode(entry.Data),
			BlockNumber: new(big.Int).SetUint64(entry.BlockNumber).String(),
			TxHash:      entry.TxHash.Hex(),
			LogIndex:    entry.Index,
			Removed:     entry.Removed,
		}
		for _, topic := range entry.Topics {
			record.Topics = append(record.Topics, topic.Hex())
		}
		records = append(records, record)
	}
	return records, nil
}

// FeeData snapshots the node's current pricing: always a legacy gas price,
// plus the EIP-1559 pair when the chain has a base fee. The max fee leaves
// headroom for two base-fee doublings, matching the transaction builder.
func (s *Service) FeeData(ctx context.Context, network string) (*FeeData, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}

	gasPrice, err := c.Client().SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas price")
	}
	fees := &FeeData{GasPrice: gasPrice.String()}

	head, err := c.Client().HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}
	if head.BaseFee == nil {
		return fees, nil
	}

	tip, err := c.Client().SuggestGasTipCap(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}
	maxFee := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	maxFee.Add(maxFee, tip)

	fees.BaseFeePerGas = head.BaseFee.String()
	fees.MaxFeePerGas = maxFee.String()
	fees.MaxPriorityFeePerGas = tip.String()
	return fees, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
