package txn

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/chain/units"
	"github/chapool/evm-agent/internal/util"
)

// Service builds, submits and confirms transactions. It consumes the
// connection pool for fee data and submission and the identity pool for the
// signer; it keeps no state of its own across calls.
type Service struct {
	conns      *conn.Pool
	identities *identity.Pool
}

// NewService creates the transaction service.
func NewService(conns *conn.Pool, identities *identity.Pool) *Service {
	return &Service{conns: conns, identities: identities}
}

// Send submits the request and blocks until the transaction reaches one
// confirmation, returning the normalized result. The wait is cancellable
// through ctx; a node-side rejection surfaces as *SubmissionError and is
// never retried.
func (s *Service) Send(ctx context.Context, req Request) (*Result, error) {
	signer, c, err := s.resolveSignerAndConn(req.From, req.Network)
	if err != nil {
		return nil, err
	}

	result, _, err := s.submit(ctx, c, signer, req, false)
	return result, err
}

// Deploy submits a contract-creation transaction (req.To empty, req.Data the
// deployment bytecode) and blocks until the contract address is assigned. A
// reverted creation is an error: there is no contract to return.
func (s *Service) Deploy(ctx context.Context, req Request) (*Result, string, error) {
	signer, c, err := s.resolveSignerAndConn(req.From, req.Network)
	if err != nil {
		return nil, "", err
	}

	result, receipt, err := s.submit(ctx, c, signer, req, true)
	if err != nil {
		return nil, "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, "", errors.Errorf("contract creation reverted in transaction %s", result.Hash)
	}
	return result, receipt.ContractAddress.Hex(), nil
}

func (s *Service) submit(ctx context.Context, c *conn.Conn, signer *identity.Identity, req Request, create bool) (*Result, *types.Receipt, error) {
	tx, chainID, err := s.build(ctx, c, signer, req, create)
	if err != nil {
		return nil, nil, err
	}

	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return nil, nil, err
	}

	log := util.LogFromContext(ctx).With().
		Str("network", c.Name()).
		Str("tx_hash", signed.Hash().Hex()).
		Logger()

	if err := c.Client().SendTransaction(ctx, signed); err != nil {
		return nil, nil, &SubmissionError{cause: err}
	}
	log.Info().Msg("Transaction submitted, awaiting confirmation")

	receipt, err := bind.WaitMined(ctx, c.Client(), signed)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed waiting for transaction confirmation")
	}

	result := normalize(signed, signer.Address())
	result.BlockNumber = receipt.BlockNumber.String()
	result.BlockHash = receipt.BlockHash.Hex()
	result.Status = receiptStatus(receipt)

	log.Info().Str("status", result.Status).Msg("Transaction confirmed")
	return result, receipt, nil
}

// EstimateGas prices the request without signing or submitting: gas limit from
// the node, current fee data per the same precedence policy as Send, and the
// worst-case cost in whole native-currency units.
func (s *Service) EstimateGas(ctx context.Context, req Request) (*GasEstimate, error) {
	signer, c, err := s.resolveSignerAndConn(req.From, req.Network)
	if err != nil {
		return nil, err
	}
	desc := c.Descriptor()

	value, err := units.Parse(req.Value, desc.CurrencyDecimals)
	if err != nil {
		return nil, err
	}
	data, err := decodeData(req.Data)
	if err != nil {
		return nil, err
	}
	fees, err := resolveFees(ctx, c.Client(), req)
	if err != nil {
		return nil, err
	}

	gasLimit, err := s.gasLimit(ctx, c, req, ethereum.CallMsg{
		From:  signer.Address(),
		To:    toAddress(req.To),
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, err
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), fees.perGasCeiling())

	estimate := &GasEstimate{
		GasLimit:      new(big.Int).SetUint64(gasLimit).String(),
		EstimatedCost: units.Format(cost, desc.CurrencyDecimals),
		Currency:      desc.CurrencySymbol,
	}
	if fees.feeCap != nil {
		estimate.MaxFeePerGas = fees.feeCap.String()
		estimate.MaxPriorityFeePerGas = fees.tipCap.String()
	} else if fees.gasPrice != nil {
		estimate.GasPrice = fees.gasPrice.String()
	}
	return estimate, nil
}

// resolveSignerAndConn picks the signing identity and its connection. An
// explicit network overrides the identity's bound (current) connection.
func (s *Service) resolveSignerAndConn(from string, network string) (*identity.Identity, *conn.Conn, error) {
	signer, err := s.identities.Resolve(from)
	if err != nil {
		return nil, nil, err
	}
	if network == "" {
		return signer, signer.Conn(), nil
	}
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, nil, err
	}
	return signer, c, nil
}

// build assembles the unsigned transaction: unit conversion, nonce and gas
// discovery, and fee-field selection per the documented precedence. The chain
// id is returned alongside since an unsigned legacy transaction does not
// carry one. A creation transaction has no recipient.
func (s *Service) build(ctx context.Context, c *conn.Conn, signer *identity.Identity, req Request, create bool) (*types.Transaction, *big.Int, error) {
	desc := c.Descriptor()

	var to *common.Address
	if !create {
		if req.To == "" {
			return nil, nil, errors.New("missing recipient address")
		}
		addr := common.HexToAddress(req.To)
		to = &addr
	}

	value, err := units.Parse(req.Value, desc.CurrencyDecimals)
	if err != nil {
		return nil, nil, err
	}
	data, err := decodeData(req.Data)
	if err != nil {
		return nil, nil, err
	}

	chainID := big.NewInt(desc.ChainID)
	if req.ChainID != nil {
		chainID = big.NewInt(*req.ChainID)
	}

	nonce, err := s.nonce(ctx, c, signer, req)
	if err != nil {
		return nil, nil, err
	}

	fees, err := resolveFees(ctx, c.Client(), req)
	if err != nil {
		return nil, nil, err
	}

	gasLimit, err := s.gasLimit(ctx, c, req, ethereum.CallMsg{
		From:      signer.Address(),
		To:        to,
		Value:     value,
		Data:      data,
		GasPrice:  fees.gasPrice,
		GasFeeCap: fees.feeCap,
		GasTipCap: fees.tipCap,
	})
	if err != nil {
		return nil, nil, err
	}

	if fees.gasPrice != nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       to,
			Value:    value,
			Gas:      gasLimit,
			GasPrice: fees.gasPrice,
			Data:     data,
		}), chainID, nil
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        to,
		Value:     value,
		Gas:       gasLimit,
		GasFeeCap: fees.feeCap,
		GasTipCap: fees.tipCap,
		Data:      data,
	}), chainID, nil
}

func (s *Service) nonce(ctx context.Context, c *conn.Conn, signer *identity.Identity, req Request) (uint64, error) {
	if req.Nonce != nil {
		return *req.Nonce, nil
	}
	nonce, err := c.Client().PendingNonceAt(ctx, signer.Address())
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}
	return nonce, nil
}

func (s *Service) gasLimit(ctx context.Context, c *conn.Conn, req Request, msg ethereum.CallMsg) (uint64, error) {
	if req.GasLimit != "" {
		limit, err := parseWei("gasLimit", req.GasLimit)
		if err != nil {
			return 0, err
		}
		return limit.Uint64(), nil
	}
	limit, err := c.Client().EstimateGas(ctx, msg)
	if err != nil {
		// Estimation failure usually means the node would reject the
		// transaction outright (reverts, insufficient funds).
		return 0, &SubmissionError{cause: err}
	}
	return limit, nil
}

// normalize renders a signed transaction as the stable result shape, every
// chain quantity as a decimal string.
func normalize(tx *types.Transaction, from common.Address) *Result {
	result := &Result{
		Hash:     tx.Hash().Hex(),
		From:     from.Hex(),
		Value:    tx.Value().String(),
		GasLimit: new(big.Int).SetUint64(tx.Gas()).String(),
		Nonce:    tx.Nonce(),
		ChainID:  tx.ChainId().Int64(),
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
	return result
}

func receiptStatus(receipt *types.Receipt) string {
	if receipt.Status == types.ReceiptStatusSuccessful {
		return "success"
	}
	return "reverted"
}

func decodeData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	out, err := hexutil.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid data payload")
	}
	return out, nil
}

func toAddress(s string) *common.Address {
	if s == "" {
		return nil
	}
	addr := common.HexToAddress(s)
	return &addr
}
