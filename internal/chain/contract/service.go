package contract

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/txn"
	"github/chapool/evm-agent/internal/util"
)

// Service is the dynamic contract façade: invocations are parameterized by a
// caller-supplied ABI fragment rather than generated bindings. Call and Send
// convert their failures into a string error field so one bad invocation
// never aborts a caller driving a batch of them; Deploy propagates.
type Service struct {
	conns *conn.Pool
	txns  *txn.Service
}

// NewService creates the contract service.
func NewService(conns *conn.Pool, txns *txn.Service) *Service {
	return &Service{conns: conns, txns: txns}
}

// Call performs a read-only invocation. Any failure, from ABI parsing to the
// node call itself, lands in the result's Error field.
func (s *Service) Call(ctx context.Context, req CallRequest) *CallResult {
	result, err := s.call(ctx, req)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).
			Str("method", req.Method).
			Msg("Contract call failed")
		return &CallResult{Error: err.Error()}
	}
	return &CallResult{Success: true, Result: result}
}

func (s *Service) call(ctx context.Context, req CallRequest) (any, error) {
	c, err := s.conns.Get(req.Network)
	if err != nil {
		return nil, err
	}

	parsed, method, data, err := encodeInvocation(req.ABI, req.Method, req.Args)
	if err != nil {
		return nil, err
	}

	target := common.HexToAddress(req.Address)
	output, err := c.Client().CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call to %s failed", req.Method)
	}

	values, err := parsed.Unpack(method.Name, output)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s result", req.Method)
	}
	return flattenReturn(values), nil
}

// Send performs a state-changing invocation via the transaction pipeline and
// blocks for confirmation. Failures land in the result's Error field, the
// same policy as Call.
func (s *Service) Send(ctx context.Context, req SendRequest) *SendResult {
	result, err := s.send(ctx, req)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).
			Str("method", req.Method).
			Msg("Contract transaction failed")
		return &SendResult{Error: err.Error()}
	}
	return &SendResult{Success: true, Transaction: result}
}

func (s *Service) send(ctx context.Context, req SendRequest) (*txn.Result, error) {
	_, _, data, err := encodeInvocation(req.ABI, req.Method, req.Args)
	if err != nil {
		return nil, err
	}

	return s.txns.Send(ctx, txn.Request{
		To:      req.Address,
		From:    req.From,
		Value:   req.Value,
		Data:    hexutil.Encode(data),
		Network: req.Network,
	})
}

// Deploy submits a contract-creation transaction and blocks until the
// contract address is assigned. Unlike Call and Send it propagates failures,
// signer resolution included.
func (s *Service) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	if req.Bytecode == "" {
		return nil, errors.New("missing deployment bytecode")
	}
	bytecode, err := hexutil.Decode(req.Bytecode)
	if err != nil {
		return nil, errors.Wrap(err, "invalid deployment bytecode")
	}

	parsed, err := abi.JSON(strings.NewReader(req.ABI))
	if err != nil {
		return nil, errors.Wrap(err, "invalid contract ABI")
	}
	ctorArgs, err := coerceArgs(parsed.Constructor.Inputs, req.Args)
	if err != nil {
		return nil, err
	}
	packed, err := parsed.Pack("", ctorArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode constructor arguments")
	}

	result, address, err := s.txns.Deploy(ctx, txn.Request{
		From:    req.From,
		Value:   req.Value,
		Data:    hexutil.Encode(append(bytecode, packed...)),
		Network: req.Network,
	})
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Info().
		Str("address", address).
		Str("tx_hash", result.Hash).
		Msg("Contract deployed")

	return &DeployResult{
		Address:         address,
		ABI:             req.ABI,
		TransactionHash: result.Hash,
	}, nil
}

// encodeInvocation parses the ABI fragment, coerces the arguments and packs
// the calldata for one method invocation.
func encodeInvocation(abiJSON string, methodName string, args []any) (abi.ABI, *abi.Method, []byte, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.ABI{}, nil, nil, errors.Wrap(err, "invalid contract ABI")
	}

	method, ok := parsed.Methods[methodName]
	if !ok {
		return abi.ABI{}, nil, nil, errors.Errorf("method %s not found in ABI", methodName)
	}

	coerced, err := coerceArgs(method.Inputs, args)
	if err != nil {
		return abi.ABI{}, nil, nil, err
	}

	data, err := parsed.Pack(methodName, coerced...)
	if err != nil {
		return abi.ABI{}, nil, nil, errors.Wrapf(err, "failed to encode %s arguments", methodName)
	}
	return parsed, &method, data, nil
}

// flattenReturn renders decoded return values for a loosely-typed consumer:
// no outputs is nil, one output is the bare value, several stay a slice.
// 256-bit integers are stringified so they survive JSON re-encoding.
func flattenReturn(values []any) any {
	rendered := make([]any, len(values))
	for i, v := range values {
		rendered[i] = renderValue(v)
	}
	switch len(rendered) {
	case 0:
		return nil
	case 1:
		return rendered[0]
	default:
		return rendered
	}
}
