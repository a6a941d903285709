package tools

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/chain/contract"
	"github/chapool/evm-agent/internal/util"
)

// ContractTools exposes the dynamic contract façade. Note the error policy
// split: contract_call and contract_send report invocation failures inside
// their result, contract_deploy fails the tool execution itself.
func ContractTools(contracts *contract.Service) []Tool {
	return []Tool{
		{
			Name:        "contract_call",
			Description: "Read-only contract invocation with a caller-supplied ABI. Invocation failures are reported in the result's error field.",
			Schema: objectSchema(map[string]Property{
				"address": {Type: "string", Description: "Contract address.", Pattern: util.AddressPattern},
				"abi":     {Type: "string", Description: "Contract ABI as a JSON string or array."},
				"method":  {Type: "string", Description: "Method name to invoke."},
				"args":    {Type: "array", Description: "Positional method arguments."},
				"network": networkProperty,
			}, "address", "abi", "method"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				req, err := callRequestFromArgs(args)
				if err != nil {
					return nil, err
				}
				return contracts.Call(ctx, req), nil
			},
		},
		{
			Name:        "contract_send",
			Description: "State-changing contract invocation, confirmed on chain. Invocation failures are reported in the result's error field.",
			Schema: objectSchema(map[string]Property{
				"address": {Type: "string", Description: "Contract address.", Pattern: util.AddressPattern},
				"abi":     {Type: "string", Description: "Contract ABI as a JSON string or array."},
				"method":  {Type: "string", Description: "Method name to invoke."},
				"args":    {Type: "array", Description: "Positional method arguments."},
				"from":    {Type: "string", Description: "Sending wallet; first available when omitted.", Pattern: util.AddressPattern},
				"value":   {Type: "string", Description: "Native-currency amount to attach, in whole units."},
				"network": networkProperty,
			}, "address", "abi", "method"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				callReq, err := callRequestFromArgs(args)
				if err != nil {
					return nil, err
				}
				return contracts.Send(ctx, contract.SendRequest{
					Network: callReq.Network,
					Address: callReq.Address,
					ABI:     callReq.ABI,
					Method:  callReq.Method,
					Args:    callReq.Args,
					From:    args.String("from"),
					Value:   args.String("value"),
				}), nil
			},
		},
		{
			Name:        "contract_deploy",
			Description: "Deploy a contract from bytecode and constructor arguments, blocking until the address is assigned.",
			Schema: objectSchema(map[string]Property{
				"abi":      {Type: "string", Description: "Contract ABI as a JSON string or array."},
				"bytecode": {Type: "string", Description: "Hex deployment bytecode."},
				"args":     {Type: "array", Description: "Positional constructor arguments."},
				"from":     {Type: "string", Description: "Deploying wallet; first available when omitted.", Pattern: util.AddressPattern},
				"value":    {Type: "string", Description: "Native-currency amount to attach, in whole units."},
				"network":  networkProperty,
			}, "abi", "bytecode"),
			Execute: func(ctx context.Context, args Args) (any, error) {
				abiJSON, err := abiFromArgs(args)
				if err != nil {
					return nil, err
				}
				bytecode, err := args.StringRequired("bytecode")
				if err != nil {
					return nil, err
				}
				ctorArgs, err := args.AnySlice("args")
				if err != nil {
					return nil, err
				}
				return contracts.Deploy(ctx, contract.DeployRequest{
					Network:  args.String("network"),
					ABI:      abiJSON,
					Bytecode: bytecode,
					Args:     ctorArgs,
					From:     args.String("from"),
					Value:    args.String("value"),
				})
			},
		},
	}
}

func callRequestFromArgs(args Args) (contract.CallRequest, error) {
	var req contract.CallRequest
	var err error

	if req.Address, err = args.StringRequired("address"); err != nil {
		return req, err
	}
	if req.ABI, err = abiFromArgs(args); err != nil {
		return req, err
	}
	if req.Method, err = args.StringRequired("method"); err != nil {
		return req, err
	}
	if req.Args, err = args.AnySlice("args"); err != nil {
		return req, err
	}
	req.Network = args.String("network")
	return req, nil
}

// abiFromArgs accepts the ABI either as a JSON string or as an already-decoded
// JSON array and normalizes it to a string.
func abiFromArgs(args Args) (string, error) {
	switch v := args["abi"].(type) {
	case string:
		if v == "" {
			return "", errors.Wrap(ErrInvalidArgument, `missing required argument "abi"`)
		}
		return v, nil
	case []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrap(err, "invalid abi argument")
		}
		return string(encoded), nil
	default:
		return "", errors.Wrap(ErrInvalidArgument, `missing required argument "abi"`)
	}
}
