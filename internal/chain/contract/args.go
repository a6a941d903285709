package contract

import (
	"encoding/json"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// coerceArgs converts loosely-typed JSON arguments into the Go values the ABI
// encoder expects for the given inputs.
func coerceArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, errors.Errorf("expected %d argument(s), got %d", len(inputs), len(args))
	}
	out := make([]any, len(args))
	for i, arg := range args {
		coerced, err := coerceArg(inputs[i].Type, arg)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		out[i] = coerced
	}
	return out, nil
}

func coerceArg(t abi.Type, value any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := value.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, errors.Errorf("expected a hex address, got %v", value)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		n, err := coerceBig(value)
		if err != nil {
			return nil, err
		}
		return sizeInteger(t, n)

	case abi.BoolTy:
		b, ok := value.(bool)
		if !ok {
			return nil, errors.Errorf("expected a bool, got %v", value)
		}
		return b, nil

	case abi.StringTy:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("expected a string, got %v", value)
		}
		return s, nil

	case abi.BytesTy:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("expected a hex string, got %v", value)
		}
		decoded, err := hexutil.Decode(s)
		if err != nil {
			return nil, errors.Wrap(err, "invalid bytes value")
		}
		return decoded, nil

	case abi.FixedBytesTy:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("expected a hex string, got %v", value)
		}
		decoded, err := hexutil.Decode(s)
		if err != nil {
			return nil, errors.Wrap(err, "invalid bytes value")
		}
		if len(decoded) != t.Size {
			return nil, errors.Errorf("expected %d bytes, got %d", t.Size, len(decoded))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(decoded))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]any)
		if !ok {
			return nil, errors.Errorf("expected an array, got %v", value)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, errors.Errorf("expected %d element(s), got %d", t.Size, len(items))
		}
		slice := reflect.MakeSlice(reflect.SliceOf(t.Elem.GetType()), 0, len(items))
		for i, item := range items {
			coerced, err := coerceArg(*t.Elem, item)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			slice = reflect.Append(slice, reflect.ValueOf(coerced))
		}
		if t.T == abi.ArrayTy {
			arr := reflect.New(t.GetType()).Elem()
			reflect.Copy(arr, slice)
			return arr.Interface(), nil
		}
		return slice.Interface(), nil

	default:
		return nil, errors.Errorf("unsupported argument type %s", t.String())
	}
}

// coerceBig accepts JSON numbers, decimal strings and json.Number values.
// Strings keep full 256-bit precision; bare JSON numbers are fine for small
// values but lose precision past 2^53, which is on the caller.
func coerceBig(value any) (*big.Int, error) {
	switch v := value.(type) {
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, errors.Errorf("expected a decimal integer string, got %q", v)
		}
		return n, nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, errors.Errorf("expected an integer, got %v", v)
		}
		return n, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, errors.Errorf("expected an integer, got %v", v)
		}
		return big.NewInt(int64(v)), nil
	case *big.Int:
		return v, nil
	default:
		return nil, errors.Errorf("expected an integer, got %T", value)
	}
}

// sizeInteger converts a big integer to the exact Go type the encoder expects
// for the ABI type's bit size. Non-standard widths (uint24 and friends) are
// encoded from *big.Int directly.
func sizeInteger(t abi.Type, n *big.Int) (any, error) {
	out := reflect.New(t.GetType()).Elem()
	switch out.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n.Sign() < 0 || !n.IsUint64() || out.OverflowUint(n.Uint64()) {
			return nil, errors.Errorf("value %s out of range for uint%d", n, t.Size)
		}
		out.SetUint(n.Uint64())
		return out.Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !n.IsInt64() || out.OverflowInt(n.Int64()) {
			return nil, errors.Errorf("value %s out of range for int%d", n, t.Size)
		}
		out.SetInt(n.Int64())
		return out.Interface(), nil
	default:
		return n, nil
	}
}
