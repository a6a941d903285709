package contract

import (
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// renderValue converts one decoded ABI value into a JSON-friendly shape:
// addresses and byte blobs as hex strings, big integers as decimal strings,
// composites element-wise.
func renderValue(value any) any {
	switch v := value.(type) {
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case bool, string,
		uint8, uint16, uint32, uint64,
		int8, int16, int32, int64:
		return v
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return hexutil.Encode(out)
		}
		return renderSequence(rv)
	case reflect.Slice:
		return renderSequence(rv)
	default:
		return value
	}
}

func renderSequence(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = renderValue(rv.Index(i).Interface())
	}
	return out
}
