package query

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/util"
)

// ensRegistryAddress is the ENS registry, deployed at the same address on
// mainnet and the major testnets.
var ensRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

const ensABIJSON = `[
	{"name":"resolver","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"name":"addr","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"name":"text","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"outputs":[{"name":"","type":"string"}]}
]`

// The ABI is static, so parse it once at init.
var ensInterface = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ensABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ResolveName performs a forward ENS lookup. The registry lookup must
// succeed; the address and avatar reads against the resolver are each
// best-effort and leave their field empty on failure.
func (s *Service) ResolveName(ctx context.Context, network string, name string) (*ENSInfo, error) {
	c, err := s.conns.Get(network)
	if err != nil {
		return nil, err
	}

	node := nameHash(name)
	info := &ENSInfo{Name: name}

	resolver, err := s.callAddressReturn(ctx, c.Client(), ensRegistryAddress, "resolver", node)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up resolver for %q", name)
	}
	if resolver == (common.Address{}) {
		return info, nil
	}
	info.Resolver = resolver.Hex()

	log := util.LogFromContext(ctx)

	addr, err := s.callAddressReturn(ctx, c.Client(), resolver, "addr", node)
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("ENS address lookup failed")
	} else if addr != (common.Address{}) {
		info.Address = addr.Hex()
	}

	avatar, err := s.callTextReturn(ctx, c.Client(), resolver, node, "avatar")
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("ENS avatar lookup failed")
	} else {
		info.Avatar = avatar
	}

	return info, nil
}

type contractReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func (s *Service) callAddressReturn(ctx context.Context, client contractReader, target common.Address, method string, node common.Hash) (common.Address, error) {
	data, err := ensInterface.Pack(method, node)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "failed to pack %s call", method)
	}
	output, err := client.CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, nil)
	if err != nil {
		return common.Address{}, err
	}
	results, err := ensInterface.Unpack(method, output)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "failed to unpack %s result", method)
	}
	addr, ok := results[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("unexpected %s return type", method)
	}
	return addr, nil
}

func (s *Service) callTextReturn(ctx context.Context, client contractReader, target common.Address, node common.Hash, key string) (string, error) {
	data, err := ensInterface.Pack("text", node, key)
	if err != nil {
		return "", errors.Wrap(err, "failed to pack text call")
	}
	output, err := client.CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, nil)
	if err != nil {
		return "", err
	}
	results, err := ensInterface.Unpack("text", output)
	if err != nil {
		return "", errors.Wrap(err, "failed to unpack text result")
	}
	text, ok := results[0].(string)
	if !ok {
		return "", errors.New("unexpected text return type")
	}
	return text, nil
}

// nameHash implements the ENS namehash algorithm: the empty name is the zero
// hash, each label keccak-folded in from the right.
func nameHash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), labelHash.Bytes())
	}
	return node
}
