package tools

import (
	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/contract"
	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/chain/query"
	"github/chapool/evm-agent/internal/chain/registry"
	"github/chapool/evm-agent/internal/chain/txn"
)

// Deps are the chain services the tool set is built around.
type Deps struct {
	Registry   *registry.Registry
	Conns      *conn.Pool
	Identities *identity.Pool
	Txns       *txn.Service
	Queries    *query.Service
	Contracts  *contract.Service
}

// NewDefaultRegistry builds the full tool set in its stable presentation
// order: networks, wallets, queries, transactions, contracts.
func NewDefaultRegistry(deps Deps) *Registry {
	r := NewRegistry()
	r.Register(NetworkTools(deps.Registry, deps.Conns)...)
	r.Register(WalletTools(deps.Identities)...)
	r.Register(QueryTools(deps.Queries)...)
	r.Register(TransactionTools(deps.Txns)...)
	r.Register(ContractTools(deps.Contracts)...)
	return r
}
