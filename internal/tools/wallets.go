package tools

import (
	"context"

	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/util"
)

// WalletInfo is the tool-facing view of one identity. It never carries key
// material.
type WalletInfo struct {
	Address        string `json:"address"`
	DerivationPath string `json:"derivationPath,omitempty"`
}

// WalletExport is the response of the wallet create/import operations, the
// one sanctioned path that returns secret material to the caller.
type WalletExport struct {
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

// SignatureInfo is the result of a personal-message signature.
type SignatureInfo struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// WalletTools exposes the identity pool: enumeration, creation, import and
// EIP-191 personal-message signing.
func WalletTools(ids *identity.Pool) []Tool {
	return []Tool{
		{
			Name:        "list_wallets",
			Description: "List the addresses of every available signing identity.",
			Schema:      objectSchema(nil),
			Execute: func(_ context.Context, _ Args) (any, error) {
				addresses := ids.Addresses()
				wallets := make([]WalletInfo, 0, len(addresses))
				for _, addr := range addresses {
					id, err := ids.Resolve(addr.Hex())
					if err != nil {
						return nil, err
					}
					wallets = append(wallets, WalletInfo{
						Address:        addr.Hex(),
						DerivationPath: id.DerivationPath(),
					})
				}
				return wallets, nil
			},
		},
		{
			Name:        "create_wallet",
			Description: "Generate a fresh random wallet and add it to the identity pool. The response includes the private key; store it safely.",
			Schema:      objectSchema(nil),
			Execute: func(_ context.Context, _ Args) (any, error) {
				id, err := ids.Create()
				if err != nil {
					return nil, err
				}
				return &WalletExport{
					Address:    id.Address().Hex(),
					PublicKey:  id.PublicKeyHex(),
					PrivateKey: id.ExportPrivateKey(),
					Mnemonic:   id.Mnemonic(),
				}, nil
			},
		},
		{
			Name:        "import_wallet",
			Description: "Import a wallet from a raw private key, replacing any existing identity with the same address.",
			Schema: objectSchema(map[string]Property{
				"privateKey": {Type: "string", Description: "Hex private key, with or without 0x prefix.", Pattern: util.PrivateKeyPattern},
			}, "privateKey"),
			Execute: func(_ context.Context, args Args) (any, error) {
				key, err := args.StringRequired("privateKey")
				if err != nil {
					return nil, err
				}
				id, err := ids.Import(key)
				if err != nil {
					return nil, err
				}
				return &WalletExport{
					Address:    id.Address().Hex(),
					PublicKey:  id.PublicKeyHex(),
					PrivateKey: id.ExportPrivateKey(),
				}, nil
			},
		},
		{
			Name:        "sign_message",
			Description: "Sign a message with a wallet using EIP-191 personal-sign. Defaults to the first available identity.",
			Schema: objectSchema(map[string]Property{
				"message": {Type: "string", Description: "Plain-text message to sign."},
				"address": {Type: "string", Description: "Signing wallet; first available when omitted.", Pattern: util.AddressPattern},
			}, "message"),
			Execute: func(_ context.Context, args Args) (any, error) {
				message, err := args.StringRequired("message")
				if err != nil {
					return nil, err
				}
				id, err := ids.Resolve(args.String("address"))
				if err != nil {
					return nil, err
				}
				signature, err := id.SignMessage(message)
				if err != nil {
					return nil, err
				}
				return &SignatureInfo{
					Address:   id.Address().Hex(),
					Message:   message,
					Signature: signature,
				}, nil
			},
		},
		{
			Name:        "verify_message",
			Description: "Verify an EIP-191 personal-sign signature against an expected signer address.",
			Schema: objectSchema(map[string]Property{
				"message":   {Type: "string", Description: "Plain-text message that was signed."},
				"signature": {Type: "string", Description: "65-byte hex signature."},
				"address":   {Type: "string", Description: "Expected signer address.", Pattern: util.AddressPattern},
			}, "message", "signature", "address"),
			Execute: func(_ context.Context, args Args) (any, error) {
				message, err := args.StringRequired("message")
				if err != nil {
					return nil, err
				}
				signature, err := args.StringRequired("signature")
				if err != nil {
					return nil, err
				}
				address, err := args.StringRequired("address")
				if err != nil {
					return nil, err
				}
				valid, err := identity.VerifyMessage(message, signature, address)
				if err != nil {
					return nil, err
				}
				return map[string]any{"valid": valid, "address": address}, nil
			},
		},
	}
}
