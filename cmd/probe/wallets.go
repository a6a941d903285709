package probe

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/config"
	"github/chapool/evm-agent/internal/util/command"
)

func newWallets() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Lists the signing identities loaded from the environment",
		Long: `Loads the configured signing identities (raw keys and the HD batch)
and prints their addresses. Derivation paths are shown with --verbose;
key material is never printed.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			command.Fatal(probeWallets(cmd.Context(), verbose))
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Also print derivation paths")
	return cmd
}

func probeWallets(ctx context.Context, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(ctx, cfg, func(_ context.Context, s *api.Server) error {
		addresses := s.Identities.Addresses()
		if len(addresses) == 0 {
			fmt.Println("no signing identities configured")
			return nil
		}

		for _, address := range addresses {
			id, err := s.Identities.Resolve(address.Hex())
			if err != nil {
				return err
			}

			if verbose && id.DerivationPath() != "" {
				fmt.Printf("%s  %s\n", id.Address().Hex(), id.DerivationPath())
			} else {
				fmt.Println(id.Address().Hex())
			}
		}

		return nil
	})
}
