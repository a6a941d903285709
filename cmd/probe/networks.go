package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/config"
	"github/chapool/evm-agent/internal/util/command"
)

const probeTimeout = 5 * time.Second

func newNetworks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "Probes every configured network connection",
		Long: `Dials each configured network's RPC endpoint and reports whether it
answers with the expected chain id. Exits non-zero when the current
network is unreachable.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			command.Fatal(probeNetworks(cmd.Context(), verbose))
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Also print each network's RPC URL")
	return cmd
}

func probeNetworks(ctx context.Context, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		var currentErr error
		current := s.Conns.CurrentName()

		for _, name := range s.Conns.Names() {
			c, err := s.Conns.Get(name)
			if err != nil {
				return err
			}

			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			chainID, err := c.Client().ChainID(probeCtx)
			cancel()

			marker := " "
			if name == current {
				marker = "*"
			}

			switch {
			case err != nil:
				fmt.Printf("%s %-12s unreachable: %v\n", marker, name, err)
				if name == current {
					currentErr = err
				}
			case c.Descriptor().ChainID != 0 && chainID.Int64() != c.Descriptor().ChainID:
				fmt.Printf("%s %-12s chain id mismatch: node says %s, configured %d\n", marker, name, chainID, c.Descriptor().ChainID)
			default:
				fmt.Printf("%s %-12s chain id %s ok\n", marker, name, chainID)
			}

			if verbose {
				fmt.Printf("  %s\n", c.Descriptor().RPCURL)
			}
		}

		return currentErr
	})
}
