package command

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/config"
	"github/chapool/evm-agent/internal/util"
)

// NewSubcommandGroup returns a command that only exists to group its
// subcommands; invoking it without one prints usage.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subcommands...)
	return cmd
}

// WithServer initializes logging and a fully wired server from cfg, runs f
// against it and tears the server down again. It is the shared bootstrap for
// subcommands that need chain access without serving HTTP.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	ConfigureLogger(cfg)

	s, err := api.InitServer(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, err := range s.Shutdown(shutdownCtx) {
			log.Warn().Err(err).Msg("Error during server shutdown")
		}
	}()

	return f(ctx, s)
}

// ConfigureLogger applies the configured level and output format to the
// global zerolog logger.
func ConfigureLogger(cfg config.Server) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(util.LogLevelFromString(cfg.Logger.Level))

	if cfg.Logger.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		}))
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}

// Fatal exits with status 1 unless err is nil or a plain context
// cancellation, which is the normal way a signal ends a command.
func Fatal(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	log.Fatal().Err(err).Msg("Command failed")
}
