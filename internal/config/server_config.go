package config

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EchoServer contains the HTTP listener configuration.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
}

// LoggerServer controls the zerolog setup.
type LoggerServer struct {
	Level              string
	PrettyPrintConsole bool
}

// ChainServer is the blockchain-access configuration: which network is active
// by default, which signing keys to load at startup and where to reach each
// network. All values map 1:1 to EVMAGENT_* environment variables.
type ChainServer struct {
	DefaultNetwork string
	// RawPrivateKeys holds hex private keys parsed from a comma-separated env value.
	RawPrivateKeys []string
	Mnemonic       string
	HDPath         string
	AccountIndex   uint32
	// RPCOverrides maps a network name to an RPC URL, parsed from
	// comma-separated "name=url" pairs. Overrides win over the built-in table.
	RPCOverrides map[string]string
}

// Server bundles every configurable aspect of the service.
type Server struct {
	Echo   EchoServer
	Logger LoggerServer
	Chain  ChainServer
}

const (
	DefaultHDPath      = "m/44'/60'/0'/0"
	DefaultNetworkName = "mainnet"
	DefaultListenAddr  = ":8080"
	envPrefix          = "evmagent"
)

var loadDotEnvOnce sync.Once

// DefaultServiceConfigFromEnv returns the service configuration, every field
// populated from the environment or its stated default. Called once at startup;
// the env is the single source of configuration (no config files in production,
// a local .env is honored during development).
func DefaultServiceConfigFromEnv() Server {
	loadDotEnvOnce.Do(func() {
		if err := gotenv.Load(".env.local"); err == nil {
			log.Debug().Msg("Loaded .env.local")
		}
	})

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_listen_address", DefaultListenAddr)
	v.SetDefault("logger_level", "info")
	v.SetDefault("logger_pretty_print_console", false)
	v.SetDefault("default_network", DefaultNetworkName)
	v.SetDefault("hd_path", DefaultHDPath)
	v.SetDefault("account_index", 0)

	return Server{
		Echo: EchoServer{
			ListenAddress:                  v.GetString("server_listen_address"),
			HideInternalServerErrorDetails: v.GetBool("server_hide_internal_errors"),
		},
		Logger: LoggerServer{
			Level:              v.GetString("logger_level"),
			PrettyPrintConsole: v.GetBool("logger_pretty_print_console"),
		},
		Chain: ChainServer{
			DefaultNetwork: v.GetString("default_network"),
			RawPrivateKeys: splitCSV(v.GetString("private_keys")),
			Mnemonic:       v.GetString("mnemonic"),
			HDPath:         v.GetString("hd_path"),
			AccountIndex:   v.GetUint32("account_index"),
			RPCOverrides:   parsePairs(v.GetString("rpc_urls")),
		},
	}
}

// splitCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePairs parses comma-separated "name=url" pairs. Malformed entries are
// skipped and logged rather than failing startup.
func parsePairs(s string) map[string]string {
	pairs := splitCSV(s)
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, url, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		url = strings.TrimSpace(url)
		if !found || name == "" || url == "" {
			log.Warn().Str("entry", pair).Msg("Skipping malformed RPC override, expected name=url")
			continue
		}
		out[name] = url
	}
	return out
}
