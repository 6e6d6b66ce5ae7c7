// Package config resolves kvs-server's runtime configuration from cobra
// flags and KVS_-prefixed environment variables, with flags taking
// precedence over the environment and the environment taking precedence
// over compiled-in defaults.
package config

import (
	"strings"

	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServerConfig is the resolved set of values kvs-server needs to start.
type ServerConfig struct {
	Addr     string
	Backend  string
	DataPath string
	Dev      bool
}

// RegisterFlags attaches the server's flags to cmd, returning pointers the
// caller passes to Resolve once cobra has parsed them.
func RegisterFlags(cmd *cobra.Command) *ServerConfig {
	cfg := &ServerConfig{}
	cmd.Flags().StringVar(&cfg.Addr, "addr", "127.0.0.1:4000", "address to listen on")
	cmd.Flags().StringVar(&cfg.Backend, "engine", options.DefaultBackend, "storage backend: kvs|bolt")
	cmd.Flags().StringVar(&cfg.DataPath, "data-path", options.DefaultDataDir, "directory holding engine state")
	cmd.Flags().BoolVar(&cfg.Dev, "dev", false, "use human-readable development logging")
	return cfg
}

// Resolve layers KVS_-prefixed environment variables over cmd's parsed
// flags, so an explicit flag always wins, an environment variable wins
// over the compiled default, and cfg is otherwise left as cobra parsed it.
func Resolve(cmd *cobra.Command, cfg *ServerConfig) *ServerConfig {
	v := viper.New()
	v.SetEnvPrefix("KVS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	bindFlag(v, cmd, "addr")
	bindFlag(v, cmd, "engine")
	bindFlag(v, cmd, "data-path")

	return &ServerConfig{
		Addr:     v.GetString("addr"),
		Backend:  v.GetString("engine"),
		DataPath: v.GetString("data-path"),
		Dev:      cfg.Dev,
	}
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, name string) {
	_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
}
