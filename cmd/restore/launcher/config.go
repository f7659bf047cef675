// This file maps CLI context and the optional config file to the Config struct.

package launcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-rollup-restore/integration"
)

// Config aggregates every setting the restore commands need. The mapstructure
// tags name the keys of the config file.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Network NetworkConfig `mapstructure:"network"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Decode  DecodeConfig  `mapstructure:"decode"`
	Output  string        `mapstructure:"output"`
}

type LoggingConfig struct {
	Verbosity int    `mapstructure:"verbosity"`
	Format    string `mapstructure:"format"`
	Color     bool   `mapstructure:"color"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Port    int    `mapstructure:"port"`
}

// NetworkConfig names a preset plus optional overrides of its endpoint and
// contract address.
type NetworkConfig struct {
	Name       string        `mapstructure:"name"`
	RPCURL     string        `mapstructure:"rpc_url"`
	Contract   string        `mapstructure:"contract"`
	RPCTimeout time.Duration `mapstructure:"rpc_timeout"`
}

type FetchConfig struct {
	TxHashes []string `mapstructure:"tx"`
	TxFile   string   `mapstructure:"tx_file"`
	Workers  int      `mapstructure:"workers"`
}

type DecodeConfig struct {
	Input     string `mapstructure:"input"`
	InputFile string `mapstructure:"input_file"`
	Stripped  bool   `mapstructure:"stripped"`
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

//	defaultConfig lifts the values of DefaultConfig from defaults.go into a Config
//	so the two files cannot drift apart.

func defaultConfig() Config {
	defaults := DefaultConfig()
	return Config{
		Logging: LoggingConfig{
			Verbosity: defaults.Logging.Verbosity,
			Format:    defaults.Logging.Format,
			Color:     defaults.Logging.Color,
		},
		Metrics: MetricsConfig{
			Enabled: defaults.Metrics.Enable,
			Addr:    defaults.Metrics.HTTPAddr,
			Port:    defaults.Metrics.HTTPPort,
		},
		Network: NetworkConfig{
			Name:       defaults.Network.Name,
			RPCTimeout: defaults.Network.RPCTimeout,
		},
		Fetch: FetchConfig{
			Workers: defaults.Fetch.Workers,
		},
	}
}

// MakeAllConfigs merges defaults, config-file values, and CLI overrides into a
// single config struct, in that order, and validates the result.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(resolvePath(file), &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to load config file %s", file)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.Logging.Verbosity < 0 || cfg.Logging.Verbosity > 5 {
		return errors.Errorf("log verbosity %d out of range 0..5", cfg.Logging.Verbosity)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q (valid: text, json)", cfg.Logging.Format)
	}
	if cfg.Fetch.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", cfg.Fetch.Workers)
	}
	if cfg.Network.RPCTimeout <= 0 {
		return errors.Errorf("rpc timeout must be positive, got %s", cfg.Network.RPCTimeout)
	}
	return nil
}

// ResolveNetwork turns the network section into a concrete deployment: the
// named preset with the explicit endpoint and contract laid over it.
func ResolveNetwork(cfg NetworkConfig) (integration.NetworkPreset, error) {
	network, err := integration.GetPresetByName(cfg.Name)
	if err != nil {
		return integration.NetworkPreset{}, err
	}

	override := integration.NetworkPreset{RPCURL: cfg.RPCURL}
	if cfg.Contract != "" {
		if !common.IsHexAddress(cfg.Contract) {
			return integration.NetworkPreset{}, errors.Errorf("invalid contract address %q", cfg.Contract)
		}
		override.ContractAddress = common.HexToAddress(cfg.Contract)
	}
	integration.ApplyPreset(&network, override)

	if network.RPCURL == "" {
		return integration.NetworkPreset{}, errors.Errorf("no RPC endpoint configured for network %s", network.Name)
	}
	return network, nil
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.Bool("metrics") {
		cfg.Metrics.Enabled = true
	}
	if ctx.IsSet("metrics.addr") {
		cfg.Metrics.Addr = ctx.String("metrics.addr")
	}
	if ctx.IsSet("metrics.port") {
		cfg.Metrics.Port = ctx.Int("metrics.port")
	}

	if ctx.IsSet("network") {
		cfg.Network.Name = ctx.String("network")
	}
	if ctx.IsSet("rpc.url") {
		cfg.Network.RPCURL = ctx.String("rpc.url")
	}
	if ctx.IsSet("rpc.timeout") {
		cfg.Network.RPCTimeout = ctx.Duration("rpc.timeout")
	}
	if ctx.IsSet("contract") {
		cfg.Network.Contract = ctx.String("contract")
	}

	if ctx.IsSet("tx") {
		cfg.Fetch.TxHashes = splitCSV(ctx.String("tx"))
	}
	if ctx.IsSet("tx.file") {
		cfg.Fetch.TxFile = resolvePath(ctx.String("tx.file"))
	}
	if ctx.IsSet("workers") {
		cfg.Fetch.Workers = ctx.Int("workers")
	}

	if ctx.IsSet("input") {
		cfg.Decode.Input = ctx.String("input")
	}
	if ctx.IsSet("input.file") {
		cfg.Decode.InputFile = resolvePath(ctx.String("input.file"))
	}
	if ctx.IsSet("stripped") {
		cfg.Decode.Stripped = ctx.Bool("stripped")
	}

	if ctx.IsSet("output") {
		cfg.Output = resolvePath(ctx.String("output"))
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
