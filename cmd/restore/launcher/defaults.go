package launcher

import "time"

// Defaults bundles the baseline configuration values the launcher uses before
// the config file and command-line flags override them.

type Defaults struct {
	Network NetworkDefaults
	Fetch   FetchDefaults
	Metrics MetricsDefaults
	Logging LoggingDefaults
}

// NetworkDefaults select the deployment restored from when nothing else is given.
type NetworkDefaults struct {
	Name       string        //	Preset name resolved through integration.GetPresetByName (mainnet, rinkeby, localhost).
	RPCTimeout time.Duration //	Upper bound for a single JSON-RPC round trip, dialing included. Slow archive nodes may need more.
}

// FetchDefaults tune the fetch command.
type FetchDefaults struct {
	Workers int //	Number of transactions fetched and decoded at the same time. Public endpoints rate limit aggressively, so keep it small.
}

type MetricsDefaults struct {
	Enable   bool   //	Toggle for the metrics server; when true the restore counters are served on the address below.
	HTTPAddr string //	IP/interface the metrics server binds to (e.g., 0.0.0.0 for all interfaces or 127.0.0.1 for local-only).
	HTTPPort int    //	TCP port Prometheus scrapes; default 6060.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Network: NetworkDefaults{
			Name:       "mainnet",
			RPCTimeout: 30 * time.Second,
		},
		Fetch: FetchDefaults{
			Workers: 4,
		},
		Metrics: MetricsDefaults{
			Enable:   false,
			HTTPAddr: "127.0.0.1",
			HTTPPort: 6060,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}
