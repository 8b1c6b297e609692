// Package flags defines the command line flags of the storagedapp binary.
package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/branched-services/go-storagedapp/internal/config"
)

// EnvVarPrefix prefixes the environment variable of every flag.
const EnvVarPrefix = "STORAGE_DAPP"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + strings.ToUpper(name)}
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML configuration file path",
		EnvVars: prefixEnvVars("CONFIG"),
	}
	RPCURLFlag = &cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "Wallet provider JSON-RPC endpoint. Leave empty to run without a provider.",
		EnvVars: prefixEnvVars("RPC_URL"),
	}
	ContractFlag = &cli.StringFlag{
		Name:    "contract",
		Usage:   "Address of the deployed SimpleStorage contract",
		EnvVars: prefixEnvVars("CONTRACT"),
	}
	ABIFlag = &cli.StringFlag{
		Name:    "abi",
		Usage:   "Path to a contract ABI or build artifact. Defaults to the embedded SimpleStorage ABI.",
		EnvVars: prefixEnvVars("ABI"),
	}
	ListenAddrFlag = &cli.StringFlag{
		Name:    "listen-addr",
		Usage:   "HTTP listen address",
		EnvVars: prefixEnvVars("LISTEN_ADDR"),
		Value:   config.DefaultListenAddr,
	}
	InstallURLFlag = &cli.StringFlag{
		Name:    "install-url",
		Usage:   "Where users are sent to install a wallet",
		EnvVars: prefixEnvVars("INSTALL_URL"),
		Value:   config.DefaultInstallURL,
	}
	MetricsFlag = &cli.BoolFlag{
		Name:    "metrics",
		Usage:   "Serve Prometheus metrics on /metrics",
		EnvVars: prefixEnvVars("METRICS"),
	}
	RequestTimeoutFlag = &cli.DurationFlag{
		Name:    "request-timeout",
		Usage:   "Timeout of a single wallet operation, including waiting for the receipt",
		EnvVars: prefixEnvVars("REQUEST_TIMEOUT"),
		Value:   config.DefaultRequestTimeout,
	}
	ReceiptPollFlag = &cli.DurationFlag{
		Name:    "receipt-poll",
		Usage:   "Interval between transaction receipt polls",
		EnvVars: prefixEnvVars("RECEIPT_POLL"),
		Value:   config.DefaultConfig().ReceiptPoll,
	}
	RateLimitFlag = &cli.Float64Flag{
		Name:    "rate-limit",
		Usage:   "Wallet operations per second accepted by the web frontend. 0 disables limiting.",
		EnvVars: prefixEnvVars("RATE_LIMIT"),
		Value:   config.DefaultConfig().RateLimit,
	}
	RateBurstFlag = &cli.IntFlag{
		Name:    "rate-burst",
		Usage:   "Burst size of the operation rate limit",
		EnvVars: prefixEnvVars("RATE_BURST"),
		Value:   config.DefaultConfig().RateBurst,
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Usage:   "The lowest log level that will be output",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Value:   "info",
	}
	LogFormatFlag = &cli.StringFlag{
		Name:    "log.format",
		Usage:   "Format the log output. Supported formats: 'terminal', 'logfmt', 'json'",
		EnvVars: prefixEnvVars("LOG_FORMAT"),
		Value:   "terminal",
	}
	LogColorFlag = &cli.BoolFlag{
		Name:    "log.color",
		Usage:   "Color the log output if in terminal mode",
		EnvVars: prefixEnvVars("LOG_COLOR"),
	}
)

// Flags contains the list of configuration options available to the binary.
var Flags = []cli.Flag{
	ConfigFlag,
	RPCURLFlag,
	ContractFlag,
	ABIFlag,
	ListenAddrFlag,
	InstallURLFlag,
	MetricsFlag,
	RequestTimeoutFlag,
	ReceiptPollFlag,
	RateLimitFlag,
	RateBurstFlag,
	LogLevelFlag,
	LogFormatFlag,
	LogColorFlag,
}

// ConfigFromCLI builds the configuration from defaults, the optional config
// file and the flags. Flags that were set explicitly win over the file.
func ConfigFromCLI(ctx *cli.Context, version string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Version = version

	if path := ctx.String(ConfigFlag.Name); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	setString := func(dst *string, f *cli.StringFlag) {
		if ctx.IsSet(f.Name) {
			*dst = ctx.String(f.Name)
		}
	}
	setString(&cfg.RPCURL, RPCURLFlag)
	setString(&cfg.ContractAddress, ContractFlag)
	setString(&cfg.ABIPath, ABIFlag)
	setString(&cfg.ListenAddr, ListenAddrFlag)
	setString(&cfg.InstallURL, InstallURLFlag)
	setString(&cfg.Log.Level, LogLevelFlag)
	setString(&cfg.Log.Format, LogFormatFlag)

	if ctx.IsSet(MetricsFlag.Name) {
		cfg.MetricsEnabled = ctx.Bool(MetricsFlag.Name)
	}
	if ctx.IsSet(LogColorFlag.Name) {
		cfg.Log.Color = ctx.Bool(LogColorFlag.Name)
	}
	if ctx.IsSet(RequestTimeoutFlag.Name) {
		cfg.RequestTimeout = ctx.Duration(RequestTimeoutFlag.Name)
	}
	if ctx.IsSet(ReceiptPollFlag.Name) {
		cfg.ReceiptPoll = ctx.Duration(ReceiptPollFlag.Name)
	}
	if ctx.IsSet(RateLimitFlag.Name) {
		cfg.RateLimit = ctx.Float64(RateLimitFlag.Name)
	}
	if ctx.IsSet(RateBurstFlag.Name) {
		cfg.RateBurst = ctx.Int(RateBurstFlag.Name)
	}

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
