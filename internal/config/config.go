// Package config holds the configuration of the storagedapp binary.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/branched-services/go-storagedapp"
	"github.com/branched-services/go-storagedapp/internal/logging"
)

// Defaults applied by DefaultConfig.
const (
	DefaultListenAddr     = "127.0.0.1:8080"
	DefaultInstallURL     = "https://metamask.io"
	DefaultRequestTimeout = 2 * time.Minute
)

// Config is the complete configuration of the binary.
type Config struct {
	Version string `yaml:"-"`

	// RPCURL is the wallet provider endpoint. Empty means no provider.
	RPCURL          string `yaml:"rpc_url"`
	ContractAddress string `yaml:"contract_address"`
	ABIPath         string `yaml:"abi_path"`

	ListenAddr     string        `yaml:"listen_addr"`
	InstallURL     string        `yaml:"install_url"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReceiptPoll    time.Duration `yaml:"receipt_poll"`

	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	Log logging.Config `yaml:"log"`
}

// DefaultConfig returns the defaults. The contract address has none.
func DefaultConfig() *Config {
	return &Config{
		Version:        "dev",
		ListenAddr:     DefaultListenAddr,
		InstallURL:     DefaultInstallURL,
		RequestTimeout: DefaultRequestTimeout,
		ReceiptPoll:    storagedapp.DefaultReceiptPollInterval,
		RateLimit:      5,
		RateBurst:      10,
		Log:            logging.DefaultConfig(),
	}
}

// Check validates the configuration. All problems are reported together.
func (c *Config) Check() error {
	var result error
	switch {
	case c.ContractAddress == "":
		result = errors.Join(result, errors.New("contract address is required"))
	case !common.IsHexAddress(c.ContractAddress):
		result = errors.Join(result, fmt.Errorf("invalid contract address %q", c.ContractAddress))
	}
	if c.ListenAddr == "" {
		result = errors.Join(result, errors.New("listen address is required"))
	}
	if c.RequestTimeout <= 0 {
		result = errors.Join(result, errors.New("request timeout must be positive"))
	}
	if c.ReceiptPoll <= 0 {
		result = errors.Join(result, errors.New("receipt poll interval must be positive"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		result = errors.Join(result, errors.New("rate limit and burst must not be negative"))
	}
	result = errors.Join(result, c.Log.Check())
	return result
}

// Address returns the parsed contract address. Check must pass first.
func (c *Config) Address() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// artifact is the subset of a compiler artifact holding the ABI.
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABI returns the contract ABI: the embedded SimpleStorage ABI, or the
// file at ABIPath. The file may hold a bare ABI array or a build artifact
// with an "abi" field.
func (c *Config) LoadABI() (abi.ABI, error) {
	if c.ABIPath == "" {
		return storagedapp.ParseABI(storagedapp.SimpleStorageABI)
	}
	data, err := os.ReadFile(c.ABIPath)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("read ABI: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, "{") {
		var a artifact
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return abi.ABI{}, fmt.Errorf("parse artifact %s: %w", c.ABIPath, err)
		}
		if len(a.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("artifact %s has no abi field", c.ABIPath)
		}
		raw = string(a.ABI)
	}
	parsed, err := storagedapp.ParseABI(raw)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse ABI %s: %w", c.ABIPath, err)
	}
	return parsed, nil
}
