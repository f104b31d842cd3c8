package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tokensmith/internal/models"
)

// Config is loaded once at process start and passed explicitly into
// each component. No package-level state, no mutation after load.
type Config struct {
	Network   string            `mapstructure:"network"`
	Endpoints map[string]string `mapstructure:"endpoints"`
	DataDir   string            `mapstructure:"data_dir"`

	SplTokenBin string `mapstructure:"spl_token_bin"`

	IPFS struct {
		Endpoint  string `mapstructure:"endpoint"`
		APIKey    string `mapstructure:"api_key"`
		APISecret string `mapstructure:"api_secret"`
	} `mapstructure:"ipfs"`

	API struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"api"`
}

// Load reads config.yaml from dir (or the working directory) with
// TOKENSMITH_* environment overrides. A missing file falls back to
// defaults; a malformed one is an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("TOKENSMITH")
	v.AutomaticEnv()

	home, _ := os.UserHomeDir()
	v.SetDefault("network", string(models.NetworkDevnet))
	v.SetDefault("endpoints", map[string]string{
		string(models.NetworkDevnet):  "https://api.devnet.solana.com",
		string(models.NetworkTestnet): "https://api.testnet.solana.com",
		string(models.NetworkMainnet): "https://api.mainnet-beta.solana.com",
	})
	v.SetDefault("data_dir", filepath.Join(home, ".tokensmith"))
	v.SetDefault("spl_token_bin", "spl-token")
	v.SetDefault("ipfs.endpoint", "https://api.pinata.cloud/pinning/pinJSONToIPFS")
	v.SetDefault("api.port", 8080)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := models.ParseNetwork(cfg.Network); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ActiveNetwork returns the configured cluster.
func (c *Config) ActiveNetwork() models.Network {
	return models.Network(c.Network)
}

// EndpointFor returns the RPC endpoint for a network.
func (c *Config) EndpointFor(network models.Network) (string, error) {
	if url, ok := c.Endpoints[string(network)]; ok && url != "" {
		return url, nil
	}
	return "", fmt.Errorf("no RPC endpoint configured for network %s", network)
}

// TokensDir is where token record files live.
func (c *Config) TokensDir() string {
	return filepath.Join(c.DataDir, "tokens")
}

// WalletsDir is where wallet keypair files live.
func (c *Config) WalletsDir() string {
	return filepath.Join(c.DataDir, "wallets")
}

// JournalPath is the sqlite operation journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataDir, "journal.db")
}
