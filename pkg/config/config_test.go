package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensmith/internal/models"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults Without Config File", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, models.NetworkDevnet, cfg.ActiveNetwork())
		assert.Equal(t, "spl-token", cfg.SplTokenBin)
		assert.Equal(t, 8080, cfg.API.Port)

		endpoint, err := cfg.EndpointFor(models.NetworkDevnet)
		require.NoError(t, err)
		assert.Equal(t, "https://api.devnet.solana.com", endpoint)
	})

	t.Run("Config File Overrides Defaults", func(t *testing.T) {
		dir := t.TempDir()
		yaml := `
network: testnet
data_dir: /tmp/tokensmith-test
spl_token_bin: /usr/local/bin/spl-token
endpoints:
  testnet: https://rpc.example.com
api:
  port: 9090
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, models.NetworkTestnet, cfg.ActiveNetwork())
		assert.Equal(t, "/usr/local/bin/spl-token", cfg.SplTokenBin)
		assert.Equal(t, 9090, cfg.API.Port)

		endpoint, err := cfg.EndpointFor(models.NetworkTestnet)
		require.NoError(t, err)
		assert.Equal(t, "https://rpc.example.com", endpoint)
	})

	t.Run("Unknown Network Is Rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("network: localnet\n"), 0o644))
		_, err := Load(dir)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Malformed File Is An Error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("network: [unclosed\n"), 0o644))
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("Missing Endpoint Is An Error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("endpoints:\n  devnet: \"\"\n"), 0o644))
		cfg, err := Load(dir)
		require.NoError(t, err)
		_, err = cfg.EndpointFor(models.NetworkDevnet)
		assert.Error(t, err)
	})

	t.Run("Derived Paths Hang Off The Data Dir", func(t *testing.T) {
		cfg := &Config{DataDir: "/data"}
		assert.Equal(t, filepath.Join("/data", "tokens"), cfg.TokensDir())
		assert.Equal(t, filepath.Join("/data", "wallets"), cfg.WalletsDir())
		assert.Equal(t, filepath.Join("/data", "journal.db"), cfg.JournalPath())
	})
}
