package store

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensmith/internal/models"
)

func TestWalletStore(t *testing.T) {
	newStore := func(t *testing.T) *WalletStore {
		w, err := NewWalletStore(t.TempDir())
		require.NoError(t, err)
		return w
	}

	t.Run("Generate And Load Plain", func(t *testing.T) {
		w := newStore(t)
		account, path, err := w.Generate("payer")
		require.NoError(t, err)
		assert.FileExists(t, path)
		assert.Equal(t, 64, len(account.PrivateKey), "private key should be 64 bytes")

		// the file is a JSON array of the 64 secret key bytes
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var raw []byte
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, 64, len(raw))

		loaded, err := w.LoadPlain("payer")
		require.NoError(t, err)
		assert.True(t, bytes.Equal(account.PrivateKey, loaded.PrivateKey))
		assert.Equal(t, account.PublicKey.ToBase58(), loaded.PublicKey.ToBase58())
	})

	t.Run("Load Missing Wallet Is NotFound", func(t *testing.T) {
		w := newStore(t)
		_, err := w.LoadPlain("ghost")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("List Returns Wallet Names", func(t *testing.T) {
		w := newStore(t)
		_, _, err := w.Generate("a")
		require.NoError(t, err)
		_, _, err = w.Generate("b")
		require.NoError(t, err)
		names, err := w.List()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, names)
	})

	t.Run("Encrypted Round Trip", func(t *testing.T) {
		w := newStore(t)
		account, _, err := w.Generate("secure")
		require.NoError(t, err)

		path, err := w.SaveEncrypted(account, "hunter2")
		require.NoError(t, err)
		assert.FileExists(t, path)

		address := account.PublicKey.ToBase58()
		loaded, err := w.LoadEncrypted(address, "hunter2")
		require.NoError(t, err)
		assert.True(t, bytes.Equal(account.PrivateKey, loaded.PrivateKey))

		names, err := w.List()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"secure"}, names, "keystore entries are not plain wallets")
	})

	t.Run("Wrong Password Fails", func(t *testing.T) {
		w := newStore(t)
		account, _, err := w.Generate("secure")
		require.NoError(t, err)
		_, err = w.SaveEncrypted(account, "password1")
		require.NoError(t, err)

		_, err = w.LoadEncrypted(account.PublicKey.ToBase58(), "password2")
		assert.Error(t, err)
	})

	t.Run("Unique Keys", func(t *testing.T) {
		w := newStore(t)
		seen := make(map[string]bool)
		for i := 0; i < 10; i++ {
			account := mustGenerate(t, w, i)
			address := account.PublicKey.ToBase58()
			assert.False(t, seen[address], "generated duplicate address")
			seen[address] = true
		}
	})
}

func mustGenerate(t *testing.T, w *WalletStore, i int) types.Account {
	t.Helper()
	account, _, err := w.Generate(string(rune('a' + i)))
	require.NoError(t, err)
	return account
}
