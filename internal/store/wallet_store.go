package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	log "github.com/sirupsen/logrus"

	"tokensmith/internal/models"
)

// WalletStore persists keypairs under a directory. The default format is
// the solana-keygen one: a JSON array of the 64 secret key bytes. An
// encrypted keystore entry (AES-256-GCM) is available as an alternative
// for wallets that should not sit on disk in the clear.
type WalletStore struct {
	dir string
}

// KeyStoreEntry is the on-disk form of an encrypted wallet.
type KeyStoreEntry struct {
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_key"`
	Version      int    `json:"version"`
}

func NewWalletStore(dir string) (*WalletStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create wallets directory: %w", err)
	}
	return &WalletStore{dir: dir}, nil
}

// Generate creates a new keypair and writes it as <name>.json.
func (w *WalletStore) Generate(name string) (types.Account, string, error) {
	account := types.NewAccount()
	path, err := w.SavePlain(account, name)
	if err != nil {
		return types.Account{}, "", err
	}
	log.Infof("Generated wallet %s with address %s", name, account.PublicKey.ToBase58())
	return account, path, nil
}

// SavePlain writes the 64-byte secret key as a JSON array.
func (w *WalletStore) SavePlain(account types.Account, name string) (string, error) {
	raw := make([]int, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to marshal keypair: %w", err)
	}
	path := filepath.Join(w.dir, name+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write wallet file: %w", err)
	}
	return path, nil
}

// LoadPlain reads a 64-element byte array wallet file.
func (w *WalletStore) LoadPlain(name string) (types.Account, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Account{}, fmt.Errorf("%w: wallet %s", models.ErrNotFound, name)
		}
		return types.Account{}, fmt.Errorf("failed to read wallet file: %w", err)
	}
	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Account{}, fmt.Errorf("failed to parse wallet file %s: %w", name, err)
	}
	if len(raw) != 64 {
		return types.Account{}, fmt.Errorf("wallet file %s holds %d bytes, want 64", name, len(raw))
	}
	account, err := types.AccountFromBytes(raw)
	if err != nil {
		return types.Account{}, fmt.Errorf("failed to build account from wallet file %s: %w", name, err)
	}
	return account, nil
}

// List returns plain wallet names (file names without the .json
// suffix). Keystore entries are not listed; they are loaded by address.
func (w *WalletStore) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallets directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasSuffix(e.Name(), ".keystore.json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names, nil
}

// SaveEncrypted writes a keystore entry named after the wallet address.
func (w *WalletStore) SaveEncrypted(account types.Account, password string) (string, error) {
	encrypted, err := encryptPrivateKey(account.PrivateKey, password)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt private key: %w", err)
	}
	address := account.PublicKey.ToBase58()
	entry := KeyStoreEntry{
		Address:      address,
		EncryptedKey: encrypted,
		Version:      1,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal keystore entry: %w", err)
	}
	path := filepath.Join(w.dir, address+".keystore.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write keystore entry: %w", err)
	}
	return path, nil
}

// LoadEncrypted reads and decrypts a keystore entry by address.
func (w *WalletStore) LoadEncrypted(address, password string) (types.Account, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, address+".keystore.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Account{}, fmt.Errorf("%w: keystore entry for %s", models.ErrNotFound, address)
		}
		return types.Account{}, fmt.Errorf("failed to read keystore entry: %w", err)
	}
	var entry KeyStoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return types.Account{}, fmt.Errorf("failed to parse keystore entry: %w", err)
	}
	if entry.Address != address {
		return types.Account{}, fmt.Errorf("address mismatch: expected %s, got %s", address, entry.Address)
	}
	privateKey, err := decryptPrivateKey(entry.EncryptedKey, password)
	if err != nil {
		return types.Account{}, fmt.Errorf("failed to decrypt private key: %w", err)
	}
	account, err := types.AccountFromBytes(privateKey)
	if err != nil {
		return types.Account{}, fmt.Errorf("failed to build account from keystore entry: %w", err)
	}
	return account, nil
}

func encryptPrivateKey(privateKey []byte, password string) (string, error) {
	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	ciphertext := gcm.Seal(nonce, nonce, privateKey, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptPrivateKey(encryptedKey, password string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	ciphertext = ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// deriveKey creates a 32-byte key from a password using SHA-256.
func deriveKey(password string) []byte {
	hash := sha256.Sum256([]byte(password))
	return hash[:]
}
