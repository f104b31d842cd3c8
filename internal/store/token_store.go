package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tokensmith/internal/models"
)

// TokenStore persists one JSON file per created token under a directory.
// Writes are whole-file rewrites. Single-process use only, there is no
// locking for concurrent writers.
type TokenStore struct {
	dir string
}

// NewTokenStore creates the tokens directory if needed.
func NewTokenStore(dir string) (*TokenStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tokens directory: %w", err)
	}
	return &TokenStore{dir: dir}, nil
}

// Save writes a new record and returns the path of the created file.
// File naming: <SYMBOL>-<creation unix timestamp>.json. The symbol is
// part of the file name, so it must not contain path separators.
func (s *TokenStore) Save(rec models.TokenRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	if strings.ContainsAny(rec.Symbol, `/\`) || strings.Contains(rec.Symbol, "..") {
		return "", fmt.Errorf("%w: symbol %q must not contain path separators", models.ErrValidation, rec.Symbol)
	}
	if _, err := s.LoadByMintAddress(rec.MintAddress); err == nil {
		return "", fmt.Errorf("%w: record for mint %s already exists", models.ErrValidation, rec.MintAddress)
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	name := fmt.Sprintf("%s-%d.json", strings.ToUpper(rec.Symbol), rec.CreatedAt.Unix())
	path := filepath.Join(s.dir, name)
	if err := s.writeFile(path, rec); err != nil {
		return "", err
	}
	log.Infof("Saved token record %s for mint %s", name, rec.MintAddress)
	return path, nil
}

// List returns the file names of all token records, newest last by name
// order. Files that fail to parse are reported by Load, not here.
func (s *TokenStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Load reads a single record file by name.
func (s *TokenStore) Load(name string) (models.TokenRecord, error) {
	var rec models.TokenRecord
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return rec, fmt.Errorf("%w: token record %s", models.ErrNotFound, name)
		}
		return rec, fmt.Errorf("failed to read token record %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to parse token record %s: %w", name, err)
	}
	return rec, nil
}

// LoadAll reads every record, skipping files that fail to parse so one
// corrupt file does not hide the rest.
func (s *TokenStore) LoadAll() ([]models.TokenRecord, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	var recs []models.TokenRecord
	for _, name := range names {
		rec, err := s.Load(name)
		if err != nil {
			log.Warnf("Skipping unreadable token record %s: %v", name, err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// LoadByMintAddress finds the record whose mintAddress matches.
func (s *TokenStore) LoadByMintAddress(mint string) (models.TokenRecord, error) {
	names, err := s.List()
	if err != nil {
		return models.TokenRecord{}, err
	}
	for _, name := range names {
		rec, err := s.Load(name)
		if err != nil {
			log.Warnf("Skipping unreadable token record %s: %v", name, err)
			continue
		}
		if rec.MintAddress == mint {
			return rec, nil
		}
	}
	return models.TokenRecord{}, fmt.Errorf("%w: no token record for mint %s", models.ErrNotFound, mint)
}

// Patch overlays p onto the existing record for mint and rewrites its
// file in place. A missing record is an error, never an upsert.
func (s *TokenStore) Patch(mint string, p models.TokenPatch) (models.TokenRecord, error) {
	names, err := s.List()
	if err != nil {
		return models.TokenRecord{}, err
	}
	for _, name := range names {
		rec, err := s.Load(name)
		if err != nil {
			log.Warnf("Skipping unreadable token record %s: %v", name, err)
			continue
		}
		if rec.MintAddress != mint {
			continue
		}
		updated := models.Merge(rec, p)
		if err := s.writeFile(filepath.Join(s.dir, name), updated); err != nil {
			return models.TokenRecord{}, err
		}
		log.Infof("Patched token record %s for mint %s", name, mint)
		return updated, nil
	}
	return models.TokenRecord{}, fmt.Errorf("%w: no token record for mint %s", models.ErrNotFound, mint)
}

func (s *TokenStore) writeFile(path string, rec models.TokenRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write token record: %w", err)
	}
	return nil
}
