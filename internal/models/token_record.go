package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

// TokenRecord is the local JSON document describing one created token.
// One file per token; MintAddress is the natural key. Records are created
// once and patched in place by later operations, fields are only ever
// added or overwritten, never cleared.
type TokenRecord struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`

	MintAddress string `json:"mintAddress"`

	MetadataURI string `json:"metadataUri,omitempty"`
	ImageURI    string `json:"imageUri,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`

	Decimals      uint8  `json:"decimals"`
	InitialSupply uint64 `json:"initialSupply"`
	TotalMinted   uint64 `json:"totalMinted"`

	Creator string `json:"creator"`

	CreateTransaction       string `json:"createTransaction,omitempty"`
	LastUpdateTransaction   string `json:"lastUpdateTransaction,omitempty"`
	MintRevokeTransaction   string `json:"mintRevokeTransaction,omitempty"`
	FreezeRevokeTransaction string `json:"freezeRevokeTransaction,omitempty"`

	Network Network `json:"network"`

	MintAuthorityRevoked   bool `json:"mintAuthorityRevoked"`
	FreezeAuthorityRevoked bool `json:"freezeAuthorityRevoked"`

	CreatedAt      time.Time  `json:"createdAt"`
	LastUpdateDate *time.Time `json:"lastUpdateDate,omitempty"`
	LastMintDate   *time.Time `json:"lastMintDate,omitempty"`
	LastRevokeDate *time.Time `json:"lastRevokeDate,omitempty"`
}

// MaxDecimals is the largest decimals value accepted at input.
const MaxDecimals = 18

// ValidateAddress checks that s is a base58-encoded 32-byte public key.
func ValidateAddress(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty address", ErrValidation)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: address %q is not valid base58: %v", ErrValidation, s, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: address %q decodes to %d bytes, want 32", ErrValidation, s, len(raw))
	}
	return nil
}

// Validate checks the record before it is written for the first time.
func (r *TokenRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: token name is required", ErrValidation)
	}
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("%w: token symbol is required", ErrValidation)
	}
	if r.Decimals > MaxDecimals {
		return fmt.Errorf("%w: decimals %d out of range 0-%d", ErrValidation, r.Decimals, MaxDecimals)
	}
	if err := ValidateAddress(r.MintAddress); err != nil {
		return err
	}
	if err := ValidateAddress(r.Creator); err != nil {
		return err
	}
	if _, err := ParseNetwork(string(r.Network)); err != nil {
		return err
	}
	return nil
}
