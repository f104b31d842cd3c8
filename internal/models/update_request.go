package models

import (
	"math"
	"time"
)

// TokenPatch lists every field a later operation may overlay onto an
// existing record. Nil pointers mean "leave as is". Boolean revocation
// flags are one-way: a patch can set them, nothing can clear them.
type TokenPatch struct {
	Name        *string `json:"name,omitempty"`
	Symbol      *string `json:"symbol,omitempty"`
	Description *string `json:"description,omitempty"`
	MetadataURI *string `json:"metadataUri,omitempty"`
	ImageURI    *string `json:"imageUri,omitempty"`
	ExternalURL *string `json:"externalUrl,omitempty"`

	MintedAmount *uint64 `json:"mintedAmount,omitempty"` // added to TotalMinted

	LastUpdateTransaction   *string `json:"lastUpdateTransaction,omitempty"`
	MintRevokeTransaction   *string `json:"mintRevokeTransaction,omitempty"`
	FreezeRevokeTransaction *string `json:"freezeRevokeTransaction,omitempty"`

	MintAuthorityRevoked   *bool `json:"mintAuthorityRevoked,omitempty"`
	FreezeAuthorityRevoked *bool `json:"freezeAuthorityRevoked,omitempty"`

	LastUpdateDate *time.Time `json:"lastUpdateDate,omitempty"`
	LastMintDate   *time.Time `json:"lastMintDate,omitempty"`
	LastRevokeDate *time.Time `json:"lastRevokeDate,omitempty"`
}

// Merge overlays p onto rec and returns the result. Pure: rec is not
// modified. MintAddress, Creator, Network and CreatedAt never change.
func Merge(rec TokenRecord, p TokenPatch) TokenRecord {
	out := rec
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Symbol != nil {
		out.Symbol = *p.Symbol
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.MetadataURI != nil {
		out.MetadataURI = *p.MetadataURI
	}
	if p.ImageURI != nil {
		out.ImageURI = *p.ImageURI
	}
	if p.ExternalURL != nil {
		out.ExternalURL = *p.ExternalURL
	}
	if p.MintedAmount != nil {
		// saturate instead of wrapping at the uint64 boundary
		if *p.MintedAmount > math.MaxUint64-out.TotalMinted {
			out.TotalMinted = math.MaxUint64
		} else {
			out.TotalMinted += *p.MintedAmount
		}
	}
	if p.LastUpdateTransaction != nil {
		out.LastUpdateTransaction = *p.LastUpdateTransaction
	}
	if p.MintRevokeTransaction != nil {
		out.MintRevokeTransaction = *p.MintRevokeTransaction
	}
	if p.FreezeRevokeTransaction != nil {
		out.FreezeRevokeTransaction = *p.FreezeRevokeTransaction
	}
	if p.MintAuthorityRevoked != nil && *p.MintAuthorityRevoked {
		out.MintAuthorityRevoked = true
	}
	if p.FreezeAuthorityRevoked != nil && *p.FreezeAuthorityRevoked {
		out.FreezeAuthorityRevoked = true
	}
	if p.LastUpdateDate != nil {
		t := *p.LastUpdateDate
		out.LastUpdateDate = &t
	}
	if p.LastMintDate != nil {
		t := *p.LastMintDate
		out.LastMintDate = &t
	}
	if p.LastRevokeDate != nil {
		t := *p.LastRevokeDate
		out.LastRevokeDate = &t
	}
	return out
}
