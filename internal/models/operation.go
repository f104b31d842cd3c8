package models

import "time"

// Operation kinds dispatched through the external spl-token binary.
const (
	OpRevokeMintAuthority   = "revoke_mint_authority"
	OpRevokeFreezeAuthority = "revoke_freeze_authority"
	OpMint                  = "mint"
	OpCreateAccount         = "create_account"
)

// Operation statuses.
const (
	OpStatusPending   = "pending"
	OpStatusExecuting = "executing"
	OpStatusSucceeded = "succeeded"
	OpStatusFailed    = "failed"
)

// OperationRecord is one journal row per dispatched external operation.
type OperationRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Mint       string    `gorm:"size:64;index;not null" json:"mint"`
	Kind       string    `gorm:"size:32;not null" json:"kind"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	Network    string    `gorm:"size:16;not null" json:"network"`
	Amount     uint64    `json:"amount"`
	Signature  string    `gorm:"size:128;default:''" json:"signature"`
	Diagnostic string    `gorm:"type:text;default:''" json:"diagnostic"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OperationRecord) TableName() string {
	return "operation_journal"
}
