package solana

import (
	"encoding/binary"

	"github.com/shopspring/decimal"
)

// MintAccountSize is the SPL token program's mint account layout length.
const MintAccountSize = 82

// MintAccountSnapshot holds the fields read out of a raw mint account
// buffer at the moment of inspection.
type MintAccountSnapshot struct {
	Supply        uint64 `json:"supply"`
	Decimals      uint8  `json:"decimals"`
	IsInitialized bool   `json:"is_initialized"`
}

// DecodeMintAccount reads supply, decimals and the initialized flag out
// of a raw mint account buffer at fixed offsets: supply is a u64
// little-endian at offset 36, decimals a single byte at 44, initialized
// the byte at 45. Buffers shorter than the 82-byte layout are reported
// as undecodable (ok=false) rather than an error.
//
// The layout is not self-describing: no version byte, no checksum. If
// the token program's account format ever changes, this returns wrong
// numbers silently instead of failing. Known fragility, kept as is.
func DecodeMintAccount(data []byte) (MintAccountSnapshot, bool) {
	if len(data) < MintAccountSize {
		return MintAccountSnapshot{}, false
	}
	return MintAccountSnapshot{
		Supply:        binary.LittleEndian.Uint64(data[36:44]),
		Decimals:      data[44],
		IsInitialized: data[45] == 1,
	}, true
}

// UIAmount converts the raw supply to a human-readable amount using the
// snapshot's decimals.
func (s MintAccountSnapshot) UIAmount() decimal.Decimal {
	return decimal.NewFromUint64(s.Supply).Shift(-int32(s.Decimals))
}
