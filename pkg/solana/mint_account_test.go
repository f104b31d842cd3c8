package solana

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeMintAccount(supply uint64, decimals uint8, initialized bool) []byte {
	data := make([]byte, MintAccountSize)
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	if initialized {
		data[45] = 1
	}
	return data
}

func TestDecodeMintAccount(t *testing.T) {
	t.Run("Short Buffers Are Undecodable", func(t *testing.T) {
		for _, size := range []int{0, 1, 36, 45, 81} {
			_, ok := DecodeMintAccount(make([]byte, size))
			assert.False(t, ok, "buffer of %d bytes should be undecodable", size)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		for _, supply := range []uint64{0, 1, 1_000_000_000, 18_446_744_073_709_551_615} {
			snapshot, ok := DecodeMintAccount(encodeMintAccount(supply, 9, true))
			require.True(t, ok)
			assert.Equal(t, supply, snapshot.Supply)
			assert.Equal(t, uint8(9), snapshot.Decimals)
			assert.True(t, snapshot.IsInitialized)
		}
	})

	t.Run("Zero Buffer With Initialized Flag", func(t *testing.T) {
		data := make([]byte, MintAccountSize)
		data[45] = 1
		snapshot, ok := DecodeMintAccount(data)
		require.True(t, ok)
		assert.Equal(t, uint64(0), snapshot.Supply)
		assert.Equal(t, uint8(0), snapshot.Decimals)
		assert.True(t, snapshot.IsInitialized)
	})

	t.Run("Initialized Flag Must Be Exactly One", func(t *testing.T) {
		data := encodeMintAccount(5, 2, false)
		data[45] = 2
		snapshot, ok := DecodeMintAccount(data)
		require.True(t, ok)
		assert.False(t, snapshot.IsInitialized)
	})

	t.Run("Longer Buffers Still Decode", func(t *testing.T) {
		data := append(encodeMintAccount(42, 6, true), make([]byte, 100)...)
		snapshot, ok := DecodeMintAccount(data)
		require.True(t, ok)
		assert.Equal(t, uint64(42), snapshot.Supply)
	})
}

func TestMintAccountSnapshotUIAmount(t *testing.T) {
	snapshot, ok := DecodeMintAccount(encodeMintAccount(1_500_000_000, 9, true))
	require.True(t, ok)
	assert.Equal(t, "1.5", snapshot.UIAmount().String())

	snapshot, ok = DecodeMintAccount(encodeMintAccount(250, 0, true))
	require.True(t, ok)
	assert.Equal(t, "250", snapshot.UIAmount().String())
}
