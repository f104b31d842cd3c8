package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensmith/internal/models"
)

const testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func writeMetaString(buf *bytes.Buffer, s string) {
	lenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBytes, uint32(len(s)))
	buf.Write(lenBytes)
	buf.WriteString(s)
}

func encodeMetadataAccount(t *testing.T, name, symbol, uri string, mutable bool, creator *solana.PublicKey) []byte {
	t.Helper()
	updateAuthority := solana.MustPublicKeyFromBase58(testMint)
	mint := solana.MustPublicKeyFromBase58(testMint)

	buf := &bytes.Buffer{}
	buf.WriteByte(4) // key: MetadataV1
	buf.Write(updateAuthority[:])
	buf.Write(mint[:])
	writeMetaString(buf, name)
	writeMetaString(buf, symbol)
	writeMetaString(buf, uri)
	buf.Write([]byte{0, 0}) // seller fee basis points
	if creator != nil {
		buf.WriteByte(1)              // creators present
		buf.Write([]byte{1, 0, 0, 0}) // one creator
		buf.Write(creator[:])         // address
		buf.WriteByte(1)              // verified
		buf.WriteByte(100)            // share
	} else {
		buf.WriteByte(0)
	}
	buf.WriteByte(0) // primary sale happened
	if mutable {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func TestParseMetadata(t *testing.T) {
	creator := solana.MustPublicKeyFromBase58(testMint)

	t.Run("Full Account", func(t *testing.T) {
		data := encodeMetadataAccount(t, "Test Token\x00\x00", "TT\x00", "https://example.com/meta.json", true, &creator)
		meta, err := parseMetadata(data)
		require.NoError(t, err)
		assert.Equal(t, "Test Token", meta.Name)
		assert.Equal(t, "TT", meta.Symbol)
		assert.Equal(t, "https://example.com/meta.json", meta.URI)
		assert.True(t, meta.IsMutable)
		require.Len(t, meta.Creators, 1)
		assert.Equal(t, creator.String(), meta.Creators[0].Address)
		assert.True(t, meta.Creators[0].Verified)
		assert.Equal(t, uint8(100), meta.Creators[0].Share)
	})

	t.Run("Immutable Flag", func(t *testing.T) {
		data := encodeMetadataAccount(t, "Frozen", "FRZ", "", false, nil)
		meta, err := parseMetadata(data)
		require.NoError(t, err)
		assert.False(t, meta.IsMutable)
		assert.Empty(t, meta.Creators)
	})

	t.Run("Truncated After Fee Keeps Defaults", func(t *testing.T) {
		data := encodeMetadataAccount(t, "Short", "SH", "", false, nil)
		data = data[:len(data)-3] // drop creators option and flags
		meta, err := parseMetadata(data)
		require.NoError(t, err)
		assert.Equal(t, "Short", meta.Name)
		assert.True(t, meta.IsMutable, "mutability defaults to true when the flag is missing")
	})

	t.Run("Garbage Fails", func(t *testing.T) {
		_, err := parseMetadata([]byte{1, 2, 3})
		assert.Error(t, err)
	})
}

// newRPCStub serves getAccountInfo for a fixed address->data map; any
// other address gets a null value, which the client reports as not found.
func newRPCStub(t *testing.T, accounts map[string][]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{}       `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getAccountInfo", req.Method)

		var address string
		require.NoError(t, json.Unmarshal(req.Params[0], &address))

		var value interface{}
		if data, ok := accounts[address]; ok {
			value = map[string]interface{}{
				"data":       []interface{}{base64.StdEncoding.EncodeToString(data), "base64"},
				"executable": false,
				"lamports":   1461600,
				"owner":      "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
				"rentEpoch":  0,
			}
		}
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value":   value,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func metadataAddressFor(t *testing.T, mint string) string {
	t.Helper()
	pk := solana.MustPublicKeyFromBase58(mint)
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), metadataProgramID.Bytes(), pk.Bytes()},
		metadataProgramID,
	)
	require.NoError(t, err)
	return addr.String()
}

func TestInspect(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Mint Is NotFound", func(t *testing.T) {
		server := newRPCStub(t, map[string][]byte{})
		defer server.Close()

		inspector := NewInspector(server.URL, models.NetworkDevnet)
		_, err := inspector.Inspect(ctx, testMint)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Token Exists Without Metadata", func(t *testing.T) {
		server := newRPCStub(t, map[string][]byte{
			testMint: encodeMintAccount(1000, 6, true),
		})
		defer server.Close()

		inspector := NewInspector(server.URL, models.NetworkDevnet)
		report, err := inspector.Inspect(ctx, testMint)
		require.NoError(t, err)
		assert.False(t, report.MetadataPresent)
		assert.Nil(t, report.Metadata)
		require.True(t, report.AccountDecodable)
		assert.Equal(t, uint64(1000), report.Account.Supply)
		assert.Equal(t, uint8(6), report.Account.Decimals)
	})

	t.Run("Off-Chain 404 Degrades To Unavailable", func(t *testing.T) {
		offchain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer offchain.Close()

		server := newRPCStub(t, map[string][]byte{
			testMint: encodeMintAccount(500, 9, true),
			metadataAddressFor(t, testMint): encodeMetadataAccount(
				t, "Test Token", "TT", offchain.URL+"/meta.json", true, nil),
		})
		defer server.Close()

		inspector := NewInspector(server.URL, models.NetworkDevnet)
		report, err := inspector.Inspect(ctx, testMint)
		require.NoError(t, err)
		require.True(t, report.MetadataPresent)
		assert.Equal(t, "Test Token", report.Metadata.Name)
		assert.False(t, report.OffChainAvailable)
		assert.Contains(t, report.OffChainError, "404")
		require.True(t, report.AccountDecodable)
		assert.Equal(t, uint64(500), report.Account.Supply)
	})

	t.Run("Off-Chain JSON Is Attached", func(t *testing.T) {
		offchain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"Test Token","description":"a test","image":"https://example.com/i.png"}`))
		}))
		defer offchain.Close()

		server := newRPCStub(t, map[string][]byte{
			testMint: encodeMintAccount(500, 9, true),
			metadataAddressFor(t, testMint): encodeMetadataAccount(
				t, "Test Token", "TT", offchain.URL+"/meta.json", true, nil),
		})
		defer server.Close()

		inspector := NewInspector(server.URL, models.NetworkDevnet)
		report, err := inspector.Inspect(ctx, testMint)
		require.NoError(t, err)
		require.True(t, report.OffChainAvailable)
		assert.Equal(t, "a test", report.OffChain.Description)
		assert.Equal(t, "https://example.com/i.png", report.OffChain.Image)
	})

	t.Run("Invalid Address Is A Validation Failure", func(t *testing.T) {
		inspector := NewInspector("http://127.0.0.1:1", models.NetworkDevnet)
		_, err := inspector.Inspect(ctx, "not-an-address")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
