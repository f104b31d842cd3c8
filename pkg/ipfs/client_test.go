package ipfs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensmith/internal/models"
)

func TestPinJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful Pin", func(t *testing.T) {
		var gotBody pinRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "key", r.Header.Get("pinata_api_key"))
			assert.Equal(t, "secret", r.Header.Get("pinata_secret_api_key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(pinResponse{IpfsHash: "QmTestHash", PinSize: 42})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "key", "secret")
		uri, err := c.PinJSON(ctx, "DEMO-metadata", map[string]string{"name": "Demo"})
		require.NoError(t, err)
		assert.Equal(t, "ipfs://QmTestHash", uri)
		assert.Equal(t, "DEMO-metadata", gotBody.PinataMetadata.Name)
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		c := NewClient("http://unused", "", "")
		_, err := c.PinJSON(ctx, "x", nil)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Non-200 Response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "key", "secret")
		_, err := c.PinJSON(ctx, "x", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNetwork)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("Response Without Hash", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(pinResponse{})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "key", "secret")
		_, err := c.PinJSON(ctx, "x", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no content hash")
	})

	t.Run("Unreachable Endpoint", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "key", "secret")
		_, err := c.PinJSON(ctx, "x", nil)
		assert.ErrorIs(t, err, models.ErrNetwork)
	})
}
