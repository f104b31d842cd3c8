package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"tokensmith/internal/models"
)

// Client pins JSON payloads to an IPFS pinning HTTP endpoint and
// returns the resulting content hash.
type Client struct {
	endpoint   string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewClient creates an IPFS pinning client.
func NewClient(endpoint, apiKey, apiSecret string) *Client {
	return &Client{
		endpoint:  endpoint,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// pinRequest is the pinning service's request envelope.
type pinRequest struct {
	PinataContent  interface{} `json:"pinataContent"`
	PinataMetadata struct {
		Name string `json:"name"`
	} `json:"pinataMetadata"`
}

// pinResponse is the pinning service's reply.
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int    `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PinJSON uploads payload as a named JSON document and returns its
// ipfs:// URI.
func (c *Client) PinJSON(ctx context.Context, name string, payload interface{}) (string, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return "", fmt.Errorf("%w: IPFS API credentials are not configured", models.ErrValidation)
	}

	reqBody := pinRequest{PinataContent: payload}
	reqBody.PinataMetadata.Name = name
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: pin request failed: %v", models.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read pin response: %v", models.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: pin request returned HTTP %d: %s", models.ErrNetwork, resp.StatusCode, string(respBody))
	}

	var pinResp pinResponse
	if err := json.Unmarshal(respBody, &pinResp); err != nil {
		return "", fmt.Errorf("failed to parse pin response: %w", err)
	}
	if pinResp.IpfsHash == "" {
		return "", fmt.Errorf("pin response contains no content hash")
	}
	log.Infof("Pinned %s to IPFS: %s (%d bytes)", name, pinResp.IpfsHash, pinResp.PinSize)
	return "ipfs://" + pinResp.IpfsHash, nil
}
