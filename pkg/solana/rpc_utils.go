package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RPCRequest represents a JSON-RPC request.
type RPCRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// RPCResponse represents a JSON-RPC response.
type RPCResponse struct {
	Jsonrpc string           `json:"jsonrpc"`
	Result  interface{}      `json:"result"`
	Error   *json.RawMessage `json:"error"`
	ID      int              `json:"id"`
}

// RPCCheckResult represents the result of probing an RPC endpoint.
type RPCCheckResult struct {
	URL     string        `json:"url"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// CheckRPC probes one endpoint with a getHealth call and measures the
// round trip. Probes run one at a time, like every other flow here.
func CheckRPC(ctx context.Context, url string, timeout time.Duration) RPCCheckResult {
	start := time.Now()
	fail := func(err string) RPCCheckResult {
		return RPCCheckResult{URL: url, OK: false, Latency: time.Since(start), Error: err}
	}

	body, _ := json.Marshal(RPCRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  "getHealth",
		Params:  []interface{}{},
	})
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fail(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fail(fmt.Sprintf("status code: %d", resp.StatusCode))
	}
	var result RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fail(err.Error())
	}
	if result.Error != nil {
		return fail(fmt.Sprintf("rpc error: %s", string(*result.Error)))
	}
	return RPCCheckResult{URL: url, OK: true, Latency: time.Since(start)}
}
