package solana

import (
	"fmt"

	"tokensmith/internal/models"
)

// LinkKind selects the explorer path segment for an address.
type LinkKind string

const (
	LinkAddress     LinkKind = "address"
	LinkToken       LinkKind = "token"
	LinkTransaction LinkKind = "tx"
)

// ExplorerLinks are the two canonical viewer URLs for one address.
type ExplorerLinks struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// BuildExplorerLinks maps (address, kind, network) to explorer.solana.com
// and solscan.io URLs. Mainnet gets no query suffix; every other network
// appends cluster=<network>. Callers must pass a valid Network value.
func BuildExplorerLinks(address string, kind LinkKind, network models.Network) ExplorerLinks {
	links := ExplorerLinks{
		Primary:   fmt.Sprintf("https://explorer.solana.com/%s/%s", kind, address),
		Secondary: fmt.Sprintf("https://solscan.io/%s/%s", kind, address),
	}
	if network != models.NetworkMainnet {
		suffix := fmt.Sprintf("?cluster=%s", network)
		links.Primary += suffix
		links.Secondary += suffix
	}
	return links
}
