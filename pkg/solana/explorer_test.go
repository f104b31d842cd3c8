package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tokensmith/internal/models"
)

func TestBuildExplorerLinks(t *testing.T) {
	const mint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	t.Run("Mainnet Has No Cluster Suffix", func(t *testing.T) {
		links := BuildExplorerLinks(mint, LinkToken, models.NetworkMainnet)
		assert.Equal(t, "https://explorer.solana.com/token/"+mint, links.Primary)
		assert.Equal(t, "https://solscan.io/token/"+mint, links.Secondary)
	})

	t.Run("Other Networks Append Cluster", func(t *testing.T) {
		for _, network := range []models.Network{models.NetworkDevnet, models.NetworkTestnet} {
			links := BuildExplorerLinks(mint, LinkToken, network)
			assert.Equal(t, "https://explorer.solana.com/token/"+mint+"?cluster="+network.String(), links.Primary)
			assert.Equal(t, "https://solscan.io/token/"+mint+"?cluster="+network.String(), links.Secondary)
		}
	})

	t.Run("Link Kinds Select The Path Segment", func(t *testing.T) {
		assert.Contains(t, BuildExplorerLinks(mint, LinkAddress, models.NetworkMainnet).Primary, "/address/")
		assert.Contains(t, BuildExplorerLinks(mint, LinkTransaction, models.NetworkMainnet).Primary, "/tx/")
	})
}
