package models

import "fmt"

// Network identifies a Solana cluster.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// ParseNetwork validates a user-supplied network name.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkDevnet, NetworkMainnet, NetworkTestnet:
		return Network(s), nil
	default:
		return "", fmt.Errorf("%w: unknown network %q (want devnet, mainnet or testnet)", ErrValidation, s)
	}
}

func (n Network) String() string {
	return string(n)
}
