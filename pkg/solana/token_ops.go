package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	log "github.com/sirupsen/logrus"

	"tokensmith/internal/models"
)

// TokenOps submits token lifecycle transactions through the SDK: token
// creation with Metaplex metadata, and metadata updates. Minting and
// authority revocation go through the external dispatcher instead.
type TokenOps struct {
	client  *client.Client
	network models.Network
}

func NewTokenOps(endpoint string, network models.Network) *TokenOps {
	return &TokenOps{
		client:  client.NewClient(endpoint),
		network: network,
	}
}

// CreateTokenParams describes a new token. InitialSupply is in raw
// units and is minted to the payer's associated token account.
type CreateTokenParams struct {
	Payer         types.Account
	Name          string
	Symbol        string
	MetadataURI   string
	Decimals      uint8
	InitialSupply uint64
	Mutable       bool
}

// CreateTokenResult reports the new mint and the creation signature.
type CreateTokenResult struct {
	Mint             string
	AssociatedTokens string
	Signature        string
}

// CreateToken creates the mint account, initializes it with the payer
// as mint and freeze authority, attaches a Metaplex metadata account
// and, when an initial supply is requested, creates the payer ATA and
// mints into it. One transaction, signed by payer and the new mint.
func (t *TokenOps) CreateToken(ctx context.Context, p CreateTokenParams) (*CreateTokenResult, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Symbol) == "" {
		return nil, fmt.Errorf("%w: name and symbol are required", models.ErrValidation)
	}
	if p.Decimals > models.MaxDecimals {
		return nil, fmt.Errorf("%w: decimals %d out of range 0-%d", models.ErrValidation, p.Decimals, models.MaxDecimals)
	}

	mint := types.NewAccount()
	payerPub := p.Payer.PublicKey

	rent, err := t.client.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get rent exemption: %v", models.ErrNetwork, err)
	}
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata address: %w", err)
	}

	freezeAuthority := payerPub
	instructions := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     payerPub,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   p.Decimals,
			Mint:       mint.PublicKey,
			MintAuth:   payerPub,
			FreezeAuth: &freezeAuthority,
		}),
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataPubkey,
			Mint:                    mint.PublicKey,
			MintAuthority:           payerPub,
			Payer:                   payerPub,
			UpdateAuthority:         payerPub,
			UpdateAuthorityIsSigner: true,
			IsMutable:               p.Mutable,
			Data: token_metadata.DataV2{
				Name:                 p.Name,
				Symbol:               p.Symbol,
				Uri:                  p.MetadataURI,
				SellerFeeBasisPoints: 0,
			},
		}),
	}

	var ataStr string
	if p.InitialSupply > 0 {
		ata, _, err := common.FindAssociatedTokenAddress(payerPub, mint.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive associated token address: %w", err)
		}
		ataStr = ata.ToBase58()
		instructions = append(instructions,
			associated_token_account.Create(associated_token_account.CreateParam{
				Funder:                 payerPub,
				Owner:                  payerPub,
				Mint:                   mint.PublicKey,
				AssociatedTokenAccount: ata,
			}),
			token.MintTo(token.MintToParam{
				Mint:   mint.PublicKey,
				To:     ata,
				Auth:   payerPub,
				Amount: p.InitialSupply,
			}),
		)
	}

	sig, err := t.send(ctx, instructions, p.Payer, []types.Account{p.Payer, mint})
	if err != nil {
		return nil, err
	}
	log.Infof("Created token %s (%s) with mint %s, signature %s", p.Name, p.Symbol, mint.PublicKey.ToBase58(), sig)
	return &CreateTokenResult{
		Mint:             mint.PublicKey.ToBase58(),
		AssociatedTokens: ataStr,
		Signature:        sig,
	}, nil
}

// UpdateMetadataParams lists the updatable metadata fields. Nil leaves
// the current value in place.
type UpdateMetadataParams struct {
	Payer  types.Account
	Mint   string
	Name   *string
	Symbol *string
	URI    *string
}

// UpdateMetadata rewrites the metadata account for a mint. The payer
// must be the current update authority and the metadata mutable.
func (t *TokenOps) UpdateMetadata(ctx context.Context, p UpdateMetadataParams) (string, error) {
	if err := models.ValidateAddress(p.Mint); err != nil {
		return "", err
	}
	mint := common.PublicKeyFromString(p.Mint)

	existing, metadataPubkey, err := t.getMetadata(ctx, mint)
	if err != nil {
		return "", err
	}
	if !existing.IsMutable {
		return "", fmt.Errorf("%w: metadata for mint %s cannot be updated", models.ErrImmutable, p.Mint)
	}
	if existing.UpdateAuthority != p.Payer.PublicKey {
		return "", fmt.Errorf("%w: %s is not the update authority (want %s)",
			models.ErrUnauthorized, p.Payer.PublicKey.ToBase58(), existing.UpdateAuthority.ToBase58())
	}

	data := token_metadata.DataV2{
		Name:                 trimPadding(existing.Data.Name),
		Symbol:               trimPadding(existing.Data.Symbol),
		Uri:                  trimPadding(existing.Data.Uri),
		SellerFeeBasisPoints: existing.Data.SellerFeeBasisPoints,
		Creators:             existing.Data.Creators,
	}
	if p.Name != nil {
		data.Name = *p.Name
	}
	if p.Symbol != nil {
		data.Symbol = *p.Symbol
	}
	if p.URI != nil {
		data.Uri = *p.URI
	}

	instructions := []types.Instruction{
		token_metadata.UpdateMetadataAccountV2(token_metadata.UpdateMetadataAccountV2Param{
			MetadataAccount: metadataPubkey,
			UpdateAuthority: p.Payer.PublicKey,
			Data:            &data,
		}),
	}
	sig, err := t.send(ctx, instructions, p.Payer, []types.Account{p.Payer})
	if err != nil {
		return "", err
	}
	log.Infof("Updated metadata for mint %s, signature %s", p.Mint, sig)
	return sig, nil
}

// RequestAirdrop asks the cluster faucet for lamports. Devnet and
// testnet only; mainnet has no faucet.
func (t *TokenOps) RequestAirdrop(ctx context.Context, address string, lamports uint64) (string, error) {
	if t.network == models.NetworkMainnet {
		return "", fmt.Errorf("%w: airdrops are not available on mainnet", models.ErrValidation)
	}
	if err := models.ValidateAddress(address); err != nil {
		return "", err
	}
	sig, err := t.client.RequestAirdrop(ctx, address, lamports)
	if err != nil {
		return "", fmt.Errorf("%w: airdrop request failed: %v", models.ErrNetwork, err)
	}
	return sig, nil
}

func (t *TokenOps) getMetadata(ctx context.Context, mint common.PublicKey) (token_metadata.Metadata, common.PublicKey, error) {
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return token_metadata.Metadata{}, common.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	info, err := t.client.GetAccountInfo(ctx, metadataPubkey.ToBase58())
	if err != nil {
		return token_metadata.Metadata{}, common.PublicKey{}, fmt.Errorf("%w: failed to fetch metadata account: %v", models.ErrNetwork, err)
	}
	if len(info.Data) == 0 {
		return token_metadata.Metadata{}, common.PublicKey{}, fmt.Errorf("%w: no metadata account for mint %s", models.ErrNotFound, mint.ToBase58())
	}
	meta, err := token_metadata.MetadataDeserialize(info.Data)
	if err != nil {
		return token_metadata.Metadata{}, common.PublicKey{}, fmt.Errorf("failed to deserialize metadata account: %w", err)
	}
	return meta, metadataPubkey, nil
}

func (t *TokenOps) send(ctx context.Context, instructions []types.Instruction, feePayer types.Account, signers []types.Account) (string, error) {
	blockhash, err := t.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get latest blockhash: %v", models.ErrNetwork, err)
	}
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: blockhash.Blockhash,
			Instructions:    instructions,
		}),
		Signers: signers,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}
	sig, err := t.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send transaction: %v", models.ErrNetwork, err)
	}
	return sig, nil
}

func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}
