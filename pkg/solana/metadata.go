package solana

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"tokensmith/internal/models"
)

// Metaplex Token Metadata program.
var metadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// OnChainMetadata is the parsed Metaplex metadata account for a mint.
type OnChainMetadata struct {
	Name                 string    `json:"name"`
	Symbol               string    `json:"symbol"`
	URI                  string    `json:"uri"`
	UpdateAuthority      string    `json:"update_authority"`
	SellerFeeBasisPoints uint16    `json:"seller_fee_basis_points"`
	Creators             []Creator `json:"creators,omitempty"`
	IsMutable            bool      `json:"is_mutable"`
}

// Creator is one entry of the metadata creators vector.
type Creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"`
}

// OffChainMetadata is the JSON document the metadata URI points at.
type OffChainMetadata struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute is one trait of the off-chain metadata.
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// InspectionReport is the composite view of a token's state. Each
// section is independently present or absent: a token may exist without
// metadata, and off-chain metadata may be unavailable without failing
// the rest of the report.
type InspectionReport struct {
	MintAddress string         `json:"mint_address"`
	Network     models.Network `json:"network"`

	Account          *MintAccountSnapshot `json:"account,omitempty"`
	AccountDecodable bool                 `json:"account_decodable"`

	MetadataPresent bool             `json:"metadata_present"`
	Metadata        *OnChainMetadata `json:"metadata,omitempty"`

	OffChainAvailable bool              `json:"offchain_available"`
	OffChain          *OffChainMetadata `json:"offchain,omitempty"`
	OffChainError     string            `json:"offchain_error,omitempty"`

	Links ExplorerLinks `json:"links"`
}

// Inspector fetches a token's on-chain and off-chain state.
type Inspector struct {
	client  *rpc.Client
	http    *http.Client
	network models.Network
}

func NewInspector(endpoint string, network models.Network) *Inspector {
	return &Inspector{
		client:  rpc.New(endpoint),
		http:    &http.Client{Timeout: 10 * time.Second},
		network: network,
	}
}

// Inspect builds the full report for a mint. The mint account missing
// entirely is NotFound; a missing metadata account is a valid outcome;
// an unreachable metadata URI degrades to an unavailable marker.
func (i *Inspector) Inspect(ctx context.Context, mintAddr string) (*InspectionReport, error) {
	if err := models.ValidateAddress(mintAddr); err != nil {
		return nil, err
	}
	mint := solana.MustPublicKeyFromBase58(mintAddr)

	report := &InspectionReport{
		MintAddress: mintAddr,
		Network:     i.network,
		Links:       BuildExplorerLinks(mintAddr, LinkToken, i.network),
	}

	accountInfo, err := i.client.GetAccountInfo(ctx, mint)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: mint account %s does not exist", models.ErrNotFound, mintAddr)
		}
		return nil, fmt.Errorf("%w: failed to fetch mint account: %v", models.ErrNetwork, err)
	}
	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("%w: mint account %s does not exist", models.ErrNotFound, mintAddr)
	}

	if snapshot, ok := DecodeMintAccount(accountInfo.Value.Data.GetBinary()); ok {
		report.Account = &snapshot
		report.AccountDecodable = true
	} else {
		log.Warnf("Could not parse mint account data for %s (%d bytes)", mintAddr, len(accountInfo.Value.Data.GetBinary()))
	}

	meta, err := i.fetchMetadata(ctx, mint)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		report.MetadataPresent = true
		report.Metadata = meta
		i.attachOffChain(ctx, report, meta.URI)
	}
	return report, nil
}

// fetchMetadata returns nil without error when no metadata account
// exists for the mint.
func (i *Inspector) fetchMetadata(ctx context.Context, mint solana.PublicKey) (*OnChainMetadata, error) {
	metadataAddress, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			metadataProgramID.Bytes(),
			mint.Bytes(),
		},
		metadataProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata address: %w", err)
	}

	accountInfo, err := i.client.GetAccountInfo(ctx, metadataAddress)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to fetch metadata account: %v", models.ErrNetwork, err)
	}
	if accountInfo == nil || accountInfo.Value == nil || accountInfo.Value.Data == nil {
		return nil, nil
	}

	meta, err := parseMetadata(accountInfo.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata account for %s: %w", mint.String(), err)
	}
	return meta, nil
}

// parseMetadata walks the Metaplex metadata account layout: key, update
// authority, mint, then length-prefixed name/symbol/uri, seller fee,
// optional creators vector, primary-sale and mutability flags.
func parseMetadata(data []byte) (*OnChainMetadata, error) {
	buf := bytes.NewBuffer(data)

	var key uint8
	if err := binary.Read(buf, binary.LittleEndian, &key); err != nil {
		return nil, err
	}
	var updateAuthority, mint solana.PublicKey
	if _, err := buf.Read(updateAuthority[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Read(mint[:]); err != nil {
		return nil, err
	}

	meta := &OnChainMetadata{
		UpdateAuthority: updateAuthority.String(),
		IsMutable:       true,
	}
	var err error
	if meta.Name, err = readString(buf); err != nil {
		return nil, err
	}
	if meta.Symbol, err = readString(buf); err != nil {
		return nil, err
	}
	if meta.URI, err = readString(buf); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &meta.SellerFeeBasisPoints); err != nil {
		return nil, err
	}

	// Creators vector is optional; the flags behind it are best effort,
	// a short account keeps the defaults.
	var hasCreators uint8
	if err := binary.Read(buf, binary.LittleEndian, &hasCreators); err != nil {
		return meta, nil
	}
	if hasCreators == 1 {
		var numCreators uint32
		if err := binary.Read(buf, binary.LittleEndian, &numCreators); err != nil {
			return meta, nil
		}
		for c := uint32(0); c < numCreators; c++ {
			var creatorKey [32]byte
			if _, err := buf.Read(creatorKey[:]); err != nil {
				return meta, nil
			}
			var verified, share uint8
			if err := binary.Read(buf, binary.LittleEndian, &verified); err != nil {
				return meta, nil
			}
			if err := binary.Read(buf, binary.LittleEndian, &share); err != nil {
				return meta, nil
			}
			meta.Creators = append(meta.Creators, Creator{
				Address:  solana.PublicKeyFromBytes(creatorKey[:]).String(),
				Verified: verified == 1,
				Share:    share,
			})
		}
	}

	var primarySaleHappened, isMutable uint8
	if err := binary.Read(buf, binary.LittleEndian, &primarySaleHappened); err != nil {
		return meta, nil
	}
	if err := binary.Read(buf, binary.LittleEndian, &isMutable); err != nil {
		return meta, nil
	}
	meta.IsMutable = isMutable == 1
	return meta, nil
}

// attachOffChain dereferences the metadata URI. Any failure fills the
// unavailable marker and leaves the rest of the report intact.
func (i *Inspector) attachOffChain(ctx context.Context, report *InspectionReport, uri string) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		report.OffChainError = "metadata has no URI"
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		report.OffChainError = fmt.Sprintf("bad metadata URI: %v", err)
		return
	}
	resp, err := i.http.Do(req)
	if err != nil {
		log.Warnf("Off-chain metadata fetch failed for %s: %v", uri, err)
		report.OffChainError = fmt.Sprintf("unavailable: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warnf("Off-chain metadata fetch for %s returned HTTP %d", uri, resp.StatusCode)
		report.OffChainError = fmt.Sprintf("unavailable: HTTP %d", resp.StatusCode)
		return
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		report.OffChainError = fmt.Sprintf("unavailable: %v", err)
		return
	}
	var offchain OffChainMetadata
	if err := json.Unmarshal(body, &offchain); err != nil {
		report.OffChainError = fmt.Sprintf("unavailable: not valid JSON: %v", err)
		return
	}
	report.OffChainAvailable = true
	report.OffChain = &offchain
}

// readString reads a u32-length-prefixed string and strips the NUL
// padding Metaplex writes into fixed-size fields.
func readString(buf *bytes.Buffer) (string, error) {
	var strLen uint32
	if err := binary.Read(buf, binary.LittleEndian, &strLen); err != nil {
		return "", err
	}
	if int(strLen) > buf.Len() {
		return "", fmt.Errorf("string length %d exceeds remaining buffer %d", strLen, buf.Len())
	}
	strBytes := make([]byte, strLen)
	if _, err := buf.Read(strBytes); err != nil {
		return "", err
	}
	return strings.TrimRight(string(strBytes), "\x00"), nil
}
