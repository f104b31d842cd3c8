package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"gorm.io/gorm"

	"tokensmith/internal/dispatcher"
	"tokensmith/internal/models"
	"tokensmith/internal/store"
	"tokensmith/pkg/config"
	"tokensmith/pkg/ipfs"
	"tokensmith/pkg/solana"
)

// App is the interactive front-end. One operation runs start to finish
// before the menu is shown again; there is no background work.
type App struct {
	cfg      *config.Config
	network  models.Network
	endpoint string

	tokens  *store.TokenStore
	wallets *store.WalletStore
	journal *gorm.DB

	ops       *solana.TokenOps
	inspector *solana.Inspector
	pinner    *ipfs.Client

	prompt *prompter
}

// New wires the application from config. Directory or journal creation
// failures are fatal startup errors.
func New(cfg *config.Config) (*App, error) {
	tokens, err := store.NewTokenStore(cfg.TokensDir())
	if err != nil {
		return nil, err
	}
	wallets, err := store.NewWalletStore(cfg.WalletsDir())
	if err != nil {
		return nil, err
	}
	journal, err := config.OpenJournal(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	network := cfg.ActiveNetwork()
	endpoint, err := cfg.EndpointFor(network)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:       cfg,
		network:   network,
		endpoint:  endpoint,
		tokens:    tokens,
		wallets:   wallets,
		journal:   journal,
		ops:       solana.NewTokenOps(endpoint, network),
		inspector: solana.NewInspector(endpoint, network),
		pinner:    ipfs.NewClient(cfg.IPFS.Endpoint, cfg.IPFS.APIKey, cfg.IPFS.APISecret),
		prompt:    newPrompter(bufio.NewScanner(os.Stdin)),
	}, nil
}

// Run shows the menu until the user quits.
func (a *App) Run() {
	fmt.Printf("tokensmith: SPL token lifecycle tool (network: %s)\n", a.network)
	for {
		fmt.Println()
		fmt.Println("1) Create token")
		fmt.Println("2) Mint supply")
		fmt.Println("3) Revoke mint authority")
		fmt.Println("4) Revoke freeze authority")
		fmt.Println("5) Create associated token account")
		fmt.Println("6) Update metadata")
		fmt.Println("7) Inspect token")
		fmt.Println("8) List tokens")
		fmt.Println("9) Wallets")
		fmt.Println("10) Check RPC endpoint")
		fmt.Println("0) Quit")

		switch a.prompt.String("Choose") {
		case "1":
			a.guard(a.createToken)
		case "2":
			a.guard(a.mintSupply)
		case "3":
			a.guard(func() error { return a.revokeAuthority(models.OpRevokeMintAuthority) })
		case "4":
			a.guard(func() error { return a.revokeAuthority(models.OpRevokeFreezeAuthority) })
		case "5":
			a.guard(a.createAccount)
		case "6":
			a.guard(a.updateMetadata)
		case "7":
			a.guard(a.inspectToken)
		case "8":
			a.guard(a.listTokens)
		case "9":
			a.guard(a.walletsMenu)
		case "10":
			a.guard(a.checkEndpoint)
		case "0", "q", "quit":
			return
		default:
			fmt.Println("Unknown choice.")
		}
	}
}

// guard reports an operation's failure and returns to the menu. Nothing
// is retried automatically.
func (a *App) guard(op func() error) {
	if err := op(); err != nil {
		fmt.Printf("\nOperation failed: %v\n", err)
		switch {
		case errors.Is(err, models.ErrNotFound):
			fmt.Println("Hint: check the address or create the token first.")
		case errors.Is(err, models.ErrUnauthorized):
			fmt.Println("Hint: the selected wallet is not the required authority.")
		case errors.Is(err, models.ErrImmutable):
			fmt.Println("Hint: this token's metadata was created non-mutable.")
		case errors.Is(err, models.ErrExternalProcess):
			fmt.Println("Hint: check that the spl-token binary is installed and the wallet is funded.")
		case errors.Is(err, models.ErrNetwork):
			fmt.Println("Hint: the RPC endpoint may be down; try the endpoint check from the menu.")
		}
	}
}

func (a *App) createToken() error {
	payer, _, err := a.selectWallet()
	if err != nil {
		return err
	}

	name := a.prompt.String("Token name")
	symbol := a.prompt.String("Symbol")
	description := a.prompt.readLine("Description")
	decimals := a.prompt.Decimals("Decimals (0-18)")
	supply := a.prompt.Uint("Initial supply in base units (0 for none)")
	imageURI := a.prompt.Optional("Image URI")
	externalURL := a.prompt.Optional("External URL")
	mutable := a.prompt.YesNo("Keep metadata updatable later?")

	var metadataURI string
	if a.prompt.YesNo("Pin off-chain metadata JSON to IPFS?") {
		payload := map[string]interface{}{
			"name":        name,
			"symbol":      symbol,
			"description": description,
		}
		if imageURI != nil {
			payload["image"] = *imageURI
		}
		if externalURL != nil {
			payload["external_url"] = *externalURL
		}
		metadataURI, err = a.pinner.PinJSON(context.Background(), symbol+"-metadata", payload)
		if err != nil {
			return err
		}
		fmt.Printf("Pinned metadata: %s\n", metadataURI)
	} else if uri := a.prompt.Optional("Metadata URI"); uri != nil {
		metadataURI = *uri
	}

	result, err := a.ops.CreateToken(context.Background(), solana.CreateTokenParams{
		Payer:         payer,
		Name:          name,
		Symbol:        symbol,
		MetadataURI:   metadataURI,
		Decimals:      decimals,
		InitialSupply: supply,
		Mutable:       mutable,
	})
	if err != nil {
		return err
	}

	record := models.TokenRecord{
		Name:              name,
		Symbol:            symbol,
		Description:       description,
		MintAddress:       result.Mint,
		MetadataURI:       metadataURI,
		Decimals:          decimals,
		InitialSupply:     supply,
		TotalMinted:       supply,
		Creator:           payer.PublicKey.ToBase58(),
		CreateTransaction: result.Signature,
		Network:           a.network,
		CreatedAt:         time.Now(),
	}
	if imageURI != nil {
		record.ImageURI = *imageURI
	}
	if externalURL != nil {
		record.ExternalURL = *externalURL
	}
	path, err := a.tokens.Save(record)
	if err != nil {
		return err
	}

	fmt.Printf("\nToken created.\n  Mint: %s\n  Signature: %s\n  Record: %s\n", result.Mint, result.Signature, path)
	a.printLinks(result.Mint, solana.LinkToken)
	return nil
}

func (a *App) mintSupply() error {
	record, err := a.selectRecord()
	if err != nil {
		return err
	}
	if record.MintAuthorityRevoked {
		fmt.Println("Note: the local record says the mint authority was already revoked; the operation will likely fail.")
	}
	_, walletPath, err := a.selectWallet()
	if err != nil {
		return err
	}
	amount := a.prompt.Uint("Amount to mint in base units")

	d := dispatcher.New(a.cfg.SplTokenBin, a.endpoint, a.network, walletPath, a.journal)
	result, err := d.Mint(context.Background(), record.MintAddress, amount, record.Decimals)
	if err != nil {
		return err
	}

	now := time.Now()
	updated, err := a.tokens.Patch(record.MintAddress, models.TokenPatch{
		MintedAmount: &amount,
		LastMintDate: &now,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nMinted. Signature: %s\nTotal minted so far: %d\n", result.Signature, updated.TotalMinted)
	a.printLinks(result.Signature, solana.LinkTransaction)
	return nil
}

func (a *App) revokeAuthority(kind string) error {
	record, err := a.selectRecord()
	if err != nil {
		return err
	}
	alreadyRevoked := (kind == models.OpRevokeMintAuthority && record.MintAuthorityRevoked) ||
		(kind == models.OpRevokeFreezeAuthority && record.FreezeAuthorityRevoked)
	if alreadyRevoked {
		fmt.Println("Note: the local record says this authority was already revoked; the operation will likely fail.")
	}
	fmt.Println("Revocation is permanent and cannot be undone.")
	if !a.prompt.YesNo("Continue?") {
		return nil
	}
	_, walletPath, err := a.selectWallet()
	if err != nil {
		return err
	}

	d := dispatcher.New(a.cfg.SplTokenBin, a.endpoint, a.network, walletPath, a.journal)
	var result dispatcher.Result
	if kind == models.OpRevokeMintAuthority {
		result, err = d.RevokeMintAuthority(context.Background(), record.MintAddress)
	} else {
		result, err = d.RevokeFreezeAuthority(context.Background(), record.MintAddress)
	}
	if err != nil {
		return err
	}

	now := time.Now()
	revoked := true
	patch := models.TokenPatch{LastRevokeDate: &now}
	if kind == models.OpRevokeMintAuthority {
		patch.MintAuthorityRevoked = &revoked
		patch.MintRevokeTransaction = &result.Signature
	} else {
		patch.FreezeAuthorityRevoked = &revoked
		patch.FreezeRevokeTransaction = &result.Signature
	}
	if _, err := a.tokens.Patch(record.MintAddress, patch); err != nil {
		return err
	}
	fmt.Printf("\nAuthority revoked. Signature: %s\n", result.Signature)
	a.printLinks(result.Signature, solana.LinkTransaction)
	return nil
}

func (a *App) createAccount() error {
	mint := a.prompt.Address("Mint address")
	_, walletPath, err := a.selectWallet()
	if err != nil {
		return err
	}
	d := dispatcher.New(a.cfg.SplTokenBin, a.endpoint, a.network, walletPath, a.journal)
	result, err := d.CreateAccount(context.Background(), mint)
	if err != nil {
		return err
	}
	fmt.Printf("\nAssociated token account created. Signature: %s\n", result.Signature)
	return nil
}

func (a *App) updateMetadata() error {
	record, err := a.selectRecord()
	if err != nil {
		return err
	}
	payer, _, err := a.selectWallet()
	if err != nil {
		return err
	}

	name := a.prompt.Optional("New name")
	symbol := a.prompt.Optional("New symbol")
	description := a.prompt.Optional("New description")
	imageURI := a.prompt.Optional("New image URI")
	externalURL := a.prompt.Optional("New external URL")

	var uri *string
	if a.prompt.YesNo("Re-pin off-chain metadata JSON to IPFS?") {
		payload := map[string]interface{}{
			"name":        pick(name, record.Name),
			"symbol":      pick(symbol, record.Symbol),
			"description": pick(description, record.Description),
			"image":       pick(imageURI, record.ImageURI),
		}
		if ext := pick(externalURL, record.ExternalURL); ext != "" {
			payload["external_url"] = ext
		}
		pinned, err := a.pinner.PinJSON(context.Background(), record.Symbol+"-metadata", payload)
		if err != nil {
			return err
		}
		uri = &pinned
	} else if u := a.prompt.Optional("New metadata URI"); u != nil {
		uri = u
	}

	if name == nil && symbol == nil && uri == nil && description == nil && imageURI == nil && externalURL == nil {
		fmt.Println("Nothing to update.")
		return nil
	}

	sig, err := a.ops.UpdateMetadata(context.Background(), solana.UpdateMetadataParams{
		Payer:  payer,
		Mint:   record.MintAddress,
		Name:   name,
		Symbol: symbol,
		URI:    uri,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	if _, err := a.tokens.Patch(record.MintAddress, models.TokenPatch{
		Name:                  name,
		Symbol:                symbol,
		Description:           description,
		MetadataURI:           uri,
		ImageURI:              imageURI,
		ExternalURL:           externalURL,
		LastUpdateTransaction: &sig,
		LastUpdateDate:        &now,
	}); err != nil {
		return err
	}
	fmt.Printf("\nMetadata updated. Signature: %s\n", sig)
	a.printLinks(sig, solana.LinkTransaction)
	return nil
}

func (a *App) inspectToken() error {
	mint := a.prompt.Address("Mint address")
	report, err := a.inspector.Inspect(context.Background(), mint)
	if err != nil {
		return err
	}

	fmt.Printf("\nMint %s on %s\n", report.MintAddress, report.Network)
	if report.AccountDecodable {
		fmt.Printf("  Supply: %s (%d raw, %d decimals)\n",
			report.Account.UIAmount(), report.Account.Supply, report.Account.Decimals)
		fmt.Printf("  Initialized: %v\n", report.Account.IsInitialized)
	} else {
		fmt.Println("  Could not parse the mint account layout.")
	}
	if report.MetadataPresent {
		m := report.Metadata
		fmt.Printf("  Name: %s\n  Symbol: %s\n  URI: %s\n  Update authority: %s\n  Mutable: %v\n",
			m.Name, m.Symbol, m.URI, m.UpdateAuthority, m.IsMutable)
		for _, c := range m.Creators {
			fmt.Printf("  Creator: %s (verified=%v, share=%d)\n", c.Address, c.Verified, c.Share)
		}
	} else {
		fmt.Println("  Token exists without metadata.")
	}
	if report.OffChainAvailable {
		o := report.OffChain
		fmt.Printf("  Off-chain: %s (%s)\n", o.Name, o.Description)
		if o.Image != "" {
			fmt.Printf("  Image: %s\n", o.Image)
		}
		for _, attr := range o.Attributes {
			fmt.Printf("  %s: %v\n", attr.TraitType, attr.Value)
		}
	} else if report.OffChainError != "" {
		fmt.Printf("  Off-chain metadata: %s\n", report.OffChainError)
	}
	fmt.Printf("  Explorer: %s\n  Solscan: %s\n", report.Links.Primary, report.Links.Secondary)
	return nil
}

func (a *App) listTokens() error {
	records, err := a.tokens.LoadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No tokens created yet.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("  %s (%s) mint=%s network=%s minted=%d\n",
			r.Name, r.Symbol, r.MintAddress, r.Network, r.TotalMinted)
	}
	return nil
}

func (a *App) walletsMenu() error {
	fmt.Println("1) Generate wallet")
	fmt.Println("2) List wallets")
	fmt.Println("3) Request airdrop")
	switch a.prompt.String("Choose") {
	case "1":
		name := a.prompt.String("Wallet name")
		account, path, err := a.wallets.Generate(name)
		if err != nil {
			return err
		}
		fmt.Printf("Wallet %s created at %s\nAddress: %s\n", name, path, account.PublicKey.ToBase58())
		if a.prompt.YesNo("Also store an encrypted keystore copy?") {
			password := a.prompt.String("Password")
			ksPath, err := a.wallets.SaveEncrypted(account, password)
			if err != nil {
				return err
			}
			fmt.Printf("Keystore entry written to %s\n", ksPath)
		}
	case "2":
		names, err := a.wallets.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No wallets yet.")
			return nil
		}
		for _, n := range names {
			fmt.Printf("  %s\n", n)
		}
	case "3":
		account, _, err := a.selectWallet()
		if err != nil {
			return err
		}
		lamports := a.prompt.Uint("Lamports to request")
		sig, err := a.ops.RequestAirdrop(context.Background(), account.PublicKey.ToBase58(), lamports)
		if err != nil {
			return err
		}
		fmt.Printf("Airdrop requested. Signature: %s\n", sig)
	default:
		fmt.Println("Unknown choice.")
	}
	return nil
}

func (a *App) checkEndpoint() error {
	result := solana.CheckRPC(context.Background(), a.endpoint, 5*time.Second)
	if result.OK {
		fmt.Printf("Endpoint %s healthy, latency %s\n", result.URL, result.Latency)
	} else {
		fmt.Printf("Endpoint %s unhealthy: %s\n", result.URL, result.Error)
	}
	return nil
}

// selectRecord lets the user pick one of the locally recorded tokens.
func (a *App) selectRecord() (models.TokenRecord, error) {
	records, err := a.tokens.LoadAll()
	if err != nil {
		return models.TokenRecord{}, err
	}
	if len(records) == 0 {
		return models.TokenRecord{}, fmt.Errorf("%w: no token records; create a token first", models.ErrNotFound)
	}
	for i, r := range records {
		fmt.Printf("%d) %s (%s) %s\n", i+1, r.Name, r.Symbol, r.MintAddress)
	}
	for {
		n := a.prompt.Uint("Token number")
		if n >= 1 && n <= uint64(len(records)) {
			return records[n-1], nil
		}
		fmt.Println("Out of range.")
	}
}

// selectWallet lets the user pick a wallet by name and loads it.
func (a *App) selectWallet() (types.Account, string, error) {
	names, err := a.wallets.List()
	if err != nil {
		return types.Account{}, "", err
	}
	if len(names) == 0 {
		return types.Account{}, "", fmt.Errorf("%w: no wallets; generate one from the wallets menu", models.ErrNotFound)
	}
	for i, n := range names {
		fmt.Printf("%d) %s\n", i+1, n)
	}
	for {
		n := a.prompt.Uint("Wallet number")
		if n >= 1 && n <= uint64(len(names)) {
			name := names[n-1]
			account, err := a.wallets.LoadPlain(name)
			if err != nil {
				return types.Account{}, "", err
			}
			path := filepath.Join(a.cfg.WalletsDir(), name+".json")
			return account, path, nil
		}
		fmt.Println("Out of range.")
	}
}

func (a *App) printLinks(address string, kind solana.LinkKind) {
	links := solana.BuildExplorerLinks(address, kind, a.network)
	fmt.Printf("  %s\n  %s\n", links.Primary, links.Secondary)
}

func pick(override *string, current string) string {
	if override != nil {
		return *override
	}
	return current
}
