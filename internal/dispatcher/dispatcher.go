package dispatcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tokensmith/internal/models"
)

// signaturePrefix is the literal the spl-token binary prints before the
// transaction signature. The only documented piece of its output format.
const signaturePrefix = "Signature: "

// Result is the structured outcome of one external operation.
type Result struct {
	Success       bool   `json:"success"`
	Signature     string `json:"signature,omitempty"`
	RawDiagnostic string `json:"raw_diagnostic"`
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Dispatcher shells out to the spl-token binary for minting, authority
// revocation and associated account creation, and journals every run.
// The binary's output format is not assumed stable past the signature
// prefix scan.
type Dispatcher struct {
	binary   string
	endpoint string
	network  models.Network
	wallet   string // keypair file passed as the owner/fee payer
	journal  *gorm.DB
	runner   Runner
}

func New(binary, endpoint string, network models.Network, walletPath string, journal *gorm.DB) *Dispatcher {
	return &Dispatcher{
		binary:   binary,
		endpoint: endpoint,
		network:  network,
		wallet:   walletPath,
		journal:  journal,
		runner:   execRunner{},
	}
}

// WithRunner swaps the process runner. Test seam.
func (d *Dispatcher) WithRunner(r Runner) *Dispatcher {
	d.runner = r
	return d
}

// RevokeMintAuthority permanently disables minting for the token.
// Re-revoking an already revoked authority is reported as a failure by
// the binary itself; no prior state is tracked here.
func (d *Dispatcher) RevokeMintAuthority(ctx context.Context, mint string) (Result, error) {
	return d.dispatch(ctx, models.OpRevokeMintAuthority, mint, 0,
		"authorize", mint, "mint", "--disable")
}

// RevokeFreezeAuthority permanently disables freezing holder accounts.
func (d *Dispatcher) RevokeFreezeAuthority(ctx context.Context, mint string) (Result, error) {
	return d.dispatch(ctx, models.OpRevokeFreezeAuthority, mint, 0,
		"authorize", mint, "freeze", "--disable")
}

// Mint mints amount raw units of the token to the owner's associated
// token account. The binary expects a UI amount, so the raw value is
// shifted by the token's decimals.
func (d *Dispatcher) Mint(ctx context.Context, mint string, amount uint64, decimals uint8) (Result, error) {
	uiAmount := decimal.NewFromUint64(amount).Shift(-int32(decimals)).String()
	return d.dispatch(ctx, models.OpMint, mint, amount,
		"mint", mint, uiAmount)
}

// CreateAccount creates the owner's associated token account for mint.
func (d *Dispatcher) CreateAccount(ctx context.Context, mint string) (Result, error) {
	return d.dispatch(ctx, models.OpCreateAccount, mint, 0,
		"create-account", mint)
}

// History returns the journal rows for one mint, newest first.
func (d *Dispatcher) History(mint string) ([]models.OperationRecord, error) {
	var records []models.OperationRecord
	err := d.journal.Where("mint = ?", mint).Order("id desc").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read operation journal: %w", err)
	}
	return records, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, kind, mint string, amount uint64, args ...string) (Result, error) {
	if err := models.ValidateAddress(mint); err != nil {
		return Result{}, err
	}

	record := models.OperationRecord{
		Mint:    mint,
		Kind:    kind,
		Status:  models.OpStatusPending,
		Network: d.network.String(),
		Amount:  amount,
	}
	if err := d.journal.Create(&record).Error; err != nil {
		return Result{}, fmt.Errorf("failed to journal operation: %w", err)
	}

	args = append(args, "--url", d.endpoint, "--fee-payer", d.wallet, "--owner", d.wallet)
	d.setStatus(&record, models.OpStatusExecuting, "", "")
	log.Infof("Dispatching %s for mint %s: %s %s", kind, mint, d.binary, strings.Join(args, " "))

	output, err := d.runner.Run(ctx, d.binary, args...)
	diagnostic := string(output)
	if err != nil {
		d.setStatus(&record, models.OpStatusFailed, "", diagnostic)
		log.Errorf("Operation %s failed for mint %s: %v", kind, mint, err)
		return Result{Success: false, RawDiagnostic: diagnostic},
			fmt.Errorf("%w: %s exited with error: %v", models.ErrExternalProcess, kind, err)
	}

	signature, ok := ScanSignature(diagnostic)
	if !ok {
		d.setStatus(&record, models.OpStatusFailed, "", diagnostic)
		return Result{Success: false, RawDiagnostic: diagnostic},
			fmt.Errorf("%w: no transaction signature in %s output", models.ErrExternalProcess, kind)
	}

	d.setStatus(&record, models.OpStatusSucceeded, signature, diagnostic)
	log.Infof("Operation %s succeeded for mint %s, signature %s", kind, mint, signature)
	return Result{Success: true, Signature: signature, RawDiagnostic: diagnostic}, nil
}

func (d *Dispatcher) setStatus(record *models.OperationRecord, status, signature, diagnostic string) {
	record.Status = status
	record.Signature = signature
	record.Diagnostic = diagnostic
	if err := d.journal.Save(record).Error; err != nil {
		log.Warnf("Failed to update operation journal row %d: %v", record.ID, err)
	}
}

// ScanSignature extracts the first transaction signature from the
// binary's textual output.
func ScanSignature(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, signaturePrefix) {
			continue
		}
		sig := strings.TrimSpace(strings.TrimPrefix(line, signaturePrefix))
		if sig != "" {
			return sig, true
		}
	}
	return "", false
}
