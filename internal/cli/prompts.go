package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"tokensmith/internal/models"
)

// prompter reads line-oriented answers. Validation failures re-prompt
// at the point of input instead of aborting the flow.
type prompter struct {
	in *bufio.Scanner
}

func newPrompter(in *bufio.Scanner) *prompter {
	return &prompter{in: in}
}

func (p *prompter) readLine(label string) string {
	fmt.Printf("%s: ", label)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// String prompts until a non-empty answer is given.
func (p *prompter) String(label string) string {
	for {
		if s := p.readLine(label); s != "" {
			return s
		}
		fmt.Println("A value is required.")
	}
}

// Optional returns nil when the user just presses enter.
func (p *prompter) Optional(label string) *string {
	s := p.readLine(label + " (enter to skip)")
	if s == "" {
		return nil
	}
	return &s
}

// Address prompts until a valid base58 public key is given.
func (p *prompter) Address(label string) string {
	for {
		s := p.readLine(label)
		if err := models.ValidateAddress(s); err != nil {
			fmt.Printf("Invalid address: %v\n", err)
			continue
		}
		return s
	}
}

// Uint prompts until a non-negative integer is given.
func (p *prompter) Uint(label string) uint64 {
	for {
		s := p.readLine(label)
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			fmt.Println("Enter a non-negative whole number.")
			continue
		}
		return n
	}
}

// Decimals prompts until a value in 0-18 is given.
func (p *prompter) Decimals(label string) uint8 {
	for {
		n := p.Uint(label)
		if n > models.MaxDecimals {
			fmt.Printf("Decimals must be between 0 and %d.\n", models.MaxDecimals)
			continue
		}
		return uint8(n)
	}
}

// YesNo defaults to no on anything but y/yes.
func (p *prompter) YesNo(label string) bool {
	s := strings.ToLower(p.readLine(label + " [y/N]"))
	return s == "y" || s == "yes"
}
