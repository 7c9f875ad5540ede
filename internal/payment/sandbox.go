package payment

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Sandbox card numbers and the nonces the processor sandbox accepts for them.
const (
	SandboxCardOK       = "4111111111111111"
	SandboxCardDeclined = "4000000000000002"

	SandboxNonceOK       = "cnon:card-nonce-ok"
	SandboxNonceDeclined = "cnon:card-nonce-declined"
)

// SandboxProvider is an offline stand-in for the hosted SDK. It tokenizes
// the card number it was created with.
type SandboxProvider struct {
	CardNumber string

	mu       sync.Mutex
	attached map[string]*sandboxCard
}

// NewSandboxProvider creates a provider whose cards tokenize cardNumber
func NewSandboxProvider(cardNumber string) *SandboxProvider {
	return &SandboxProvider{
		CardNumber: cardNumber,
		attached:   make(map[string]*sandboxCard),
	}
}

// Card implements Provider
func (p *SandboxProvider) Card(ctx context.Context, applicationID, locationID string) (Card, error) {
	if !strings.HasPrefix(applicationID, "sandbox-") {
		return nil, errors.New("sandbox provider requires a sandbox application id")
	}
	return &sandboxCard{provider: p}, nil
}

// Attached returns the number of cards currently mounted.
func (p *SandboxProvider) Attached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.attached)
}

type sandboxCard struct {
	provider *SandboxProvider
	mount    string
}

func (c *sandboxCard) Attach(ctx context.Context, mount string) error {
	if mount == "" {
		return errors.New("mount point required")
	}

	p := c.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, taken := p.attached[mount]; taken {
		return errors.New("a card is already attached to " + mount)
	}
	p.attached[mount] = c
	c.mount = mount
	return nil
}

func (c *sandboxCard) Tokenize(ctx context.Context) (TokenResult, error) {
	if err := ctx.Err(); err != nil {
		return TokenResult{}, err
	}

	number := strings.NewReplacer(" ", "", "-", "").Replace(c.provider.CardNumber)
	switch {
	case number == "":
		return TokenResult{
			Status: "Invalid",
			Errors: []FieldError{{Field: "cardNumber", Type: "VALIDATION_ERROR", Message: "Card number is required"}},
		}, nil
	case !luhnValid(number):
		return TokenResult{
			Status: "Invalid",
			Errors: []FieldError{{Field: "cardNumber", Type: "VALIDATION_ERROR", Message: "Card number is not valid"}},
		}, nil
	case number == SandboxCardDeclined:
		return TokenResult{Status: StatusOK, Token: SandboxNonceDeclined}, nil
	default:
		return TokenResult{Status: StatusOK, Token: SandboxNonceOK}, nil
	}
}

func (c *sandboxCard) Destroy() error {
	p := c.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.mount != "" && p.attached[c.mount] == c {
		delete(p.attached, c.mount)
	}
	c.mount = ""
	return nil
}

func luhnValid(number string) bool {
	if len(number) < 12 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
