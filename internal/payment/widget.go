// Package payment wraps the hosted card-entry widget. Raw card data stays
// inside the widget; this package only ever sees the single-use token it
// produces.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// StatusOK is the tokenize status for a usable token.
const StatusOK = "OK"

var ErrNotInitialized = errors.New("payment form not initialized")

// ConfigError means the widget cannot be used at all: credentials are
// missing or the hosted script never loaded. Submission must stay disabled.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// TokenizeError is a card the widget refused to tokenize.
type TokenizeError struct {
	Status string
	Errors []FieldError
}

func (e *TokenizeError) Error() string {
	msg := "Tokenization failed: " + e.Status
	if len(e.Errors) > 0 {
		if b, err := json.Marshal(e.Errors); err == nil {
			msg += " - " + string(b)
		}
	}
	return msg
}

// FieldError is one problem reported by the widget.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// TokenResult is what a card returns from tokenize.
type TokenResult struct {
	Status string
	Token  string
	Errors []FieldError
}

// Card is one attached card-entry form.
type Card interface {
	Attach(ctx context.Context, mount string) error
	Tokenize(ctx context.Context) (TokenResult, error)
	Destroy() error
}

// Provider is the hosted payments SDK entry point.
type Provider interface {
	Card(ctx context.Context, applicationID, locationID string) (Card, error)
}

// Config identifies the merchant to the widget. Neither value is secret.
type Config struct {
	ApplicationID string
	LocationID    string
}

// Validate reports missing credentials as a ConfigError.
func (c Config) Validate() error {
	if c.ApplicationID == "" || c.LocationID == "" {
		return &ConfigError{Reason: "payment credentials not configured: application id and location id are required"}
	}
	return nil
}

// Widget owns at most one attached card.
type Widget struct {
	provider Provider
	cfg      Config
	log      *slog.Logger

	mu    sync.Mutex
	card  Card
	mount string
}

// NewWidget creates a detached widget. A nil provider means the hosted
// script failed to load; Initialize will report it.
func NewWidget(provider Provider, cfg Config, log *slog.Logger) *Widget {
	if log == nil {
		log = slog.Default()
	}
	return &Widget{
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// Initialize attaches a card into mount. Calling it while a card is already
// attached does nothing.
func (w *Widget) Initialize(ctx context.Context, mount string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.card != nil {
		return nil
	}
	if w.provider == nil {
		return &ConfigError{Reason: "payment script failed to load, please refresh and try again"}
	}
	if err := w.cfg.Validate(); err != nil {
		return err
	}

	card, err := w.provider.Card(ctx, w.cfg.ApplicationID, w.cfg.LocationID)
	if err != nil {
		return &ConfigError{Reason: fmt.Sprintf("failed to load payment form: %v", err)}
	}
	if err := card.Attach(ctx, mount); err != nil {
		if derr := card.Destroy(); derr != nil {
			w.log.Warn("failed to destroy card after attach error", "error", derr)
		}
		return &ConfigError{Reason: fmt.Sprintf("failed to load payment form: %v", err)}
	}

	w.card = card
	w.mount = mount
	w.log.Debug("payment form attached", "mount", mount)
	return nil
}

// Ready reports whether a card is attached.
func (w *Widget) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.card != nil
}

// Tokenize turns the card details into a single-use token.
func (w *Widget) Tokenize(ctx context.Context) (string, error) {
	w.mu.Lock()
	card := w.card
	w.mu.Unlock()

	if card == nil {
		return "", ErrNotInitialized
	}

	res, err := card.Tokenize(ctx)
	if err != nil {
		return "", fmt.Errorf("tokenize card: %w", err)
	}
	if res.Status != StatusOK || res.Token == "" {
		return "", &TokenizeError{Status: res.Status, Errors: res.Errors}
	}
	return res.Token, nil
}

// Close destroys the attached card. It is safe to call more than once.
func (w *Widget) Close() error {
	w.mu.Lock()
	card := w.card
	w.card = nil
	w.mount = ""
	w.mu.Unlock()

	if card == nil {
		return nil
	}
	if err := card.Destroy(); err != nil {
		w.log.Error("error destroying card instance", "error", err)
		return fmt.Errorf("destroy card: %w", err)
	}
	return nil
}

// WithWidget attaches a widget for the duration of fn and always releases
// it, whether fn succeeds, fails or panics.
func WithWidget(ctx context.Context, provider Provider, cfg Config, mount string, log *slog.Logger, fn func(*Widget) error) (err error) {
	w := NewWidget(provider, cfg, log)
	if err := w.Initialize(ctx, mount); err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(w)
}
