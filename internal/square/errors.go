package square

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

var ErrNoLocation = errors.New("no Square location found, please configure a location in your Square account")

// Error is one entry of a Square error response.
type Error struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Field    string `json:"field,omitempty"`
}

// APIError is a non-2xx Square response. Card failures unwrap to
// repository.ErrCardDeclined.
type APIError struct {
	Status int
	Errors []Error
}

func newAPIError(status int, body []byte) *APIError {
	var resp struct {
		Errors []Error `json:"errors"`
	}
	_ = json.Unmarshal(body, &resp)
	return &APIError{Status: status, Errors: resp.Errors}
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("square: status %d", e.Status)
	}
	parts := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		if se.Detail != "" {
			parts[i] = se.Code + ": " + se.Detail
		} else {
			parts[i] = se.Code
		}
	}
	return fmt.Sprintf("square: status %d: %s", e.Status, strings.Join(parts, "; "))
}

func (e *APIError) Unwrap() error {
	for _, se := range e.Errors {
		if se.Category == "PAYMENT_METHOD_ERROR" || declineCodes[se.Code] {
			return repository.ErrCardDeclined
		}
	}
	return nil
}

// declineCodes are Square payment error codes that mean the card was refused.
var declineCodes = map[string]bool{
	"CARD_DECLINED":                true,
	"GENERIC_DECLINE":              true,
	"CVV_FAILURE":                  true,
	"ADDRESS_VERIFICATION_FAILURE": true,
	"INSUFFICIENT_FUNDS":           true,
	"CARD_EXPIRED":                 true,
	"INVALID_EXPIRATION":           true,
	"TRANSACTION_LIMIT":            true,
	"VOICE_FAILURE":                true,
}

func isNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusNotFound {
		return true
	}
	for _, se := range apiErr.Errors {
		if se.Code == "NOT_FOUND" {
			return true
		}
	}
	return false
}
