package view

import (
	"errors"

	"stockpulse/pkg/stockpulse"
)

// User-visible messages committed to State.Err.
const (
	msgDashboardFailed = "Failed to load dashboard data."
	msgNoStockData     = "No stock data available."
	msgStocksFailed    = "Failed to fetch stock data."
	msgInvalidSymbol   = "Invalid stock symbol"
	msgStockNotFound   = "Stock not found"
	msgQuoteFailed     = "Stock not found or API error"
	msgEnterSymbol     = "Please enter a stock symbol."
	msgLookupFailed    = "Stock not found or data unavailable."
	msgLoginFailed     = "Login failed"
	msgRegisterFailed  = "Registration failed"
)

// ValidationError reports user input rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FormError is returned by the login and registration forms. Message is the
// backend's message verbatim, or a generic fallback when it sent none.
type FormError struct {
	Message       string
	UsernameTaken bool
	Err           error
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// formError converts a gateway error into a FormError.
func formError(err error, fallback string) *FormError {
	msg := stockpulse.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &FormError{
		Message:       msg,
		UsernameTaken: errors.Is(err, stockpulse.ErrUsernameTaken),
		Err:           err,
	}
}

// validateSymbol normalizes symbol and rejects blank input with message.
func validateSymbol(symbol, message string) (string, error) {
	sym := normalizeSymbol(symbol)
	if sym == "" {
		return "", &ValidationError{Field: "symbol", Message: message}
	}
	return sym, nil
}
