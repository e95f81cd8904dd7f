package view

import (
	"context"
	"log/slog"
	"strings"

	"stockpulse/pkg/stockpulse"
)

// Auth backs the login and registration forms. It holds no page state; each
// call is one request whose outcome is returned to the caller.
type Auth struct {
	gw  Gateway
	log *slog.Logger
}

// NewAuth creates the form handler.
func NewAuth(gw Gateway, log *slog.Logger) *Auth {
	if log == nil {
		log = slog.Default()
	}
	return &Auth{gw: gw, log: log.With("component", "auth")}
}

// Login checks credentials and returns the backend's message. Failures are
// *FormError or *ValidationError.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	creds, err := credentials(username, password)
	if err != nil {
		return "", err
	}
	msg, err := a.gw.Login(ctx, creds)
	if err != nil {
		a.log.Info("login rejected", "username", creds.Username, "error", err)
		return "", formError(err, msgLoginFailed)
	}
	return msg, nil
}

// Register creates an account. A duplicate username yields a *FormError
// with UsernameTaken set.
func (a *Auth) Register(ctx context.Context, username, password string) (string, error) {
	creds, err := credentials(username, password)
	if err != nil {
		return "", err
	}
	msg, err := a.gw.Register(ctx, creds)
	if err != nil {
		a.log.Info("registration rejected", "username", creds.Username, "error", err)
		return "", formError(err, msgRegisterFailed)
	}
	return msg, nil
}

func credentials(username, password string) (stockpulse.Credentials, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return stockpulse.Credentials{}, &ValidationError{Field: "username", Message: "Username is required"}
	case password == "":
		return stockpulse.Credentials{}, &ValidationError{Field: "password", Message: "Password is required"}
	}
	return stockpulse.Credentials{Username: username, Password: password}, nil
}
