// Package credentials keeps the CreateMVP API token in the OS credential store.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "createmvp"
	// Key for the CreateMVP API token
	apiTokenKey = "api_token"

	minTokenLength = 16
)

// ErrNoToken is returned when no API token has been stored.
var ErrNoToken = errors.New("no API token found - run `createmvp login` first")

// Manager handles secure storage and retrieval of the API token.
type Manager struct {
	service string
}

func NewManager() *Manager {
	return &Manager{service: credentialService}
}

// StoreToken validates and stores the API token, replacing any existing one.
func (m *Manager) StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if err := validateTokenFormat(token); err != nil {
		return fmt.Errorf("invalid token format: %w", err)
	}
	if err := keyring.Set(m.service, apiTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}
	return nil
}

// Token returns the stored API token or ErrNoToken.
func (m *Manager) Token() (string, error) {
	token, err := keyring.Get(m.service, apiTokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// TokenOrEmpty returns the stored token, or "" when none is available. Chat
// requests without a token are still sent; the API decides whether to accept them.
func (m *Manager) TokenOrEmpty() string {
	token, err := m.Token()
	if err != nil {
		return ""
	}
	return token
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func (m *Manager) DeleteToken() error {
	err := keyring.Delete(m.service, apiTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

func validateTokenFormat(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("token too short (minimum %d characters)", minTokenLength)
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return fmt.Errorf("token must not contain whitespace")
	}
	return nil
}

// Mask hides all but the last four characters of a token for display.
func Mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
