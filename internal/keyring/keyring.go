// Package keyring keeps the Postgres connection string in the OS credential
// store so it never has to appear in shell history or config files.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/mealplan/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored.
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnsupportedConnection is returned for values that are not Postgres connection strings.
	ErrUnsupportedConnection = errors.New("only PostgreSQL connection strings can be stored in the keyring")
)

// Credentials addresses one keyring entry.
type Credentials struct {
	Service string
	User    string
}

// Default returns the entry used by the mealplan CLI.
func Default() Credentials {
	return Credentials{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// IsPostgres reports whether connStr names a Postgres database, in URL form
// or as key=value pairs.
func IsPostgres(connStr string) bool {
	s := strings.TrimSpace(connStr)
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return true
	}
	return strings.Contains(s, "host=") || strings.Contains(s, "dbname=")
}

// ConnectionString returns the stored connection string.
func (c Credentials) ConnectionString() (string, error) {
	connStr, err := keyring.Get(c.Service, c.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value.
func (c Credentials) SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if !IsPostgres(connStr) {
		return ErrUnsupportedConnection
	}
	if err := keyring.Set(c.Service, c.User, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string.
func (c Credentials) DeleteConnectionString() error {
	if err := keyring.Delete(c.Service, c.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers reads. Best effort.
func (c Credentials) Available() bool {
	_, err := keyring.Get(c.Service, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
