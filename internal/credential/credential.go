// Package credential remembers the last signed-in email in the system
// keyring so the sign-in form can prefill it.
package credential

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	serviceName = "lanes"
	emailKey    = "last-email"
)

// Remembered stores a single email between runs
type Remembered interface {
	Email() (string, error)
	Remember(email string) error
	Forget() error
}

// openKeyring returns a configured keyring instance.
func openKeyring(dataDir string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dataDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("lanes-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Keyring keeps the email in a keyring backend
type Keyring struct {
	ring keyring.Keyring
}

// Open returns the system keyring store
func Open(dataDir string) (*Keyring, error) {
	ring, err := openKeyring(dataDir)
	if err != nil {
		return nil, err
	}
	return &Keyring{ring: ring}, nil
}

// NewKeyring wraps an already opened keyring
func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Email returns the remembered email, or "" if none is stored
func (k *Keyring) Email() (string, error) {
	item, err := k.ring.Get(emailKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", emailKey, err)
	}
	return string(item.Data), nil
}

// Remember stores email
func (k *Keyring) Remember(email string) error {
	err := k.ring.Set(keyring.Item{
		Key:   emailKey,
		Data:  []byte(email),
		Label: "lanes sign-in email",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", emailKey, err)
	}
	return nil
}

// Forget removes the remembered email
func (k *Keyring) Forget() error {
	err := k.ring.Remove(emailKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", emailKey, err)
	}
	return nil
}

// Nop remembers nothing. Used when auth.remember_email is off.
type Nop struct{}

func (Nop) Email() (string, error) { return "", nil }

func (Nop) Remember(string) error { return nil }

func (Nop) Forget() error { return nil }
