// Package auth holds the local account list and the in-memory session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dori/lanes/internal/db"
	"github.com/dori/lanes/internal/logging"
	"github.com/dori/lanes/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// UsersKey is the single key holding every account record
const UsersKey = "users"

// Account store errors
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store is the key/value storage the account list lives in
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

// Accounts registers and authenticates local users
type Accounts struct {
	store  Store
	cost   int
	logger *log.Logger
}

// NewAccounts creates an account store. cost is the bcrypt cost; values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewAccounts(store Store, cost int, logger *log.Logger) *Accounts {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Accounts{store: store, cost: cost, logger: logger}
}

// Register adds an account. Email and password must pass the registration
// rules. The email is stored lower-cased; registering an address that
// differs only in case fails with ErrEmailAlreadyExists.
func (a *Accounts) Register(ctx context.Context, email, password string) error {
	email = model.NormalizeEmail(email)
	if err := model.ValidateEmail(email); err != nil {
		return err
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	err = a.store.Update(ctx, UsersKey, func(current []byte) ([]byte, error) {
		accounts, err := decode(current)
		if err != nil {
			return nil, err
		}
		for _, acc := range accounts {
			if model.NormalizeEmail(acc.Email) == email {
				return nil, ErrEmailAlreadyExists
			}
		}
		accounts = append(accounts, model.Account{Email: email, PasswordHash: string(hash)})
		return json.Marshal(accounts)
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", email, err)
	}

	a.logger.Info("account registered", "email", email)
	return nil
}

// Authenticate checks email and password and returns the normalized email
// as the session identity. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = model.NormalizeEmail(email)

	accounts, err := a.load(ctx)
	if err != nil {
		return "", err
	}

	for _, acc := range accounts {
		if model.NormalizeEmail(acc.Email) != email {
			continue
		}
		if acc.PasswordHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
				break
			}
			return email, nil
		}
		if acc.Password != "" && acc.Password == password {
			if err := a.upgrade(ctx, email, password); err != nil {
				a.logger.Warn("legacy password not upgraded", "email", email, "err", err)
			}
			return email, nil
		}
		break
	}

	a.logger.Debug("sign-in rejected", "email", email)
	return "", ErrInvalidCredentials
}

// Count returns the number of registered accounts
func (a *Accounts) Count(ctx context.Context) (int, error) {
	accounts, err := a.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

// upgrade replaces a plaintext password record with a bcrypt hash
func (a *Accounts) upgrade(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return a.store.Update(ctx, UsersKey, func(current []byte) ([]byte, error) {
		accounts, err := decode(current)
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			if model.NormalizeEmail(accounts[i].Email) == email {
				accounts[i].Email = email
				accounts[i].PasswordHash = string(hash)
				accounts[i].Password = ""
			}
		}
		return json.Marshal(accounts)
	})
}

func (a *Accounts) load(ctx context.Context) ([]model.Account, error) {
	data, err := a.store.Get(ctx, UsersKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]model.Account, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var accounts []model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decoding accounts: %w", err)
	}
	return accounts, nil
}
