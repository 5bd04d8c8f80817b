// Package identity keeps registered accounts and the single active session.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/storage"
	"auction-marketplace/utils"
)

// Store holds accounts and the current session. Accounts are unique per (email, role).
type Store struct {
	mu       sync.RWMutex
	accounts []models.Account
	session  *models.Account
	backend  storage.Backend
}

// NewStore creates an empty store persisting to backend; nil keeps it in memory
func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Load restores accounts and the session from the backend
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	var accounts []models.Account
	if _, err := storage.LoadJSON(ctx, s.backend, storage.KeyAccounts, &accounts); err != nil {
		return fmt.Errorf("identity: load accounts: %w", err)
	}
	var session models.Account
	found, err := storage.LoadJSON(ctx, s.backend, storage.KeySession, &session)
	if err != nil {
		return fmt.Errorf("identity: load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.session = nil
	if found && session.AccountID != "" {
		s.session = &session
	}
	return nil
}

// Register creates an account and makes it the current session
func (s *Store) Register(ctx context.Context, email, credential, name string, role models.Role) (models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || credential == "" || !role.Valid() {
		return models.Account{}, fmt.Errorf("identity: register: %w", auctionerrors.ErrInvalidCredentials)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == email && a.Role == role {
			return models.Account{}, fmt.Errorf("identity: register %s as %s: %w", email, role, auctionerrors.ErrDuplicateAccount)
		}
	}

	account := models.Account{
		AccountID:  utils.GenerateID(),
		Email:      email,
		Role:       role,
		Name:       strings.TrimSpace(name),
		Credential: credential,
	}
	s.accounts = append(s.accounts, account)
	s.persist(ctx, storage.KeyAccounts, s.accounts)
	s.setSession(ctx, account)
	return account.Public(), nil
}

// Login establishes the session for the account matching all three fields exactly.
// Logging in while a session exists replaces it.
func (s *Store) Login(ctx context.Context, email, credential string, role models.Role) (models.Account, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == email && a.Role == role && a.Credential == credential {
			s.setSession(ctx, a)
			return a.Public(), nil
		}
	}
	return models.Account{}, fmt.Errorf("identity: login %s as %s: %w", email, role, auctionerrors.ErrInvalidCredentials)
}

// Logout clears the session. It is a no-op when nobody is signed in.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Remove(ctx, storage.KeySession); err != nil {
		utils.Warn("identity: session removal failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// CurrentSession returns the signed-in account without its credential
func (s *Store) CurrentSession() (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return models.Account{}, false
	}
	return s.session.Public(), true
}

// AccountCount is the number of registered accounts
func (s *Store) AccountCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// AccountName returns the display name of an account
func (s *Store) AccountName(accountID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.AccountID == accountID {
			return a.Name, true
		}
	}
	return "", false
}

// setSession records account as signed in. Callers hold s.mu.
func (s *Store) setSession(ctx context.Context, account models.Account) {
	session := account
	s.session = &session
	s.persist(ctx, storage.KeySession, session.Public())
}

func (s *Store) persist(ctx context.Context, key string, v any) {
	if s.backend == nil {
		return
	}
	if err := storage.SaveJSON(ctx, s.backend, key, v); err != nil {
		utils.Warn("identity: snapshot write failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	utils.Debug("identity: snapshot written", map[string]any{"key": key})
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
