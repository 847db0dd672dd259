package auth

import (
	"strconv"
	"sync"

	"github.com/tastybites/storefront-core/pkg/config"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
	"github.com/tastybites/storefront-core/pkg/security"
)

// Demo account available in every fresh registry.
const (
	DemoEmail    = "user@example.com"
	DemoPassword = "password"
	demoName     = "Demo User"
)

// Credential is one registered account. It outlives any single session
// and is the only place a password hash exists.
type Credential struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// Registry is the in-memory credential store standing in for a user
// database. Registration appends; nothing is ever removed.
type Registry struct {
	mu          sync.Mutex
	creds       []Credential
	nextID      int
	passwordCfg config.PasswordConfig
}

// NewRegistry builds a registry seeded with the demo account.
func NewRegistry(passwordCfg config.PasswordConfig) (*Registry, error) {
	r := &Registry{nextID: 1, passwordCfg: passwordCfg}
	if _, err := r.Append(demoName, DemoEmail, DemoPassword); err != nil {
		return nil, err
	}
	return r, nil
}

// FindByEmail looks up a credential by exact, case-sensitive email.
func (r *Registry) FindByEmail(email string) (Credential, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cred := range r.creds {
		if cred.Email == email {
			return cred, true
		}
	}
	return Credential{}, false
}

// Authenticate verifies the email+password pair and returns the
// matching credential.
func (r *Registry) Authenticate(email, password string) (Credential, bool) {
	cred, found := r.FindByEmail(email)
	if !found {
		return Credential{}, false
	}
	ok, err := security.VerifyPassword(password, cred.PasswordHash)
	if err != nil || !ok {
		return Credential{}, false
	}
	return cred, true
}

// Append registers a new credential under the next sequential id. The
// email must not already be present; the match is exact and
// case-sensitive.
func (r *Registry) Append(name, email, password string) (Credential, error) {
	hash, err := security.HashPassword(password, r.passwordCfg)
	if err != nil {
		return Credential{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cred := range r.creds {
		if cred.Email == email {
			return Credential{}, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
	}
	cred := Credential{
		ID:           strconv.Itoa(r.nextID),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	r.nextID++
	r.creds = append(r.creds, cred)
	return cred, nil
}
