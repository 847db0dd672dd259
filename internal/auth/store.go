package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
	"github.com/tastybites/storefront-core/pkg/logger"
	"github.com/tastybites/storefront-core/pkg/notify"
	"github.com/tastybites/storefront-core/pkg/watch"
)

const invalidCredentialsMessage = "invalid email or password"

// SessionSlotKey is the fixed key of the durable session snapshot.
const SessionSlotKey = "user"

// SnapshotSlot is the durable key-value surface the session store
// persists its snapshot through.
type SnapshotSlot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store owns the authenticated-user state: Anonymous until a login or
// registration succeeds, Anonymous again after logout. The credential
// check is simulated with a fixed latency; Processing exposes the
// in-flight window so presentation can disable duplicate submission.
type Store struct {
	mu         sync.Mutex
	current    *UserSession
	processing bool
	restored   bool

	registry *Registry
	slot     SnapshotSlot
	latency  time.Duration
	notifier notify.Notifier
	logg     *logger.Logger
	watchers watch.Broadcaster
}

// StoreParams bundles the dependencies for the session store.
type StoreParams struct {
	Registry    *Registry
	Slot        SnapshotSlot
	AuthLatency time.Duration
	Notifier    notify.Notifier
	Logger      *logger.Logger
}

// NewStore builds an anonymous session store.
func NewStore(params StoreParams) (*Store, error) {
	if params.Registry == nil {
		return nil, fmt.Errorf("credential registry required")
	}
	if params.Slot == nil {
		return nil, fmt.Errorf("snapshot slot required")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = notify.Nop
	}
	return &Store{
		registry: params.Registry,
		slot:     params.Slot,
		latency:  params.AuthLatency,
		notifier: notifier,
		logg:     params.Logger,
	}, nil
}

// Subscribe registers a change watcher and returns its cancel function.
func (s *Store) Subscribe(handler func()) func() {
	return s.watchers.Subscribe(handler)
}

// Current returns the active session, or nil while anonymous.
func (s *Store) Current() *UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// Processing reports whether a credential check is in flight.
func (s *Store) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Login checks the credentials against the registry after the simulated
// network wait. A mismatch leaves the session unchanged and reports
// invalid credentials; cancellation abandons the attempt cleanly.
func (s *Store) Login(ctx context.Context, email, password string) (*UserSession, error) {
	if err := s.beginProcessing(); err != nil {
		return nil, err
	}
	defer s.endProcessing()

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	cred, ok := s.registry.Authenticate(email, password)
	if !ok {
		notify.Error(s.notifier, "Invalid email or password")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	session, err := s.establish(ctx, cred)
	if err != nil {
		return nil, err
	}
	notify.Success(s.notifier, fmt.Sprintf("Welcome back, %s!", session.Name))
	return session, nil
}

// Register appends a new credential and immediately establishes the
// session for it. Duplicate emails are rejected with a conflict; the
// comparison is exact and case-sensitive.
func (s *Store) Register(ctx context.Context, name, email, password string) (*UserSession, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}

	if err := s.beginProcessing(); err != nil {
		return nil, err
	}
	defer s.endProcessing()

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	cred, err := s.registry.Append(name, email, password)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			notify.Error(s.notifier, "Email already in use")
		}
		return nil, err
	}

	session, err := s.establish(ctx, cred)
	if err != nil {
		return nil, err
	}
	notify.Success(s.notifier, "Account created successfully!")
	return session, nil
}

// Logout drops the session and clears the durable snapshot. It is
// synchronous and never fails; a slot error only loses the snapshot.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.slot.Delete(ctx, SessionSlotKey); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to clear session snapshot: "+err.Error())
	}

	notify.Success(s.notifier, "Logged out successfully")
	s.watchers.Notify()
}

// Restore rehydrates the session from the durable snapshot. It runs
// once at process start and trusts the stored value without
// re-validating credentials.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	s.mu.Unlock()

	value, found, err := s.slot.Get(ctx, SessionSlotKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session snapshot")
	}
	if !found {
		return nil
	}

	var session UserSession
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding malformed session snapshot")
		}
		return nil
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()
	s.watchers.Notify()
	return nil
}

func (s *Store) beginProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a credential check is already in progress")
	}
	s.processing = true
	return nil
}

func (s *Store) endProcessing() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

func (s *Store) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "credential check abandoned")
		}
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "credential check abandoned")
	}
}

// establish activates and persists the session for a credential. The
// snapshot write must succeed: a session that exists only in memory
// would silently vanish on restart.
func (s *Store) establish(ctx context.Context, cred Credential) (*UserSession, error) {
	session := UserSession{ID: cred.ID, Name: cred.Name, Email: cred.Email}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session snapshot")
	}
	if err := s.slot.Put(ctx, SessionSlotKey, string(payload)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session snapshot")
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()
	s.watchers.Notify()
	return &session, nil
}
