package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sanket/models"

	"go.uber.org/zap"
)

// ErrSessionExpired is returned by Token when the credential could not be
// renewed and the visitor has been signed out.
var ErrSessionExpired = errors.New("session: sign-in expired")

// ErrSignedOut is returned when the visitor signed out while a sign-in was
// still waiting on the identity provider. The late credential is dropped.
var ErrSignedOut = errors.New("session: signed out during sign-in")

// Listener is notified on every sign-in (non-anonymous Session) and sign-out
// (anonymous Session).
type Listener func(ctx context.Context, s models.Session)

// Options configures a Store. Zero values are usable: no verification,
// in-memory persistence, no refresh margin.
type Options struct {
	Verifier      TokenVerifier
	Persister     Persister
	RefreshMargin time.Duration
	Logger        *zap.Logger
}

// Store owns one visitor's identity. The Session it exposes is replaced
// wholesale on every transition and never mutated in place.
type Store struct {
	visitorID string
	idp       IdentityProvider
	verifier  TokenVerifier
	persister Persister
	margin    time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	cred      *Credential
	listeners []Listener
	// epoch counts sign-outs. A credential obtained under an older epoch is
	// never installed.
	epoch uint64

	// storeMu orders installs and clears with their persister writes, so the
	// persisted record always matches the last transition.
	storeMu sync.Mutex

	// refreshMu serialises token renewal so concurrent callers share one
	// refresh.
	refreshMu sync.Mutex
}

func NewStore(visitorID string, idp IdentityProvider, opts Options) *Store {
	if opts.Persister == nil {
		opts.Persister = NewMemoryPersister()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		visitorID: visitorID,
		idp:       idp,
		verifier:  opts.Verifier,
		persister: opts.Persister,
		margin:    opts.RefreshMargin,
		logger:    opts.Logger.With(zap.String("visitor", visitorID)),
		now:       time.Now,
	}
}

// Current returns the current Session; the zero Session when anonymous.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sessionOf(s.cred)
}

func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SignIn authenticates with the identity provider and accepts the resulting
// credential. Any failure after the provider answered leaves the visitor
// anonymous.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	epoch := s.currentEpoch()
	cred, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.accept(ctx, cred, epoch); err != nil {
		if errors.Is(err, ErrSignedOut) {
			s.logger.Info("Dropping credential of a sign-in overtaken by sign-out")
			return err
		}
		s.logger.Warn("Rejected sign-in credential", zap.Error(err))
		s.clear(ctx, false)
		return err
	}
	return nil
}

// SignOut clears the session locally. The identity provider is not called.
func (s *Store) SignOut(ctx context.Context) {
	s.clear(ctx, true)
}

// Restore loads the visitor's persisted credential, renewing it when close
// to expiry. Any failure leaves the visitor anonymous.
//
// The returned error reports only a failure to read the persister, which is
// worth retrying; everything else is handled here.
func (s *Store) Restore(ctx context.Context) error {
	epoch := s.currentEpoch()
	cred, err := s.persister.Load(ctx, s.visitorID)
	if err != nil {
		s.logger.Warn("Failed to load persisted session", zap.Error(err))
		return err
	}
	if cred == nil {
		return nil
	}
	if s.expiring(cred) {
		renewed, err := s.idp.Refresh(ctx, cred.RefreshToken)
		if err != nil {
			s.logger.Info("Persisted session could not be renewed", zap.Error(err))
			s.clear(ctx, false)
			return nil
		}
		cred = merge(cred, renewed)
	}
	if err := s.accept(ctx, cred, epoch); err != nil && !errors.Is(err, ErrSignedOut) {
		s.logger.Warn("Rejected persisted session", zap.Error(err))
		s.clear(ctx, false)
	}
	return nil
}

// Token returns the bearer token for backend calls, renewing it first when
// it expires within the refresh margin. An anonymous visitor gets ErrAnonymous.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()
	if cred == nil {
		return "", ErrAnonymous
	}
	if !s.expiring(cred) {
		return cred.IDToken, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have renewed or cleared the credential meanwhile.
	s.mu.Lock()
	cred = s.cred
	s.mu.Unlock()
	if cred == nil {
		return "", ErrAnonymous
	}
	if !s.expiring(cred) {
		return cred.IDToken, nil
	}

	renewed, err := s.idp.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		s.logger.Info("Token refresh failed, signing out", zap.Error(err))
		s.clear(ctx, true)
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	next := merge(cred, renewed)
	if next.ExpiresAt.IsZero() {
		if exp, err := tokenExpiry(next.IDToken); err == nil {
			next.ExpiresAt = exp
		}
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.mu.Lock()
	if s.cred != cred {
		// Signed out or replaced while refreshing.
		s.mu.Unlock()
		return "", ErrAnonymous
	}
	s.cred = next
	s.mu.Unlock()
	s.persist(ctx, *next)
	return next.IDToken, nil
}

// accept verifies cred, installs it, persists it and notifies listeners. It
// returns ErrSignedOut without touching any state when a sign-out happened
// after epoch was read.
func (s *Store) accept(ctx context.Context, cred *Credential, epoch uint64) error {
	if cred == nil || cred.IDToken == "" {
		return &CredentialError{Err: errors.New("no ID token issued")}
	}
	next := *cred
	if s.verifier != nil {
		token, err := s.verifier.VerifyIDToken(ctx, next.IDToken)
		if err != nil {
			return &CredentialError{Err: err}
		}
		if next.UserID == "" {
			next.UserID = token.UID
		}
		if email, ok := token.Claims["email"].(string); ok && next.Email == "" {
			next.Email = email
		}
	}
	if next.ExpiresAt.IsZero() {
		if exp, err := tokenExpiry(next.IDToken); err == nil {
			next.ExpiresAt = exp
		}
	}
	if next.UserID == "" {
		return &CredentialError{Err: errors.New("credential has no user id")}
	}

	s.storeMu.Lock()
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.storeMu.Unlock()
		return ErrSignedOut
	}
	s.cred = &next
	session := sessionOf(s.cred)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	s.persist(ctx, next)
	s.storeMu.Unlock()

	notify(ctx, listeners, session)
	return nil
}

func (s *Store) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// clear drops the credential. Listeners are told when notifyAlways is set
// or when a signed-in session was actually dropped.
func (s *Store) clear(ctx context.Context, notifyAlways bool) {
	s.storeMu.Lock()
	s.mu.Lock()
	had := s.cred != nil
	s.cred = nil
	s.epoch++
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	if err := s.persister.Delete(ctx, s.visitorID); err != nil {
		s.logger.Warn("Failed to delete persisted session", zap.Error(err))
	}
	s.storeMu.Unlock()

	if had || notifyAlways {
		notify(ctx, listeners, models.Session{})
	}
}

func (s *Store) persist(ctx context.Context, cred Credential) {
	if err := s.persister.Save(ctx, s.visitorID, cred); err != nil {
		s.logger.Warn("Failed to persist session", zap.Error(err))
	}
}

// expiring reports whether cred expires within the refresh margin. An
// unknown expiry is treated as still valid.
func (s *Store) expiring(cred *Credential) bool {
	if cred.ExpiresAt.IsZero() {
		return false
	}
	return !s.now().Add(s.margin).Before(cred.ExpiresAt)
}

func notify(ctx context.Context, listeners []Listener, session models.Session) {
	for _, l := range listeners {
		l(ctx, session)
	}
}

func sessionOf(cred *Credential) models.Session {
	if cred == nil {
		return models.Session{}
	}
	return models.Session{UserID: cred.UserID, Email: cred.Email, BearerToken: cred.IDToken}
}

// merge applies a refresh response on top of the credential it renewed.
func merge(old, renewed *Credential) *Credential {
	next := *renewed
	if next.UserID == "" {
		next.UserID = old.UserID
	}
	if next.Email == "" {
		next.Email = old.Email
	}
	if next.RefreshToken == "" {
		next.RefreshToken = old.RefreshToken
	}
	return &next
}
