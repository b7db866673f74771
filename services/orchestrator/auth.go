package orchestrator

import (
	"context"
	"strings"

	"sanket/models"
	"sanket/services/fields"

	"go.uber.org/zap"
)

// Login signs the visitor in. Loading history and profile follows from the
// sign-in notification.
func (a *App) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	return a.run(ctx, request{
		name:    "login",
		slot:    slotLogin,
		control: func() *Control { return &a.page.LoginControl },
		prepare: func() { a.page.LoginError = "" },
		call: func(ctx context.Context) (func(), error) {
			return nil, a.session.SignIn(ctx, email, password)
		},
		fail: func(err error) {
			a.page.LoginError = "Error: " + message(err, MsgSignInFailed)
		},
	})
}

// Signup registers an account with the backend and then signs in with the
// same credentials. The two steps are not atomic: when registration succeeds
// but sign-in fails the account exists and the visitor is asked to log in.
func (a *App) Signup(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	return a.run(ctx, request{
		name:    "signup",
		slot:    slotSignup,
		control: func() *Control { return &a.page.SignupControl },
		prepare: func() { a.page.SignupError = "" },
		call: func(ctx context.Context) (func(), error) {
			if err := a.gateway.Register(ctx, email, password); err != nil {
				return nil, err
			}
			// Signed out, or superseded, while registering.
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := a.session.SignIn(ctx, email, password); err != nil {
				a.logger.Warn("Sign-in after registration failed", zap.Error(err))
				return nil, &ValidationError{Message: MsgRegisteredNoLogin}
			}
			return nil, nil
		},
		fail: func(err error) {
			a.page.SignupError = "Error: " + message(err, MsgRegisterFailed)
		},
	})
}

// Logout signs the visitor out locally. No backend call is made.
func (a *App) Logout(ctx context.Context) {
	a.session.SignOut(ctx)
}

func (a *App) onSessionChange(ctx context.Context, s models.Session) {
	if s.Anonymous() {
		a.mu.Lock()
		a.showSignedOut()
		a.mu.Unlock()
		return
	}

	// A sign-out may have landed between the sign-in and this notification.
	if a.session.Current().UserID != s.UserID {
		return
	}
	a.mu.Lock()
	a.showSignedIn(s)
	a.mu.Unlock()

	if err := a.LoadHistory(ctx); err != nil {
		a.logger.Debug("History load after sign-in did not complete", zap.Error(err))
	}
	if err := a.LoadProfile(ctx); err != nil {
		a.logger.Debug("Profile load after sign-in did not complete", zap.Error(err))
	}
}

// showSignedIn switches the auth UI to s and reveals the profile section.
// Caller holds a.mu.
func (a *App) showSignedIn(s models.Session) {
	a.page.SignedIn = true
	a.page.UserEmail = s.Email
	a.page.LoginError = ""
	a.page.SignupError = ""
	a.page.ProfileVisible = true
	a.page.HistoryEmptyText = MsgHistoryEmpty
}

// showSignedOut returns every identity-bound region to its anonymous state
// and makes in-flight completions stale. Caller holds a.mu.
func (a *App) showSignedOut() {
	a.invalidateAll()

	profile := models.Profile{}.WithDefaults(a.maritalDefault)
	a.page.SignedIn = false
	a.page.UserEmail = ""
	a.page.ProfileVisible = false
	a.page.Profile = profile
	a.page.Fields = fields.ForProfile(profile)
	a.page.ProfileMessage = ""
	a.page.ProfileFailed = false
	a.page.SchemesVisible = false
	a.page.SchemesLoading = false
	a.page.SchemesHTML = ""
	a.page.SchemesError = ""
	a.showHistorySignedOut()
}
