package orchestrator

import (
	"context"
	"testing"

	"sanket/models"
	"sanket/services/gateway"
	"sanket/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInShowsProfileAndLoadsDependents(t *testing.T) {
	gw := &fakeGateway{getProfile: func() (*models.Profile, error) {
		return &models.Profile{State: "Punjab", Sex: "female", Age: "12"}, nil
	}}
	app := newTestApp(gw, nil)

	signIn(t, app)

	page := app.Snapshot()
	assert.Equal(t, "a@example.com", page.UserEmail)
	assert.True(t, page.ProfileVisible)
	assert.Equal(t, []string{"get-history", "get-profile"}, gw.Calls())
	assert.Equal(t, "Punjab", page.Profile.State)
	assert.Equal(t, models.DefaultCategory, page.Profile.Category)
	assert.Equal(t, "na", page.Profile.MaritalStatus)
	assert.Equal(t, models.DefaultParentalStatus, page.Profile.ParentalStatus)
	assert.True(t, page.Fields.ShowOnlyGirlChild)
	assert.True(t, page.Fields.ShowParentalStatus)
}

func TestSignOutClearsWithoutNetwork(t *testing.T) {
	gw := &fakeGateway{
		getHistory:  func() ([]models.HistoryEntry, error) { return historyFixture, nil },
		findSchemes: func(context.Context) ([]models.Scheme, error) { return []models.Scheme{{SchemeName: "PM-KISAN"}}, nil },
	}
	app := newTestApp(gw, nil)
	signIn(t, app)
	require.NoError(t, app.SaveProfile(context.Background(), models.Profile{State: "Punjab"}))
	require.True(t, app.Snapshot().SchemesVisible)
	calls := len(gw.Calls())

	app.Logout(context.Background())

	page := app.Snapshot()
	assert.Len(t, gw.Calls(), calls)
	assert.False(t, page.SignedIn)
	assert.False(t, page.ProfileVisible)
	assert.False(t, page.SchemesVisible)
	assert.Empty(t, page.HistoryHTML)
	assert.Equal(t, MsgHistorySignedOut, page.HistoryEmptyText)
	assert.True(t, page.HistoryEmptyVisible)
	assert.True(t, app.Session().Current().Anonymous())
}

func TestSignOutDiscardsInFlightSchemes(t *testing.T) {
	b := newBlocker()
	gw := &fakeGateway{findSchemes: func(context.Context) ([]models.Scheme, error) {
		b.wait()
		return []models.Scheme{{SchemeName: "Late"}}, nil
	}}
	app := newTestApp(gw, nil)
	signIn(t, app)

	done := make(chan error, 1)
	go func() { done <- app.FindSchemes(context.Background()) }()
	awaitStart(t, b)

	app.Logout(context.Background())
	close(b.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	page := app.Snapshot()
	assert.False(t, page.SchemesVisible)
	assert.Empty(t, page.SchemesHTML)
}

func TestLoginFailureShowsProviderMessage(t *testing.T) {
	app := newTestApp(&fakeGateway{}, &fakeIdentity{err: &session.AuthError{Code: "INVALID_PASSWORD", Message: "Invalid email or password."}})

	err := app.Login(context.Background(), "a@example.com", "wrong")

	require.Error(t, err)
	page := app.Snapshot()
	assert.Equal(t, "Error: Invalid email or password.", page.LoginError)
	assert.False(t, page.SignedIn)
	assertControlRestored(t, page.LoginControl, "Login")
}

func TestSignupRegistersThenSignsIn(t *testing.T) {
	gw := &fakeGateway{register: func(email, password string) error {
		assert.Equal(t, "new@example.com", email)
		assert.Equal(t, "secret1", password)
		return nil
	}}
	app := newTestApp(gw, nil)

	require.NoError(t, app.Signup(context.Background(), " new@example.com ", "secret1"))

	assert.Equal(t, "register", gw.Calls()[0])
	page := app.Snapshot()
	assert.True(t, page.SignedIn)
	assert.Equal(t, "new@example.com", page.UserEmail)
	assertControlRestored(t, page.SignupControl, "Sign Up")
}

func TestSignupRegisterErrorIsVerbatim(t *testing.T) {
	gw := &fakeGateway{register: func(string, string) error {
		return &gateway.APIError{Op: "register", Status: 400, Message: "The email address is already in use by another account."}
	}}
	app := newTestApp(gw, nil)

	require.Error(t, app.Signup(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, "Error: The email address is already in use by another account.", app.Snapshot().SignupError)
	assert.False(t, app.Snapshot().SignedIn)
}

func TestSignupSignInFailureAfterRegister(t *testing.T) {
	app := newTestApp(&fakeGateway{}, &fakeIdentity{err: &session.AuthError{Code: "X", Message: "x"}})

	require.Error(t, app.Signup(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, "Error: "+MsgRegisteredNoLogin, app.Snapshot().SignupError)
}

func TestLogoutDuringLoginKeepsVisitorSignedOut(t *testing.T) {
	b := newBlocker()
	gw := &fakeGateway{}
	app := newTestApp(gw, &fakeIdentity{block: b})

	done := make(chan error, 1)
	go func() { done <- app.Login(context.Background(), "a@example.com", "pw") }()
	awaitStart(t, b)

	app.Logout(context.Background())
	close(b.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	page := app.Snapshot()
	assert.False(t, page.SignedIn)
	assert.False(t, page.ProfileVisible)
	assert.True(t, app.Session().Current().Anonymous())
	assert.Empty(t, gw.Calls())
	assertControlRestored(t, page.LoginControl, "Login")
}

func TestLogoutDuringSignupSkipsSignIn(t *testing.T) {
	b := newBlocker()
	gw := &fakeGateway{register: func(email, password string) error {
		b.wait()
		return nil
	}}
	idp := &fakeIdentity{}
	app := newTestApp(gw, idp)

	done := make(chan error, 1)
	go func() { done <- app.Signup(context.Background(), "a@example.com", "pw") }()
	awaitStart(t, b)

	app.Logout(context.Background())
	close(b.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Zero(t, idp.signIns.Load())
	assert.False(t, app.Snapshot().SignedIn)
	assert.Equal(t, []string{"register"}, gw.Calls())
}
