package orchestrator

import (
	"context"
	"sync"
	"time"

	"sanket/models"
	"sanket/services/gateway"
	"sanket/services/session"

	"go.uber.org/zap"
)

// Slot names. Workflows sharing a slot supersede each other.
const (
	slotAnalysis = "analysis"
	slotCompare  = "compare"
	slotChat     = "chat"
	slotProfile  = "profile"
	slotSchemes  = "schemes"
	slotHistory  = "history"
	slotLogin    = "login"
	slotSignup   = "signup"
)

// Deps are the collaborators shared by every visitor's App.
type Deps struct {
	Gateway        gateway.Gateway
	Identity       session.IdentityProvider
	Verifier       session.TokenVerifier
	Persister      session.Persister
	RefreshMargin  time.Duration
	MaritalDefault string
	Logger         *zap.Logger
}

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// App is one visitor's application state. The mutex plays the part of the
// page's single UI thread: every state transition happens under it, and
// backend calls happen outside it.
type App struct {
	visitorID      string
	gateway        gateway.Gateway
	session        *session.Store
	maritalDefault string
	logger         *zap.Logger

	restoreMu sync.Mutex
	restored  bool

	mu         sync.Mutex
	page       Page
	analysis   *models.AnalysisResult
	transcript []models.ChatTurn
	slots      map[string]*slot
}

func NewApp(visitorID string, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		visitorID:      visitorID,
		gateway:        deps.Gateway,
		maritalDefault: deps.MaritalDefault,
		logger:         logger.With(zap.String("visitor", visitorID)),
		page:           newPage(deps.MaritalDefault),
		slots:          make(map[string]*slot),
	}
	a.session = session.NewStore(visitorID, deps.Identity, session.Options{
		Verifier:      deps.Verifier,
		Persister:     deps.Persister,
		RefreshMargin: deps.RefreshMargin,
		Logger:        logger,
	})
	a.session.Subscribe(a.onSessionChange)
	return a
}

func (a *App) VisitorID() string { return a.visitorID }

func (a *App) Session() *session.Store { return a.session }

// Start restores a persisted sign-in. Once the persister has been read
// successfully later calls do nothing; a failed read is retried on the next
// call.
func (a *App) Start(ctx context.Context) {
	a.restoreMu.Lock()
	defer a.restoreMu.Unlock()
	if a.restored {
		return
	}
	if err := a.session.Restore(ctx); err != nil {
		return
	}
	a.restored = true
}

// Snapshot returns a copy of the current view model.
func (a *App) Snapshot() Page {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.page
	p.Transcript = append([]ChatLine(nil), a.page.Transcript...)
	return p
}

// Analysis returns a copy of the analysis currently shown, or nil.
func (a *App) Analysis() *models.AnalysisResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.analysis == nil {
		return nil
	}
	res := *a.analysis
	return &res
}

// Transcript returns the chat turns so far.
func (a *App) Transcript() []models.ChatTurn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ChatTurn(nil), a.transcript...)
}

// Close cancels every request in flight.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.invalidateAll()
}

// request describes one orchestrated backend round-trip. Every hook except
// call runs under the App lock; call runs outside it and returns the state
// change to apply on success.
type request struct {
	name     string
	slot     string
	control  func() *Control
	validate func() error
	prepare  func()
	call     func(ctx context.Context) (apply func(), err error)
	fail     func(err error)
}

// run drives a request through the control state machine. The control is
// restored on every path, panics included. A completion whose slot has moved
// on is discarded and reported as ErrSuperseded.
func (a *App) run(ctx context.Context, r request) error {
	a.mu.Lock()
	var ctl *Control
	if r.control != nil {
		ctl = r.control()
		if ctl.busy() {
			a.mu.Unlock()
			return ErrBusy
		}
	}
	if r.validate != nil {
		if err := r.validate(); err != nil {
			a.mu.Unlock()
			return err
		}
	}
	if ctl != nil {
		ctl.begin()
	}
	if r.prepare != nil {
		r.prepare()
	}
	reqCtx, gen := a.claim(ctx, r.slot)
	a.mu.Unlock()

	succeeded := false
	defer func() {
		a.mu.Lock()
		if ctl != nil {
			ctl.finish(succeeded)
		}
		a.release(r.slot, gen)
		a.mu.Unlock()
	}()

	apply, err := r.call(reqCtx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.current(r.slot, gen) {
		a.logger.Debug("Discarding stale completion", zap.String("workflow", r.name))
		return ErrSuperseded
	}
	if err != nil {
		a.logger.Warn("Workflow failed", zap.String("workflow", r.name), zap.Error(err))
		if r.fail != nil {
			r.fail(err)
		}
		return err
	}
	if apply != nil {
		apply()
	}
	succeeded = true
	return nil
}

// claim starts a new request in the named slot, cancelling the one in
// flight. Caller holds a.mu.
func (a *App) claim(ctx context.Context, name string) (context.Context, uint64) {
	s := a.slots[name]
	if s == nil {
		s = &slot{}
		a.slots[name] = s
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return reqCtx, s.gen
}

func (a *App) current(name string, gen uint64) bool {
	s := a.slots[name]
	return s != nil && s.gen == gen
}

func (a *App) release(name string, gen uint64) {
	s := a.slots[name]
	if s != nil && s.gen == gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// invalidateAll makes every in-flight completion stale. Caller holds a.mu.
func (a *App) invalidateAll() {
	for _, s := range a.slots {
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.gen++
	}
}

// token returns the bearer token, or ErrAnonymous.
func (a *App) token(ctx context.Context) (string, error) {
	return a.session.Token(ctx)
}

// optionalToken returns the bearer token when signed in and "" otherwise.
func (a *App) optionalToken(ctx context.Context) string {
	token, err := a.session.Token(ctx)
	if err != nil {
		return ""
	}
	return token
}
