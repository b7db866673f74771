package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sanket/models"
	"sanket/services/session"

	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls []string
	// tokens records the bearer token seen per operation.
	tokens map[string]string

	register      func(email, password string) error
	analyze       func(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error)
	compare       func(billName, olderYear, language string) (string, error)
	chat          func(billText, query, language string) (string, error)
	getProfile    func() (*models.Profile, error)
	updateProfile func(p models.Profile) error
	findSchemes   func(ctx context.Context) ([]models.Scheme, error)
	getHistory    func() ([]models.HistoryEntry, error)
}

func (f *fakeGateway) record(op, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.tokens == nil {
		f.tokens = make(map[string]string)
	}
	f.tokens[op] = token
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeGateway) Token(op string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[op]
}

func (f *fakeGateway) Register(_ context.Context, email, password string) error {
	f.record("register", "")
	if f.register == nil {
		return nil
	}
	return f.register(email, password)
}

func (f *fakeGateway) Analyze(ctx context.Context, req models.AnalyzeRequest, token string) (*models.AnalysisResult, error) {
	f.record("analyze", token)
	if f.analyze == nil {
		return &models.AnalysisResult{BillName: req.BillName, Language: req.Language, SummaryMarkup: "summary"}, nil
	}
	return f.analyze(ctx, req)
}

func (f *fakeGateway) Compare(_ context.Context, billName, olderYear, language string) (string, error) {
	f.record("compare", "")
	if f.compare == nil {
		return "", nil
	}
	return f.compare(billName, olderYear, language)
}

func (f *fakeGateway) Chat(_ context.Context, billText, query, language string) (string, error) {
	f.record("chat", "")
	if f.chat == nil {
		return "", nil
	}
	return f.chat(billText, query, language)
}

func (f *fakeGateway) GetProfile(_ context.Context, token string) (*models.Profile, error) {
	f.record("get-profile", token)
	if f.getProfile == nil {
		return nil, nil
	}
	return f.getProfile()
}

func (f *fakeGateway) UpdateProfile(_ context.Context, token string, p models.Profile) error {
	f.record("update-profile", token)
	if f.updateProfile == nil {
		return nil
	}
	return f.updateProfile(p)
}

func (f *fakeGateway) FindSchemes(ctx context.Context, token string) ([]models.Scheme, error) {
	f.record("find-schemes", token)
	if f.findSchemes == nil {
		return []models.Scheme{}, nil
	}
	return f.findSchemes(ctx)
}

func (f *fakeGateway) GetHistory(_ context.Context, token string) ([]models.HistoryEntry, error) {
	f.record("get-history", token)
	if f.getHistory == nil {
		return []models.HistoryEntry{}, nil
	}
	return f.getHistory()
}

type fakeIdentity struct {
	err error
	// block, when set, parks every sign-in until released.
	block   *blocker
	signIns atomic.Int32
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*session.Credential, error) {
	f.signIns.Add(1)
	if f.block != nil {
		f.block.wait()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &session.Credential{
		UserID:       "u1",
		Email:        email,
		IDToken:      "tok-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeIdentity) Refresh(_ context.Context, refreshToken string) (*session.Credential, error) {
	return nil, &session.AuthError{Code: "TOKEN_EXPIRED", Message: "expired"}
}

func newTestApp(gw *fakeGateway, idp *fakeIdentity) *App {
	if idp == nil {
		idp = &fakeIdentity{}
	}
	return NewApp("visitor-1", Deps{
		Gateway:        gw,
		Identity:       idp,
		MaritalDefault: "na",
	})
}

func signIn(t *testing.T, app *App) {
	t.Helper()
	require.NoError(t, app.Login(context.Background(), "a@example.com", "pw"))
	require.True(t, app.Snapshot().SignedIn)
}

// blocker parks a fake call until released.
type blocker struct {
	started chan struct{}
	release chan struct{}
}

func newBlocker() *blocker {
	return &blocker{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blocker) wait() {
	b.started <- struct{}{}
	<-b.release
}

func awaitStart(t *testing.T, b *blocker) {
	t.Helper()
	select {
	case <-b.started:
	case <-time.After(5 * time.Second):
		t.Fatal("call never started")
	}
}

var historyFixture = []models.HistoryEntry{
	{
		ID:        "h1",
		BillName:  "Test Bill",
		Date:      "2024-01-02 10:00:00",
		Summary:   "### Overview\n**Key** points of the bill",
		Sentiment: models.SentimentOf(60, 20, 20),
	},
	{
		ID:        "h2",
		BillName:  "Other Bill",
		Summary:   "Other summary",
		Source:    "https://prsindia.org/other",
		Sentiment: models.SentimentNote("No tweets found"),
	},
}
