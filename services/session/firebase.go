package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com"
)

// friendlyAuthErrors maps Identity Toolkit error codes to user-facing text.
var friendlyAuthErrors = map[string]string{
	"EMAIL_NOT_FOUND":             "Invalid email or password.",
	"INVALID_PASSWORD":            "Invalid email or password.",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password.",
	"INVALID_EMAIL":               "The email address is badly formatted.",
	"MISSING_PASSWORD":            "Please enter your password.",
	"USER_DISABLED":               "This account has been disabled.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts. Please try again later.",
	"TOKEN_EXPIRED":               "Your session has expired. Please log in again.",
	"INVALID_REFRESH_TOKEN":       "Your session has expired. Please log in again.",
}

// FirebaseIdentity signs users in against the Firebase Identity Toolkit REST
// API using the project's web API key.
type FirebaseIdentity struct {
	APIKey          string
	IdentityBaseURL string
	TokenBaseURL    string
	HTTP            *http.Client
	Logger          *zap.Logger
	now             func() time.Time
}

func NewFirebaseIdentity(apiKey string, timeout time.Duration, logger *zap.Logger) *FirebaseIdentity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseIdentity{
		APIKey:          apiKey,
		IdentityBaseURL: DefaultIdentityToolkitURL,
		TokenBaseURL:    DefaultSecureTokenURL,
		HTTP:            &http.Client{Timeout: timeout},
		Logger:          logger,
		now:             time.Now,
	}
}

var _ IdentityProvider = (*FirebaseIdentity)(nil)

func (f *FirebaseIdentity) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(f.IdentityBaseURL, "/") + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(f.APIKey)

	var resp struct {
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    string `json:"expiresIn"`
	}
	if err := f.post(ctx, endpoint, "application/json", strings.NewReader(string(payload)), &resp); err != nil {
		return nil, err
	}
	return &Credential{
		UserID:       resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    f.expiresAt(resp.ExpiresIn),
	}, nil
}

func (f *FirebaseIdentity) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	endpoint := strings.TrimRight(f.TokenBaseURL, "/") + "/v1/token?key=" + url.QueryEscape(f.APIKey)

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	if err := f.post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp); err != nil {
		return nil, err
	}
	return &Credential{
		UserID:       resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    f.expiresAt(resp.ExpiresIn),
	}, nil
}

// expiresAt converts an expiresIn seconds string. Zero means unknown and the
// token's exp claim is used instead.
func (f *FirebaseIdentity) expiresAt(expiresIn string) time.Time {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		return time.Time{}
	}
	return f.now().Add(time.Duration(seconds) * time.Second)
}

func (f *FirebaseIdentity) post(ctx context.Context, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := f.HTTP.Do(req)
	if err != nil {
		f.Logger.Error("Failed to reach identity provider", zap.Error(err))
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("identity provider: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(data, &errResp)
		authErr := newAuthError(errResp.Error.Message)
		f.Logger.Warn("Identity provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("code", authErr.Code))
		return authErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("identity provider: decode response: %w", err)
	}
	return nil
}

// newAuthError turns an Identity Toolkit message such as
// "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled..." into an AuthError.
func newAuthError(message string) *AuthError {
	code := strings.TrimSpace(message)
	if i := strings.Index(code, " : "); i >= 0 {
		code = strings.TrimSpace(code[:i])
	}
	if code == "" {
		return &AuthError{Code: "UNKNOWN", Message: "Authentication failed."}
	}
	if friendly, ok := friendlyAuthErrors[code]; ok {
		return &AuthError{Code: code, Message: friendly}
	}
	return &AuthError{Code: code, Message: message}
}
