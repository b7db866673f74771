package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"sanket/models"

	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a backend body is read.
const maxResponseBytes = 8 << 20

// Gateway is the typed contract of the analysis backend. Every method is a
// single request/response round-trip.
type Gateway interface {
	Register(ctx context.Context, email, password string) error
	Analyze(ctx context.Context, req models.AnalyzeRequest, token string) (*models.AnalysisResult, error)
	Compare(ctx context.Context, billName, olderYear, language string) (string, error)
	Chat(ctx context.Context, billText, query, language string) (string, error)
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile models.Profile) error
	FindSchemes(ctx context.Context, token string) ([]models.Scheme, error)
	GetHistory(ctx context.Context, token string) ([]models.HistoryEntry, error)
}

// HTTPClient talks to the backend over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics *Metrics
}

// NewHTTPClient builds a client for baseURL. timeout bounds every call; a
// nil metrics disables instrumentation.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger, metrics *Metrics) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

var _ Gateway = (*HTTPClient)(nil)

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.doJSON(ctx, "register", http.MethodPost, "/api/register", "", body, nil)
}

func (c *HTTPClient) Analyze(ctx context.Context, req models.AnalyzeRequest, token string) (*models.AnalysisResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("bill_name", req.BillName)
	_ = w.WriteField("language", req.Language)
	if req.File != nil {
		part, err := w.CreateFormFile("bill_file", req.File.Name)
		if err != nil {
			return nil, fmt.Errorf("analyze: build form: %w", err)
		}
		if _, err := part.Write(req.File.Content); err != nil {
			return nil, fmt.Errorf("analyze: build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("analyze: build form: %w", err)
	}

	var resp analyzeResponse
	if err := c.do(ctx, "analyze", http.MethodPost, "/api/analyze", token, &buf, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	if resp.Summary == nil {
		return nil, c.partial("analyze", "summary")
	}

	billName := req.BillName
	if billName == "" && req.File != nil {
		billName = req.File.Name
	}
	return &models.AnalysisResult{
		BillName:      billName,
		Language:      req.Language,
		BillText:      resp.BillText,
		SummaryMarkup: *resp.Summary,
		SourceURL:     resp.SourceURL,
		Sentiment:     decodeSentiment(resp.Sentiment, SentimentUnavailable),
		ImpactScores:  decodeImpact(resp.ImpactScores),
		News:          decodeNews(resp.News),
	}, nil
}

func (c *HTTPClient) Compare(ctx context.Context, billName, olderYear, language string) (string, error) {
	body := map[string]string{"bill_name": billName, "older_year": olderYear, "language": language}
	var resp struct {
		Comparison *string `json:"comparison"`
	}
	if err := c.doJSON(ctx, "compare", http.MethodPost, "/api/compare", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Comparison == nil {
		return "", c.partial("compare", "comparison")
	}
	return *resp.Comparison, nil
}

func (c *HTTPClient) Chat(ctx context.Context, billText, query, language string) (string, error) {
	body := map[string]string{"bill_text": billText, "query": query, "language": language}
	var resp struct {
		Answer *string `json:"answer"`
	}
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/api/chat", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Answer == nil {
		return "", c.partial("chat", "answer")
	}
	return *resp.Answer, nil
}

// GetProfile returns nil when the backend has no profile for the user.
func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var profile *models.Profile
	if err := c.do(ctx, "get-profile", http.MethodGet, "/api/get-profile", token, nil, "", &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, profile models.Profile) error {
	return c.doJSON(ctx, "update-profile", http.MethodPost, "/api/update-profile", token, profile, nil)
}

func (c *HTTPClient) FindSchemes(ctx context.Context, token string) ([]models.Scheme, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "find-schemes", http.MethodGet, "/api/find-schemes", token, nil, "", &raw); err != nil {
		return nil, err
	}
	schemes, err := decodeSchemes(raw)
	if err != nil {
		c.logger.Warn("Unusable schemes payload", zap.Error(err))
		return nil, c.partial("find-schemes", "schemes")
	}
	return schemes, nil
}

func (c *HTTPClient) GetHistory(ctx context.Context, token string) ([]models.HistoryEntry, error) {
	var raw []historyEntry
	if err := c.do(ctx, "get-history", http.MethodGet, "/api/get-history", token, nil, "", &raw); err != nil {
		return nil, err
	}
	entries := make([]models.HistoryEntry, 0, len(raw))
	for _, h := range raw {
		entries = append(entries, models.HistoryEntry{
			ID:        h.ID,
			BillName:  h.BillName,
			Date:      h.Date,
			Summary:   h.Summary,
			Source:    h.Source,
			Sentiment: decodeSentiment(h.Sentiment, HistorySentimentUnavailable),
		})
	}
	return entries, nil
}

// Ping checks that the backend answers on its root path.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/", "", nil, "", nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.do(ctx, op, method, path, token, bytes.NewReader(payload), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, op, method, path, token string, body io.Reader, contentType string, out any) (err error) {
	started := time.Now()
	defer func() { c.metrics.observe(op, started, err) }()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Failed to reach analysis backend", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &errResp); err != nil {
			c.logger.Warn("Failed to decode error response from backend", zap.String("op", op), zap.Error(err))
		}
		c.logger.Warn("Backend returned non-OK status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("error", errResp.Error))
		return &APIError{Op: op, Status: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("Failed to decode backend response", zap.String("op", op), zap.Error(err))
		return &PartialDataError{Op: op, Field: "body"}
	}
	return nil
}

func (c *HTTPClient) partial(op, field string) error {
	c.logger.Warn("Backend response missing field", zap.String("op", op), zap.String("field", field))
	return &PartialDataError{Op: op, Field: field}
}
