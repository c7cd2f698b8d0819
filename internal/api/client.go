// Package api is the thin client for the contest service.
//
// Endpoints:
//
//	GET  /leaderboard   current standings
//	GET  /final         final standings; score 0 means not scored yet
//	POST /login         {name, password} -> {name}
//	POST /submit        {name, password, solution} -> SubmissionResult
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Options configures a Client. Zero values select defaults.
type Options struct {
	Timeout    time.Duration
	Logger     *zap.Logger
	Limiter    *rate.Limiter // nil means unlimited
	HTTPClient *http.Client
}

// Client talks to the contest API.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *zap.Logger
	limiter *rate.Limiter
}

// New creates a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api: base URL must be absolute http(s), got %q", baseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{base: u, http: hc, log: log, limiter: opts.Limiter}, nil
}

// FetchLeaderboard returns the current standings.
func (c *Client) FetchLeaderboard(ctx context.Context) (leaderboard.RankedList, error) {
	return c.fetchList(ctx, "/leaderboard")
}

// FetchFinalLeaderboard returns the final standings. Entries with score 0
// have not been scored yet.
func (c *Client) FetchFinalLeaderboard(ctx context.Context) (leaderboard.RankedList, error) {
	return c.fetchList(ctx, "/final")
}

func (c *Client) fetchList(ctx context.Context, path string) (leaderboard.RankedList, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	list, err := leaderboard.Decode(body)
	if err != nil {
		return nil, &FetchError{Op: "GET " + path, Err: err}
	}
	return list, nil
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login checks credentials and returns the name the server knows them by.
func (c *Client) Login(ctx context.Context, name, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", credentials{Name: name, Password: password})
	if err != nil {
		return "", err
	}
	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &FetchError{Op: "POST /login", Err: fmt.Errorf("decoding response: %w", err)}
	}
	if resp.Name == "" {
		resp.Name = name
	}
	return resp.Name, nil
}

// QuestionResult is the outcome of one test question.
type QuestionResult struct {
	Question       string `json:"question"`
	Classification string `json:"classification"`
	Correct        bool   `json:"correct"`
}

// SubmissionResult is the server's evaluation of a prompt.
type SubmissionResult struct {
	Score   float64                   `json:"score"`
	NumUses int                       `json:"num_uses"`
	Results map[string]QuestionResult `json:"results"`
}

type submitRequest struct {
	credentials
	Solution string `json:"solution"`
}

// Submit sends a prompt for evaluation.
func (c *Client) Submit(ctx context.Context, name, password, prompt string) (*SubmissionResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/submit", submitRequest{
		credentials: credentials{Name: name, Password: password},
		Solution:    prompt,
	})
	if err != nil {
		return nil, err
	}
	var res SubmissionResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &FetchError{Op: "POST /submit", Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &res, nil
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	op := method + " " + path
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Op: op, Err: err}
		}
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encoding %s: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reqBody)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(zap.String("op", op), zap.String("request_id", reqID))
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(started)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden && path == "/submit":
		return nil, fmt.Errorf("%s: %w", op, ErrAttemptsExhausted)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	return body, nil
}

// errorDetail extracts {"detail": "..."} from an error body.
func errorDetail(body []byte) string {
	var doc struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &doc); err != nil || doc.Detail == nil {
		return ""
	}
	if s, ok := doc.Detail.(string); ok {
		return s
	}
	b, _ := json.Marshal(doc.Detail)
	return string(b)
}
