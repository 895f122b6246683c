package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyInput is returned when a request has neither a URL nor text.
var ErrEmptyInput = errors.New("url or text is required")

// Analyzer submits a listing for analysis. The finished record is written to
// the store by the analysis service later, not returned here.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// Request is either a source URL or pasted advertisement text.
type Request struct {
	URL    string
	Text   string
	APIKey string
}

// Result is the short acknowledgement returned by the analysis service.
type Result struct {
	Model  string  `json:"model"`
	Profit float64 `json:"profit"`
}

// Error is a non-2xx answer from the analysis service.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analysis service: status %d: %s", e.StatusCode, e.Detail)
}

// HTTPClient is an Analyzer backed by the analysis service's HTTP API
// (POST /analyze-url and POST /analyze-text).
type HTTPClient struct {
	BaseURL string
	APIKey  string // used when the request carries no key
	Client  *http.Client
}

type analyzeBody struct {
	URL    string  `json:"url,omitempty"`
	Text   string  `json:"text,omitempty"`
	APIKey *string `json:"api_key"`
}

func (c *HTTPClient) Analyze(ctx context.Context, req Request) (*Result, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("analysis: ANALYSIS_URL is not set")
	}

	body := analyzeBody{}
	endpoint := "/analyze-url"
	switch {
	case strings.TrimSpace(req.URL) != "":
		body.URL = strings.TrimSpace(req.URL)
	case strings.TrimSpace(req.Text) != "":
		endpoint = "/analyze-text"
		body.Text = req.Text
	default:
		return nil, ErrEmptyInput
	}
	key := req.APIKey
	if key == "" {
		key = c.APIKey
	}
	if key != "" {
		body.APIKey = &key
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analysis response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Detail: detailOf(respBody)}
	}

	var out Result
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("analysis response decode: %w", err)
	}
	return &out, nil
}

// detailOf extracts the "detail" field of an error body. Object details are
// returned JSON-encoded; bodies without one are returned verbatim.
func detailOf(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}
