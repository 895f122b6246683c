package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path string
	Body map[string]interface{}
}

func analysisServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got.Body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestAnalyze_URL(t *testing.T) {
	srv, got := analysisServer(t, http.StatusOK, `{"model":"Tesla Model 3","profit":45000}`)
	c := &HTTPClient{BaseURL: srv.URL + "/", APIKey: "server-key"}

	res, err := c.Analyze(context.Background(), Request{URL: "  https://mobile.de/car/1  "})
	require.NoError(t, err)
	assert.Equal(t, "Tesla Model 3", res.Model)
	assert.Equal(t, 45000.0, res.Profit)
	assert.Equal(t, "/analyze-url", got.Path)
	assert.Equal(t, "https://mobile.de/car/1", got.Body["url"])
	assert.Equal(t, "server-key", got.Body["api_key"])
}

func TestAnalyze_TextWithRequestKey(t *testing.T) {
	srv, got := analysisServer(t, http.StatusOK, `{"model":"ID.3","profit":-2000}`)
	c := &HTTPClient{BaseURL: srv.URL, APIKey: "server-key"}

	res, err := c.Analyze(context.Background(), Request{Text: "VW ID.3 Pro, 2021, 40 000 km", APIKey: "user-key"})
	require.NoError(t, err)
	assert.Equal(t, -2000.0, res.Profit)
	assert.Equal(t, "/analyze-text", got.Path)
	assert.Equal(t, "VW ID.3 Pro, 2021, 40 000 km", got.Body["text"])
	assert.Equal(t, "user-key", got.Body["api_key"])
	assert.NotContains(t, got.Body, "url")
}

// Without any key api_key is sent as null.
func TestAnalyze_NoKeySendsNull(t *testing.T) {
	srv, got := analysisServer(t, http.StatusOK, `{"model":"x","profit":0}`)
	c := &HTTPClient{BaseURL: srv.URL}

	_, err := c.Analyze(context.Background(), Request{URL: "https://a"})
	require.NoError(t, err)
	v, ok := got.Body["api_key"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	c := &HTTPClient{BaseURL: "http://unused"}
	_, err := c.Analyze(context.Background(), Request{URL: " ", Text: "\n"})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAnalyze_NoBaseURL(t *testing.T) {
	_, err := (&HTTPClient{}).Analyze(context.Background(), Request{URL: "https://a"})
	assert.Error(t, err)
}

func TestAnalyze_UpstreamErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Could not scrape the page"}`, "Could not scrape the page"},
		{"object detail", http.StatusUnprocessableEntity, `{"detail":{"loc":["url"]}}`, `{"loc":["url"]}`},
		{"no detail", http.StatusInternalServerError, "Internal Server Error", "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := analysisServer(t, tc.status, tc.body)
			_, err := (&HTTPClient{BaseURL: srv.URL}).Analyze(context.Background(), Request{URL: "https://a"})
			var upstream *Error
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tc.status, upstream.StatusCode)
			assert.Equal(t, tc.detail, upstream.Detail)
		})
	}
}

// A body cut short by the upstream is a read error, not a decode error.
func TestAnalyze_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"model":"Tes`))
	}))
	t.Cleanup(srv.Close)

	_, err := (&HTTPClient{BaseURL: srv.URL}).Analyze(context.Background(), Request{URL: "https://a"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "analysis response read")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
