package spreadsheet

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Run("GET csv feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("Entity,Status\nAcme,Compliant\n"))
		}))
		defer server.Close()

		d, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{Source: "home", URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, []string{"Entity", "Status"}, d.Columns())
		assert.Equal(t, 1, d.Len())
	})

	t.Run("POST with headers and body, xlsx detected by signature", func(t *testing.T) {
		src := workbook(t, [][]interface{}{
			{"title"},
			{"subtitle"},
			{"Name", "Registration No."},
			{"Acme Broking", "INZ1"},
		})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "https://www.sebi.gov.in", r.Header.Get("Origin"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "a=1", string(body))
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(src)
		}))
		defer server.Close()

		d, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{
			URL:       server.URL,
			Method:    http.MethodPost,
			Headers:   map[string]string{"Origin": "https://www.sebi.gov.in"},
			Body:      []byte("a=1"),
			HeaderRow: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Broking", d.Value(0, "Name"))
	})

	t.Run("non-2xx is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{Source: "home", URL: server.URL})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNetwork)
		assert.Contains(t, err.Error(), "HTTP 503")
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{URL: url})
		assert.ErrorIs(t, err, shared.ErrNetwork)
	})

	t.Run("timeout is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		_, err := NewFetcher(FetcherConfig{Timeout: 50 * time.Millisecond}).
			Fetch(context.Background(), Request{URL: server.URL})
		assert.ErrorIs(t, err, shared.ErrNetwork)
	})

	t.Run("oversized body is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("a,b\n1,2\n3,4\n"))
		}))
		defer server.Close()

		_, err := NewFetcher(FetcherConfig{MaxBodySize: 4}).Fetch(context.Background(), Request{URL: server.URL})
		assert.ErrorIs(t, err, shared.ErrNetwork)
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("malformed content is an upstream parse error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("PK\x03\x04garbage"))
		}))
		defer server.Close()

		_, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{URL: server.URL})
		assert.ErrorIs(t, err, shared.ErrUpstreamParse)
		assert.NotErrorIs(t, err, shared.ErrNetwork)
	})

	t.Run("empty body is an upstream parse error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		_, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{URL: server.URL})
		assert.ErrorIs(t, err, shared.ErrUpstreamParse)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("forced csv format ignores content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", XLSXContentType)
			_, _ = w.Write([]byte("a\n1\n"))
		}))
		defer server.Close()

		d, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), Request{URL: server.URL, Format: FormatCSV})
		require.NoError(t, err)
		assert.Equal(t, "1", d.Value(0, "a"))
	})
}
