//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T) *rod.Fetcher {
	t.Helper()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(15 * time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { fetcher.Close() })
	return fetcher
}

func TestFetcher_Integration_RendersScriptImages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><script>
			const img = document.createElement("img");
			img.src = "/img/rendered.png";
			document.body.appendChild(img);
		</script></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newTestFetcher(t).Fetch(ctx, srv.URL)

	require.NoError(t, err)
	assert.True(t, resp.IsHTML())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), `src="/img/rendered.png"`)
}

func TestFetcher_Integration_ReportsNonHTMLContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newTestFetcher(t).Fetch(ctx, srv.URL)

	require.NoError(t, err)
	assert.False(t, resp.IsHTML())
}

func TestFetcher_Integration_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := newTestFetcher(t).Fetch(ctx, srv.URL)

	assert.Equal(t, imgcrawl.EUNAVAILABLE, imgcrawl.ErrorCode(err))
}

func TestFetcher_Integration_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(t).Fetch(ctx, "http://example.com/")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Integration_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	assert.NoError(t, fetcher.Close())
}

func TestFetcher_Integration_PageTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(500 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	begin := time.Now()
	_, err = fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Less(t, time.Since(begin), 10*time.Second)

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ok.Close()

	resp, err := fetcher.Fetch(context.Background(), ok.URL)
	require.NoError(t, err, "a timed-out page does not affect the next fetch")
	assert.Contains(t, string(resp.Body), "ok")
}
