package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/imgcrawl"
	main "github.com/fwojciec/imgcrawl/cmd/imgcrawl"
	"github.com/fwojciec/imgcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSite serves two linked pages, one non-HTML link, a broken link and
// three images, one of them referenced from both pages.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	html := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(body))
		}
	}
	image := func(data string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte(data))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", html(`<html><body>
		<a href="/about">About</a>
		<a href="/report.pdf">Report</a>
		<a href="/missing">Missing</a>
		<a href="https://elsewhere.example/">Elsewhere</a>
		<img src="/img/logo.png">
		<img src="img/1.png">
	</body></html>`))
	mux.HandleFunc("/about", html(`<html><body>
		<a href="/">Home</a>
		<img src="/img/logo.png">
		<img src="/img/2.png">
	</body></html>`))
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF"))
	})
	mux.HandleFunc("/img/logo.png", image("logo"))
	mux.HandleFunc("/img/1.png", image("one"))
	mux.HandleFunc("/img/2.png", image("two"))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "imgcrawl")
	assert.Contains(t, stdout.String(), "--max-pages")
	assert.Contains(t, stdout.String(), "--workers")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_InvalidFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"zero workers", []string{"--workers", "0", "http://example.com/"}},
		{"negative max pages", []string{"--max-pages", "-1", "http://example.com/"}},
		{"zero timeout", []string{"--timeout", "0s", "http://example.com/"}},
		{"unknown flag", []string{"--bogus", "http://example.com/"}},
		{"missing url", []string{"--workers", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := main.NewMain()
			var stdout, stderr bytes.Buffer

			err := m.Run(context.Background(), tt.args, &stdout, &stderr)

			assert.Error(t, err)
		})
	}
}

func TestMain_Run_InvalidRootURL(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "images")

	err := m.Run(context.Background(), []string{"--out", out, "mailto:someone@example.com"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "error:")
}

func TestMain_Run_DownloadsImages(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"pipelined", "staged"} {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()

			srv := newTestSite(t)
			dir := t.TempDir()
			out := filepath.Join(dir, "images")
			metrics := filepath.Join(dir, "imgcrawl.prom")
			args := []string{"--out", out, "--metrics", metrics, "--workers", "3"}
			if mode == "staged" {
				args = append(args, "--staged")
			}
			args = append(args, srv.URL+"/")

			m := main.NewMain()
			var stdout, stderr bytes.Buffer

			err := m.Run(context.Background(), args, &stdout, &stderr)

			require.NoError(t, err, stderr.String())
			assert.Contains(t, stdout.String(), "Crawled 2 pages (1 skipped, 1 failed)")
			assert.Contains(t, stdout.String(), "Saved 3 images")
			assert.Contains(t, stderr.String(), "image_urls=3")
			assert.Contains(t, stderr.String(), "unclaimed=0")

			for name, want := range map[string]string{"logo.png": "logo", "1.png": "one", "2.png": "two"} {
				data, err := os.ReadFile(filepath.Join(out, name))
				require.NoError(t, err, name)
				assert.Equal(t, want, string(data))
			}

			prom, err := os.ReadFile(metrics)
			require.NoError(t, err)
			assert.Contains(t, string(prom), `imgcrawl_pages_total{result="accepted"} 2`)
			assert.Contains(t, string(prom), `imgcrawl_images_total{result="saved"} 3`)
		})
	}
}

func TestMain_Run_MaxPagesLimitsCrawl(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	out := filepath.Join(t.TempDir(), "images")
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--max-pages", "1", "--out", out, srv.URL}, &stdout, &stderr)

	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Crawled 1 pages")
	assert.FileExists(t, filepath.Join(out, "logo.png"))
	assert.FileExists(t, filepath.Join(out, "1.png"))
	assert.NoFileExists(t, filepath.Join(out, "2.png"))
}

func TestMain_Run_VerboseLogsFetches(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	out := filepath.Join(t.TempDir(), "images")
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--verbose", "--hash-names", "--out", out, srv.URL}, &stdout, &stderr)

	require.NoError(t, err, stderr.String())
	assert.Contains(t, stderr.String(), "msg=fetch")
	assert.Contains(t, stderr.String(), `msg="save image"`)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Regexp(t, `^[0-9a-f]{16}-`, e.Name())
	}
}

func TestMain_Run_RecordsManifest(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "images")
	manifest := filepath.Join(dir, "manifest.db")
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--out", out, "--manifest", manifest, srv.URL}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	db := sqlite.NewDB(manifest)
	require.NoError(t, db.Open())
	defer db.Close()

	logoURL := srv.URL + "/img/logo.png"
	images, err := sqlite.NewManifestService(db).FindImages(context.Background(), imgcrawl.ImageFilter{URL: &logoURL})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, filepath.Join(out, "logo.png"), images[0].Path)
	assert.Contains(t, stdout.String(), "Run "+images[0].RunID+" recorded in manifest")
}
