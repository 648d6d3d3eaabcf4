package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_SetsUserAgentAndChecksStatus(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.Client(), "")
	body, err := f.Fetch(context.Background(), srv.URL+"/ok.pdf", nil)
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "%PDF-1.4 body", string(data))
	assert.Equal(t, DefaultUserAgent, gotUA)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing", nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestDownloader_SaveWritesAtomically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "NeurIPS", "2017", "a__12345678.pdf")

	d := NewDownloader(NewHTTPFetcher(srv.Client(), "test-agent"), nil)
	n, err := d.Save(context.Background(), srv.URL+"/a.pdf", target)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.True(t, Exists(target))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

type brokenFetcher struct{}

func (brokenFetcher) Fetch(ctx context.Context, url string, header http.Header) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDownloader_SaveInterruptedLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.pdf")

	_, err := NewDownloader(brokenFetcher{}, nil).Save(context.Background(), "http://example/x.pdf", target)
	require.Error(t, err)
	assert.False(t, Exists(target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVerifyPDF_RejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(p, []byte("this is not a pdf"), 0644))

	_, err := VerifyPDF(p)
	assert.Error(t, err)
}
