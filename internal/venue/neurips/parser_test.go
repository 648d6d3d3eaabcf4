package neurips

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

const fixture = `<html><body><ul class="paper-list">
<li class="conference"><a title="paper title" href="/paper_files/paper/2023/hash/abc123-Abstract-Conference.html">Paper One</a>
  <span class="paper-authors"><i>Alice, Bob</i></span></li>
<li class="datasets_and_benchmarks_track"><a title="paper title" href="/paper_files/paper/2023/hash/def456-Abstract-Datasets_and_Benchmarks_Track.html">Paper Two</a>
  <i>Carol</i></li>
<li class="other"><a title="paper title" href="/paper/2017/hash/789abc-Abstract.html">
  Attention Is All You Need </a></li>
<li class="conference"><a title="paper title" href="">No Link</a><i>Dan</i></li>
</ul>
<a title="paper title" href="/paper/2017/hash/orphan-Abstract.html">Orphan</a>
</body></html>`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "2023.html")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestAdapter_Parse(t *testing.T) {
	a, err := NewAdapter(nil)
	require.NoError(t, err)

	res, err := a.Parse(context.Background(), venue.Query{Year: 2023, Documents: []string{writeFixture(t, fixture)}})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)

	assert.Equal(t, &models.Record{
		Title:    "Paper One",
		Authors:  "Alice, Bob",
		Category: "conference",
		PDFURL:   "https://proceedings.neurips.cc/paper_files/paper/2023/file/abc123-Paper-Conference.pdf",
	}, res.Records[0])

	assert.Equal(t, "datasets_and_benchmarks_track", res.Records[1].Category)
	assert.Equal(t, "https://proceedings.neurips.cc/paper_files/paper/2023/file/def456-Paper-Datasets_and_Benchmarks_Track.pdf", res.Records[1].PDFURL)

	// 缺少作者和分类时使用占位值
	assert.Equal(t, "Attention Is All You Need", res.Records[2].Title)
	assert.Equal(t, models.CategoryUnknown, res.Records[2].Authors)
	assert.Equal(t, models.CategoryUnknown, res.Records[2].Category)
	assert.Equal(t, "https://proceedings.neurips.cc/paper/2017/file/789abc-Paper.pdf", res.Records[2].PDFURL)
}

func TestAdapter_ParseMissingDocument(t *testing.T) {
	a, _ := NewAdapter(nil)
	_, err := a.Parse(context.Background(), venue.Query{Year: 2023, Documents: []string{"/does/not/exist.html"}})
	assert.Error(t, err)
}

func TestAdapter_Layout(t *testing.T) {
	a, _ := NewAdapter(nil)
	docs, err := a.Layout("static_html", 2017)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("static_html", "NeurIPS", "2017.html")}, docs)

	_, err = a.Layout("static_html", 1900)
	assert.ErrorIs(t, err, venue.ErrUnsupportedYear)
}
