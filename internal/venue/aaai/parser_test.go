package aaai

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

const legacyFixture = `<html><body>
<h5><a href="/x">Orphan Before Track</a></h5>
<a href="/orphan.pdf">PDF</a>
<div class="track-wrap">
  <h2>AAAI Technical Track: Vision</h2>
  <ul>
    <li><h5><a href="/p/1">Seeing Clearly</a></h5>
      <span class="papers-author-page">Ann Lee, Bo Chen</span>
      <a href="/v/1">Abstract</a> <a href="https://aaai.org/1.pdf">PDF</a></li>
    <li><h5><a href="/p/2">No Pdf Paper</a></h5>
      <span class="papers-author-page">Cy</span></li>
  </ul>
</div>
<div class="track-wrap">
  <h2>AAAI Technical Track: Planning</h2>
  <h5><a href="/p/3">Plan Ahead</a></h5>
  <a href="https://aaai.org/3.pdf">PDF</a>
</div>
</body></html>`

const sectionedFixture = `<html><body>
<div class="section">
  <h2>Machine Learning I</h2>
  <div class="obj_article_summary">
    <h3 class="title"><a href="/a/1">  Deep
      Things </a></h3>
    <div class="authors">Dee Pee</div>
    <a class="obj_galley_link pdf" href="https://ojs.aaai.org/1.pdf">PDF</a>
  </div>
  <div class="obj_article_summary">
    <h3 class="title"><a href="/a/2">Linkless</a></h3>
  </div>
</div>
<div class="section">
  <h2>Search</h2>
  <div class="obj_article_summary">
    <h3 class="title"><a href="/a/3">Looking</a></h3>
    <a class="obj_galley_link pdf" href="https://ojs.aaai.org/3.pdf">PDF</a>
  </div>
</div>
</body></html>`

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestParseLegacy_CategoryFollowsDocumentOrder(t *testing.T) {
	a, err := NewAdapter(nil)
	require.NoError(t, err)

	res, err := a.Parse(context.Background(), venue.Query{
		Year:      2019,
		Documents: []string{write(t, "2019.html", legacyFixture)},
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)

	assert.Equal(t, &models.Record{
		Title:    "Orphan Before Track",
		Authors:  models.CategoryUnknown,
		Category: models.CategoryUnknown,
		PDFURL:   "/orphan.pdf",
	}, res.Records[0])
	assert.Equal(t, &models.Record{
		Title:    "Seeing Clearly",
		Authors:  "Ann Lee, Bo Chen",
		Category: "AAAI Technical Track: Vision",
		PDFURL:   "https://aaai.org/1.pdf",
	}, res.Records[1])
	assert.Equal(t, "Plan Ahead", res.Records[2].Title)
	assert.Equal(t, "AAAI Technical Track: Planning", res.Records[2].Category)
}

func TestParseSectioned(t *testing.T) {
	a, _ := NewAdapter(nil)

	res, err := a.Parse(context.Background(), venue.Query{
		Year:      2023,
		Documents: []string{write(t, "2023-track1.html", sectionedFixture)},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	assert.Equal(t, "Deep Things", res.Records[0].Title)
	assert.Equal(t, "Dee Pee", res.Records[0].Authors)
	assert.Equal(t, "Machine Learning I", res.Records[0].Category)
	assert.Equal(t, "Looking", res.Records[1].Title)
	assert.Equal(t, models.CategoryUnknown, res.Records[1].Authors)
	assert.Equal(t, "Search", res.Records[1].Category)
}

func TestParse_MultipleTrackFiles(t *testing.T) {
	a, _ := NewAdapter(nil)
	docs := []string{
		write(t, "2024-track1.html", sectionedFixture),
		write(t, "2024-track2.html", sectionedFixture),
	}

	res, err := a.Parse(context.Background(), venue.Query{Year: 2024, Documents: docs})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
}

func TestParse_MissingTrackFileFails(t *testing.T) {
	a, _ := NewAdapter(nil)
	docs := []string{
		write(t, "2024-track1.html", sectionedFixture),
		filepath.Join(t.TempDir(), "2024-track2.html"),
	}

	_, err := a.Parse(context.Background(), venue.Query{Year: 2024, Documents: docs})
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	a, _ := NewAdapter(nil)

	paths, err := a.Layout("static_html", 2018)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("static_html", "AAAI", "2018.html")}, paths)

	paths, err = a.Layout("static_html", 2020)
	require.NoError(t, err)
	require.Len(t, paths, 7)
	assert.Equal(t, filepath.Join("static_html", "AAAI", "2020-track1.html"), paths[0])
	assert.Equal(t, filepath.Join("static_html", "AAAI", "2020-track7.html"), paths[6])

	paths, err = a.Layout("static_html", 2024)
	require.NoError(t, err)
	assert.Len(t, paths, 18)

	_, err = a.Layout("static_html", 2010)
	assert.ErrorIs(t, err, venue.ErrUnsupportedYear)
}

func TestConfig_Validate(t *testing.T) {
	c := DefaultConfig()
	c.SectionedFrom = 2000
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Tracks[2025] = -1
	assert.Error(t, c.Validate())
}
