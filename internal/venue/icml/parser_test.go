package icml

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

const fixture = `<html><body>
<div class="paper">
  <p class="title">Learning Things</p>
  <p class="details"><span class="authors">Alice&nbsp;Smith,&nbsp;Bob Jones</span></p>
  <p class="links"><a href="https://proceedings.mlr.press/v202/a23.html">abs</a>
  <a href="https://proceedings.mlr.press/v202/a23/a23.pdf">Download PDF</a></p>
</div>
<div class="paper">
  <p class="title">No Authors Here</p>
  <a href="https://proceedings.mlr.press/v202/b23/b23.pdf">Download PDF</a>
</div>
<div class="paper">
  <p class="title">Missing Link</p>
  <span class="authors">Carol</span>
</div>
<div class="paper">
  <span class="authors">Nobody</span>
  <a href="https://proceedings.mlr.press/v202/c23/c23.pdf">Download PDF</a>
</div>
</body></html>`

func TestAdapter_Parse(t *testing.T) {
	p := filepath.Join(t.TempDir(), "2023.html")
	require.NoError(t, os.WriteFile(p, []byte(fixture), 0644))

	a, err := NewAdapter(nil)
	require.NoError(t, err)

	res, err := a.Parse(context.Background(), venue.Query{Year: 2023, Documents: []string{p}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	assert.Equal(t, &models.Record{
		Title:    "Learning Things",
		Authors:  "Alice Smith, Bob Jones",
		Category: models.CategoryUnknown,
		PDFURL:   "https://proceedings.mlr.press/v202/a23/a23.pdf",
	}, res.Records[0])
	assert.Equal(t, "No Authors Here", res.Records[1].Title)
	assert.Equal(t, models.CategoryUnknown, res.Records[1].Authors)
}

func TestAdapter_ParseUnsupportedYear(t *testing.T) {
	a, _ := NewAdapter(nil)
	_, err := a.Parse(context.Background(), venue.Query{Year: 2000})
	assert.ErrorIs(t, err, venue.ErrUnsupportedYear)
}
