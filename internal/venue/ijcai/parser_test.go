package ijcai

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

const sectionedFixture = `<html><body>
<div class="section">
  <div class="section_title"><h3>Main Track</h3></div>
  <div class="subsection">
    <div class="subsection_title">Agent-based and Multi-agent Systems</div>
    <div class="paper_wrapper">
      <div class="title">Cooperative Agents</div>
      <div class="authors">Ann, Ben</div>
      <div class="details"><a href="0001.pdf">PDF</a> <a href="/abs/1">Details</a></div>
    </div>
    <div class="paper_wrapper">
      <div class="title">No Link</div>
      <div class="details"><a href="/abs/2">Details</a></div>
    </div>
  </div>
  <div class="subsection">
    <div class="paper_wrapper">
      <div class="title">Untitled Subsection Paper</div>
      <div class="details"><a href="https://cdn.example.org/3.pdf">PDF</a></div>
    </div>
  </div>
</div>
</body></html>`

const blocksFixture = `<html><body>
<h3>Edited by Someone</h3>
<p>Early Paper / 1<br/><em>Ed Early</em><br/><a href="/Proceedings/15/Papers/001.pdf">PDF</a></p>
<h3>Machine Learning</h3>
<p>Deep Nets / 10<br/><i>Ian Italic</i><br/><a href="/Proceedings/15/Papers/010.pdf">pdf</a></p>
<p>short</p>
<h3>Sponsored by ACME</h3>
<p>Missing Link Paper / 20<br/><em>Nobody</em><br/>no link here<br/></p>
<p><b>Bold Lead</b> / 30<br/><em>X</em><br/><a href="/x.pdf">PDF</a></p>
<p>Anon Paper / 40<br/>no authors<br/><a href="https://www.ijcai.org/y.pdf">PDF</a></p>
</body></html>`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestParseSections(t *testing.T) {
	a, err := NewAdapter(nil)
	require.NoError(t, err)

	res, err := a.Parse(context.Background(), venue.Query{Year: 2019, Documents: []string{writeDoc(t, sectionedFixture)}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	assert.Equal(t, &models.Record{
		Title:    "Cooperative Agents",
		Authors:  "Ann, Ben",
		Category: "Agent-based and Multi-agent Systems",
		PDFURL:   "https://www.ijcai.org/proceedings/2019/0001.pdf",
	}, res.Records[0])
	assert.Equal(t, "Main Track", res.Records[1].Category)
	assert.Equal(t, models.CategoryUnknown, res.Records[1].Authors)
	assert.Equal(t, "https://cdn.example.org/3.pdf", res.Records[1].PDFURL)
}

func TestParseBlocks(t *testing.T) {
	a, _ := NewAdapter(nil)

	res, err := a.Parse(context.Background(), venue.Query{Year: 2015, Documents: []string{writeDoc(t, blocksFixture)}})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)

	assert.Equal(t, &models.Record{
		Title:    "Early Paper",
		Authors:  "Ed Early",
		Category: "Main Track",
		PDFURL:   "https://www.ijcai.org/Proceedings/15/Papers/001.pdf",
	}, res.Records[0])
	assert.Equal(t, &models.Record{
		Title:    "Deep Nets",
		Authors:  "Ian Italic",
		Category: "Machine Learning",
		PDFURL:   "https://www.ijcai.org/Proceedings/15/Papers/010.pdf",
	}, res.Records[1])
	assert.Equal(t, "Anon Paper", res.Records[2].Title)
	assert.Equal(t, models.CategoryUnknown, res.Records[2].Authors)
	assert.Equal(t, "Machine Learning", res.Records[2].Category)
}

func TestLayout(t *testing.T) {
	a, _ := NewAdapter(nil)

	paths, err := a.Layout("static_html", 2016)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("static_html", "IJCAI", "2016.html")}, paths)

	_, err = a.Layout("static_html", 2014)
	assert.ErrorIs(t, err, venue.ErrUnsupportedYear)
}
