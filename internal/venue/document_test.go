package venue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperArchiver/internal/models"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\t b  c  "))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://www.ijcai.org/proceedings/2019/0001.pdf",
		ResolveURL("https://www.ijcai.org/proceedings/2019/", "0001.pdf"))
	assert.Equal(t, "https://www.ijcai.org/Proceedings/15/Papers/001.pdf",
		ResolveURL("https://www.ijcai.org", "/Proceedings/15/Papers/001.pdf"))
	assert.Equal(t, "http://x.org/a.pdf", ResolveURL("https://base", "http://x.org/a.pdf"))
	assert.Equal(t, "", ResolveURL("https://base", "  "))
}

func TestLastPathSegment(t *testing.T) {
	assert.Equal(t, "1312.6114", LastPathSegment("http://arxiv.org/abs/1312.6114"))
	assert.Equal(t, "", LastPathSegment("http://arxiv.org/abs/"))
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(p, []byte("<p>hi</p>"), 0644))

	docs, err := LoadDocuments([]string{p})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = LoadDocuments([]string{p, filepath.Join(dir, "missing.html")})
	assert.Error(t, err)

	_, err = LoadDocuments(nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestTextOr(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div><i> A  B </i><b></b></div>`))
	require.NoError(t, err)

	assert.Equal(t, "A B", TextOr(doc.Find("i"), models.CategoryUnknown))
	assert.Equal(t, models.CategoryUnknown, TextOr(doc.Find("b"), models.CategoryUnknown))
	assert.Equal(t, models.CategoryUnknown, TextOr(doc.Find("em"), models.CategoryUnknown))
}

func TestNewResult_DropsInvalid(t *testing.T) {
	res := NewResult([]*models.Record{
		{Title: "A", PDFURL: "https://x/a.pdf"},
		{Title: "", PDFURL: "https://x/b.pdf"},
		{Title: "C"},
		nil,
	})
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "A", res.Records[0].Title)
}
