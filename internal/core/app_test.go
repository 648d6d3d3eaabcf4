package core_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperArchiver/internal/archive"
	"PaperArchiver/internal/core"
	"PaperArchiver/internal/ledger"
	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
	"PaperArchiver/internal/venue/neurips"
)

const listing = `<html><body><ul>
<li class="conference"><a title="paper title" href="/paper/2019/hash/aaa-Abstract.html">Deep Sets Revisited</a><i>Alice, Bob</i></li>
<li class="conference"><a title="paper title" href="/paper/2019/hash/bbb-Abstract.html">Graph Attention at Scale</a><i>Carol</i></li>
<li class="datasets_and_benchmarks_track"><a title="paper title" href="/paper/2019/hash/ccc-Abstract.html">A Benchmark for Sets</a><i>Dan</i></li>
</ul></body></html>`

type fixture struct {
	app  *core.App
	save string
	hits *atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("%PDF-1.4 " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	htmlRoot := filepath.Join(root, "static_html")
	require.NoError(t, os.MkdirAll(filepath.Join(htmlRoot, "NeurIPS"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(htmlRoot, "NeurIPS", "2019.html"), []byte(listing), 0644))

	cfg := neurips.DefaultConfig()
	cfg.BaseURL = srv.URL

	app, err := core.NewApp(core.Options{
		SaveDir:      filepath.Join(root, "papers"),
		HTMLRoot:     htmlRoot,
		DatabasePath: filepath.Join(root, "catalog.db"),
		HTTPClient:   srv.Client(),
		Venues:       map[string]venue.Config{neurips.Name: cfg},
	})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return &fixture{app: app, save: filepath.Join(root, "papers"), hits: &hits}
}

func TestApp_ArchiveIndexSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.app.Archive(ctx, core.ArchiveRequest{Venue: "neurips", Year: 2019, MaxDownloads: archive.Unlimited})
	require.NoError(t, err)
	assert.Equal(t, "NeurIPS", stats.Venue)
	assert.Equal(t, 3, stats.Found)
	assert.Equal(t, 3, stats.Downloaded)
	assert.EqualValues(t, 3, f.hits.Load())

	entries, err := ledger.ReadAll(filepath.Join(f.save, "NeurIPS_2019.csv"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Deep Sets Revisited", entries[0].Title)

	// 第二次运行不再请求
	stats, err = f.app.Archive(ctx, core.ArchiveRequest{Venue: "NeurIPS", Year: 2019, MaxDownloads: archive.Unlimited})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SkippedExisting)
	assert.EqualValues(t, 3, f.hits.Load())

	n, err := f.app.Index(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// 重复索引不产生新行
	_, err = f.app.Index(ctx, "neurips", 2019)
	require.NoError(t, err)
	count, err := f.app.Count(models.SearchCondition{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	found, err := f.app.Search("sets", models.SearchCondition{Venues: []string{"neurips"}})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	ranked, err := f.app.Rank("sets benchmark", "", models.SearchCondition{Limit: 1})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "A Benchmark for Sets", ranked[0].Entry.Title)

	found, err = f.app.Search("", models.SearchCondition{Category: "benchmarks"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A Benchmark for Sets", found[0].Title)

	out := filepath.Join(t.TempDir(), "out.json")
	n, err = f.app.Export("json", out, "", models.SearchCondition{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"total": 3`) || strings.Contains(string(data), `"total":3`))

	_, err = f.app.Export("xml", out, "", models.SearchCondition{})
	assert.Error(t, err)

	report, err := f.app.Verify("neurips", 2019, false)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 3, report.Files)
}

func TestApp_ArchiveMetadataOnly(t *testing.T) {
	f := newFixture(t)

	stats, err := f.app.Archive(context.Background(), core.ArchiveRequest{
		Venue: "NeurIPS", Year: 2019, MaxDownloads: 2, SkipDownload: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Recorded)
	assert.EqualValues(t, 0, f.hits.Load())

	refs, err := f.app.Ledgers()
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 2019, refs[0].Year)
}

func TestApp_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.Archive(ctx, core.ArchiveRequest{Venue: "NoSuchConf", Year: 2019})
	assert.ErrorIs(t, err, core.ErrUnknownVenue)

	_, err = f.app.Archive(ctx, core.ArchiveRequest{Venue: "NeurIPS", Year: 2020, MaxDownloads: archive.Unlimited})
	assert.Error(t, err, "2020 页面不存在")

	_, err = f.app.Index(ctx, "", 0)
	assert.Error(t, err, "还没有任何台账")

	_, err = f.app.Publish(ctx, "NeurIPS", 2019)
	assert.ErrorContains(t, err, "feishu")

	_, err = f.app.PublishZotero(ctx, "NeurIPS", 2019, "")
	assert.ErrorContains(t, err, "zotero")

	_, err = core.NewApp(core.Options{})
	assert.Error(t, err)
}
