package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "PaperArchiver/db"
	"PaperArchiver/internal/models"
)

var _ storage.CatalogStorage = (*SQLiteDB)(nil)

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "data", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sample() []*models.LedgerEntry {
	return []*models.LedgerEntry{
		{Venue: "NeurIPS", Year: 2017, Filename: "attention__1.pdf", Title: "Attention Is All You Need", Authors: "Vaswani", Category: "conference", PDFURL: "https://x/1.pdf"},
		{Venue: "ICLR", Year: 2015, Filename: "adam__2.pdf", Title: "Adam", Authors: "Kingma, Ba", Category: "oral", PDFURL: "https://x/2.pdf"},
		{Venue: "ICLR", Year: 2019, Filename: "gin__3.pdf", Title: "How Powerful are Graph Neural Networks?", Authors: "Xu", Category: "Accept (Oral)", PDFURL: "https://x/3.pdf"},
	}
}

func TestUpsertBatchAndSearch(t *testing.T) {
	db := openTestDB(t)

	n, err := db.UpsertBatch(sample())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := db.SearchByKeywords("attention", models.SearchCondition{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NeurIPS", got[0].Venue)
	assert.NotZero(t, got[0].ID)

	got, err = db.SearchByKeywords("kingma", models.SearchCondition{Venues: []string{"ICLR"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Adam", got[0].Title)

	got, err = db.GetEntries(models.SearchCondition{Venues: []string{"ICLR"}, YearFrom: 2016})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2019, got[0].Year)

	count, err := db.CountEntries(models.SearchCondition{Category: "oral"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsert_Idempotent(t *testing.T) {
	db := openTestDB(t)

	e := sample()[0]
	id1, err := db.Upsert(e)
	require.NoError(t, err)

	e2 := *e
	e2.Category = "oral"
	id2, err := db.Upsert(&e2)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	count, err := db.CountEntries(models.SearchCondition{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := db.GetEntries(models.SearchCondition{})
	require.NoError(t, err)
	assert.Equal(t, "oral", got[0].Category)
}

func TestDeleteEntries(t *testing.T) {
	db := openTestDB(t)
	_, err := db.UpsertBatch(sample())
	require.NoError(t, err)

	n, err := db.DeleteEntries(models.SearchCondition{Venues: []string{"ICLR"}, YearTo: 2016})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := db.GetEntries(models.SearchCondition{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
