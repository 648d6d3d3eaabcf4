package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperArchiver/internal/models"
)

func entries(n int) []*models.LedgerEntry {
	out := make([]*models.LedgerEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.LedgerEntry{
			Venue: "ICML", Year: 2023, Filename: fmt.Sprintf("p%d.pdf", i),
			Title: "Paper " + strconv.Itoa(i), Authors: "Ada Lovelace, Turing", Category: "Oral",
			PDFURL: "https://example.org/p.pdf",
		})
	}
	return out
}

func TestAddEntries_Batches(t *testing.T) {
	var batches []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42/items", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.Header.Get("Zotero-API-Version"))

		var items []ItemData
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&items)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		batches = append(batches, len(items))

		resp := CreateResponse{Successful: map[string]any{}, Failed: map[string]FailedItem{}}
		for i := range items {
			resp.Successful[strconv.Itoa(i)] = map[string]any{"key": "K"}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("42", "secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithInterval(0))
	n, err := c.AddEntries(context.Background(), entries(120), "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, 120, n)
	assert.Equal(t, []int{50, 50, 20}, batches)
}

func TestAddEntries_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "library locked", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient("42", "secret", WithBaseURL(srv.URL), WithInterval(0))
	_, err := c.AddEntries(context.Background(), entries(3), "")
	assert.ErrorContains(t, err, "409")

	_, err = c.AddEntries(context.Background(), entries(1), "bad key!")
	assert.ErrorContains(t, err, "collection key")

	_, err = NewClient("", "").AddEntries(context.Background(), entries(1), "")
	assert.Error(t, err)
}

func TestToItem(t *testing.T) {
	item := toItem(entries(1)[0], "ABCD1234")
	assert.Equal(t, "conferencePaper", item.ItemType)
	assert.Equal(t, "2023", item.Date)
	assert.Equal(t, "ICML", item.ConferenceName)
	assert.Equal(t, []Creator{
		{CreatorType: "author", FirstName: "Ada", LastName: "Lovelace"},
		{CreatorType: "author", Name: "Turing"},
	}, item.Creators)
	assert.Equal(t, []Tag{{Tag: "icml", Type: 1}, {Tag: "Oral", Type: 1}}, item.Tags)
	assert.Equal(t, []string{"ABCD1234"}, item.Collections)

	assert.Nil(t, authorsToCreators(models.CategoryUnknown))
}
