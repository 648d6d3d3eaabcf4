package ir

import (
	"reflect"
	"testing"

	"PaperArchiver/internal/models"
)

func corpus() []*models.LedgerEntry {
	return []*models.LedgerEntry{
		{Title: "Attention Is All You Need", Authors: "Ashish Vaswani, Noam Shazeer"},
		{Title: "Graph Attention Networks", Authors: "Petar Velickovic"},
		{Title: "Deep Residual Learning", Authors: models.CategoryUnknown},
		{Title: "Learning Deep Sets", Authors: "Manzil Zaheer"},
		{Title: "Über Deep Learning", Authors: "Jürgen Schmidhuber"},
	}
}

func titles(results []*SearchResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Entry.Title)
	}
	return out
}

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()
	got := tok.Tokenize("The Self-Attention of a GRAPH: ÜBER x!")
	want := []string{"self", "attention", "graph", "über"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	if len(tok.Tokenize("")) != 0 {
		t.Error("empty text should give no tokens")
	}
}

func TestInvertedIndex(t *testing.T) {
	idx := NewInvertedIndex(NewTokenizer())
	idx.AddDocuments(corpus())

	if idx.TotalDocs() != 5 {
		t.Fatalf("TotalDocs() = %d, want 5", idx.TotalDocs())
	}
	if df := idx.DocumentFrequency("attention"); df != 2 {
		t.Errorf("df(attention) = %d, want 2", df)
	}
	// Unknown 作者不进入索引
	if df := idx.DocumentFrequency("unknown"); df != 0 {
		t.Errorf("df(unknown) = %d, want 0", df)
	}
	if l := idx.DocumentLength(2); l != 3 {
		t.Errorf("DocumentLength(2) = %d, want 3", l)
	}
	if idx.DocumentLength(99) != 0 {
		t.Error("out of range doc should have length 0")
	}
}

func TestSearcher_BM25(t *testing.T) {
	s := NewSearcher(corpus())

	results, err := s.Search(SearchOptions{Query: "graph attention"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	got := titles(results)
	want := []string{"Graph Attention Networks", "Attention Is All You Need"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Search() = %v, want %v", got, want)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %v", results)
	}
}

func TestSearcher_AuthorsAndTopK(t *testing.T) {
	s := NewSearcher(corpus())

	results, err := s.Search(SearchOptions{Query: "zaheer"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Entry.Title != "Learning Deep Sets" {
		t.Fatalf("author search = %v", titles(results))
	}

	results, err = s.Search(SearchOptions{Query: "deep learning", TopK: 2, Algorithm: AlgorithmTFIDF})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("TopK=2 returned %d results", len(results))
	}
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("%q has non-positive score %f", r.Entry.Title, r.Score)
		}
	}
}

func TestSearcher_Errors(t *testing.T) {
	s := NewSearcher(corpus())
	if _, err := s.Search(SearchOptions{Query: "the of"}); err == nil {
		t.Error("stop-word-only query should fail")
	}
	if _, err := s.Search(SearchOptions{Query: "graph", Algorithm: "lsi"}); err == nil {
		t.Error("unknown algorithm should fail")
	}
}
