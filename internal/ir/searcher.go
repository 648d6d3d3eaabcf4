package ir

import (
	"fmt"
	"sort"

	"PaperArchiver/internal/models"
)

const (
	AlgorithmBM25  = "bm25"
	AlgorithmTFIDF = "tfidf"
)

type Scorer interface {
	Score(ii *InvertedIndex, docID int, postings map[string]Posting) float64
}

type SearchResult struct {
	Entry *models.LedgerEntry
	Score float64
}

type SearchOptions struct {
	Query     string
	TopK      int    // 0 表示全部
	Algorithm string // bm25 (默认) 或 tfidf
}

// Searcher 对一批台账行做相关性排序
type Searcher struct {
	tokenizer *Tokenizer
	index     *InvertedIndex
	entries   []*models.LedgerEntry
}

func NewSearcher(entries []*models.LedgerEntry) *Searcher {
	tok := NewTokenizer()
	idx := NewInvertedIndex(tok)
	idx.AddDocuments(entries)
	return &Searcher{tokenizer: tok, index: idx, entries: entries}
}

func scorer(algorithm string) (Scorer, error) {
	switch algorithm {
	case "", AlgorithmBM25:
		return NewBM25Scorer(), nil
	case AlgorithmTFIDF:
		return TFIDFScorer{}, nil
	default:
		return nil, fmt.Errorf("不支持的算法类型: %s", algorithm)
	}
}

// Search 返回至少命中一个查询词的行，分数降序，同分保持原顺序
func (s *Searcher) Search(opts SearchOptions) ([]*SearchResult, error) {
	sc, err := scorer(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	terms := s.tokenizer.Tokenize(opts.Query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("查询 %q 没有可检索的词", opts.Query)
	}

	var results []*SearchResult
	for docID, postings := range s.index.candidates(terms) {
		results = append(results, &SearchResult{Entry: s.entries[docID], Score: sc.Score(s.index, docID, postings)})
	}

	order := make(map[*models.LedgerEntry]int, len(s.entries))
	for i, e := range s.entries {
		order[e] = i
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return order[results[i].Entry] < order[results[j].Entry]
	})

	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}
