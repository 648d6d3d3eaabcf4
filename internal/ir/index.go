package ir

import (
	"PaperArchiver/internal/models"
)

// Posting 倒排列表中的一项
type Posting struct {
	DocID      int
	TermFreq   int // 标题 + 作者
	TitleFreq  int
	AuthorFreq int
}

// InvertedIndex 台账行的内存倒排索引，只在一次检索内使用
type InvertedIndex struct {
	index      map[string][]Posting
	docLengths []int
	avgLength  float64
	tokenizer  *Tokenizer
}

func NewInvertedIndex(tokenizer *Tokenizer) *InvertedIndex {
	return &InvertedIndex{
		index:     make(map[string][]Posting),
		tokenizer: tokenizer,
	}
}

// AddDocuments 文档编号即切片下标
func (ii *InvertedIndex) AddDocuments(entries []*models.LedgerEntry) {
	for _, e := range entries {
		ii.add(len(ii.docLengths), e)
	}

	total := 0
	for _, l := range ii.docLengths {
		total += l
	}
	if n := len(ii.docLengths); n > 0 {
		ii.avgLength = float64(total) / float64(n)
	}
}

func (ii *InvertedIndex) add(docID int, e *models.LedgerEntry) {
	title := ii.tokenizer.TokenizeWithCount(e.Title)
	authors := map[string]int{}
	if e.Authors != models.CategoryUnknown {
		authors = ii.tokenizer.TokenizeWithCount(e.Authors)
	}

	terms := make(map[string]bool, len(title)+len(authors))
	length := 0
	for t, n := range title {
		terms[t] = true
		length += n
	}
	for t, n := range authors {
		terms[t] = true
		length += n
	}

	for t := range terms {
		ii.index[t] = append(ii.index[t], Posting{
			DocID:      docID,
			TermFreq:   title[t] + authors[t],
			TitleFreq:  title[t],
			AuthorFreq: authors[t],
		})
	}
	ii.docLengths = append(ii.docLengths, length)
}

func (ii *InvertedIndex) PostingList(term string) []Posting { return ii.index[term] }

// DocumentFrequency 包含该词的文档数
func (ii *InvertedIndex) DocumentFrequency(term string) int { return len(ii.index[term]) }

func (ii *InvertedIndex) DocumentLength(docID int) int {
	if docID < 0 || docID >= len(ii.docLengths) {
		return 0
	}
	return ii.docLengths[docID]
}

func (ii *InvertedIndex) AverageDocumentLength() float64 { return ii.avgLength }

func (ii *InvertedIndex) TotalDocs() int { return len(ii.docLengths) }

func (ii *InvertedIndex) VocabularySize() int { return len(ii.index) }

// candidates 查询词命中的文档及其 posting
func (ii *InvertedIndex) candidates(terms []string) map[int]map[string]Posting {
	docs := make(map[int]map[string]Posting)
	for _, t := range terms {
		for _, p := range ii.index[t] {
			if docs[p.DocID] == nil {
				docs[p.DocID] = make(map[string]Posting)
			}
			docs[p.DocID][t] = p
		}
	}
	return docs
}
