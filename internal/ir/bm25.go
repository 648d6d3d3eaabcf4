package ir

import "math"

const (
	titleWeight  = 2.0
	authorWeight = 1.0
)

// BM25Scorer 带字段权重的 BM25
type BM25Scorer struct {
	k1 float64 // 词频饱和度，默认 1.5
	b  float64 // 长度归一化，默认 0.75
}

func NewBM25Scorer() *BM25Scorer { return &BM25Scorer{k1: 1.5, b: 0.75} }

func NewBM25ScorerWithParams(k1, b float64) *BM25Scorer { return &BM25Scorer{k1: k1, b: b} }

func (s *BM25Scorer) Parameters() (k1, b float64) { return s.k1, s.b }

// idf 小数据集上用 log(N/df)，出现在所有文档中的词给一个很小的值
func idf(ii *InvertedIndex, term string) float64 {
	df, n := ii.DocumentFrequency(term), ii.TotalDocs()
	if df == 0 || n == 0 {
		return 0
	}
	if df == n {
		return 0.1
	}
	return math.Log(float64(n) / float64(df))
}

func (s *BM25Scorer) Score(ii *InvertedIndex, docID int, postings map[string]Posting) float64 {
	avg := ii.AverageDocumentLength()
	length := ii.DocumentLength(docID)
	if avg == 0 || length == 0 {
		return 0
	}

	var total float64
	for term, p := range postings {
		tf := float64(p.TermFreq)
		if tf == 0 {
			continue
		}
		score := idf(ii, term) * tf * (s.k1 + 1) / (tf + s.k1*(1-s.b+s.b*float64(length)/avg))

		// 词出现在标题中的比例越高，权重越高
		score *= 1 + (titleWeight-1)*float64(p.TitleFreq)/tf
		total += score
	}
	return total
}
