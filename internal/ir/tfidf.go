package ir

import "math"

type TFIDFScorer struct{}

func (TFIDFScorer) Score(ii *InvertedIndex, _ int, postings map[string]Posting) float64 {
	var total float64
	for term, p := range postings {
		w := idf(ii, term)
		if p.TitleFreq > 0 {
			total += (1 + math.Log(float64(p.TitleFreq))) * w * titleWeight
		}
		if p.AuthorFreq > 0 {
			total += (1 + math.Log(float64(p.AuthorFreq))) * w * authorWeight
		}
	}
	return total
}
