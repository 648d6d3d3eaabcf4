package ir

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

var defaultStopWords = []string{
	"a", "an", "the",
	"and", "or", "but", "nor", "for", "so", "yet",
	"in", "on", "at", "to", "of", "with", "by", "from", "up", "about", "into", "through", "via",
	"is", "are", "was", "were", "be", "been", "being",
	"this", "that", "these", "those", "it", "we", "our",
	"as", "if", "than", "then", "when", "where", "how",
	"all", "each", "both", "more", "most", "other", "some", "such", "no", "not", "only", "very",
}

type Tokenizer struct {
	stopWords map[string]bool // 停用词集合
	lower     cases.Caser
}

func NewTokenizer() *Tokenizer {
	stop := make(map[string]bool, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = true
	}
	return &Tokenizer{stopWords: stop, lower: cases.Lower(language.Und)}
}

// Tokenize 小写、去标点、按空白和连字符切分，丢掉停用词和单字符
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	text = t.lower.String(text)
	text = nonWord.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "-", " ")

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) > 1 && !t.stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func (t *Tokenizer) TokenizeWithCount(text string) map[string]int {
	result := make(map[string]int)
	for _, tok := range t.Tokenize(text) {
		result[tok]++
	}
	return result
}
