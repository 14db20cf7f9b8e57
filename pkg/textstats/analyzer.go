package textstats

import (
	"sort"
	"strings"
	"unicode"
)

// WordCount is one entry of a frequency table.
type WordCount struct {
	Word  string
	Count int
}

// Analyzer computes word-frequency statistics over free text. It lowercases,
// splits on non-letters, and drops stopwords and very short tokens.
type Analyzer struct {
	stopwords map[string]struct{}
	minLength int
}

// NewAnalyzer creates an analyzer with the default English stopword set.
func NewAnalyzer() *Analyzer {
	stopwords := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		stopwords[w] = struct{}{}
	}
	return &Analyzer{
		stopwords: stopwords,
		minLength: 3,
	}
}

// Tokenize splits text into counted tokens.
func (a *Analyzer) Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.Trim(tok, "'")
		if len(tok) < a.minLength {
			continue
		}
		if _, skip := a.stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Frequency returns the full frequency table for the given texts.
func (a *Analyzer) Frequency(texts []string) map[string]int {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, tok := range a.Tokenize(text) {
			freq[tok]++
		}
	}
	return freq
}

// TopWords returns the limit most frequent words, ties broken
// alphabetically so the output is stable.
func (a *Analyzer) TopWords(texts []string, limit int) []WordCount {
	freq := a.Frequency(texts)

	counts := make([]WordCount, 0, len(freq))
	for word, count := range freq {
		counts = append(counts, WordCount{Word: word, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// TotalWords counts all tokens that survive filtering.
func (a *Analyzer) TotalWords(texts []string) int {
	total := 0
	for _, text := range texts {
		total += len(a.Tokenize(text))
	}
	return total
}

var defaultStopwords = []string{
	"the", "and", "that", "this", "with", "for", "you", "your", "but",
	"are", "was", "were", "have", "has", "had", "not", "what", "when",
	"where", "who", "why", "how", "can", "could", "would", "should",
	"just", "like", "about", "into", "out", "all", "they", "them",
	"their", "there", "been", "being", "from", "she", "him", "her",
	"his", "its", "our", "ours", "will", "than", "then", "too", "very",
	"some", "such", "only", "own", "same", "more", "most", "other",
	"don't", "doesn't", "didn't", "i'm", "i've", "it's", "that's",
	"yes", "get", "got", "really",
}
