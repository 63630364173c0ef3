package search

import "strings"

// stopWords are common words ignored when testing verbatim query coverage.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "do": {}, "for": {}, "from": {}, "have": {},
	"in": {}, "is": {}, "it": {}, "not": {}, "of": {}, "on": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "was": {}, "with": {}, "you": {},
}

const wordPunctuation = ".,!?;:'\"-()[]{}"

// significantWords lowercases the text, strips surrounding punctuation from
// each word, and drops stop words.
func significantWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))

	for _, field := range fields {
		word := strings.ToLower(strings.Trim(field, wordPunctuation))
		if word == "" {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		words = append(words, word)
	}
	return words
}

// containsAllQueryWords reports whether every significant query word occurs
// in the chunk text. Used to boost verbatim matches over purely semantic
// ones.
func containsAllQueryWords(text, query string) bool {
	queryWords := significantWords(query)
	if len(queryWords) == 0 {
		return false
	}

	seen := make(map[string]struct{})
	for _, word := range significantWords(text) {
		seen[word] = struct{}{}
	}

	for _, word := range queryWords {
		if _, ok := seen[word]; !ok {
			return false
		}
	}
	return true
}
