// Package nlp extracts significant keywords from biography text.
package nlp

import (
	prose "github.com/jdkato/prose/v2"
)

// validPOS are the part-of-speech tags kept as significant words (nouns).
var validPOS = map[string]struct{}{
	"NN":   {},
	"NNS":  {},
	"NNP":  {},
	"NNPS": {},
}

// Extractor reduces free text to its significant lexical items: nouns plus
// tokens tagged as named entities.
type Extractor struct{}

// NewExtractor creates the default keyword extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Keywords tokenizes and tags the text, keeping nouns and named-entity
// tokens in document order.
func (e *Extractor) Keywords(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, token := range doc.Tokens() {
		if _, ok := validPOS[token.Tag]; ok || token.Label != "" {
			keywords = append(keywords, token.Text)
		}
	}
	return keywords, nil
}
