package corpus

import (
	"errors"
	"iter"
	"strings"
)

// Document is one labeled text in the training corpus.
type Document struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Validate checks that the document has a label and some text.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return errors.New("document label is required")
	}
	if strings.TrimSpace(d.Text) == "" {
		return errors.New("document text is required")
	}
	return nil
}

// Tokenized yields each document's label with its tokenized text. The
// result is the corpus shape pmi.Engine.Train consumes.
func Tokenized(docs []Document, tokenize func(string) []string) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, d := range docs {
			if !yield(d.Label, tokenize(d.Text)) {
				return
			}
		}
	}
}

// Labels returns the distinct document labels in first-seen order.
func Labels(docs []Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range docs {
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		out = append(out, d.Label)
	}
	return out
}
