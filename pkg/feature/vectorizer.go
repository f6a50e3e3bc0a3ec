package feature

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Cell is one non-zero entry of a sparse feature row.
type Cell struct {
	Col int     `json:"c"`
	Val float64 `json:"v"`
}

// Vectorizer turns documents into sparse token-count rows over a fitted
// vocabulary. Terms is exported so fitted state can be persisted next
// to the similarity matrix and restored later.
type Vectorizer struct {
	Terms []string
	index map[string]int
}

// NewVectorizer returns an unfitted vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{}
}

// NewVectorizerFromTerms restores a fitted vectorizer from persisted
// vocabulary terms.
func NewVectorizerFromTerms(terms []string) *Vectorizer {
	v := &Vectorizer{Terms: terms}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, t := range v.Terms {
		v.index[t] = i
	}
}

// Fit builds the vocabulary from the documents. Columns are assigned
// in sorted term order so refitting the same corpus yields the same
// layout.
func (v *Vectorizer) Fit(docs []string) {
	uniq := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range Tokenize(doc) {
			uniq[tok] = struct{}{}
		}
	}
	v.Terms = make([]string, 0, len(uniq))
	for t := range uniq {
		v.Terms = append(v.Terms, t)
	}
	sort.Strings(v.Terms)
	v.buildIndex()
}

// Transform maps documents onto count rows over the fitted vocabulary.
// Unknown tokens are dropped; an empty document yields an empty row.
func (v *Vectorizer) Transform(docs []string) [][]Cell {
	rows := make([][]Cell, len(docs))
	for i, doc := range docs {
		counts := make(map[int]float64)
		for _, tok := range Tokenize(doc) {
			if col, ok := v.index[tok]; ok {
				counts[col]++
			}
		}
		row := make([]Cell, 0, len(counts))
		for col, n := range counts {
			row = append(row, Cell{Col: col, Val: n})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		rows[i] = row
	}
	return rows
}

// VocabSize returns the number of feature columns.
func (v *Vectorizer) VocabSize() int { return len(v.Terms) }

// Tokenize lowercases, Unicode-normalizes and splits a document into
// tokens of at least two letters or digits.
func Tokenize(s string) []string {
	s = strings.ToLower(norm.NFKC.String(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
