// internal/service/cluster/vectorizer.go

package cluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Matrix holds one TF-IDF row per input text over a batch-local vocabulary
type Matrix struct {
	Vocabulary []string
	Vectors    [][]float64
}

// TermWeight is a vocabulary term with its summed weight over the batch
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Vectorize builds TF-IDF vectors for texts. Term frequency is the raw count,
// idf is ln((1+n)/(1+df))+1 and every row is L2 normalized. The vocabulary is
// built from this batch only and sorted, so the same input always yields the
// same feature order.
func Vectorize(texts []string) *Matrix {
	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = Tokenize(text)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(texts))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(texts))
	for i, doc := range docs {
		row := make([]float64, len(vocab))
		for _, tok := range doc {
			row[index[tok]]++
		}
		floats.Mul(row, idf)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		vectors[i] = row
	}

	return &Matrix{
		Vocabulary: vocab,
		Vectors:    vectors,
	}
}

// TopTerms returns the n terms with the highest summed weight, heaviest first.
// Ties are broken alphabetically.
func (m *Matrix) TopTerms(n int) []TermWeight {
	terms := make([]TermWeight, len(m.Vocabulary))
	for j, term := range m.Vocabulary {
		terms[j].Term = term
		for _, row := range m.Vectors {
			terms[j].Weight += row[j]
		}
	}

	sort.SliceStable(terms, func(a, b int) bool {
		return terms[a].Weight > terms[b].Weight
	})

	if n >= 0 && n < len(terms) {
		terms = terms[:n]
	}
	return terms
}
