package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the width of the recipes.embedding column.
const EmbeddingDimensions = 64

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(text string) pgvector.Vector
}

// HashEmbedder is a deterministic bag-of-words embedding: each lower-cased
// token is hashed into one of EmbeddingDimensions buckets and the result is
// L2-normalised. Texts sharing words end up close under cosine distance.
type HashEmbedder struct{}

func (HashEmbedder) Embed(text string) pgvector.Vector {
	vec := make([]float32, EmbeddingDimensions)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%EmbeddingDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		// The zero vector has no cosine distance; give empty text a fixed
		// direction instead.
		vec[0] = 1
		return pgvector.NewVector(vec)
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return pgvector.NewVector(vec)
}

func recipeText(name, description string, tags []string, ingredients []string) string {
	parts := append([]string{name, description}, tags...)
	parts = append(parts, ingredients...)
	return strings.Join(parts, " ")
}
