package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding produces a cheap lexical vector for a recipe's name and
// description, used only to order free-text search results on postgres.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, words float32
	words = float32(len(strings.Fields(text)))
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, words})
}
