package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEmbedding(t *testing.T) {
	vec := GenerateEmbedding("Tomato Soup")
	assert.Equal(t, []float32{11, 5, 2}, vec.Slice())

	// Case does not change the vector.
	assert.Equal(t, vec, GenerateEmbedding("TOMATO SOUP"))

	assert.Equal(t, []float32{0, 0, 0}, GenerateEmbedding("").Slice())
}
