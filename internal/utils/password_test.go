package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("anything", "not-a-hash"))
}
