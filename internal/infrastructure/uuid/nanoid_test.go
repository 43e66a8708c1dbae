package uuid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNanoIDGenerator(t *testing.T) {
	gen, err := NewNanoIDGenerator(24)
	require.NoError(t, err)

	a, err := gen.Generate()
	require.NoError(t, err)
	b, err := gen.Generate()
	require.NoError(t, err)

	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), a)
}

func TestNewNanoIDGenerator_InvalidLength(t *testing.T) {
	_, err := NewNanoIDGenerator(0)
	assert.ErrorIs(t, err, ErrInvalidLength)
}
