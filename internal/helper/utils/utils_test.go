package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmailDomain(t *testing.T) {
	domain, err := ExtractEmailDomain("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", domain)

	for _, bad := range []string{"", "user", "user@", "@example.com", "a@b@c"} {
		_, err := ExtractEmailDomain(bad)
		assert.Error(t, err, bad)
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = RandomToken(0)
	assert.Error(t, err)
}

func TestReadAllLimit(t *testing.T) {
	got, err := ReadAllLimit(strings.NewReader("hello"), 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got, err = ReadAllLimit(strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = ReadAllLimit(strings.NewReader("hello!"), 5)
	assert.Error(t, err)
}
