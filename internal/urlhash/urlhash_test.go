package urlhash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/internal/model"
)

func TestHash_KnownVectors(t *testing.T) {
	cases := map[string]string{
		"http://google.com": "aa2239c17609b2",
		"http://bmark.us":   "c5c21717c99797",
	}
	for url, want := range cases {
		got, err := Hash(url)
		require.NoError(t, err)
		assert.Equal(t, want, got, "hash for %s", url)
		assert.Len(t, got, HashLen)
	}
}

func TestHash_Deterministic(t *testing.T) {
	a, err := Hash("https://example.com/some/path?q=1")
	require.NoError(t, err)
	b, err := Hash("https://example.com/some/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHash_NormalizationEquivalences(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"scheme case", "HTTP://example.com/x", "http://example.com/x"},
		{"host case", "http://EXAMPLE.com/x", "http://example.com/x"},
		{"default http port", "http://example.com:80/x", "http://example.com/x"},
		{"default https port", "https://example.com:443/x", "https://example.com/x"},
		{"duplicate slashes", "http://example.com/a//b///c", "http://example.com/a/b/c"},
		{"surrounding whitespace", "  http://example.com/x  ", "http://example.com/x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ha, err := Hash(tc.a)
			require.NoError(t, err)
			hb, err := Hash(tc.b)
			require.NoError(t, err)
			assert.Equal(t, hb, ha)
		})
	}
}

func TestHash_PreservesDistinctions(t *testing.T) {
	// Path case and query ordering are significant.
	a, err := Hash("http://example.com/Path")
	require.NoError(t, err)
	b, err := Hash("http://example.com/path")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := Hash("http://example.com/?a=1&b=2")
	require.NoError(t, err)
	d, err := Hash("http://example.com/?b=2&a=1")
	require.NoError(t, err)
	assert.NotEqual(t, c, d)

	// Non-default port is kept.
	e, err := Hash("http://example.com:8080/x")
	require.NoError(t, err)
	f, err := Hash("http://example.com/x")
	require.NoError(t, err)
	assert.NotEqual(t, e, f)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Equal(t, "No url provided", model.Message(err))

	_, err = Normalize("   ")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = Normalize("not-a-url")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = Normalize("/relative/path/only")
	assert.True(t, errors.Is(err, model.ErrValidation))
}
