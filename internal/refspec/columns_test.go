package refspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetters_KnownValues(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
		{16384, "XFD"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ColumnLetters(tc.n), "n=%d", tc.n)
	}
}

func TestColumnNumber_KnownValues(t *testing.T) {
	cases := []struct {
		letters string
		want    int
	}{
		{"A", 1},
		{"Z", 26},
		{"AA", 27},
		{"ZZ", 702},
		{"AAA", 703},
		{"XFD", 16384},
		{"d", 4}, // lowercase accepted
	}
	for _, tc := range cases {
		n, err := ColumnNumber(tc.letters)
		require.NoError(t, err, "letters=%s", tc.letters)
		assert.Equal(t, tc.want, n, "letters=%s", tc.letters)
	}
}

func TestColumnNumber_Invalid(t *testing.T) {
	for _, letters := range []string{"", "A1", "$A", "1"} {
		_, err := ColumnNumber(letters)
		assert.Error(t, err, "letters=%q", letters)
	}
}

// Round-trip over the full worksheet column space.
func TestColumnConversion_RoundTrip(t *testing.T) {
	for n := 1; n <= MaxColumn; n++ {
		letters := ColumnLetters(n)
		back, err := ColumnNumber(letters)
		require.NoError(t, err, "n=%d letters=%s", n, letters)
		require.Equal(t, n, back, "letters=%s", letters)
	}
}

func TestColumnLetters_OutOfRange(t *testing.T) {
	assert.Equal(t, "", ColumnLetters(0))
	assert.Equal(t, "", ColumnLetters(-5))
}
