package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nineHoles builds a valid 9-hole request: all par 4, indexes matching
// numbers. Tests mutate it to produce invalid variants.
func nineHoles() []HoleRequest {
	holes := make([]HoleRequest, 9)
	for i := range holes {
		holes[i] = HoleRequest{Number: i + 1, Par: 4, HandicapIndex: i + 1}
	}
	return holes
}

func TestValidateHoles(t *testing.T) {
	t.Run("valid nine", func(t *testing.T) {
		assert.NoError(t, validateHoles(nineHoles()))
	})

	t.Run("valid eighteen", func(t *testing.T) {
		holes := make([]HoleRequest, 18)
		for i := range holes {
			holes[i] = HoleRequest{Number: i + 1, Par: 4, HandicapIndex: i + 1}
		}
		assert.NoError(t, validateHoles(holes))
	})

	t.Run("wrong hole count", func(t *testing.T) {
		assert.Error(t, validateHoles(nineHoles()[:7]))
		assert.Error(t, validateHoles(nil))
	})

	t.Run("duplicate hole number", func(t *testing.T) {
		holes := nineHoles()
		holes[3].Number = holes[2].Number
		err := validateHoles(holes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate hole number")
	})

	t.Run("duplicate handicap index", func(t *testing.T) {
		holes := nineHoles()
		holes[5].HandicapIndex = holes[4].HandicapIndex
		err := validateHoles(holes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate handicap index")
	})

	t.Run("handicap index out of range", func(t *testing.T) {
		holes := nineHoles()
		holes[0].HandicapIndex = 10 // valid on 18 holes, not on 9
		assert.Error(t, validateHoles(holes))
	})

	t.Run("implausible par", func(t *testing.T) {
		holes := nineHoles()
		holes[0].Par = 2
		assert.Error(t, validateHoles(holes))
		holes[0].Par = 7
		assert.Error(t, validateHoles(holes))
	})
}

func TestParseOptionalDate(t *testing.T) {
	t.Run("nil and empty pass through", func(t *testing.T) {
		got, err := parseOptionalDate(nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		empty := ""
		got, err = parseOptionalDate(&empty)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("round trips through format", func(t *testing.T) {
		in := "2026-05-17"
		parsed, err := parseOptionalDate(&in)
		require.NoError(t, err)
		require.NotNil(t, parsed)

		out := formatOptionalDate(parsed)
		require.NotNil(t, out)
		assert.Equal(t, in, *out)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		bad := "17/05/2026"
		_, err := parseOptionalDate(&bad)
		assert.Error(t, err)
	})

	t.Run("nil formats to nil", func(t *testing.T) {
		assert.Nil(t, formatOptionalDate(nil))
	})
}
