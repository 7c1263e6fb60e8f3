//go:build unit

package booking_test

import (
	"context"
	"strings"
	"testing"

	"carbooking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Generate(t *testing.T) {
	gen := booking.NewCodeGenerator("BK", 6)

	code, err := gen.Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "BK"))
	assert.Len(t, code, 8)
	for _, c := range code[2:] {
		assert.Contains(t, booking.CodeAlphabet, string(c))
	}
	// Confusable characters never appear.
	assert.NotContains(t, code[2:], "O")
	assert.NotContains(t, code[2:], "0")
	assert.NotContains(t, code[2:], "I")
	assert.NotContains(t, code[2:], "1")
	assert.NotContains(t, code[2:], "L")
}

func TestCodeGenerator_Allocate(t *testing.T) {
	t.Run("returns first free code", func(t *testing.T) {
		gen := booking.NewCodeGenerator("BK", 6)
		calls := 0
		code, err := gen.Allocate(context.Background(), func(_ context.Context, _ string) (bool, error) {
			calls++
			return false, nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, code)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries past collisions", func(t *testing.T) {
		gen := booking.NewCodeGenerator("BK", 6)
		calls := 0
		code, err := gen.Allocate(context.Background(), func(_ context.Context, _ string) (bool, error) {
			calls++
			return calls < 3, nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, code)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts after bounded attempts", func(t *testing.T) {
		gen := booking.NewCodeGenerator("BK", 6)
		calls := 0
		_, err := gen.Allocate(context.Background(), func(_ context.Context, _ string) (bool, error) {
			calls++
			return true, nil
		})
		assert.ErrorIs(t, err, booking.ErrCodeExhausted)
		assert.Equal(t, booking.DefaultCodeAttempts, calls)
	})
}
