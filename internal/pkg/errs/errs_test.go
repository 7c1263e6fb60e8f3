//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"carbooking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("not allowed")
	cause := errs.New("booking is not paid")

	t.Run("stdlib errors.Is matches the sentinel", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.ErrorIs(t, marked, sentinel)
		assert.ErrorIs(t, marked, cause)
	})

	t.Run("survives further wrapping", func(t *testing.T) {
		marked := errs.Wrap(errs.Mark(cause, sentinel), "while paying")
		assert.ErrorIs(t, marked, sentinel)
		assert.ErrorIs(t, marked, cause)
	})

	t.Run("nil cause yields the sentinel itself", func(t *testing.T) {
		assert.Equal(t, sentinel, errs.Mark(nil, sentinel))
	})

	t.Run("distinct sentinels stay distinct", func(t *testing.T) {
		other := errs.New("something else")
		marked := errs.Mark(cause, sentinel)
		assert.False(t, errors.Is(marked, other))
	})
}

func TestIs(t *testing.T) {
	sentinel := errs.New("conflict")
	marked := errs.Mark(errs.New("version moved"), sentinel)

	assert.True(t, errs.Is(marked, sentinel))
	assert.False(t, errs.Is(marked, errs.New("conflict")))
}

func TestWrap(t *testing.T) {
	require.Nil(t, errs.Wrap(nil, "nothing"))

	cause := errs.New("boom")
	wrapped := errs.Wrap(cause, "context")
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "context")
}

func TestExtractStackLines(t *testing.T) {
	assert.Nil(t, errs.ExtractStackLines(nil, 5))

	lines := errs.ExtractStackLines(errs.New("boom"), 3)
	require.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 3)
	assert.Equal(t, "boom", lines[0])
}
