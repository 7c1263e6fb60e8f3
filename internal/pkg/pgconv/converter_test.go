//go:build unit

package pgconv_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"carbooking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDConversions(t *testing.T) {
	id := uuid.New()

	pu := pgconv.UUIDToPgtype(id)
	assert.True(t, pu.Valid)
	assert.Equal(t, id, uuid.UUID(pu.Bytes))

	assert.False(t, pgconv.UUIDPtrToPgtype(nil).Valid)
	got := pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(&id))
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgtype.UUID{Valid: false}))
}

func TestStringConversions(t *testing.T) {
	s := "hello"

	assert.Equal(t, pgtype.Text{String: "hello", Valid: true}, pgconv.StringToPgtype(s))
	assert.False(t, pgconv.StringPtrToPgtype(nil).Valid)

	got := pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&s))
	require.NotNil(t, got)
	assert.Equal(t, "hello", *got)
	assert.Nil(t, pgconv.StringPtrFromPgtype(pgtype.Text{Valid: false}))
}

func TestDateConversions(t *testing.T) {
	t.Run("midnight round trip", func(t *testing.T) {
		d := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, d, pgconv.DateFromPgtype(pgconv.DateToPgtype(d)))
	})

	t.Run("driver-local date collapses to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("local", 3*60*60)
		pd := pgtype.Date{Time: time.Date(2024, 2, 10, 0, 0, 0, 0, loc), Valid: true}
		assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), pgconv.DateFromPgtype(pd))
	})

	t.Run("nil pointer maps to null", func(t *testing.T) {
		assert.False(t, pgconv.DatePtrToPgtype(nil).Valid)
		assert.Nil(t, pgconv.DatePtrFromPgtype(pgtype.Date{Valid: false}))
	})
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.False(t, pgconv.IsNoRows(errors.New("boom")))
	assert.False(t, pgconv.IsNoRows(nil))
}
