package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// fakeDB records the SQL and args of the last call and returns canned results.
type fakeDB struct {
	execTag  pgconn.CommandTag
	execErr  error
	rowTaken bool

	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.execTag, f.execErr
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*bool)) = f.rowTaken
		return nil
	}}
}

func TestReserve(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	err := Ledger{}.Reserve(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.NoError(t, err)
	// the dateKey travels unmodified; "5_3_2025" must never be normalized
	assert.Equal(t, []any{"doc-1", "5_3_2025", "10:00 AM"}, db.lastArgs)
}

func TestReserveSlotTaken(t *testing.T) {
	// conflicting insert lands zero rows
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 0")}
	err := Ledger{}.Reserve(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestReserveStoreError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("boom")}
	err := Ledger{}.Reserve(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestRelease(t *testing.T) {
	// releasing an absent slot is still a no-error no-op
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 0")}
	err := Ledger{}.Release(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.NoError(t, err)
	assert.Equal(t, []any{"doc-1", "5_3_2025", "10:00 AM"}, db.lastArgs)
}

func TestIsAvailable(t *testing.T) {
	db := &fakeDB{rowTaken: false}
	ok, err := Ledger{}.IsAvailable(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.NoError(t, err)
	assert.True(t, ok, "missing date key is vacuously available")

	db.rowTaken = true
	ok, err = Ledger{}.IsAvailable(context.Background(), db, "doc-1", "5_3_2025", "10:00 AM")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotCache(t *testing.T) {
	c, err := NewSlotCache(true, 8)
	assert.NoError(t, err)

	_, ok := c.Get("doc-1")
	assert.False(t, ok)

	slots := map[string][]string{"5_3_2025": {"10:00 AM"}}
	c.Store("doc-1", slots)

	got, ok := c.Get("doc-1")
	assert.True(t, ok)
	assert.Equal(t, slots, got)

	c.Invalidate("doc-1")
	_, ok = c.Get("doc-1")
	assert.False(t, ok)
}

func TestSlotCacheDisabled(t *testing.T) {
	c, err := NewSlotCache(false, 8)
	assert.NoError(t, err)
	assert.Nil(t, c)

	// all operations are safe on the nil cache and behave as a miss
	c.Store("doc-1", map[string][]string{})
	_, ok := c.Get("doc-1")
	assert.False(t, ok)
	c.Invalidate("doc-1")
}
