package doctor

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSlotTaken   = errors.New("slot not available")
	ErrUnavailable = errors.New("doctor not available")
	ErrNotFound    = errors.New("doctor not found")
)

// DB is the slice of pgx that ledger operations need; both *pgxpool.Pool and
// pgx.Tx satisfy it, so a reserve can run inside a booking transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ledger is the per-doctor mapping of dateKey to booked times, backed by the
// booked_slots table. dateKey strings pass through untouched; "5_3_2025" and
// "05_03_2025" are different keys on purpose.
type Ledger struct{}

func (Ledger) IsAvailable(ctx context.Context, db DB, doctorID, dateKey, slotTime string) (bool, error) {
	var taken bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
           SELECT 1 FROM booked_slots
           WHERE doctor_id=$1 AND date_key=$2 AND slot_time=$3)`,
		doctorID, dateKey, slotTime,
	).Scan(&taken)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Reserve claims a slot in one round trip. The unique constraint arbitrates
// races: of two concurrent reserves for the same slot exactly one insert
// lands, the other sees zero rows and gets ErrSlotTaken.
func (Ledger) Reserve(ctx context.Context, db DB, doctorID, dateKey, slotTime string) error {
	tag, err := db.Exec(ctx,
		`INSERT INTO booked_slots (doctor_id, date_key, slot_time)
         VALUES ($1, $2, $3)
         ON CONFLICT (doctor_id, date_key, slot_time) DO NOTHING`,
		doctorID, dateKey, slotTime,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotTaken
	}
	return nil
}

// Release frees a slot. Releasing a slot that is not held is a no-op.
func (Ledger) Release(ctx context.Context, db DB, doctorID, dateKey, slotTime string) error {
	_, err := db.Exec(ctx,
		`DELETE FROM booked_slots
         WHERE doctor_id=$1 AND date_key=$2 AND slot_time=$3`,
		doctorID, dateKey, slotTime,
	)
	return err
}
