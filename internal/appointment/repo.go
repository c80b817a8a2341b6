package appointment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/doctor"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/user"
)

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrAlreadyCancelled = errors.New("appointment already cancelled")
)

type Repository struct {
	Pool    *pgxpool.Pool
	Users   *user.Repository
	Doctors *doctor.Repository
	Ledger  doctor.Ledger
}

func NewRepository(pool *pgxpool.Pool, users *user.Repository, doctors *doctor.Repository) *Repository {
	return &Repository{Pool: pool, Users: users, Doctors: doctors}
}

// Book reserves the slot and creates the appointment record in a single
// transaction. The ledger's unique constraint arbitrates concurrent bookings
// of the same slot, and the transaction closes the window between reserving
// and recording: either both land or neither does.
func (r *Repository) Book(ctx context.Context, userID, docID, slotDate, slotTime string) (*Appointment, error) {
	doc, err := r.Doctors.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !doc.Available {
		return nil, doctor.ErrUnavailable
	}

	u, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// snapshots carry no secrets: both types hide hashes from JSON
	userSnap, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	docSnap, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := r.Ledger.Reserve(ctx, tx, docID, slotDate, slotTime); err != nil {
		return nil, err
	}

	apt := &Appointment{
		UserID:   userID,
		DocID:    docID,
		UserData: *u,
		DocData:  *doc,
		Amount:   doc.Fees,
		SlotDate: slotDate,
		SlotTime: slotTime,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO appointments
           (user_id, doctor_id, user_snapshot, doctor_snapshot, amount, slot_date, slot_time)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, booked_at`,
		userID, docID, userSnap, docSnap, doc.Fees, slotDate, slotTime,
	).Scan(&apt.ID, &apt.BookedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return apt, nil
}

// Cancel flips the cancelled flag and releases the slot, in that order, inside
// one transaction. Already-cancelled appointments are rejected so a double
// cancel cannot free a slot someone else has since booked.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var docID, slotDate, slotTime string
	err = tx.QueryRow(ctx,
		`UPDATE appointments SET cancelled=TRUE
         WHERE id=$1 AND cancelled=FALSE
         RETURNING doctor_id, slot_date, slot_time`, id,
	).Scan(&docID, &slotDate, &slotTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyCancelled
	}
	if err != nil {
		return err
	}

	if err := r.Ledger.Release(ctx, tx, docID, slotDate, slotTime); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ConfirmPayment(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE appointments SET payment=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return scanAppointment(r.Pool.QueryRow(ctx, selectAppointment+` WHERE id=$1`, id))
}

// ListByUser returns every appointment the user ever booked, cancelled ones
// included, in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	rows, err := r.Pool.Query(ctx,
		selectAppointment+` WHERE user_id=$1 ORDER BY booked_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Appointment, 0)
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *apt)
	}
	return out, rows.Err()
}

const selectAppointment = `
SELECT id, user_id, doctor_id, user_snapshot, doctor_snapshot,
       amount, slot_date, slot_time, cancelled, payment, booked_at
FROM appointments`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	apt := &Appointment{}
	var userSnap, docSnap []byte
	err := row.Scan(
		&apt.ID, &apt.UserID, &apt.DocID, &userSnap, &docSnap,
		&apt.Amount, &apt.SlotDate, &apt.SlotTime,
		&apt.Cancelled, &apt.Payment, &apt.BookedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(userSnap, &apt.UserData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docSnap, &apt.DocData); err != nil {
		return nil, err
	}
	return apt, nil
}
