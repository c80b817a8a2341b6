package doctor

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const selectDoctor = `
SELECT id, name, email, speciality, degree, experience, about,
       fees, available, image, address_line1, address_line2, created_at
FROM doctors`

func (r *Repository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return scanDoctor(r.Pool.QueryRow(ctx, selectDoctor+` WHERE id = $1`, id))
}

// List returns catalog rows ordered by name. Slot maps are filled in by the
// caller so they can come from the cache.
func (r *Repository) List(ctx context.Context) ([]Doctor, error) {
	rows, err := r.Pool.Query(ctx, selectDoctor+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// SlotsBooked materializes the ledger rows for one doctor into the
// dateKey -> times mapping the catalog exposes.
func (r *Repository) SlotsBooked(ctx context.Context, doctorID string) (map[string][]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT date_key, slot_time FROM booked_slots
         WHERE doctor_id = $1
         ORDER BY created_at`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make(map[string][]string)
	for rows.Next() {
		var dateKey, slotTime string
		if err := rows.Scan(&dateKey, &slotTime); err != nil {
			return nil, err
		}
		slots[dateKey] = append(slots[dateKey], slotTime)
	}
	return slots, rows.Err()
}

func (r *Repository) SetAvailability(ctx context.Context, id string, available bool) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE doctors SET available=$1 WHERE id=$2`, available, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	d := &Doctor{}
	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.Speciality, &d.Degree, &d.Experience,
		&d.About, &d.Fees, &d.Available, &d.Image,
		&d.Address.Line1, &d.Address.Line2, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
