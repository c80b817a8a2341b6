package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Create inserts a new user and returns its id. Duplicate emails surface as
// ErrEmailTaken via the unique index, so concurrent registrations race safely.
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
         VALUES ($1, LOWER($2), $3)
         RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return id, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.Pool.QueryRow(ctx,
		selectUser+` WHERE email = LOWER($1)`, strings.TrimSpace(email)))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(r.Pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE users
         SET name=$1, phone=$2, address_line1=$3, address_line2=$4,
             gender=$5, dob=$6, updated_at=NOW()
         WHERE id=$7`,
		upd.Name, upd.Phone, upd.Address.Line1, upd.Address.Line2,
		upd.Gender, upd.DOB, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImage patches the stored image URL after a successful upload; it is a
// separate write so a failed upload leaves the rest of the profile updated.
func (r *Repository) SetImage(ctx context.Context, id, url string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE users SET image=$1, updated_at=NOW() WHERE id=$2`, url, id)
	return err
}

const selectUser = `
SELECT id, name, email, password_hash, image, phone,
       address_line1, address_line2, gender, dob, created_at, updated_at
FROM users`

func (r *Repository) scanOne(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &u.Phone,
		&u.Address.Line1, &u.Address.Line2, &u.Gender, &u.DOB,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
