package user

import "time"

type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// User is a persisted patient record. PasswordHash never serializes; profile
// responses and appointment snapshots both go through this type.
type User struct {
	ID           string    `db:"id" json:"_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Image        string    `db:"image" json:"image"`
	Phone        string    `db:"phone" json:"phone"`
	Address      Address   `json:"address"`
	Gender       string    `db:"gender" json:"gender"`
	DOB          string    `db:"dob" json:"dob"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type ProfileUpdate struct {
	Name    string
	Phone   string
	Address Address
	Gender  string
	DOB     string
}
