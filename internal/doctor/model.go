package doctor

import "time"

type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Doctor is a catalog entry. SlotsBooked maps a dateKey (raw day_month_year
// string, e.g. "5_3_2025") to the times already taken on that day; it is
// materialized from the booked_slots ledger, not stored on the row.
type Doctor struct {
	ID          string              `db:"id" json:"_id"`
	Name        string              `db:"name" json:"name"`
	Email       string              `db:"email" json:"email"`
	Speciality  string              `db:"speciality" json:"speciality"`
	Degree      string              `db:"degree" json:"degree"`
	Experience  string              `db:"experience" json:"experience"`
	About       string              `db:"about" json:"about"`
	Fees        int64               `db:"fees" json:"fees"`
	Available   bool                `db:"available" json:"available"`
	Image       string              `db:"image" json:"image"`
	Address     Address             `json:"address"`
	SlotsBooked map[string][]string `json:"slots_booked"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
}
