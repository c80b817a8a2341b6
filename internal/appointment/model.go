package appointment

import (
	"time"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/doctor"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/user"
)

// Appointment is an immutable booking record. UserData and DocData are
// copy-on-write snapshots taken at booking time (minus secrets), so later
// profile edits do not rewrite past bookings. Only the cancelled and payment
// flags ever change.
type Appointment struct {
	ID        string        `json:"_id"`
	UserID    string        `json:"userId"`
	DocID     string        `json:"docId"`
	UserData  user.User     `json:"userData"`
	DocData   doctor.Doctor `json:"docData"`
	Amount    int64         `json:"amount"`
	SlotDate  string        `json:"slotDate"`
	SlotTime  string        `json:"slotTime"`
	Cancelled bool          `json:"cancelled"`
	Payment   bool          `json:"payment"`
	BookedAt  time.Time     `json:"date"`
}
