package billing

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/appointment"
)

// BuildReceiptPDF renders a one-page receipt from the appointment's booking
// snapshots, so it reflects the profiles as they were when the slot was
// booked, not as they are today.
func BuildReceiptPDF(apt *appointment.Appointment, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Appointment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Appointment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt No: %s", apt.ID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Booked: %s", apt.BookedAt.Format("2 Jan 2006 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Patient")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, apt.UserData.Name)
	pdf.Ln(6)
	pdf.Cell(0, 7, apt.UserData.Email)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Doctor")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, apt.DocData.Name)
	pdf.Ln(6)
	pdf.Cell(0, 7, apt.DocData.Speciality)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Visit")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", apt.SlotDate))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Time: %s", apt.SlotTime))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Amount Paid: %d %s", apt.Amount, currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
