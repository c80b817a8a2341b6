package billing

import "fmt"

// The wallet providers are redirect stubs: each returns a hosted payment URL
// computed from the appointment, and confirmation arrives later through the
// provider's own verify callback.

const (
	easyPaisaBase = "https://easypaisa.example.com/pay"
	jazzCashBase  = "https://jazzcash.example.com/pay"
)

func EasyPaisaURL(appointmentID string) string {
	return fmt.Sprintf("%s?appointmentId=%s", easyPaisaBase, appointmentID)
}

func JazzCashURL(appointmentID string, amount int64) string {
	return fmt.Sprintf("%s?appointmentId=%s&amount=%d", jazzCashBase, appointmentID, amount)
}
