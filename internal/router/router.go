package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/appointment"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/billing"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/doctor"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/user"
)

type Router struct {
	Users        *user.Handler
	Doctors      *doctor.Handler
	Appointments *appointment.Handler
	Billing      *billing.Handler
	Verifier     auth.TokenVerifier
	AdminAPIKey  string
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	authed := auth.RequireUser(r.Verifier)

	u := app.Group("/api/user")
	u.Post("/register", RateLimitAuth(), r.Users.Register)
	u.Post("/login", RateLimitAuth(), r.Users.Login)
	u.Get("/get-profile", authed, r.Users.GetProfile)
	u.Post("/update-profile", authed, r.Users.UpdateProfile)

	u.Post("/book-appointment", authed, RateLimitWrite(), r.Appointments.Book)
	u.Get("/appointments", authed, r.Appointments.List)
	u.Post("/cancel-appointment", authed, r.Appointments.Cancel)

	u.Post("/payment-stripe", authed, r.Billing.PaymentStripe)
	u.Post("/payment-easypaisa", authed, r.Billing.PaymentEasyPaisa)
	u.Post("/payment-jazzcash", authed, r.Billing.PaymentJazzCash)
	u.Post("/verifyStripe", authed, r.Billing.VerifyStripe)
	u.Get("/receipt/:id", authed, r.Billing.Receipt)

	app.Get("/api/doctor/list", r.Doctors.List)

	app.Post("/api/admin/doctor-availability",
		RequireAdminKey(r.AdminAPIKey), r.Doctors.ChangeAvailability)
}
