package billing

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/appointment"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/audit"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/events"
)

// AppointmentStore is the slice of the appointment store payments need.
type AppointmentStore interface {
	GetByID(ctx context.Context, id string) (*appointment.Appointment, error)
	ConfirmPayment(ctx context.Context, id string) error
}

type Handler struct {
	Store    AppointmentStore
	Stripe   *StripeClient
	Currency string
	Events   events.Publisher
	AuditDB  *pgxpool.Pool
}

func NewHandler(store AppointmentStore, stripe *StripeClient, currency string, pub events.Publisher, auditDB *pgxpool.Pool) *Handler {
	return &Handler{Store: store, Stripe: stripe, Currency: currency, Events: pub, AuditDB: auditDB}
}

type paymentRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// payable loads the appointment and rejects missing or cancelled ones with the
// shared provider-side message. No state changes here; that waits for verify.
func (h *Handler) payable(c *fiber.Ctx) (*appointment.Appointment, error) {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.AppointmentID) == "" {
		return nil, errors.New("missing appointment id")
	}

	apt, err := h.Store.GetByID(userContext(c), req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Cancelled {
		return nil, appointment.ErrNotFound
	}
	return apt, nil
}

func (h *Handler) PaymentStripe(c *fiber.Ctx) error {
	apt, err := h.payable(c)
	if err != nil {
		return fail(c, "Appointment Cancelled or not found")
	}

	origin := c.Get("Origin")
	if origin == "" {
		origin = c.BaseURL()
	}
	session, err := h.Stripe.CreateCheckoutSession(userContext(c), apt.Amount, h.Currency,
		origin+"/verify?success=true&appointmentId="+apt.ID,
		origin+"/verify?success=false&appointmentId="+apt.ID,
	)
	if err != nil {
		log.Printf("stripe session: %v", err)
		return fail(c, "Payment gateway error")
	}

	return c.JSON(fiber.Map{"success": true, "session_url": session.URL})
}

func (h *Handler) PaymentEasyPaisa(c *fiber.Ctx) error {
	apt, err := h.payable(c)
	if err != nil {
		return fail(c, "Appointment Cancelled or not found")
	}
	return c.JSON(fiber.Map{"success": true, "payment_url": EasyPaisaURL(apt.ID)})
}

func (h *Handler) PaymentJazzCash(c *fiber.Ctx) error {
	apt, err := h.payable(c)
	if err != nil {
		return fail(c, "Appointment Cancelled or not found")
	}
	return c.JSON(fiber.Map{"success": true, "payment_url": JazzCashURL(apt.ID, apt.Amount)})
}

type verifyRequest struct {
	AppointmentID string `json:"appointmentId"`
	Success       string `json:"success"`
}

// VerifyStripe is the post-redirect callback. success arrives as the string
// the web client pulled out of the redirect query.
func (h *Handler) VerifyStripe(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.AppointmentID) == "" {
		return fail(c, "Missing Details")
	}

	if req.Success != "true" {
		return fail(c, "Payment Failed")
	}

	if err := h.Store.ConfirmPayment(userContext(c), req.AppointmentID); err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return fail(c, "Appointment not found")
		}
		log.Printf("confirm payment: %v", err)
		return fail(c, "internal error")
	}

	h.publishPaid(c, req.AppointmentID)
	h.auditPaid(c, req.AppointmentID)

	return c.JSON(fiber.Map{"success": true, "message": "Payment Successful"})
}

// Receipt renders a PDF receipt for the caller's own paid appointment.
func (h *Handler) Receipt(c *fiber.Ctx) error {
	apt, err := h.Store.GetByID(userContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return fail(c, "Appointment not found")
		}
		log.Printf("receipt lookup: %v", err)
		return fail(c, "internal error")
	}
	if apt.UserID != auth.UserID(c) {
		return fail(c, "Unauthorized")
	}
	if !apt.Payment {
		return fail(c, "Payment not completed")
	}

	pdf, err := BuildReceiptPDF(apt, h.Currency)
	if err != nil {
		log.Printf("receipt pdf: %v", err)
		return fail(c, "internal error")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="receipt-`+apt.ID+`.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) publishPaid(c *fiber.Ctx, aptID string) {
	if h.Events == nil {
		return
	}
	apt, err := h.Store.GetByID(userContext(c), aptID)
	if err != nil {
		return
	}
	ev := events.Event{
		Type:          events.AppointmentPaid,
		AppointmentID: apt.ID,
		UserID:        apt.UserID,
		DoctorID:      apt.DocID,
		SlotDate:      apt.SlotDate,
		SlotTime:      apt.SlotTime,
		At:            time.Now(),
	}
	if err := h.Events.Publish(userContext(c), ev); err != nil {
		log.Printf("publish %s: %v", ev.Type, err)
	}
}

func (h *Handler) auditPaid(c *fiber.Ctx, aptID string) {
	uid := auth.UserID(c)
	ip := c.IP()
	err := audit.Write(userContext(c), h.AuditDB, audit.Entry{
		UserID:     &uid,
		Action:     audit.ActionPaymentConfirm,
		EntityType: "appointment",
		EntityID:   &aptID,
		IP:         &ip,
	})
	if err != nil {
		log.Printf("audit %s: %v", audit.ActionPaymentConfirm, err)
	}
}

func fail(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": false, "message": msg})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
