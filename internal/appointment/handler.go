package appointment

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/audit"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/doctor"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/events"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/user"
)

// Store is what the handler needs from persistence; *Repository satisfies it.
type Store interface {
	Book(ctx context.Context, userID, docID, slotDate, slotTime string) (*Appointment, error)
	Cancel(ctx context.Context, id string) error
	ConfirmPayment(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
}

type Handler struct {
	Store   Store
	Cache   *doctor.SlotCache
	Events  events.Publisher
	AuditDB *pgxpool.Pool
}

func NewHandler(store Store, cache *doctor.SlotCache, pub events.Publisher, auditDB *pgxpool.Pool) *Handler {
	return &Handler{Store: store, Cache: cache, Events: pub, AuditDB: auditDB}
}

type bookRequest struct {
	DocID    string `json:"docId"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
}

func (h *Handler) Book(c *fiber.Ctx) error {
	uid := auth.UserID(c)

	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Missing Details")
	}
	req.DocID = strings.TrimSpace(req.DocID)
	req.SlotDate = strings.TrimSpace(req.SlotDate)
	req.SlotTime = strings.TrimSpace(req.SlotTime)
	if req.DocID == "" || req.SlotDate == "" || req.SlotTime == "" {
		return fail(c, "Missing Details")
	}

	apt, err := h.Store.Book(userContext(c), uid, req.DocID, req.SlotDate, req.SlotTime)
	if err != nil {
		switch {
		case errors.Is(err, doctor.ErrUnavailable):
			return fail(c, "Doctor Not Available")
		case errors.Is(err, doctor.ErrSlotTaken):
			return fail(c, "Slot Not Available")
		case errors.Is(err, doctor.ErrNotFound):
			return fail(c, "Doctor not found")
		case errors.Is(err, user.ErrNotFound):
			return fail(c, "User does not exist")
		}
		log.Printf("book appointment: %v", err)
		return fail(c, "internal error")
	}

	h.Cache.Invalidate(req.DocID)
	h.publish(c, events.AppointmentBooked, apt)
	h.audit(c, audit.ActionBook, apt.ID, uid)

	return c.JSON(fiber.Map{"success": true, "message": "Appointment Booked"})
}

type cancelRequest struct {
	AppointmentID string `json:"appointmentId"`
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	uid := auth.UserID(c)

	var req cancelRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.AppointmentID) == "" {
		return fail(c, "Missing Details")
	}

	apt, err := h.Store.GetByID(userContext(c), req.AppointmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(c, "Appointment not found")
		}
		log.Printf("cancel appointment: %v", err)
		return fail(c, "internal error")
	}

	// ownership gate: only the booking user may cancel through this surface
	if apt.UserID != uid {
		return fail(c, "Unauthorized")
	}

	if err := h.Store.Cancel(userContext(c), apt.ID); err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return fail(c, "Appointment already cancelled")
		}
		log.Printf("cancel appointment: %v", err)
		return fail(c, "internal error")
	}

	h.Cache.Invalidate(apt.DocID)
	h.publish(c, events.AppointmentCancelled, apt)
	h.audit(c, audit.ActionCancel, apt.ID, uid)

	return c.JSON(fiber.Map{"success": true, "message": "Appointment Cancelled"})
}

func (h *Handler) List(c *fiber.Ctx) error {
	appointments, err := h.Store.ListByUser(userContext(c), auth.UserID(c))
	if err != nil {
		log.Printf("list appointments: %v", err)
		return fail(c, "internal error")
	}
	return c.JSON(fiber.Map{"success": true, "appointments": appointments})
}

// publish is fire-and-forget: a dead broker must not fail a booking.
func (h *Handler) publish(c *fiber.Ctx, typ string, apt *Appointment) {
	if h.Events == nil {
		return
	}
	ev := events.Event{
		Type:          typ,
		AppointmentID: apt.ID,
		UserID:        apt.UserID,
		DoctorID:      apt.DocID,
		SlotDate:      apt.SlotDate,
		SlotTime:      apt.SlotTime,
		At:            time.Now(),
	}
	if err := h.Events.Publish(userContext(c), ev); err != nil {
		log.Printf("publish %s: %v", typ, err)
	}
}

func (h *Handler) audit(c *fiber.Ctx, action audit.Action, aptID, uid string) {
	ip := c.IP()
	ua := c.Get("User-Agent")
	err := audit.Write(userContext(c), h.AuditDB, audit.Entry{
		UserID:     &uid,
		Action:     action,
		EntityType: "appointment",
		EntityID:   &aptID,
		IP:         &ip,
		UserAgent:  &ua,
	})
	if err != nil {
		log.Printf("audit %s: %v", action, err)
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
