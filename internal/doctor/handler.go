package doctor

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Catalog is what the handler needs from persistence; *Repository satisfies it.
type Catalog interface {
	List(ctx context.Context) ([]Doctor, error)
	SlotsBooked(ctx context.Context, doctorID string) (map[string][]string, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type Handler struct {
	Catalog Catalog
	Cache   *SlotCache
}

func NewHandler(catalog Catalog, cache *SlotCache) *Handler {
	return &Handler{Catalog: catalog, Cache: cache}
}

// List serves the public doctor catalog. Email stays visible (it is contact
// information here, not a credential); slot maps come from the cache when
// warm.
func (h *Handler) List(c *fiber.Ctx) error {
	ctx := userContext(c)

	doctors, err := h.Catalog.List(ctx)
	if err != nil {
		log.Printf("doctor list: %v", err)
		return c.JSON(fiber.Map{"success": false, "message": "internal error"})
	}

	for i := range doctors {
		slots, ok := h.Cache.Get(doctors[i].ID)
		if !ok {
			slots, err = h.Catalog.SlotsBooked(ctx, doctors[i].ID)
			if err != nil {
				log.Printf("doctor slots: %v", err)
				return c.JSON(fiber.Map{"success": false, "message": "internal error"})
			}
			h.Cache.Store(doctors[i].ID, slots)
		}
		doctors[i].SlotsBooked = slots
	}

	return c.JSON(fiber.Map{"success": true, "doctors": doctors})
}

type availabilityRequest struct {
	DocID     string `json:"docId"`
	Available bool   `json:"available"`
}

// ChangeAvailability flips the doctor's global available flag. Admin-key
// guarded; the patient API has no write access to doctors.
func (h *Handler) ChangeAvailability(c *fiber.Ctx) error {
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.DocID) == "" {
		return c.JSON(fiber.Map{"success": false, "message": "Missing Details"})
	}

	if err := h.Catalog.SetAvailability(userContext(c), req.DocID, req.Available); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"success": false, "message": "Doctor not found"})
		}
		log.Printf("change availability: %v", err)
		return c.JSON(fiber.Map{"success": false, "message": "internal error"})
	}

	h.Cache.Invalidate(req.DocID)
	return c.JSON(fiber.Map{"success": true, "message": "Availability Changed"})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
