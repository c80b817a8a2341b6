package user

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/upload"
)

// Store is what the handler needs from persistence; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, name, email, passwordHash string) (string, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error
	SetImage(ctx context.Context, id, url string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Handler struct {
	Store    Store
	Tokens   TokenIssuer
	Uploader upload.Uploader
}

func NewHandler(store Store, tokens TokenIssuer, uploader upload.Uploader) *Handler {
	return &Handler{Store: store, Tokens: tokens, Uploader: uploader}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Missing Details")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, "Missing Details")
	}
	if !validEmail(req.Email) {
		return fail(c, "Invalid email")
	}
	if len(req.Password) < 8 {
		return fail(c, "Password too weak")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fail(c, "internal error")
	}

	id, err := h.Store.Create(userContext(c), req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fail(c, "User already exists")
		}
		log.Printf("register: %v", err)
		return fail(c, "internal error")
	}

	token, err := h.Tokens.Issue(id)
	if err != nil {
		return fail(c, "internal error")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Missing Details")
	}

	u, err := h.Store.GetByEmail(userContext(c), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(c, "User does not exist")
		}
		log.Printf("login: %v", err)
		return fail(c, "internal error")
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return fail(c, "Invalid credentials")
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		return fail(c, "internal error")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	u, err := h.Store.GetByID(userContext(c), auth.UserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(c, "User does not exist")
		}
		log.Printf("get-profile: %v", err)
		return fail(c, "internal error")
	}
	return c.JSON(fiber.Map{"success": true, "userData": u})
}

// UpdateProfile takes multipart form fields. The address field is a JSON
// string with line1/line2, matching what the web client sends. An optional
// image file goes through the upload collaborator and is patched separately.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	uid := auth.UserID(c)

	upd := ProfileUpdate{
		Name:   strings.TrimSpace(c.FormValue("name")),
		Phone:  strings.TrimSpace(c.FormValue("phone")),
		Gender: c.FormValue("gender"),
		DOB:    c.FormValue("dob"),
	}
	if upd.Name == "" || upd.Phone == "" || upd.DOB == "" || upd.Gender == "" {
		return fail(c, "Data Missing")
	}
	if raw := c.FormValue("address"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd.Address); err != nil {
			return fail(c, "Data Missing")
		}
	}

	if err := h.Store.UpdateProfile(userContext(c), uid, upd); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(c, "User does not exist")
		}
		log.Printf("update-profile: %v", err)
		return fail(c, "internal error")
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return fail(c, "Image upload failed")
		}
		defer f.Close()

		url, err := h.Uploader.Upload(userContext(c), fh.Filename, f)
		if err != nil {
			log.Printf("image upload: %v", err)
			return fail(c, "Image upload failed")
		}
		if err := h.Store.SetImage(userContext(c), uid, url); err != nil {
			log.Printf("set image: %v", err)
			return fail(c, "internal error")
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Profile Updated"})
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
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
