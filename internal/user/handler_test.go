package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
)

// mockStore is a func-field mock of Store.
type mockStore struct {
	CreateFunc        func(ctx context.Context, name, email, passwordHash string) (string, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*User, error)
	GetByIDFunc       func(ctx context.Context, id string) (*User, error)
	UpdateProfileFunc func(ctx context.Context, id string, upd ProfileUpdate) error
	SetImageFunc      func(ctx context.Context, id, url string) error
}

var _ Store = (*mockStore)(nil)

func (m *mockStore) Create(ctx context.Context, name, email, passwordHash string) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, email, passwordHash)
	}
	return "", errors.New("CreateFunc not implemented in mock")
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrNotFound
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockStore) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, upd)
	}
	return nil
}

func (m *mockStore) SetImage(ctx context.Context, id, url string) error {
	if m.SetImageFunc != nil {
		return m.SetImageFunc(ctx, id, url)
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID string) (string, error) { return "token-for-" + userID, nil }

type fakeUploader struct {
	url string
	err error
}

func (f fakeUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	return f.url, f.err
}

func testApp(t *testing.T, store Store, uid string) *fiber.App {
	t.Helper()
	h := NewHandler(store, fakeIssuer{}, fakeUploader{url: "https://img.example.com/x.png"})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uid != "" {
			c.Locals("user_id", uid)
		}
		return c.Next()
	})
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Get("/get-profile", h.GetProfile)
	app.Post("/update-profile", h.UpdateProfile)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) map[string]any {
	t.Helper()
	b, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	assert.NoError(t, err)

	var body map[string]any
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestRegister(t *testing.T) {
	store := &mockStore{
		CreateFunc: func(ctx context.Context, name, email, passwordHash string) (string, error) {
			assert.Equal(t, "Test User", name)
			assert.Equal(t, "a@x.com", email)
			assert.NotEqual(t, "password123", passwordHash, "password must be stored hashed")
			return "user-1", nil
		},
	}
	app := testApp(t, store, "")

	body := postJSON(t, app, "/register",
		map[string]string{"name": "Test User", "email": "a@x.com", "password": "password123"})
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "token-for-user-1", body["token"])
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     map[string]string
		wantMsg string
	}{
		{"missing name", map[string]string{"email": "a@x.com", "password": "password123"}, "Missing Details"},
		{"missing email", map[string]string{"name": "X", "password": "password123"}, "Missing Details"},
		{"missing password", map[string]string{"name": "X", "email": "a@x.com"}, "Missing Details"},
		{"bad email", map[string]string{"name": "X", "email": "not-an-email", "password": "password123"}, "Invalid email"},
		{"short password", map[string]string{"name": "X", "email": "a@x.com", "password": "short"}, "Password too weak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t, &mockStore{}, "")
			body := postJSON(t, app, "/register", tt.req)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &mockStore{
		CreateFunc: func(context.Context, string, string, string) (string, error) {
			return "", ErrEmailTaken
		},
	}
	app := testApp(t, store, "")

	body := postJSON(t, app, "/register",
		map[string]string{"name": "X", "email": "a@x.com", "password": "password123"})
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User already exists", body["message"])
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	store := &mockStore{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email != "a@x.com" {
				return nil, ErrNotFound
			}
			return &User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	app := testApp(t, store, "")

	t.Run("success", func(t *testing.T) {
		body := postJSON(t, app, "/login", map[string]string{"email": "a@x.com", "password": "password123"})
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "token-for-user-1", body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		body := postJSON(t, app, "/login", map[string]string{"email": "a@x.com", "password": "password124"})
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		body := postJSON(t, app, "/login", map[string]string{"email": "b@x.com", "password": "password123"})
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User does not exist", body["message"])
	})
}

func TestGetProfileOmitsSecret(t *testing.T) {
	store := &mockStore{
		GetByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return &User{ID: id, Name: "Test User", Email: "a@x.com", PasswordHash: "bcrypt-hash"}, nil
		},
	}
	app := testApp(t, store, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/get-profile", nil)
	res, err := app.Test(req)
	assert.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "bcrypt-hash")

	var body map[string]any
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	userData := body["userData"].(map[string]any)
	assert.Equal(t, "Test User", userData["name"])
}

func TestUpdateProfile(t *testing.T) {
	var got ProfileUpdate
	store := &mockStore{
		UpdateProfileFunc: func(ctx context.Context, id string, upd ProfileUpdate) error {
			got = upd
			return nil
		},
	}
	app := testApp(t, store, "user-1")

	form := url.Values{}
	form.Set("name", "Test User")
	form.Set("phone", "0311234567")
	form.Set("dob", "1990-01-01")
	form.Set("gender", "Male")
	form.Set("address", `{"line1":"Street 1","line2":"Block B"}`)
	req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := app.Test(req)
	assert.NoError(t, err)

	var body map[string]any
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Profile Updated", body["message"])

	assert.Equal(t, "Test User", got.Name)
	assert.Equal(t, Address{Line1: "Street 1", Line2: "Block B"}, got.Address)
}

func TestUpdateProfileDataMissing(t *testing.T) {
	app := testApp(t, &mockStore{}, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader("name=Only+Name"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := app.Test(req)
	assert.NoError(t, err)

	var body map[string]any
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Data Missing", body["message"])
}
