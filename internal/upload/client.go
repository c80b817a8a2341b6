package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Uploader stores an image somewhere public and returns its URL. The object
// store is an external collaborator; nothing local depends on how it works.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

var ErrNotConfigured = errors.New("image upload not configured")

// Client posts multipart uploads to an object-store HTTP endpoint and expects
// {"secure_url": "..."} back.
type Client struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

func NewClient(url, apiKey string) *Client {
	return &Client{URL: url, APIKey: apiKey, HTTP: http.DefaultClient}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.URL == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed: status %d", res.StatusCode)
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("upload response missing secure_url")
	}
	return out.SecureURL, nil
}
