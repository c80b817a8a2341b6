package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// StripeClient creates Checkout sessions against the Stripe REST API. Only the
// session-create call is modelled; everything after the redirect happens on
// Stripe's side until the client calls back into verifyStripe.
type StripeClient struct {
	SecretKey string
	BaseURL   string
	HTTP      *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		SecretKey: secretKey,
		BaseURL:   "https://api.stripe.com",
		HTTP:      http.DefaultClient,
	}
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeError struct {
	Status int
	Body   string
}

func (e *stripeError) Error() string {
	return fmt.Sprintf("stripe: status %d", e.Status)
}

// CreateCheckoutSession builds a single-line-item payment session. amount is
// in the major currency unit; Stripe wants the minor unit.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, amount int64, currency, successURL, cancelURL string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amount*100, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Appointment Fees")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.SecretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return nil, &stripeError{Status: res.StatusCode, Body: string(body)}
	}

	var out CheckoutSession
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
