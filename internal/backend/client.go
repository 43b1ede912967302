package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"mirai-scheduler/internal/slots"
	"mirai-scheduler/internal/source"
)

// SessionCookie is the cookie the Mirai backend authenticates with.
const SessionCookie = "miraiSessionToken"

type sessionKey struct{}

// WithSession attaches a caller's session token; it takes precedence over the
// client's own token for requests made with the returned context.
func WithSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, token)
}

// SessionFrom returns the token set by WithSession, if any.
func SessionFrom(ctx context.Context) string {
	t, _ := ctx.Value(sessionKey{}).(string)
	return t
}

// SessionScope names the snapshot scope of the session in ctx: a digest of the
// token, or "" when the client's own token is used.
func SessionScope(ctx context.Context) string {
	t := SessionFrom(ctx)
	if t == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:16])
}

// StatusError is a non-2xx backend response. 401 and 403 unwrap to
// source.ErrUnauthorized and other 4xx to source.ErrRejected, so callers do
// not fall back to cached data for them.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s status=%d, body=%s", e.Path, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return source.ErrUnauthorized
	case e.Code >= 400 && e.Code < 500:
		return source.ErrRejected
	}
	return nil
}

// Client talks to the Mirai REST backend.
type Client struct {
	BaseURL      string
	SessionToken string
	HTTP         *http.Client
}

func NewClient(baseURL, sessionToken string) *Client {
	return &Client{
		BaseURL:      baseURL,
		SessionToken: sessionToken,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	token := c.SessionToken
	if t := SessionFrom(ctx); t != "" {
		token = t
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Path: path, Code: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// FreeAvailability returns slots not yet claimed by a booking.
func (c *Client) FreeAvailability(ctx context.Context) ([]slots.AvailabilitySlot, error) {
	var out []slots.AvailabilitySlot
	if err := c.get(ctx, "/availability/free", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookingTypes(ctx context.Context) ([]slots.BookingType, error) {
	var out []slots.BookingType
	if err := c.get(ctx, "/booking_type/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Bookings(ctx context.Context) ([]slots.Booking, error) {
	var out []slots.Booking
	if err := c.get(ctx, "/booking", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/readyz", nil)
}
