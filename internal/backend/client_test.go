package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirai-scheduler/internal/source"
)

func TestClientFreeAvailability(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			gotCookie = c.Value
		}
		switch r.URL.Path {
		case "/availability/free":
			w.Write([]byte(`[{"availability_slot_id":3,"employee_id":1,"datetime":"2025-10-20T12:00:00Z","type_id":2,"created_at":"","last_edited":""}]`))
		case "/booking_type/":
			w.Write([]byte(`[{"type_id":2,"title":"cut","description":"","fixed":true,"cost":1500}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-token")

	got, err := c.FreeAvailability(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(3), got[0].ID)
	assert.Equal(t, "2025-10-20T12:00:00Z", got[0].Datetime)
	assert.Equal(t, "service-token", gotCookie)

	types, err := c.BookingTypes(WithSession(context.Background(), "user-token"))
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.True(t, types[0].Fixed)
	assert.Equal(t, "user-token", gotCookie)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Bookings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestClientStatusErrorClassification(t *testing.T) {
	tests := []struct {
		code         int
		unauthorized bool
		rejected     bool
	}{
		{http.StatusUnauthorized, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusNotFound, false, true},
		{http.StatusInternalServerError, false, false},
		{http.StatusBadGateway, false, false},
	}
	for _, tt := range tests {
		code := tt.code
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		_, err := NewClient(srv.URL, "").FreeAvailability(context.Background())
		srv.Close()
		require.Error(t, err)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, tt.code, se.Code)
		assert.Equal(t, tt.unauthorized, errors.Is(err, source.ErrUnauthorized), tt.code)
		assert.Equal(t, tt.rejected, errors.Is(err, source.ErrRejected), tt.code)
	}
}

func TestSessionScope(t *testing.T) {
	assert.Empty(t, SessionScope(context.Background()))

	alice := SessionScope(WithSession(context.Background(), "alice"))
	bob := SessionScope(WithSession(context.Background(), "bob"))
	assert.NotEmpty(t, alice)
	assert.NotEqual(t, alice, bob)
	assert.NotContains(t, alice, "alice")
	assert.Equal(t, alice, SessionScope(WithSession(context.Background(), "alice")))
}
