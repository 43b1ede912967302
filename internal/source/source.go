// Package source fetches the records the slot engine works on and keeps the
// last good copy around for when the upstream is unavailable.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mirai-scheduler/internal/slots"
)

var (
	// ErrNoSnapshot is returned when the upstream fails before any fetch succeeded.
	ErrNoSnapshot = errors.New("no snapshot available")
	// ErrUnauthorized is wrapped by sources when the upstream rejects the caller.
	ErrUnauthorized = errors.New("upstream rejected credentials")
	// ErrRejected is wrapped by sources for any other refused request.
	ErrRejected = errors.New("upstream rejected request")
)

// Source is implemented by the backend REST client and the postgres repository.
type Source interface {
	FreeAvailability(ctx context.Context) ([]slots.AvailabilitySlot, error)
	BookingTypes(ctx context.Context) ([]slots.BookingType, error)
	Bookings(ctx context.Context) ([]slots.Booking, error)
	Ping(ctx context.Context) error
}

// Snapshot is one consistent fetch of everything the engine needs.
type Snapshot struct {
	Availability []slots.AvailabilitySlot `json:"availability"`
	BookingTypes []slots.BookingType      `json:"booking_types"`
	Bookings     []slots.Booking          `json:"bookings"`
	FetchedAt    time.Time                `json:"fetched_at"`
}

// BookingType looks a type up by id.
func (s *Snapshot) BookingType(id int32) (slots.BookingType, bool) {
	for _, bt := range s.BookingTypes {
		if bt.ID == id {
			return bt, true
		}
	}
	return slots.BookingType{}, false
}

// Store persists the last good snapshot per scope.
type Store interface {
	Load(ctx context.Context, scope string) (*Snapshot, error)
	Save(ctx context.Context, scope string, s *Snapshot) error
}

// Cached fetches a fresh snapshot on every call and falls back to the stored
// one when the upstream is unreachable or failing. A failed fetch never
// overwrites stored data, and a caller the upstream rejects gets the error.
type Cached struct {
	src    Source
	store  Store
	logger *zap.Logger
	now    func() time.Time

	// Scope partitions stored snapshots, e.g. by caller session. Nil means
	// one shared snapshot.
	Scope func(ctx context.Context) string
}

func NewCached(src Source, store Store, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{src: src, store: store, logger: logger, now: time.Now}
}

func (c *Cached) fetch(ctx context.Context) (*Snapshot, error) {
	availability, err := c.src.FreeAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}
	types, err := c.src.BookingTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching booking types: %w", err)
	}
	bookings, err := c.src.Bookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}
	return &Snapshot{
		Availability: availability,
		BookingTypes: types,
		Bookings:     bookings,
		FetchedAt:    c.now().UTC(),
	}, nil
}

func (c *Cached) scope(ctx context.Context) string {
	if c.Scope == nil {
		return ""
	}
	return c.Scope(ctx)
}

// Snapshot returns fresh data, or the last good snapshot of the caller's scope
// if the upstream is down. stale reports whether the fallback was used.
func (c *Cached) Snapshot(ctx context.Context) (snap *Snapshot, stale bool, err error) {
	scope := c.scope(ctx)
	fresh, fetchErr := c.fetch(ctx)
	if fetchErr == nil {
		if err := c.store.Save(ctx, scope, fresh); err != nil {
			c.logger.Warn("saving snapshot failed", zap.Error(err))
		}
		return fresh, false, nil
	}
	if errors.Is(fetchErr, ErrUnauthorized) || errors.Is(fetchErr, ErrRejected) {
		return nil, false, fetchErr
	}

	c.logger.Warn("upstream fetch failed, using last snapshot", zap.Error(fetchErr))
	last, err := c.store.Load(ctx, scope)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return nil, false, fmt.Errorf("%w: %w", ErrNoSnapshot, fetchErr)
		}
		return nil, false, fmt.Errorf("loading snapshot: %w (upstream: %v)", err, fetchErr)
	}
	return last, true, nil
}

func (c *Cached) Ping(ctx context.Context) error {
	return c.src.Ping(ctx)
}
