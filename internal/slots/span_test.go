package slots

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanToSlots(t *testing.T) {
	start := time.Date(2025, 9, 8, 14, 0, 0, 0, time.UTC)

	t.Run("base", func(t *testing.T) {
		t.Parallel()
		got, err := SpanToSlots(start, start.Add(time.Hour), 30, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{start, start.Add(30 * time.Minute)}, got)
	})

	t.Run("exactly max", func(t *testing.T) {
		t.Parallel()
		got, err := SpanToSlots(start, start.Add(24*time.Hour), 30, 24*time.Hour)
		require.NoError(t, err)
		assert.Len(t, got, 48)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			name       string
			start, end time.Time
			unit       int
		}{
			{"end before start", start.Add(time.Hour), start, 30},
			{"equal", start, start, 30},
			{"seconds", start.Add(time.Second), start.Add(time.Hour), 30},
			{"misaligned", start.Add(15 * time.Minute), start.Add(time.Hour), 30},
			{"zero unit", start, start.Add(time.Hour), 0},
			{"longer than max", start, start.AddDate(0, 0, 8), 30},
			{"century", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC), 30},
		}
		for _, c := range cases {
			_, err := SpanToSlots(c.start, c.end, c.unit, 7*24*time.Hour)
			assert.ErrorIs(t, err, ErrInvalidArgument, c.name)
		}
	})
}

func TestCost(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(100), Cost(BookingType{Cost: 100, Fixed: true}, 10))
	})
	t.Run("per unit", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(500), Cost(BookingType{Cost: 100}, 5))
	})
	t.Run("zero duration", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(0), Cost(BookingType{Cost: 50}, 0))
	})
	t.Run("beyond int32", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(5_000_000_000), Cost(BookingType{Cost: 5000}, 1_000_000))
		assert.Equal(t, int64(math.MaxInt32)*3_000_000_000, Cost(BookingType{Cost: math.MaxInt32}, 3_000_000_000))
	})
}

func TestUnitsPerDay(t *testing.T) {
	assert.Equal(t, 48, UnitsPerDay(30))
	assert.Equal(t, 96, UnitsPerDay(15))
	assert.Equal(t, 0, UnitsPerDay(0))
}

func TestBookingTypeUnits(t *testing.T) {
	assert.Equal(t, 1, BookingType{}.Units())
	assert.Equal(t, 3, BookingType{Duration: 3}.Units())
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2025-10-20T12:00:00Z", "2025-10-20T12:00:00+01:00", "2025-10-20T12:00:00", "2025-10-20 12:00:00"} {
		_, ok := ParseTimestamp(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseTimestamp("")
	assert.False(t, ok)
	_, ok = AvailabilitySlot{Datetime: "yesterday"}.Time()
	assert.False(t, ok)
}
