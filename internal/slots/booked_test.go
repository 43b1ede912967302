package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateKeys(ds []time.Time, loc *time.Location) map[string]bool {
	out := make(map[string]bool, len(ds))
	for _, d := range ds {
		out[DateKey(d, loc)] = true
	}
	return out
}

func TestBookedDates(t *testing.T) {
	today := time.Date(2025, 10, 20, 15, 0, 0, 0, time.UTC)
	qualifying := []AvailabilitySlot{slot(1, 1, 1, "2025-10-20T09:00:00Z")}

	booked := BookedDates(qualifying, today, time.UTC)
	keys := dateKeys(booked, time.UTC)

	assert.False(t, keys["2025-10-20"], "day with a slot must stay selectable")
	assert.True(t, keys["2025-10-21"], "day without slots must be disabled")
	assert.True(t, keys["2026-10-20"], "horizon end is inclusive")
	assert.False(t, keys["2026-10-21"])
	// 366 days in the window, one open
	assert.Len(t, booked, 365)
	assert.Equal(t, time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC), booked[0])
}

func TestBookedDatesIgnoresUnparseable(t *testing.T) {
	today := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	booked := BookedDates([]AvailabilitySlot{slot(1, 1, 1, "???")}, today, time.UTC)
	assert.Len(t, booked, 366)
}

func TestBookedDatesTimezoneBoundary(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 23:30Z on 2025-07-01 is 00:30 on 2025-07-02 in London (BST).
	qualifying := []AvailabilitySlot{slot(1, 1, 1, "2025-07-01T23:30:00Z")}
	today := time.Date(2025, 7, 1, 12, 0, 0, 0, london)

	keys := dateKeys(BookedDates(qualifying, today, london), london)
	assert.True(t, keys["2025-07-01"])
	assert.False(t, keys["2025-07-02"])

	utcKeys := dateKeys(BookedDates(qualifying, today, time.UTC), time.UTC)
	assert.False(t, utcKeys["2025-07-01"])
	assert.True(t, utcKeys["2025-07-02"])
}

func TestQualifyingSlots(t *testing.T) {
	input := []AvailabilitySlot{
		slot(1, 1, 1, "2025-10-20T09:00:00Z"),
		slot(2, 1, 1, "2025-10-20T09:30:00Z"),
		slot(3, 1, 1, "2025-10-21T09:00:00Z"),
		slot(4, 2, 1, "2025-10-22T09:00:00Z"),
		slot(5, 2, 1, "2025-10-22T09:30:00Z"),
		slot(6, 1, 2, "2025-10-23T09:00:00Z"),
		slot(7, 1, 1, "2025-10-24T18:00:00Z"),
	}
	employee, typeID := int32(1), int32(1)

	t.Run("employee, type and duration", func(t *testing.T) {
		got, err := QualifyingSlots(input, Criteria{EmployeeID: &employee, TypeID: &typeID, MinUnits: 2}, 30, time.UTC)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int32(1), got[0].ID)
	})

	t.Run("window", func(t *testing.T) {
		end := TimeOfDay{17, 0}
		got, err := QualifyingSlots(input, Criteria{TypeID: &typeID, WindowEnd: &end}, 30, time.UTC)
		require.NoError(t, err)
		var ids []int32
		for _, s := range got {
			ids = append(ids, s.ID)
		}
		assert.Equal(t, []int32{1, 2, 3, 4, 5}, ids)
	})

	t.Run("feeds booked dates", func(t *testing.T) {
		got, err := QualifyingSlots(input, Criteria{EmployeeID: &employee, TypeID: &typeID, MinUnits: 2}, 30, time.UTC)
		require.NoError(t, err)
		keys := dateKeys(BookedDates(got, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), time.UTC), time.UTC)
		assert.False(t, keys["2025-10-20"])
		assert.True(t, keys["2025-10-21"], "a single slot cannot hold a two unit booking")
	})

	t.Run("invalid unit", func(t *testing.T) {
		_, err := QualifyingSlots(input, Criteria{}, -1, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-10-20", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("20/10/2025", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
