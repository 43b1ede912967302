package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(id, employee, typeID int32, datetime string) AvailabilitySlot {
	return AvailabilitySlot{ID: id, EmployeeID: employee, TypeID: typeID, Datetime: datetime}
}

func TestGenerateOptions(t *testing.T) {
	t.Run("half hours", func(t *testing.T) {
		got, err := GenerateOptions(TimeOfDay{9, 0}, TimeOfDay{11, 0}, 30)
		require.NoError(t, err)
		assert.Equal(t, []TimeOfDay{{9, 0}, {9, 30}, {10, 0}, {10, 30}}, got)
	})

	t.Run("start minute skips early options", func(t *testing.T) {
		got, err := GenerateOptions(TimeOfDay{9, 30}, TimeOfDay{10, 30}, 30)
		require.NoError(t, err)
		assert.Equal(t, []TimeOfDay{{9, 30}}, got)
	})

	t.Run("same hour is empty", func(t *testing.T) {
		got, err := GenerateOptions(TimeOfDay{9, 0}, TimeOfDay{9, 45}, 15)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("step not dividing the hour restarts at zero", func(t *testing.T) {
		got, err := GenerateOptions(TimeOfDay{9, 0}, TimeOfDay{11, 0}, 45)
		require.NoError(t, err)
		assert.Equal(t, []TimeOfDay{{9, 0}, {9, 45}, {10, 0}, {10, 45}}, got)
	})

	t.Run("non positive step", func(t *testing.T) {
		_, err := GenerateOptions(TimeOfDay{9, 0}, TimeOfDay{17, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = GenerateOptions(TimeOfDay{9, 0}, TimeOfDay{17, 0}, -30)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestGenerateOptionsAscendingAndBounded(t *testing.T) {
	start, end := TimeOfDay{8, 15}, TimeOfDay{18, 40}
	for step := 1; step <= 90; step++ {
		got, err := GenerateOptions(start, end, step)
		require.NoError(t, err)
		for i, o := range got {
			require.False(t, o.Before(start), "step %d: %s before start", step, o)
			require.False(t, o.After(end), "step %d: %s after end", step, o)
			if i > 0 {
				require.True(t, got[i-1].Before(o), "step %d: not strictly ascending at %d", step, i)
			}
		}
	}
}

func TestOptionsFromSlots(t *testing.T) {
	input := []AvailabilitySlot{
		slot(4, 1, 1, "2025-10-21T09:00:00Z"),
		slot(1, 1, 1, "2025-10-20T09:00:00Z"),
		slot(2, 1, 1, "2025-10-20T09:30:00Z"),
		slot(3, 1, 1, "2025-10-20T10:00:00Z"),
		slot(5, 1, 1, "not a timestamp"),
		slot(6, 1, 1, "2025-10-20T18:00:00Z"),
		slot(7, 2, 1, "2025-10-20T09:30:00Z"),
	}
	day := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	got, err := OptionsFromSlots(TimeOfDay{9, 0}, TimeOfDay{17, 0}, input, &day, 30, time.UTC)
	require.NoError(t, err)

	var ids []int32
	var times []string
	var durations []int
	for _, o := range got {
		ids = append(ids, o.SlotID)
		times = append(times, o.String())
		durations = append(durations, o.Duration)
	}
	assert.Equal(t, []int32{1, 2, 3, 7}, ids)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "09:30"}, times)
	assert.Equal(t, []int{3, 2, 1, 1}, durations)
}

func TestOptionsFromSlotsWithoutDate(t *testing.T) {
	input := []AvailabilitySlot{
		slot(1, 1, 1, "2025-10-20T09:00:00Z"),
		slot(2, 1, 1, "2025-10-21T09:00:00Z"),
	}
	got, err := OptionsFromSlots(TimeOfDay{9, 0}, TimeOfDay{17, 0}, input, nil, 30, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// not deduplicated
	assert.Equal(t, got[0].TimeOfDay, got[1].TimeOfDay)
}

func TestOptionsFromSlotsLocalTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 02:00Z on the 21st is 22:00 on the 20th in New York.
	input := []AvailabilitySlot{slot(1, 1, 1, "2025-10-21T02:00:00Z")}
	day := time.Date(2025, 10, 20, 0, 0, 0, 0, ny)

	got, err := OptionsFromSlots(TimeOfDay{0, 0}, TimeOfDay{23, 30}, input, &day, 30, ny)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TimeOfDay{22, 0}, got[0].TimeOfDay)
}

func TestOptionsFromSlotsInvalidUnit(t *testing.T) {
	_, err := OptionsFromSlots(TimeOfDay{9, 0}, TimeOfDay{17, 0}, nil, nil, 0, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFilterMinDuration(t *testing.T) {
	opts := []SlotOption{{SlotID: 1, Duration: 1}, {SlotID: 2, Duration: 3}, {SlotID: 3, Duration: 2}}
	got := FilterMinDuration(opts, 2)
	require.Len(t, got, 2)
	assert.Equal(t, int32(2), got[0].SlotID)
	assert.Equal(t, int32(3), got[1].SlotID)
}
