package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirai-scheduler/internal/slots"
)

func newViper(overrides map[string]string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.Set("BACKEND_URL", "http://backend:8000/")
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://backend:8000", cfg.BackendURL)
	assert.Equal(t, slots.TimeOfDay{Hour: 9}, cfg.WorkingDay.Start)
	assert.Equal(t, slots.TimeOfDay{Hour: 17}, cfg.WorkingDay.End)
	assert.Equal(t, 30, cfg.WorkingDay.UnitMinutes)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 7*24*time.Hour, cfg.MaxPreviewSpan())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.GoogleEnabled())
}

func TestFromViperStaticTokens(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]string{"STATIC_TOKENS": " a, b ,,c"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.StaticTokens)
}

func TestFromViperInvalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{"non integer unit", map[string]string{"SLOT_UNIT_MINUTES": "thirty"}},
		{"zero unit", map[string]string{"SLOT_UNIT_MINUTES": "0"}},
		{"negative unit", map[string]string{"SLOT_UNIT_MINUTES": "-30"}},
		{"fractional hour", map[string]string{"WORKDAY_START_HOUR": "9.5"}},
		{"hour out of range", map[string]string{"WORKDAY_END_HOUR": "24"}},
		{"minute out of range", map[string]string{"WORKDAY_START_MINUTE": "60"}},
		{"start after end", map[string]string{"WORKDAY_START_HOUR": "18"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"bad port", map[string]string{"PORT": "http"}},
		{"zero preview days", map[string]string{"MAX_PREVIEW_DAYS": "0"}},
		{"both sources", map[string]string{"DATABASE_URL": "postgres://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.overrides))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	t.Run("no source", func(t *testing.T) {
		v := viper.New()
		setDefaults(v)
		_, err := FromViper(v)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}
