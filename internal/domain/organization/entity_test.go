package organization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestSettings_Location(t *testing.T) {
	t.Parallel()

	tokyo := Settings{Timezone: "Asia/Tokyo"}
	assert.Equal(t, "Asia/Tokyo", tokyo.Location().String())

	// Unknown zones degrade to UTC instead of failing the request.
	bogus := Settings{Timezone: "Mars/Olympus_Mons"}
	assert.Equal(t, time.UTC, bogus.Location())
}

func TestSettings_Geofence(t *testing.T) {
	t.Parallel()

	complete := Settings{
		GeofenceLatitude:     f64Ptr(35.659482),
		GeofenceLongitude:    f64Ptr(139.700556),
		GeofenceRadiusMeters: f64Ptr(100),
	}
	fence := complete.Geofence()
	require.NotNil(t, fence)
	assert.Equal(t, 100.0, fence.RadiusMeters)

	// Any missing coordinate disables the fence entirely.
	partial := complete
	partial.GeofenceRadiusMeters = nil
	assert.Nil(t, partial.Geofence())

	assert.Nil(t, Settings{}.Geofence())
}

func TestSettings_ShiftAnchoring(t *testing.T) {
	t.Parallel()

	settings := Settings{
		Timezone:   "Asia/Tokyo",
		ShiftStart: strPtr("09:00"),
		ShiftEnd:   strPtr("18:00"),
	}
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	start := settings.ShiftStartOn(day)
	require.NotNil(t, start)
	// 09:00 JST is midnight UTC.
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start.UTC())

	end := settings.ShiftEndOn(day)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), end.UTC())
}

func TestSettings_ShiftAnchoring_NoSchedule(t *testing.T) {
	t.Parallel()

	settings := Settings{Timezone: "UTC"}
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, settings.ShiftStartOn(day))
	assert.Nil(t, settings.ShiftEndOn(day))
}

func TestSettings_IsOffDay(t *testing.T) {
	t.Parallel()

	settings := Settings{WeeklyOffDays: []int{0, 6}} // Sunday, Saturday

	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, settings.IsOffDay(saturday))
	assert.True(t, settings.IsOffDay(sunday))
	assert.False(t, settings.IsOffDay(monday))

	assert.False(t, Settings{}.IsOffDay(sunday))
}
