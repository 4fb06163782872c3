package organization

import (
	"time"

	"github.com/medikarte/clinic-backend-go/internal/pkg/geo"
)

// Settings is the tenant configuration this core consumes. It is owned by the
// organization management subsystem and read-only here.
type Settings struct {
	ID       string
	Name     string
	Timezone string // IANA name, e.g. "Asia/Tokyo"

	// Geofence; all three must be set for geofence checks to apply
	GeofenceLatitude     *float64
	GeofenceLongitude    *float64
	GeofenceRadiusMeters *float64

	// Scheduled shift, wall-clock "HH:MM" in the tenant timezone; nil means
	// no schedule is configured and every clock-in is on time
	ShiftStart *string
	ShiftEnd   *string

	GracePeriodMinutes int

	// WeeklyOffDays holds time.Weekday values (0 = Sunday)
	WeeklyOffDays []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the tenant's time.Location, falling back to UTC when the
// stored zone name is unknown to the host.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Geofence returns the configured fence, or nil when incomplete.
func (s Settings) Geofence() *geo.Geofence {
	if s.GeofenceLatitude == nil || s.GeofenceLongitude == nil || s.GeofenceRadiusMeters == nil {
		return nil
	}
	return &geo.Geofence{
		Latitude:     *s.GeofenceLatitude,
		Longitude:    *s.GeofenceLongitude,
		RadiusMeters: *s.GeofenceRadiusMeters,
	}
}

// ShiftStartOn anchors the configured shift start to the given calendar day
// in the tenant timezone. Nil when no schedule is configured.
func (s Settings) ShiftStartOn(day time.Time) *time.Time {
	return anchorClockTime(s.ShiftStart, day, s.Location())
}

// ShiftEndOn anchors the configured shift end to the given calendar day in
// the tenant timezone. Nil when no schedule is configured.
func (s Settings) ShiftEndOn(day time.Time) *time.Time {
	return anchorClockTime(s.ShiftEnd, day, s.Location())
}

// IsOffDay reports whether the weekday of day is a configured weekly off-day.
func (s Settings) IsOffDay(day time.Time) bool {
	weekday := int(day.Weekday())
	for _, off := range s.WeeklyOffDays {
		if off == weekday {
			return true
		}
	}
	return false
}

func anchorClockTime(clock *string, day time.Time, loc *time.Location) *time.Time {
	if clock == nil {
		return nil
	}
	parsed, err := time.Parse("15:04", *clock)
	if err != nil {
		return nil
	}
	anchored := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	return &anchored
}
