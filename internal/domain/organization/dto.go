package organization

// SettingsResponse is the read-only tenant configuration exposed to clients
// before they clock in.
type SettingsResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Timezone             string   `json:"timezone"`
	GeofenceLatitude     *float64 `json:"geofence_latitude,omitempty"`
	GeofenceLongitude    *float64 `json:"geofence_longitude,omitempty"`
	GeofenceRadiusMeters *float64 `json:"geofence_radius_meters,omitempty"`
	ShiftStart           *string  `json:"shift_start,omitempty"`
	ShiftEnd             *string  `json:"shift_end,omitempty"`
	GracePeriodMinutes   int      `json:"grace_period_minutes"`
	WeeklyOffDays        []int    `json:"weekly_off_days"`
}
