package geo

import "math"

// PrecisionTier classifies the GPS accuracy of a capture. It is informational
// only and never blocks a clock event.
type PrecisionTier string

const (
	TierPrecise   PrecisionTier = "precise"
	TierNormal    PrecisionTier = "normal"
	TierImprecise PrecisionTier = "imprecise"
)

// Capture is a device GPS reading taken at clock time.
type Capture struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

// Geofence is the registered clinic location and allowed radius.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Result is the classification of one capture against one geofence.
// WithinGeofence is nil when no capture or no geofence was available; the
// clock event still proceeds in that case.
type Result struct {
	WithinGeofence *bool
	PrecisionTier  PrecisionTier
}

// Classify evaluates a capture against the clinic geofence. Either argument
// may be nil: GPS is a soft signal, absence of a fix or of a configured
// geofence must never block attendance capture.
func Classify(capture *Capture, fence *Geofence) Result {
	result := Result{PrecisionTier: TierImprecise}

	if capture == nil {
		return result
	}

	result.PrecisionTier = TierFor(capture.AccuracyMeters)

	if fence == nil || fence.RadiusMeters <= 0 {
		return result
	}

	distance := HaversineDistance(capture.Latitude, capture.Longitude, fence.Latitude, fence.Longitude)
	within := distance <= fence.RadiusMeters
	result.WithinGeofence = &within
	return result
}

// TierFor maps a reported GPS accuracy in meters to a precision tier:
// under 20m precise, 20-50m normal, above 50m imprecise.
func TierFor(accuracyMeters float64) PrecisionTier {
	switch {
	case accuracyMeters < 20:
		return TierPrecise
	case accuracyMeters <= 50:
		return TierNormal
	default:
		return TierImprecise
	}
}

// HaversineDistance returns the great-circle distance between two coordinates
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
