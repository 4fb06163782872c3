package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shibuya crossing and a point roughly 120m north of it.
var (
	clinicFence = Geofence{Latitude: 35.659482, Longitude: 139.700556, RadiusMeters: 100}

	atCenter   = Capture{Latitude: 35.659482, Longitude: 139.700556, AccuracyMeters: 10}
	nearCenter = Capture{Latitude: 35.659900, Longitude: 139.700556, AccuracyMeters: 10} // ~46m
	farAway    = Capture{Latitude: 35.660560, Longitude: 139.700556, AccuracyMeters: 10} // ~120m
)

func TestHaversineDistance_ZeroForSamePoint(t *testing.T) {
	d := HaversineDistance(35.659482, 139.700556, 35.659482, 139.700556)
	assert.Equal(t, 0.0, d)
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// One degree of latitude is ~111.2km.
	d := HaversineDistance(35.0, 139.0, 36.0, 139.0)
	assert.InDelta(t, 111195, d, 200)
}

func TestClassify_AtCenterAlwaysWithin(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 50, 10000} {
		fence := Geofence{Latitude: atCenter.Latitude, Longitude: atCenter.Longitude, RadiusMeters: radius}
		result := Classify(&atCenter, &fence)
		require.NotNil(t, result.WithinGeofence)
		assert.True(t, *result.WithinGeofence, "radius %v", radius)
	}
}

func TestClassify_InsideRadius(t *testing.T) {
	result := Classify(&nearCenter, &clinicFence)
	require.NotNil(t, result.WithinGeofence)
	assert.True(t, *result.WithinGeofence)
	assert.Equal(t, TierPrecise, result.PrecisionTier)
}

func TestClassify_OutsideRadius(t *testing.T) {
	result := Classify(&farAway, &clinicFence)
	require.NotNil(t, result.WithinGeofence)
	assert.False(t, *result.WithinGeofence)
}

func TestClassify_NoCapture(t *testing.T) {
	result := Classify(nil, &clinicFence)
	assert.Nil(t, result.WithinGeofence)
	assert.Equal(t, TierImprecise, result.PrecisionTier)
}

func TestClassify_NoGeofence(t *testing.T) {
	result := Classify(&atCenter, nil)
	assert.Nil(t, result.WithinGeofence)
	assert.Equal(t, TierPrecise, result.PrecisionTier)
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify(&nearCenter, &clinicFence)
	second := Classify(&nearCenter, &clinicFence)
	require.NotNil(t, first.WithinGeofence)
	require.NotNil(t, second.WithinGeofence)
	assert.Equal(t, *first.WithinGeofence, *second.WithinGeofence)
	assert.Equal(t, first.PrecisionTier, second.PrecisionTier)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     PrecisionTier
	}{
		{5, TierPrecise},
		{19.9, TierPrecise},
		{20, TierNormal},
		{50, TierNormal},
		{50.1, TierImprecise},
		{300, TierImprecise},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}
