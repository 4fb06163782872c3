package organization

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
)

type SettingsServiceImpl struct {
	settingsRepo organization.SettingsRepository
}

func NewSettingsService(settingsRepo organization.SettingsRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// GetSettings implements organization.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (organization.SettingsResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return organization.SettingsResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	organizationID, ok := claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return organization.SettingsResponse{}, fmt.Errorf("organization_id claim is missing or invalid")
	}

	settings, err := s.settingsRepo.GetByID(ctx, organizationID)
	if err != nil {
		return organization.SettingsResponse{}, err
	}

	return organization.SettingsResponse{
		ID:                   settings.ID,
		Name:                 settings.Name,
		Timezone:             settings.Timezone,
		GeofenceLatitude:     settings.GeofenceLatitude,
		GeofenceLongitude:    settings.GeofenceLongitude,
		GeofenceRadiusMeters: settings.GeofenceRadiusMeters,
		ShiftStart:           settings.ShiftStart,
		ShiftEnd:             settings.ShiftEnd,
		GracePeriodMinutes:   settings.GracePeriodMinutes,
		WeeklyOffDays:        settings.WeeklyOffDays,
	}, nil
}
