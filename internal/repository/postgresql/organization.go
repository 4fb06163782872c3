package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
	"github.com/medikarte/clinic-backend-go/internal/pkg/database"
)

type organizationSettingsRepository struct {
	db *database.DB
}

func NewOrganizationSettingsRepository(db *database.DB) organization.SettingsRepository {
	return &organizationSettingsRepository{db: db}
}

// GetByID implements organization.SettingsRepository.
func (o *organizationSettingsRepository) GetByID(ctx context.Context, organizationID string) (organization.Settings, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT id, name, timezone,
			   geofence_latitude, geofence_longitude, geofence_radius_meters,
			   shift_start, shift_end, grace_period_minutes, weekly_off_days,
			   created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var settings organization.Settings
	var offDays []int32
	err := q.QueryRow(ctx, query, organizationID).Scan(
		&settings.ID, &settings.Name, &settings.Timezone,
		&settings.GeofenceLatitude, &settings.GeofenceLongitude, &settings.GeofenceRadiusMeters,
		&settings.ShiftStart, &settings.ShiftEnd, &settings.GracePeriodMinutes, &offDays,
		&settings.CreatedAt, &settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Settings{}, organization.ErrOrganizationNotFound
		}
		return organization.Settings{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	settings.WeeklyOffDays = make([]int, 0, len(offDays))
	for _, d := range offDays {
		settings.WeeklyOffDays = append(settings.WeeklyOffDays, int(d))
	}

	return settings, nil
}
