package organization

import "context"

// SettingsService exposes tenant configuration reads.
type SettingsService interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)
}
