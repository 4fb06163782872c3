package organization

import "context"

// SettingsRepository reads tenant configuration. This core never writes it.
type SettingsRepository interface {
	GetByID(ctx context.Context, organizationID string) (Settings, error)
}
