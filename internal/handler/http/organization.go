package http

import (
	"net/http"

	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
	"github.com/medikarte/clinic-backend-go/internal/handler/http/response"
)

type OrganizationHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	settingsService organization.SettingsService
}

func NewOrganizationHandler(settingsService organization.SettingsService) OrganizationHandler {
	return &organizationHandlerImpl{
		settingsService: settingsService,
	}
}

// GetSettings implements OrganizationHandler.
func (h *organizationHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
