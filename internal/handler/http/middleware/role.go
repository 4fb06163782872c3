package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/medikarte/clinic-backend-go/internal/domain/staff"
	"github.com/medikarte/clinic-backend-go/internal/handler/http/response"
)

// RequireApprover admits only roles with the approver capability. Review and
// approve-all stay behind this; the capability itself is resolved by the
// identity collaborator and carried in the token.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, staff.ErrApproverAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, staff.ErrApproverAccessRequired)
			return
		}

		if !staff.Role(roleStr).CanReview() {
			response.HandleError(w, staff.ErrApproverAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
