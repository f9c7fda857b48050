package middleware

import (
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
)

// RequireCompany rejects tokens that carry no company or an unknown role.
// Every payroll query is scoped by the company claim.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := jwt.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		if !actor.Role.IsValid() {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}

		next.ServeHTTP(w, r)
	})
}
