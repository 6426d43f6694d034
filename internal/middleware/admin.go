package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"datawallet/internal/auth"
	"datawallet/internal/store"
)

type AdminStore interface {
	GetByID(ctx context.Context, adminID string) (store.Admin, error)
}

// RequireAdmin accepts only tokens carrying the admin role whose subject
// still exists in the admins table.
func RequireAdmin(admins AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			role, ok := RoleFromContext(r.Context())
			if !ok || role != auth.RoleAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			if _, err := admins.GetByID(r.Context(), adminID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					http.Error(w, "admin privileges required", http.StatusForbidden)
					return
				}
				http.Error(w, "unable to verify admin", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
