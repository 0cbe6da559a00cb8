package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Zone es un grupo de rutas protegido por rol.
type Zone struct {
	Name  string
	Roles []string
	// Homes indica adónde redirigir según el rol de quien no pertenece.
	Homes map[string]string
}

type zoneError struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// RequireRole corta con 401 si no hay identidad y con 403 si el rol no
// pertenece a la zona. Ambos incluyen la ruta a la que debería ir el cliente.
func RequireRole(z Zone) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				writeZoneError(w, http.StatusUnauthorized, zoneError{Error: "unauthorized", Redirect: "/login"})
				return
			}
			if !claims.HasRole(z.Roles...) {
				redirect := z.Homes[claims.Role]
				if redirect == "" {
					redirect = "/login"
				}
				writeZoneError(w, http.StatusForbidden, zoneError{Error: "forbidden: " + z.Name + " zone", Redirect: redirect})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeZoneError(w http.ResponseWriter, status int, body zoneError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
