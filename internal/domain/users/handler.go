package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"laikavet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Sessions abre y cierra sesiones para una identidad autenticada.
type Sessions interface {
	Open(ctx context.Context, id Identity) (string, error)
	Close(ctx context.Context, token string) error
}

// RegisterAuthRoutes monta login, registro, logout y /me bajo /auth.
func RegisterAuthRoutes(r chi.Router, svc *Service, sessions Sessions) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, sessions))
		ar.Post("/register", registerHandler(svc, sessions))
		ar.Post("/logout", logoutHandler(sessions))
		ar.Get("/me", meHandler())
	})
}

// RegisterDirectoryRoutes expone el listado de veterinarios al staff.
func RegisterDirectoryRoutes(r chi.Router, svc *Service) {
	r.Get("/vets", listVetsHandler(svc))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string   `json:"token"`
	User     Identity `json:"user"`
	Redirect string   `json:"redirect"`
}

// loginHandler godoc
// @Summary  Iniciar sesión
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body  loginRequest  true  "Credenciales"
// @Success  200  {object}  sessionResponse
// @Failure  401  {string}  string  "invalid email or password"
// @Router   /auth/login [post]
func loginHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		openSession(w, r, sessions, id, http.StatusOK)
	}
}

// registerHandler godoc
// @Summary  Registrarse como cliente
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body  registerRequest  true  "Datos de registro"
// @Success  201  {object}  sessionResponse
// @Failure  400  {string}  string  "invalid input"
// @Failure  409  {string}  string  "email already registered"
// @Router   /auth/register [post]
func registerHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id, err := svc.Register(r.Context(), RegisterInput(req))
		if err != nil {
			writeError(w, err)
			return
		}
		openSession(w, r, sessions, id, http.StatusCreated)
	}
}

// logoutHandler godoc
// @Summary  Cerrar sesión
// @Tags     auth
// @Security BearerAuth
// @Success  204
// @Router   /auth/logout [post]
func logoutHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := sessions.Close(r.Context(), token); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary  Usuario de la sesión
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200  {object}  Identity
// @Failure  401  {string}  string  "unauthorized"
// @Router   /auth/me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, Identity{
			ID:     claims.UserID,
			Name:   claims.Name,
			Email:  claims.Email,
			Role:   Role(claims.Role),
			Avatar: claims.Avatar,
		})
	}
}

type vetResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// listVetsHandler godoc
// @Summary  Veterinarios
// @Tags     users
// @Produce  json
// @Success  200  {array}  vetResponse
// @Router   /admin/vets [get]
func listVetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vets, err := svc.ListByRole(r.Context(), RoleVeterinarian)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]vetResponse, 0, len(vets))
		for _, v := range vets {
			out = append(out, vetResponse{ID: v.ID, Name: v.Name, Avatar: v.Avatar})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func openSession(w http.ResponseWriter, r *http.Request, sessions Sessions, id Identity, status int) {
	token, err := sessions.Open(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, sessionResponse{
		Token:    token,
		User:     id,
		Redirect: id.Role.Home(),
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAuthenticationFailure):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
