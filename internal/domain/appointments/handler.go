package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Post("/", createAppointmentHandler(svc))

		ar.Route("/{appointmentID}", func(ir chi.Router) {
			ir.Get("/", getAppointmentHandler(svc))
			ir.Post("/transition", transitionHandler(svc))
			ir.Post("/confirm", actionHandler(svc, ActionConfirm))
			ir.Post("/cancel", actionHandler(svc, ActionCancel))
			ir.Post("/complete", actionHandler(svc, ActionComplete))
		})
	})
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	VetID     string    `json:"vet_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Type      Type      `json:"type"`
	Status    Status    `json:"status"`
	Actions   []Action  `json:"actions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	VetID     string `json:"vet_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      Type   `json:"type"`
}

type transitionRequest struct {
	Status Status `json:"status"`
}

// listAppointmentsHandler godoc
// @Summary      Listar turnos
// @Description  Con date lista el día ordenado por hora. Con from/to lista el rango sin cancelados. Sin parámetros usa hoy.
// @Tags         appointments
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD"
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  appointmentResponse
// @Failure      400  {string}  string  "invalid input"
// @Router       /admin/appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var (
			items []Appointment
			err   error
		)
		from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
		switch {
		case q.Get("date") != "":
			items, err = svc.ListForDate(r.Context(), q.Get("date"))
		case from != "" || to != "":
			items, err = svc.ListUpcoming(r.Context(), from, to)
		default:
			items, err = svc.ListForDate(r.Context(), svc.now().Format(DateLayout))
		}
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createAppointmentHandler godoc
// @Summary      Agendar turno
// @Description  El turno nace pending y dispara la notificación de confirmación.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  createAppointmentRequest  true  "Turno"
// @Success      201  {object}  appointmentResponse
// @Failure      400  {string}  string  "invalid input"
// @Failure      409  {string}  string  "slot taken"
// @Failure      422  {string}  string  "unknown patient or veterinarian"
// @Router       /admin/appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PatientID: req.PatientID,
			VetID:     req.VetID,
			Date:      req.Date,
			Time:      req.Time,
			Type:      req.Type,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// getAppointmentHandler godoc
// @Summary  Obtener turno
// @Tags     appointments
// @Produce  json
// @Param    appointmentID  path  string  true  "Appointment ID"
// @Success  200  {object}  appointmentResponse
// @Failure  404  {string}  string  "not found"
// @Router   /admin/appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// transitionHandler godoc
// @Summary  Cambiar estado del turno
// @Tags     appointments
// @Accept   json
// @Produce  json
// @Param    appointmentID  path  string             true  "Appointment ID"
// @Param    body           body  transitionRequest  true  "Nuevo estado"
// @Success  200  {object}  appointmentResponse
// @Failure  400  {string}  string  "invalid input"
// @Failure  404  {string}  string  "not found"
// @Failure  409  {string}  string  "invalid transition"
// @Router   /admin/appointments/{appointmentID}/transition [post]
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		applyTransition(w, r, svc, req.Status)
	}
}

// actionHandler godoc
// @Summary  Confirmar, cancelar o completar un turno
// @Tags     appointments
// @Produce  json
// @Param    appointmentID  path  string  true  "Appointment ID"
// @Success  200  {object}  appointmentResponse
// @Failure  404  {string}  string  "not found"
// @Failure  409  {string}  string  "invalid transition"
// @Router   /admin/appointments/{appointmentID}/confirm [post]
// @Router   /admin/appointments/{appointmentID}/cancel [post]
// @Router   /admin/appointments/{appointmentID}/complete [post]
func actionHandler(svc *Service, action Action) http.HandlerFunc {
	to, _ := action.Target()
	return func(w http.ResponseWriter, r *http.Request) {
		applyTransition(w, r, svc, to)
	}
}

func applyTransition(w http.ResponseWriter, r *http.Request, svc *Service, to Status) {
	a, err := svc.Transition(r.Context(), chi.URLParam(r, "appointmentID"), to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(a))
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	actions := AvailableActions(a.Status)
	if actions == nil {
		actions = []Action{}
	}
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		VetID:     a.VetID,
		Date:      a.Date,
		Time:      a.Time,
		Type:      a.Type,
		Status:    a.Status,
		Actions:   actions,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDanglingReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
