package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"laikavet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", createPatientHandler(svc))

		pr.Route("/{patientID}", func(ir chi.Router) {
			ir.Get("/", getPatientHandler(svc))
			ir.Patch("/", updatePatientHandler(svc))
			ir.Delete("/", deletePatientHandler(svc))

			ir.Get("/history", listHistoryHandler(svc))
			ir.Post("/history", appendHistoryHandler(svc))
		})
	})
}

type ownerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type historyResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Reason       string    `json:"reason"`
	Diagnosis    string    `json:"diagnosis"`
	Treatment    string    `json:"treatment"`
	Observations string    `json:"observations,omitempty"`
	VetID        string    `json:"vet_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type patientResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Species   Species           `json:"species"`
	Breed     string            `json:"breed"`
	Age       int               `json:"age"`
	Weight    float64           `json:"weight"`
	Color     string            `json:"color"`
	Owner     ownerDTO          `json:"owner"`
	History   []historyResponse `json:"history"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type createPatientRequest struct {
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Breed   string   `json:"breed"`
	Age     int      `json:"age"`
	Weight  float64  `json:"weight"`
	Color   string   `json:"color"`
	Owner   ownerDTO `json:"owner"`
}

type updatePatientRequest struct {
	Name    *string   `json:"name"`
	Species *string   `json:"species"`
	Breed   *string   `json:"breed"`
	Age     *int      `json:"age"`
	Weight  *float64  `json:"weight"`
	Color   *string   `json:"color"`
	Owner   *ownerDTO `json:"owner"`
}

type appendHistoryRequest struct {
	VetID        string `json:"vet_id"`
	Reason       string `json:"reason"`
	Diagnosis    string `json:"diagnosis"`
	Treatment    string `json:"treatment"`
	Observations string `json:"observations"`
}

// listPatientsHandler godoc
// @Summary      Listar pacientes
// @Description  Busca por nombre del paciente o del tutor.
// @Tags         patients
// @Produce      json
// @Param        q  query  string  false  "Texto a buscar"
// @Success      200  {array}  patientResponse
// @Router       /admin/patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createPatientHandler godoc
// @Summary  Alta de paciente
// @Tags     patients
// @Accept   json
// @Produce  json
// @Param    body  body  createPatientRequest  true  "Paciente"
// @Success  201  {object}  patientResponse
// @Failure  400  {string}  string  "invalid input"
// @Router   /admin/patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
			Color:   req.Color,
			Owner:   Owner(req.Owner),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// getPatientHandler godoc
// @Summary  Obtener paciente con su historia clínica
// @Tags     patients
// @Produce  json
// @Param    patientID  path  string  true  "Patient ID"
// @Success  200  {object}  patientResponse
// @Failure  404  {string}  string  "not found"
// @Router   /admin/patients/{patientID} [get]
func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// updatePatientHandler godoc
// @Summary  Modificar paciente
// @Tags     patients
// @Accept   json
// @Produce  json
// @Param    patientID  path  string                true  "Patient ID"
// @Param    body       body  updatePatientRequest  true  "Campos a modificar"
// @Success  200  {object}  patientResponse
// @Failure  400  {string}  string  "invalid input"
// @Failure  404  {string}  string  "not found"
// @Router   /admin/patients/{patientID} [patch]
func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePatientRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
			Color:   req.Color,
		}
		if req.Owner != nil {
			o := Owner(*req.Owner)
			in.Owner = &o
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "patientID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// deletePatientHandler godoc
// @Summary  Baja de paciente
// @Tags     patients
// @Param    patientID  path  string  true  "Patient ID"
// @Success  204
// @Failure  404  {string}  string  "not found"
// @Router   /admin/patients/{patientID} [delete]
func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "patientID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listHistoryHandler godoc
// @Summary  Historia clínica del paciente (más reciente primero)
// @Tags     patients
// @Produce  json
// @Param    patientID  path  string  true  "Patient ID"
// @Success  200  {array}  historyResponse
// @Failure  404  {string}  string  "not found"
// @Router   /admin/patients/{patientID}/history [get]
func listHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.History(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHistoryResponses(items))
	}
}

// appendHistoryHandler godoc
// @Summary      Registrar consulta
// @Description  Si vet_id viene vacío se usa el usuario autenticado.
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        patientID  path  string                true  "Patient ID"
// @Param        body       body  appendHistoryRequest  true  "Consulta"
// @Success      201  {object}  historyResponse
// @Failure      400  {string}  string  "invalid input"
// @Failure      404  {string}  string  "not found"
// @Failure      422  {string}  string  "unknown veterinarian"
// @Router       /admin/patients/{patientID}/history [post]
func appendHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appendHistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		vetID := strings.TrimSpace(req.VetID)
		if vetID == "" {
			if claims, ok := middleware.GetClaims(r.Context()); ok {
				vetID = claims.UserID
			}
		}

		e, err := svc.AppendHistory(r.Context(), chi.URLParam(r, "patientID"), HistoryInput{
			VetID:        vetID,
			Reason:       req.Reason,
			Diagnosis:    req.Diagnosis,
			Treatment:    req.Treatment,
			Observations: req.Observations,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toHistoryResponse(e))
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Weight:    p.Weight,
		Color:     p.Color,
		Owner:     ownerDTO(p.Owner),
		History:   toHistoryResponses(p.History),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toHistoryResponses(items []HistoryEntry) []historyResponse {
	out := make([]historyResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toHistoryResponse(e))
	}
	return out
}

func toHistoryResponse(e HistoryEntry) historyResponse {
	return historyResponse{
		ID:           e.ID,
		Date:         e.Date,
		Reason:       e.Reason,
		Diagnosis:    e.Diagnosis,
		Treatment:    e.Treatment,
		Observations: e.Observations,
		VetID:        e.VetID,
		CreatedAt:    e.CreatedAt,
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
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
