package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"laikavet/internal/domain/pricing"
	"laikavet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/checkout", func(cr chi.Router) {
		cr.Post("/", startCheckoutHandler(svc))
		cr.Get("/{checkoutID}", getCheckoutHandler(svc))
		cr.Post("/{checkoutID}/shipping", submitShippingHandler(svc))
		cr.Post("/{checkoutID}/payment", confirmPaymentHandler(svc))
		cr.Post("/{checkoutID}/retry", retryPaymentHandler(svc))
	})
}

type shippingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type lineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type failureResponse struct {
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable"`
}

type checkoutResponse struct {
	ID               string           `json:"id"`
	Step             Step             `json:"step"`
	Shipping         *shippingRequest `json:"shipping,omitempty"`
	Lines            []lineResponse   `json:"lines"`
	Subtotal         string           `json:"subtotal"`
	Tax              string           `json:"tax"`
	Total            string           `json:"total"`
	OrderID          string           `json:"order_id,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	Failure          *failureResponse `json:"failure,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// startCheckoutHandler godoc
// @Summary  Iniciar checkout
// @Description  Abre un checkout en el paso shipping con el carrito actual.
// @Tags     checkout
// @Produce  json
// @Success  201  {object}  checkoutResponse
// @Failure  409  {string}  string  "cart is empty"
// @Router   /client/checkout [post]
func startCheckoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		sess, err := svc.Start(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCheckoutResponse(sess))
	}
}

// getCheckoutHandler godoc
// @Summary  Ver checkout
// @Tags     checkout
// @Produce  json
// @Param    checkoutID  path  string  true  "Checkout ID"
// @Success  200  {object}  checkoutResponse
// @Failure  404  {string}  string  "checkout not found"
// @Router   /client/checkout/{checkoutID} [get]
func getCheckoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		sess, err := svc.Get(r.Context(), userID, chi.URLParam(r, "checkoutID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
	}
}

// submitShippingHandler godoc
// @Summary  Cargar datos de envío
// @Tags     checkout
// @Accept   json
// @Produce  json
// @Param    checkoutID  path  string           true  "Checkout ID"
// @Param    body        body  shippingRequest  true  "Domicilio"
// @Success  200  {object}  checkoutResponse
// @Failure  400  {string}  string  "invalid input"
// @Failure  409  {string}  string  "illegal checkout step"
// @Router   /client/checkout/{checkoutID}/shipping [post]
func submitShippingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req shippingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SubmitShipping(r.Context(), userID, chi.URLParam(r, "checkoutID"), Address(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
	}
}

// confirmPaymentHandler godoc
// @Summary  Confirmar pago
// @Description  Liquida el cobro. Un pago rechazado devuelve 200 con step=failed.
// @Tags     checkout
// @Produce  json
// @Param    checkoutID  path  string  true  "Checkout ID"
// @Success  200  {object}  checkoutResponse
// @Failure  409  {string}  string  "illegal checkout step"
// @Router   /client/checkout/{checkoutID}/payment [post]
func confirmPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		sess, err := svc.ConfirmPayment(r.Context(), userID, chi.URLParam(r, "checkoutID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
	}
}

// retryPaymentHandler godoc
// @Summary  Reintentar pago
// @Tags     checkout
// @Produce  json
// @Param    checkoutID  path  string  true  "Checkout ID"
// @Success  200  {object}  checkoutResponse
// @Failure  409  {string}  string  "payment failure is not retryable"
// @Router   /client/checkout/{checkoutID}/retry [post]
func retryPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		sess, err := svc.Retry(r.Context(), userID, chi.URLParam(r, "checkoutID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func toCheckoutResponse(s Session) checkoutResponse {
	lines := make([]lineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, lineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     pricing.Format(l.Price),
		})
	}

	out := checkoutResponse{
		ID:               s.ID,
		Step:             s.Step,
		Lines:            lines,
		Subtotal:         pricing.Format(s.Summary.Subtotal),
		Tax:              pricing.Format(s.Summary.Tax),
		Total:            pricing.Format(s.Summary.Total),
		OrderID:          s.OrderID,
		PaymentReference: s.PaymentReference,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Shipping != nil {
		sh := shippingRequest(*s.Shipping)
		out.Shipping = &sh
	}
	if s.Failure != nil {
		out.Failure = &failureResponse{Reason: s.Failure.Reason, Retryable: s.Failure.Retryable}
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrIllegalStep),
		errors.Is(err, ErrNotRetryable),
		errors.Is(err, ErrStockExceeded):
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
