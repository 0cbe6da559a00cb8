package orders

import (
	"encoding/json"
	"net/http"
	"strings"

	"laikavet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/orders", listMyOrdersHandler(svc))
}

type itemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type orderResponse struct {
	ID       string         `json:"id"`
	Date     string         `json:"date"`
	Status   Status         `json:"status"`
	Items    []itemResponse `json:"items"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
}

// listMyOrdersHandler godoc
// @Summary  Mis pedidos
// @Tags     orders
// @Produce  json
// @Success  200  {array}   orderResponse
// @Failure  401  {string}  string  "unauthorized"
// @Router   /client/orders [get]
func listMyOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]orderResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOrderResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toOrderResponse(o Order) orderResponse {
	items := make([]itemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}
	return orderResponse{
		ID:       o.ID,
		Date:     o.Date,
		Status:   o.Status,
		Items:    items,
		Subtotal: o.Subtotal.StringFixed(2),
		Tax:      o.Tax.StringFixed(2),
		Total:    o.Total.StringFixed(2),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
