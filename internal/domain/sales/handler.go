package sales

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/sales", func(sr chi.Router) {
		sr.Get("/", listSalesHandler(svc))
		sr.Post("/", recordSaleHandler(svc))
	})
}

type saleItemPayload struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Category ItemCategory    `json:"category"`
}

type recordSaleRequest struct {
	Client  string            `json:"client"`
	Channel Channel           `json:"channel"`
	Items   []saleItemPayload `json:"items"`
}

type saleItemResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    string       `json:"price"`
	Category ItemCategory `json:"category"`
}

type saleResponse struct {
	ID      string             `json:"id"`
	Date    string             `json:"date"`
	Time    string             `json:"time"`
	Channel Channel            `json:"channel"`
	Client  string             `json:"client"`
	Items   []saleItemResponse `json:"items"`
	Total   string             `json:"total"`
}

// listSalesHandler godoc
// @Summary  Libro de ventas
// @Tags     sales
// @Produce  json
// @Param    q         query  string  false  "Cliente o id de venta"
// @Param    category  query  string  false  "product | service"
// @Success  200  {array}  saleResponse
// @Router   /admin/sales [get]
func listSalesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Query:    r.URL.Query().Get("q"),
			Category: ItemCategory(strings.TrimSpace(r.URL.Query().Get("category"))),
		}
		if f.Category == "all" {
			f.Category = ""
		}
		if f.Category != "" && !f.Category.Valid() {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]saleResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSaleResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordSaleHandler godoc
// @Summary  Registrar venta de mostrador
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    body  body  recordSaleRequest  true  "Venta"
// @Success  201  {object}  saleResponse
// @Failure  400  {string}  string  "invalid input"
// @Router   /admin/sales [post]
func recordSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items := make([]Item, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, Item(it))
		}

		s, err := svc.Record(r.Context(), RecordInput{
			Client:  req.Client,
			Channel: req.Channel,
			Items:   items,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, toSaleResponse(s))
	}
}

func toSaleResponse(s Sale) saleResponse {
	items := make([]saleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
			Category: it.Category,
		})
	}
	return saleResponse{
		ID:      s.ID,
		Date:    s.Date,
		Time:    s.Time,
		Channel: s.Channel,
		Client:  s.Client,
		Items:   items,
		Total:   s.Total.StringFixed(2),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
