package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"laikavet/internal/domain/pricing"
	"laikavet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", getCartHandler(svc))
		cr.Delete("/", clearCartHandler(svc))
		cr.Post("/items", addItemHandler(svc))
		cr.Patch("/items/{productID}", updateItemHandler(svc))
		cr.Delete("/items/{productID}", removeItemHandler(svc))
	})
}

type lineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartResponse struct {
	Lines    []lineResponse `json:"lines"`
	Count    int            `json:"count"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// getCartHandler godoc
// @Summary  Ver carrito
// @Tags     cart
// @Produce  json
// @Success  200  {object}  cartResponse
// @Failure  401  {string}  string  "unauthorized"
// @Router   /client/cart [get]
func getCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		c, err := svc.Get(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(c))
	}
}

// addItemHandler godoc
// @Summary  Agregar producto al carrito
// @Description  Suma una unidad; al llegar al stock disponible no agrega más.
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    body  body  addItemRequest  true  "Producto"
// @Success  200  {object}  cartResponse
// @Failure  404  {string}  string  "product not found"
// @Failure  409  {string}  string  "product out of stock"
// @Router   /client/cart/items [post]
func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
			http.Error(w, "product_id is required", http.StatusBadRequest)
			return
		}

		c, err := svc.Add(r.Context(), userID, strings.TrimSpace(req.ProductID))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(c))
	}
}

// updateItemHandler godoc
// @Summary  Cambiar cantidad
// @Description  Cantidad < 1 elimina la línea; mayor al stock se recorta.
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    productID  path  string             true  "Product ID"
// @Param    body       body  updateItemRequest  true  "Cantidad"
// @Success  200  {object}  cartResponse
// @Router   /client/cart/items/{productID} [patch]
func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
			http.Error(w, "quantity is required", http.StatusBadRequest)
			return
		}

		c, err := svc.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "productID"), *req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(c))
	}
}

// removeItemHandler godoc
// @Summary  Quitar producto
// @Tags     cart
// @Produce  json
// @Param    productID  path  string  true  "Product ID"
// @Success  200  {object}  cartResponse
// @Router   /client/cart/items/{productID} [delete]
func removeItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		c, err := svc.Remove(r.Context(), userID, chi.URLParam(r, "productID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(c))
	}
}

// clearCartHandler godoc
// @Summary  Vaciar carrito
// @Tags     cart
// @Success  204
// @Router   /client/cart [delete]
func clearCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), userID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
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

func toCartResponse(c Cart) cartResponse {
	lines := make([]lineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, lineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Brand:     l.Brand,
			Category:  string(l.Category),
			Image:     l.Image,
			Price:     pricing.Format(l.Price),
			Stock:     l.Stock,
			Quantity:  l.Quantity,
			Subtotal:  pricing.Format(l.Subtotal()),
		})
	}
	sum := c.Summary()
	return cartResponse{
		Lines:    lines,
		Count:    c.Count(),
		Subtotal: pricing.Format(sum.Subtotal),
		Tax:      pricing.Format(sum.Tax),
		Total:    pricing.Format(sum.Total),
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrOutOfStock):
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
