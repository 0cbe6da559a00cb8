package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// RegisterStorefrontRoutes expone el catálogo de sólo lectura para clientes.
func RegisterStorefrontRoutes(r chi.Router, svc *Service) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", listProductsHandler(svc))
		pr.Get("/{productID}", getProductHandler(svc))
	})
}

// RegisterInventoryRoutes expone el ABM de inventario para el staff.
func RegisterInventoryRoutes(r chi.Router, svc *Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Get("/", listProductsHandler(svc))
		ir.Post("/", createProductHandler(svc))
		ir.Get("/{productID}", getProductHandler(svc))
		ir.Patch("/{productID}", updateProductHandler(svc))
		ir.Delete("/{productID}", deleteProductHandler(svc))
	})
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Brand       string    `json:"brand"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *Category        `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Brand       *string          `json:"brand"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
}

// listProductsHandler godoc
// @Summary      Listar productos
// @Description  Filtra por texto (nombre o marca) y categoría.
// @Tags         catalog
// @Produce      json
// @Param        q         query  string  false  "Texto a buscar"
// @Param        category  query  string  false  "food | accessories | medicines"
// @Success      200  {array}  productResponse
// @Router       /client/products [get]
func listProductsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Query:    r.URL.Query().Get("q"),
			Category: Category(strings.TrimSpace(r.URL.Query().Get("category"))),
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

		out := make([]productResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProductResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getProductHandler godoc
// @Summary  Obtener producto
// @Tags     catalog
// @Produce  json
// @Param    productID  path  string  true  "Product ID"
// @Success  200  {object}  productResponse
// @Failure  404  {string}  string  "not found"
// @Router   /client/products/{productID} [get]
func getProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponse(p))
	}
}

// createProductHandler godoc
// @Summary  Alta de producto en inventario
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    body  body  createProductRequest  true  "Producto"
// @Success  201  {object}  productResponse
// @Failure  400  {string}  string  "invalid input"
// @Router   /admin/inventory [post]
func createProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Category:    req.Category,
			Price:       req.Price,
			Stock:       req.Stock,
			Brand:       req.Brand,
			Image:       req.Image,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toProductResponse(p))
	}
}

// updateProductHandler godoc
// @Summary  Modificar producto
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    productID  path  string                true  "Product ID"
// @Param    body       body  updateProductRequest  true  "Campos a modificar"
// @Success  200  {object}  productResponse
// @Failure  400  {string}  string  "invalid input"
// @Failure  404  {string}  string  "not found"
// @Router   /admin/inventory/{productID} [patch]
func updateProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProductRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "productID"), UpdateInput{
			Name:        req.Name,
			Category:    req.Category,
			Price:       req.Price,
			Stock:       req.Stock,
			Brand:       req.Brand,
			Image:       req.Image,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponse(p))
	}
}

// deleteProductHandler godoc
// @Summary  Baja de producto
// @Tags     inventory
// @Param    productID  path  string  true  "Product ID"
// @Success  204
// @Failure  404  {string}  string  "not found"
// @Router   /admin/inventory/{productID} [delete]
func deleteProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Brand:       p.Brand,
		Image:       p.Image,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
