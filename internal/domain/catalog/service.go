package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"laikavet/internal/platform/logger"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const DefaultCacheSize = 256

type Service struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger

	cache *lru.Cache[string, Product]
	group singleflight.Group

	// versions cuenta invalidaciones por id. Una lectura sólo llena la
	// cache si la versión no cambió mientras consultaba el repositorio.
	verMu    sync.Mutex
	versions map[string]uint64

	// serializa toda escritura de productos para que el chequeo y el
	// descuento de stock sean atómicos
	stockMu sync.Mutex
}

func NewService(repo Repository, cacheSize int, log logger.Logger) *Service {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if log == nil {
		log = logger.Discard()
	}
	// lru.New sólo falla con size <= 0
	cache, _ := lru.New[string, Product](cacheSize)

	return &Service{
		repo:  repo,
		now:   time.Now,
		log:   log.With(map[string]any{"module": "catalog"}),
		cache:    cache,
		versions: map[string]uint64{},
	}
}

// Filter replica los filtros de la tienda: texto libre sobre nombre o
// marca, y categoría exacta.
type Filter struct {
	Query    string
	Category Category
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get resuelve un producto usando la cache; lecturas concurrentes del mismo
// id comparten una única consulta al repositorio. La consulta compartida no
// depende del ctx de quien la inició; cada llamador deja de esperar cuando
// se cancela el suyo.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, ErrNotFound
	}
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}

	s.verMu.Lock()
	ver := s.versions[id]
	s.verMu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id, func() (any, error) {
		p, err := s.repo.Get(loadCtx, id)
		if err != nil {
			return Product{}, err
		}
		s.verMu.Lock()
		if s.versions[id] == ver {
			s.cache.Add(id, p)
		}
		s.verMu.Unlock()
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Product{}, res.Err
		}
		return res.Val.(Product), nil
	case <-ctx.Done():
		return Product{}, ctx.Err()
	}
}

type CreateInput struct {
	Name        string
	Category    Category
	Price       decimal.Decimal
	Stock       int
	Brand       string
	Image       string
	Description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" || !in.Category.Valid() {
		return Product{}, ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return Product{}, ErrInvalidInput
	}

	now := s.now()
	p := Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		Brand:       strings.TrimSpace(in.Brand),
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Product{}, err
	}

	s.log.Info("product created", map[string]any{"product_id": p.ID, "name": p.Name})
	return p, nil
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Name        *string
	Category    *Category
	Price       *decimal.Decimal
	Stock       *int
	Brand       *string
	Image       *string
	Description *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	s.stockMu.Lock()
	defer s.stockMu.Unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Product{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return Product{}, ErrInvalidInput
		}
		p.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return Product{}, ErrInvalidInput
		}
		p.Price = in.Price.Round(2)
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return Product{}, ErrInvalidInput
		}
		p.Stock = *in.Stock
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	s.invalidate(p.ID)

	s.log.Info("product updated", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.stockMu.Lock()
	defer s.stockMu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)

	s.log.Info("product deleted", map[string]any{"product_id": id})
	return nil
}

// Withdraw descuenta stock para todas las líneas o para ninguna.
func (s *Service) Withdraw(ctx context.Context, lines []StockLine) error {
	s.stockMu.Lock()
	defer s.stockMu.Unlock()

	for _, l := range lines {
		if l.Quantity < 1 {
			return ErrInvalidInput
		}
		p, err := s.repo.Get(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p.Stock < l.Quantity {
			return fmt.Errorf("%w: product %s has %d, requested %d", ErrInsufficientStock, p.ID, p.Stock, l.Quantity)
		}
	}

	for i, l := range lines {
		if err := s.repo.AdjustStock(ctx, l.ProductID, -l.Quantity); err != nil {
			// deshacer lo ya descontado
			for _, done := range lines[:i] {
				_ = s.repo.AdjustStock(context.WithoutCancel(ctx), done.ProductID, done.Quantity)
				s.invalidate(done.ProductID)
			}
			return err
		}
		s.invalidate(l.ProductID)
	}
	return nil
}

// Restock devuelve stock previamente descontado con Withdraw.
func (s *Service) Restock(ctx context.Context, lines []StockLine) error {
	s.stockMu.Lock()
	defer s.stockMu.Unlock()

	var errs []error
	for _, l := range lines {
		if err := s.repo.AdjustStock(ctx, l.ProductID, l.Quantity); err != nil {
			errs = append(errs, err)
			continue
		}
		s.invalidate(l.ProductID)
	}
	return errors.Join(errs...)
}

func (s *Service) invalidate(id string) {
	s.verMu.Lock()
	s.versions[id]++
	s.cache.Remove(id)
	s.verMu.Unlock()
	s.group.Forget(id)
}
