package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"laikavet/internal/domain/catalog"
	"laikavet/internal/platform/logger"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
)

type Service struct {
	store    Store
	products Products
	log      logger.Logger

	mu sync.Mutex
}

func NewService(store Store, products Products, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:    store,
		products: products,
		log:      log.With(map[string]any{"module": "cart"}),
	}
}

// Get devuelve el carrito con precios y stock actualizados desde el catálogo.
func (s *Service) Get(ctx context.Context, userID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	changed, err := s.refresh(ctx, &c)
	if err != nil {
		return Cart{}, err
	}
	if changed {
		if err := s.store.Save(ctx, c); err != nil {
			return Cart{}, err
		}
	}
	return c, nil
}

func (s *Service) Add(ctx context.Context, userID, productID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	p, err := s.product(ctx, productID)
	if err != nil {
		return Cart{}, err
	}
	if _, inCart := c.Line(p.ID); !inCart && p.Stock <= 0 {
		return c, ErrOutOfStock
	}

	if !c.Add(p) {
		s.log.Debug("add ignored: stock ceiling reached", map[string]any{"user_id": userID, "product_id": p.ID})
		return c, nil
	}
	if err := s.store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, q int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if _, inCart := c.Line(productID); !inCart {
		return c, nil
	}

	// el tope de stock se toma del catálogo, no del snapshot
	p, err := s.products.Get(ctx, productID)
	switch {
	case err == nil:
		c.Refresh(p)
	case errors.Is(err, catalog.ErrNotFound):
		c.Remove(productID)
	default:
		return Cart{}, err
	}

	c.UpdateQuantity(productID, q)
	if err := s.store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if !c.Remove(productID) {
		return c, nil
	}
	if err := s.store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("cart cleared", map[string]any{"user_id": userID})
	return nil
}

// RemoveLines quita del carrito lo que ya se cobró. Lo agregado mientras
// tanto se conserva.
func (s *Service) RemoveLines(ctx context.Context, userID string, lines []catalog.StockLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !c.Subtract(lines) {
		return nil
	}
	if c.IsEmpty() {
		err = s.store.Delete(ctx, userID)
	} else {
		err = s.store.Save(ctx, c)
	}
	if err != nil {
		return err
	}
	s.log.Info("settled lines removed from cart", map[string]any{"user_id": userID, "remaining": c.Count()})
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return Cart{}, ErrInvalidInput
	}
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	c.UserID = userID
	return c, nil
}

func (s *Service) product(ctx context.Context, productID string) (catalog.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Product{}, ErrProductNotFound
	}
	return p, err
}

// refresh vuelve a leer cada producto. Los que ya no existen se quitan.
func (s *Service) refresh(ctx context.Context, c *Cart) (bool, error) {
	changed := false
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}

	for _, id := range ids {
		before, _ := c.Line(id)
		p, err := s.products.Get(ctx, id)
		if errors.Is(err, catalog.ErrNotFound) {
			c.Remove(id)
			changed = true
			continue
		}
		if err != nil {
			return false, err
		}
		c.Refresh(p)
		after, ok := c.Line(id)
		if !ok || after.Quantity != before.Quantity || after.Stock != before.Stock || !after.Price.Equal(before.Price) {
			changed = true
		}
	}
	return changed, nil
}
