package orders

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"laikavet/internal/domain/pricing"
	"laikavet/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log.With(map[string]any{"module": "orders"}),
	}
}

type PlaceInput struct {
	UserID     string
	CheckoutID string
	Items      []Item
}

// Place registra el pedido de un checkout confirmado. Los importes se
// calculan acá para que coincidan con el resumen cobrado.
func (s *Service) Place(ctx context.Context, in PlaceInput) (Order, error) {
	if strings.TrimSpace(in.UserID) == "" || len(in.Items) == 0 {
		return Order{}, ErrInvalidInput
	}

	subtotal := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity < 1 || it.Price.IsNegative() {
			return Order{}, ErrInvalidInput
		}
		subtotal = subtotal.Add(pricing.LineTotal(it.Price, it.Quantity))
	}
	sum := pricing.Summarize(subtotal)

	now := s.now()
	o := Order{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		CheckoutID: in.CheckoutID,
		Date:       now.Format("2006-01-02"),
		Status:     StatusPending,
		Items:      append([]Item(nil), in.Items...),
		Subtotal:   sum.Subtotal,
		Tax:        sum.Tax,
		Total:      sum.Total,
		CreatedAt:  now,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return Order{}, err
	}

	s.log.Info("order placed", map[string]any{"order_id": o.ID, "user_id": o.UserID, "total": o.Total.StringFixed(2)})
	return o, nil
}

// ListByUser devuelve los pedidos del usuario, más recientes primero.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
