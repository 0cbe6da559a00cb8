package sales

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
		log:  log.With(map[string]any{"module": "sales"}),
	}
}

type RecordInput struct {
	Client  string
	Channel Channel
	Items   []Item
}

// Record registra una venta con fecha y hora actuales. El total es la suma
// exacta de precio x cantidad; las ventas de mostrador no discriminan IVA.
func (s *Service) Record(ctx context.Context, in RecordInput) (Sale, error) {
	client := strings.TrimSpace(in.Client)
	if client == "" || len(in.Items) == 0 {
		return Sale{}, ErrInvalidInput
	}
	ch := in.Channel
	if ch == "" {
		ch = ChannelInStore
	}
	if ch != ChannelInStore && ch != ChannelOnline {
		return Sale{}, ErrInvalidInput
	}

	items := make([]Item, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" || it.Quantity < 1 || it.Price.IsNegative() {
			return Sale{}, ErrInvalidInput
		}
		if it.Category == "" {
			it.Category = ItemProduct
		}
		if !it.Category.Valid() {
			return Sale{}, ErrInvalidInput
		}
		it.Price = it.Price.Round(2)
		total = total.Add(pricing.LineTotal(it.Price, it.Quantity))
		items = append(items, it)
	}

	now := s.now()
	sale := Sale{
		ID:        uuid.NewString(),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04"),
		Channel:   ch,
		Client:    client,
		Items:     items,
		Total:     total,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, sale); err != nil {
		return Sale{}, err
	}

	s.log.Info("sale recorded", map[string]any{"sale_id": sale.ID, "total": sale.Total.StringFixed(2)})
	return sale, nil
}

// Filter busca por cliente o id de venta y por categoría de algún ítem.
type Filter struct {
	Query    string
	Category ItemCategory
}

func (f Filter) matches(s Sale) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q != "" &&
		!strings.Contains(strings.ToLower(s.Client), q) &&
		!strings.Contains(strings.ToLower(s.ID), q) {
		return false
	}
	if f.Category == "" {
		return true
	}
	for _, it := range s.Items {
		if it.Category == f.Category {
			return true
		}
	}
	return false
}

// List devuelve las ventas filtradas, más recientes primero.
func (s *Service) List(ctx context.Context, f Filter) ([]Sale, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Sale, 0, len(all))
	for _, sale := range all {
		if f.matches(sale) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}
