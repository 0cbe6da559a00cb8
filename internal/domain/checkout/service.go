package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"laikavet/internal/domain/cart"
	"laikavet/internal/domain/catalog"
	"laikavet/internal/domain/orders"
	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/payments"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("checkout not found")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrIllegalStep   = errors.New("illegal checkout step")
	ErrNotRetryable  = errors.New("payment failure is not retryable")
	ErrStockExceeded = errors.New("stock exceeded")
)

// Carts es la vista del carrito que necesita el checkout.
type Carts interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	RemoveLines(ctx context.Context, userID string, lines []catalog.StockLine) error
}

// Inventory reserva y devuelve stock alrededor del cobro.
type Inventory interface {
	Withdraw(ctx context.Context, lines []catalog.StockLine) error
	Restock(ctx context.Context, lines []catalog.StockLine) error
}

// Orders registra la compra una vez cobrada.
type Orders interface {
	Place(ctx context.Context, in orders.PlaceInput) (orders.Order, error)
}

type Service struct {
	repo    Repository
	carts   Carts
	stock   Inventory
	orders  Orders
	gateway payments.Gateway
	now     func() time.Time
	log     logger.Logger

	// por usuario: dos checkouts del mismo carrito no cobran en paralelo
	locks keyedMutex
}

func NewService(
	repo Repository,
	carts Carts,
	stock Inventory,
	ords Orders,
	gateway payments.Gateway,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:    repo,
		carts:   carts,
		stock:   stock,
		orders:  ords,
		gateway: gateway,
		now:     time.Now,
		log:     log.With(map[string]any{"module": "checkout"}),
	}
}

// Start abre un checkout en el paso shipping a partir del carrito actual.
func (s *Service) Start(ctx context.Context, userID string) (Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Session{}, ErrInvalidInput
	}
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if c.IsEmpty() {
		return Session{}, ErrEmptyCart
	}

	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepShipping,
		Lines:     c.Lines,
		Summary:   c.Summary(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, sess); err != nil {
		return Session{}, err
	}

	s.log.Info("checkout started", map[string]any{"checkout_id": sess.ID, "user_id": userID})
	return sess, nil
}

// Get devuelve el checkout sólo a su dueño.
func (s *Service) Get(ctx context.Context, userID, id string) (Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.UserID != userID {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// SubmitShipping guarda el domicilio y avanza a payment.
func (s *Service) SubmitShipping(ctx context.Context, userID, id string, addr Address) (Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepShipping {
		return sess, ErrIllegalStep
	}

	addr = normalizeAddress(addr)
	if addr.FirstName == "" || addr.Street == "" || addr.City == "" {
		return sess, ErrInvalidInput
	}

	sess.Shipping = &addr
	return s.advance(ctx, sess, StepPayment)
}

// ConfirmPayment congela el resumen, reserva stock y liquida el cobro.
//
// Éxito: crea el pedido, vacía el carrito y pasa a success.
// Rechazo: pasa a failed sin reintento. Falla transitoria: failed con reintento.
// En ambos casos de falla el carrito queda intacto y el stock se devuelve.
// Si ctx se cancela antes de liquidar, el checkout no cambia.
//
// Un cobro liquidado queda registrado en la sesión antes de crear el pedido;
// si el pedido falla, el siguiente intento sólo completa lo que falta.
func (s *Service) ConfirmPayment(ctx context.Context, userID, id string) (Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepPayment {
		return sess, ErrIllegalStep
	}
	if sess.PaymentReference != "" {
		s.log.Info("resuming settled checkout", map[string]any{"checkout_id": sess.ID, "reference": sess.PaymentReference})
		return s.complete(context.WithoutCancel(ctx), sess)
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return sess, err
	}
	if c.IsEmpty() {
		return sess, ErrEmptyCart
	}
	if err := ctx.Err(); err != nil {
		return sess, err
	}

	lines := c.StockLines()
	if err := s.stock.Withdraw(ctx, lines); err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			return sess, fmt.Errorf("%w: %v", ErrStockExceeded, err)
		}
		return sess, err
	}

	summary := c.Summary()
	settlement, err := s.gateway.Settle(ctx, payments.Charge{
		CheckoutID: sess.ID,
		Amount:     summary.Total,
		Currency:   payments.DefaultCurrency,
	})
	// a partir de acá el resultado del cobro ya está decidido
	bg := context.WithoutCancel(ctx)

	if err != nil {
		if rerr := s.stock.Restock(bg, lines); rerr != nil {
			s.log.Error("restock after failed payment", map[string]any{"checkout_id": sess.ID, "err": rerr})
		}
		if ctx.Err() != nil {
			return sess, ctx.Err()
		}

		sess.Lines = c.Lines
		sess.Summary = summary
		sess.Failure = &Failure{
			Reason:    err.Error(),
			Retryable: !errors.Is(err, payments.ErrDeclined),
		}
		s.log.Warn("payment failed", map[string]any{
			"checkout_id": sess.ID,
			"retryable":   sess.Failure.Retryable,
			"err":         err,
		})
		return s.advance(bg, sess, StepFailed)
	}

	sess.Lines = c.Lines
	sess.Summary = summary
	sess.PaymentReference = settlement.Reference
	sess.Failure = nil
	sess.UpdatedAt = s.now()
	if err := s.repo.Update(bg, sess); err != nil {
		s.log.Error("record settlement", map[string]any{
			"checkout_id": sess.ID,
			"reference":   settlement.Reference,
			"err":         err,
		})
	}
	return s.complete(bg, sess)
}

// complete crea el pedido de un cobro ya liquidado, saca del carrito lo
// cobrado y pasa a success.
func (s *Service) complete(ctx context.Context, sess Session) (Session, error) {
	order, err := s.orders.Place(ctx, orders.PlaceInput{
		UserID:     sess.UserID,
		CheckoutID: sess.ID,
		Items:      orderItems(sess.Lines),
	})
	if err != nil {
		s.log.Error("place order after settlement", map[string]any{
			"checkout_id": sess.ID,
			"reference":   sess.PaymentReference,
			"err":         err,
		})
		return sess, err
	}

	settled := cart.Cart{Lines: sess.Lines}
	if err := s.carts.RemoveLines(ctx, sess.UserID, settled.StockLines()); err != nil {
		s.log.Error("remove settled lines from cart", map[string]any{"checkout_id": sess.ID, "err": err})
	}

	sess.OrderID = order.ID
	s.log.Info("checkout completed", map[string]any{
		"checkout_id": sess.ID,
		"order_id":    order.ID,
		"total":       sess.Summary.Total.StringFixed(2),
	})
	return s.advance(ctx, sess, StepSuccess)
}

// Retry vuelve a payment después de una falla transitoria.
func (s *Service) Retry(ctx context.Context, userID, id string) (Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepFailed {
		return sess, ErrIllegalStep
	}
	if sess.Failure == nil || !sess.Failure.Retryable {
		return sess, ErrNotRetryable
	}

	sess.Failure = nil
	return s.advance(ctx, sess, StepPayment)
}

func (s *Service) advance(ctx context.Context, sess Session, to Step) (Session, error) {
	if !CanAdvance(sess.Step, to) {
		return sess, ErrIllegalStep
	}
	sess.Step = to
	sess.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// keyedMutex es un mutex por clave. La entrada se borra cuando nadie la
// tiene tomada ni la está esperando.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = map[string]*refMutex{}
	}
	e, ok := k.m[key]
	if !ok {
		e = &refMutex{}
		k.m[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.Lock()
	return func() {
		e.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.m, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.m)
}

func normalizeAddress(a Address) Address {
	return Address{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Street:    strings.TrimSpace(a.Street),
		City:      strings.TrimSpace(a.City),
		Zip:       strings.TrimSpace(a.Zip),
	}
}

func orderItems(lines []cart.Line) []orders.Item {
	out := make([]orders.Item, 0, len(lines))
	for _, l := range lines {
		out = append(out, orders.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return out
}
