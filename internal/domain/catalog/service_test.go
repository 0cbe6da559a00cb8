package catalog

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu       sync.Mutex
	byID     map[string]Product
	getCalls int

	// afterGet corre después de leer y antes de devolver, sin tomar mu
	afterGet func(ctx context.Context, id string)
}

func newTestRepo(ps ...Product) *testRepo {
	r := &testRepo{byID: map[string]Product{}}
	for _, p := range ps {
		r.byID[p.ID] = p
	}
	return r
}

func (r *testRepo) List(ctx context.Context) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, id string) (Product, error) {
	r.mu.Lock()
	r.getCalls++
	p, ok := r.byID[id]
	hook := r.afterGet
	r.mu.Unlock()

	if hook != nil {
		hook(ctx, id)
	}
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Insert(ctx context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if p.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	p.Stock += delta
	r.byID[id] = p
	return nil
}

func (r *testRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

func product(id, name, brand string, cat Category, price string, stock int) Product {
	return Product{ID: id, Name: name, Brand: brand, Category: cat, Price: decimal.RequireFromString(price), Stock: stock}
}

func seeded() *testRepo {
	return newTestRepo(
		product("1", "Premium Dog Food", "Royal Canin", CategoryFood, "45.99", 50),
		product("2", "Cat Toy Set", "PetFun", CategoryAccessories, "12.50", 15),
		product("3", "Flea Collar", "Bayer", CategoryMedicines, "25.00", 5),
	)
}

func TestList_FiltersByQueryAndCategory(t *testing.T) {
	svc := NewService(seeded(), 8, nil)
	ctx := context.Background()

	got, err := svc.List(ctx, Filter{Query: "royal"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = svc.List(ctx, Filter{Category: CategoryAccessories})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got, err = svc.List(ctx, Filter{Query: "food", Category: CategoryMedicines})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGet_CachesUntilMutation(t *testing.T) {
	repo := seeded()
	svc := NewService(repo, 8, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls())

	stock := 7
	_, err = svc.Update(ctx, "1", UpdateInput{Stock: &stock})
	require.NoError(t, err)

	before := repo.calls()
	p, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, before+1, repo.calls())
}

func TestGet_ConcurrentLookupsShareResult(t *testing.T) {
	svc := NewService(seeded(), 8, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Get(context.Background(), "2")
			assert.NoError(t, err)
			assert.Equal(t, "Cat Toy Set", p.Name)
		}()
	}
	wg.Wait()
}

func TestGet_Unknown(t *testing.T) {
	svc := NewService(seeded(), 8, nil)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_Validates(t *testing.T) {
	svc := NewService(newTestRepo(), 8, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "x", Category: "toys", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "x", Category: CategoryFood, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "x", Category: CategoryFood, Stock: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.Create(ctx, CreateInput{Name: " Dog Leash ", Category: CategoryAccessories, Price: decimal.RequireFromString("18.004"), Stock: 30})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Dog Leash", p.Name)
	assert.Equal(t, "18.00", p.Price.StringFixed(2))
}

func TestDelete_InvalidatesCache(t *testing.T) {
	svc := NewService(seeded(), 8, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "3")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "3"))

	_, err = svc.Get(ctx, "3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdraw_AllOrNothing(t *testing.T) {
	repo := seeded()
	svc := NewService(repo, 8, nil)
	ctx := context.Background()

	err := svc.Withdraw(ctx, []StockLine{{ProductID: "1", Quantity: 2}, {ProductID: "3", Quantity: 6}})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	p, _ := svc.Get(ctx, "1")
	assert.Equal(t, 50, p.Stock)

	require.NoError(t, svc.Withdraw(ctx, []StockLine{{ProductID: "1", Quantity: 2}, {ProductID: "3", Quantity: 5}}))
	p, _ = svc.Get(ctx, "1")
	assert.Equal(t, 48, p.Stock)
	p, _ = svc.Get(ctx, "3")
	assert.Equal(t, 0, p.Stock)

	require.NoError(t, svc.Restock(ctx, []StockLine{{ProductID: "3", Quantity: 5}}))
	p, _ = svc.Get(ctx, "3")
	assert.Equal(t, 5, p.Stock)
}

func TestUpdate_DoesNotOverwriteConcurrentWithdraw(t *testing.T) {
	repo := seeded()
	svc := NewService(repo, 8, nil)
	ctx := context.Background()

	withdrawn := make(chan error, 1)
	var once sync.Once
	repo.afterGet = func(ctx context.Context, id string) {
		// la primera lectura es la de Update; el descuento llega en el medio
		once.Do(func() {
			go func() {
				withdrawn <- svc.Withdraw(ctx, []StockLine{{ProductID: "1", Quantity: 2}})
			}()
			time.Sleep(20 * time.Millisecond)
		})
	}

	name := "Premium Dog Food 15kg"
	_, err := svc.Update(ctx, "1", UpdateInput{Name: &name})
	require.NoError(t, err)
	require.NoError(t, <-withdrawn)

	p, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	assert.Equal(t, 48, p.Stock)
}

func TestGet_InvalidationDuringLoadIsNotCached(t *testing.T) {
	repo := seeded()
	svc := NewService(repo, 8, nil)
	ctx := context.Background()

	var once sync.Once
	repo.afterGet = func(ctx context.Context, id string) {
		// otra escritura termina mientras esta lectura sigue en vuelo
		once.Do(func() {
			assert.NoError(t, repo.AdjustStock(ctx, id, -2))
			svc.invalidate(id)
		})
	}

	p, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)

	p, err = svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 48, p.Stock)
	assert.Equal(t, 2, repo.calls())
}

func TestGet_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	repo := seeded()
	svc := NewService(repo, 8, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	repo.afterGet = func(ctx context.Context, id string) {
		once.Do(func() {
			close(started)
			<-release
		})
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(first, "2")
		firstErr <- err
	}()
	<-started

	type result struct {
		p   Product
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := svc.Get(context.Background(), "2")
		second <- result{p, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "Cat Toy Set", res.p.Name)
	assert.Equal(t, 1, repo.calls())
}
