package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items []Order
}

func (r *testRepo) Insert(ctx context.Context, o Order) error {
	r.items = append(r.items, o)
	return nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	out := []Order{}
	for _, o := range r.items {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func TestPlace_ComputesTotals(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	svc.now = func() time.Time { return time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC) }

	o, err := svc.Place(context.Background(), PlaceInput{
		UserID:     "3",
		CheckoutID: "chk-1",
		Items: []Item{
			{ProductID: "1", Name: "Premium Dog Food", Quantity: 1, Price: decimal.RequireFromString("45.99")},
			{ProductID: "2", Name: "Cat Toy Set", Quantity: 1, Price: decimal.RequireFromString("12.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-12-02", o.Date)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "58.49", o.Subtotal.StringFixed(2))
	assert.Equal(t, "12.28", o.Tax.StringFixed(2))
	assert.Equal(t, "70.77", o.Total.StringFixed(2))
}

func TestPlace_RejectsInvalid(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	ctx := context.Background()

	_, err := svc.Place(ctx, PlaceInput{UserID: "3"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Place(ctx, PlaceInput{UserID: "3", Items: []Item{{ProductID: "1", Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByUser_NewestFirst(t *testing.T) {
	repo := &testRepo{items: []Order{
		{ID: "a", UserID: "3", Date: "2023-10-01"},
		{ID: "b", UserID: "3", Date: "2023-11-15"},
		{ID: "c", UserID: "9", Date: "2024-01-01"},
		{ID: "d", UserID: "3", Date: "2023-10-25"},
	}}
	svc := NewService(repo, nil)

	got, err := svc.ListByUser(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "d", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}
