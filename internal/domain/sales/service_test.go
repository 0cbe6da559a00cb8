package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items []Sale
}

func (r *testRepo) Insert(ctx context.Context, s Sale) error {
	r.items = append(r.items, s)
	return nil
}

func (r *testRepo) List(ctx context.Context) ([]Sale, error) {
	return append([]Sale(nil), r.items...), nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecord_ComputesTotalAndTimestamp(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	svc.now = func() time.Time { return time.Date(2025, 11, 25, 9, 30, 0, 0, time.UTC) }

	s, err := svc.Record(context.Background(), RecordInput{
		Client: "Juan Pérez",
		Items: []Item{
			{ID: "1", Name: "Consulta General", Quantity: 1, Price: money("30.00"), Category: ItemService},
			{ID: "5", Name: "Cat Food", Quantity: 2, Price: money("0.10")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-11-25", s.Date)
	assert.Equal(t, "09:30", s.Time)
	assert.Equal(t, ChannelInStore, s.Channel)
	assert.Equal(t, "30.20", s.Total.StringFixed(2))
	assert.Equal(t, ItemProduct, s.Items[1].Category)
}

func TestRecord_Validates(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	ctx := context.Background()

	cases := []RecordInput{
		{Client: "", Items: []Item{{Name: "x", Quantity: 1}}},
		{Client: "Ana"},
		{Client: "Ana", Items: []Item{{Name: "", Quantity: 1}}},
		{Client: "Ana", Items: []Item{{Name: "x", Quantity: 0}}},
		{Client: "Ana", Items: []Item{{Name: "x", Quantity: 1, Price: money("-1")}}},
		{Client: "Ana", Items: []Item{{Name: "x", Quantity: 1, Category: "gift"}}},
		{Client: "Ana", Channel: "phone", Items: []Item{{Name: "x", Quantity: 1}}},
	}
	for _, in := range cases {
		_, err := svc.Record(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestList_FiltersAndSortsNewestFirst(t *testing.T) {
	repo := &testRepo{items: []Sale{
		{ID: "sale-001", Date: "2025-11-25", Time: "09:30", Client: "Juan Pérez", Items: []Item{{Category: ItemService}, {Category: ItemProduct}}},
		{ID: "sale-002", Date: "2025-11-26", Time: "14:15", Client: "Maria Garcia", Items: []Item{{Category: ItemService}}},
		{ID: "sale-003", Date: "2025-11-26", Time: "16:00", Client: "Anonimo", Items: []Item{{Category: ItemProduct}}},
	}}
	svc := NewService(repo, nil)
	ctx := context.Background()

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, "sale-003", all[0].ID)
	assert.Equal(t, "sale-001", all[2].ID)

	services, err := svc.List(ctx, Filter{Category: ItemService})
	require.NoError(t, err)
	assert.Len(t, services, 2)

	byClient, err := svc.List(ctx, Filter{Query: "MARIA"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, "sale-002", byClient[0].ID)

	byID, err := svc.List(ctx, Filter{Query: "sale-001", Category: ItemProduct})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
}
