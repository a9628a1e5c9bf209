package item_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/domain/item"
	itemrepo "catalog-assistant/internal/infrastructure/repository/item"
)

func newService(t *testing.T) *item.Service {
	t.Helper()
	return item.NewService(itemrepo.NewMemoryStore(), zerolog.Nop())
}

func fields(name, sku, price string) item.Fields {
	return item.Fields{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		SKU:         sku,
	}
}

func TestCreateFindRoundtrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, fields("  Espresso Machine  ", " COF-1 ", "249.99"))
	require.NoError(t, err)
	assert.True(t, len(created.ID) > 5 && created.ID[:5] == "item_")
	assert.Equal(t, "Espresso Machine", created.Name)
	assert.Equal(t, "COF-1", created.SKU)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)

	found, err := svc.FindBySKU(ctx, "cof-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	byName, err := svc.FindByName(ctx, "espresso machine")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tests := []struct {
		name   string
		fields item.Fields
		field  string
	}{
		{name: "blank name", fields: fields("   ", "SKU-1", "5"), field: "name"},
		{name: "blank description", fields: item.Fields{Name: "X", Price: decimal.NewFromInt(5), SKU: "SKU-1"}, field: "description"},
		{name: "blank sku", fields: fields("X", "  ", "5"), field: "sku"},
		{name: "zero price", fields: fields("X", "SKU-1", "0"), field: "price"},
		{name: "negative price", fields: fields("X", "SKU-1", "-1"), field: "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.fields)
			var verr *item.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateConflictLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, fields("Other Widget", "wid-1", "7"))
	var conflict *item.ConflictError
	require.ErrorAs(t, err, &conflict)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
}

func TestFindByNameAmbiguity(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, fields("widget", "WID-2", "5"))
	require.NoError(t, err)

	found, err := svc.FindByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Nil(t, found)

	all, err := svc.FindAllByName(ctx, "WIDGET")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateByName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "widget", false, fields("Widget v2", "WID-1", "6.50"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateAmbiguousMutatesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, fields("Widget", "WID-2", "5"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "Widget", false, fields("Widget v2", "WID-3", "9"))
	var ambiguous *item.AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t, []string{"WID-1", "WID-2"}, ambiguous.SKUs)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, "Widget", it.Name)
		assert.Nil(t, it.UpdatedAt)
	}
}

func TestUpdateSKUConflict(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, fields("Gadget", "GAD-1", "7"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "GAD-1", true, fields("Gadget", "wid-1", "7"))
	var conflict *item.ConflictError
	require.ErrorAs(t, err, &conflict)

	gadget, err := svc.FindBySKU(ctx, "GAD-1")
	require.NoError(t, err)
	require.NotNil(t, gadget)
	assert.Nil(t, gadget.UpdatedAt)
}

func TestUpdateAbsentReturnsNil(t *testing.T) {
	svc := newService(t)

	updated, err := svc.Update(context.Background(), "Nothing", false, fields("X", "X-1", "1"))
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestNoOpUpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "WID-1", true, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, !updated.UpdatedAt.Before(created.CreatedAt))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, fields("Widget", "WID-1", "5"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, fields("Widget", "WID-2", "5"))
	require.NoError(t, err)

	t.Run("ambiguous name is rejected", func(t *testing.T) {
		_, err := svc.DeleteByName(ctx, "Widget")
		var ambiguous *item.AmbiguousError
		require.ErrorAs(t, err, &ambiguous)
	})

	t.Run("by sku", func(t *testing.T) {
		deleted, err := svc.DeleteBySKU(ctx, "wid-2")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("by name once unambiguous", func(t *testing.T) {
		deleted, err := svc.DeleteByName(ctx, "widget")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("absent", func(t *testing.T) {
		deleted, err := svc.DeleteByName(ctx, "Widget")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestSKUEqual(t *testing.T) {
	assert.True(t, item.SKUEqual("WID-1", "wid-1"))
	assert.True(t, item.SKUEqual(" WID-1 ", "wid-1"))
	assert.False(t, item.SKUEqual("WID-1", "WID-2"))
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, sku := range []string{"A-1", "B-1", "C-1"} {
		_, err := svc.Create(ctx, fields("Item "+sku, sku, "1"))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "C-1", items[0].SKU)
	assert.Equal(t, "A-1", items[2].SKU)
}
