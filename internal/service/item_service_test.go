package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"
	"go-office-inventory/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newItemFixture(t *testing.T) (*gorm.DB, ItemService) {
	t.Helper()

	db := testutil.NewDB(t)
	svc := NewItemService(
		repository.NewItemRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewTransactionRepo(db),
		zap.NewNop(),
	)
	return db, svc
}

func TestItemService_ListPaginatesAndSearches(t *testing.T) {
	ctx := context.Background()
	db, svc := newItemFixture(t)
	category := testutil.SeedCategory(t, db, "Pantry")
	for i := 1; i <= 12; i++ {
		testutil.SeedItem(t, db, fmt.Sprintf("SKU-%02d", i), i, 3, &category.ID)
	}
	testutil.SeedItem(t, db, "COFFEE-1", 4, 1, nil)

	page, err := svc.List(ctx, ItemQuery{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 13, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Items, 5)

	page, err = svc.List(ctx, ItemQuery{Search: "coffee"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "COFFEE-1", page.Items[0].SKU)
	assert.Nil(t, page.Items[0].CategoryName)

	page, err = svc.List(ctx, ItemQuery{Search: "sku-01"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].CategoryName)
	assert.Equal(t, "Pantry", *page.Items[0].CategoryName)

	page, err = svc.List(ctx, ItemQuery{Page: 0, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 13)
}

func TestItemService_GetAndGetBySKU(t *testing.T) {
	ctx := context.Background()
	db, svc := newItemFixture(t)
	item := testutil.SeedItem(t, db, "SOAP", 6, 2, nil)

	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "SOAP", got.SKU)

	got, err = svc.GetBySKU(ctx, " SOAP ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrItemNotFound))

	_, err = svc.GetBySKU(ctx, "NOPE")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestItemService_UpdateNeverTouchesQuantityOrSKU(t *testing.T) {
	ctx := context.Background()
	db, svc := newItemFixture(t)
	category := testutil.SeedCategory(t, db, "Cleaning")
	item := testutil.SeedItem(t, db, "MOP", 3, 1, nil)

	updated, err := svc.Update(ctx, item.ID, &UpdateItemRequest{
		Name:              "Floor mop",
		Description:       "Microfiber",
		CategoryID:        &category.ID,
		LowStockThreshold: 2,
		UnitOfMeasurement: "unit",
	}, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, "Floor mop", updated.Name)
	assert.Equal(t, "MOP", updated.SKU)
	assert.Equal(t, 3, updated.CurrentQuantity)
	assert.Equal(t, 2, updated.LowStockThreshold)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "Cleaning", updated.Category.Name)

	missing := uuid.New()
	_, err = svc.Update(ctx, item.ID, &UpdateItemRequest{Name: "x", CategoryID: &missing, UnitOfMeasurement: "u"}, "admin-id")
	assert.True(t, errors.Is(err, ErrCategoryNotFound))

	_, err = svc.Update(ctx, uuid.New(), &UpdateItemRequest{Name: "x", UnitOfMeasurement: "u"}, "admin-id")
	assert.True(t, errors.Is(err, ErrItemNotFound))

	_, err = svc.Update(ctx, item.ID, &UpdateItemRequest{Name: "   ", UnitOfMeasurement: "u"}, "admin-id")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestItemService_DeleteRefusesLoggedItems(t *testing.T) {
	ctx := context.Background()
	db, svc := newItemFixture(t)
	user := testutil.SeedUser(t, db, "admin", model.RoleAdmin)
	logged := testutil.SeedItem(t, db, "LOGGED", 5, 1, nil)
	fresh := testutil.SeedItem(t, db, "FRESH", 0, 0, nil)

	require.NoError(t, db.Create(&model.Transaction{
		ItemID:          logged.ID,
		UserID:          user.ID,
		TransactionType: model.TxStockIn,
		QuantityChange:  5,
	}).Error)

	err := svc.Delete(ctx, logged.ID)
	assert.True(t, errors.Is(err, ErrItemHasTransactions))
	assert.True(t, errors.Is(err, ErrConflict))

	require.NoError(t, svc.Delete(ctx, fresh.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, fresh.ID), ErrItemNotFound))
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewCategoryService(repository.NewCategoryRepo(db))

	office, err := svc.Create(ctx, &CategoryRequest{Name: " Office "}, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, "Office", office.Name)

	_, err = svc.Create(ctx, &CategoryRequest{Name: "Office"}, "admin-id")
	assert.True(t, errors.Is(err, ErrDuplicateCategory))

	_, err = svc.Create(ctx, &CategoryRequest{Name: ""}, "admin-id")
	assert.True(t, errors.Is(err, ErrValidation))

	kitchen, err := svc.Create(ctx, &CategoryRequest{Name: "Kitchen"}, "admin-id")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, kitchen.ID, &CategoryRequest{Name: "Office"}, "admin-id")
	assert.True(t, errors.Is(err, ErrDuplicateCategory))

	renamed, err := svc.Rename(ctx, kitchen.ID, &CategoryRequest{Name: "Pantry"}, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, "Pantry", renamed.Name)

	_, err = svc.Rename(ctx, uuid.New(), &CategoryRequest{Name: "Ghost"}, "admin-id")
	assert.True(t, errors.Is(err, ErrCategoryNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Office", list[0].Name)
	assert.Equal(t, "Pantry", list[1].Name)

	item := testutil.SeedItem(t, db, "CUP", 10, 2, &office.ID)
	require.NoError(t, svc.Delete(ctx, office.ID))

	var reloaded model.Item
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	assert.True(t, errors.Is(svc.Delete(ctx, office.ID), ErrCategoryNotFound))
}
