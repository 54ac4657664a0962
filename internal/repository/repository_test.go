package repository

import (
	"context"
	"testing"
	"time"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdjustQuantity_GuardsTheFloor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewItemRepo(db)
	item := testutil.SeedItem(t, db, "BIN-BAG", 5, 1, nil)

	affected, err := repo.AdjustQuantity(db, item.ID, -5, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.Equal(t, 0, testutil.Quantity(t, db, item.ID))

	affected, err = repo.AdjustQuantity(db, item.ID, -1, "u1")
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Equal(t, 0, testutil.Quantity(t, db, item.ID))

	affected, err = repo.AdjustQuantity(db, item.ID, 3, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	reloaded, err := repo.FindByIDTx(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.CurrentQuantity)
	assert.Equal(t, "u2", reloaded.UpdatedBy)
}

func TestTransactionRepo_Filters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	user := testutil.SeedUser(t, db, "gita", model.RoleOfficeBoy)
	pen := testutil.SeedItem(t, db, "PEN", 10, 1, nil)
	cup := testutil.SeedItem(t, db, "CUP", 10, 1, nil)

	base := time.Now().Add(-time.Hour)
	entries := []model.Transaction{
		{ItemID: pen.ID, UserID: user.ID, TransactionType: model.TxStockIn, QuantityChange: 10, CreatedAt: base},
		{ItemID: pen.ID, UserID: user.ID, TransactionType: model.TxDistribution, QuantityChange: -2, CreatedAt: base.Add(time.Minute)},
		{ItemID: cup.ID, UserID: user.ID, TransactionType: model.TxDistribution, QuantityChange: -1, CreatedAt: base.Add(2 * time.Minute)},
		{ItemID: cup.ID, UserID: user.ID, TransactionType: model.TxReturn, QuantityChange: 1, CreatedAt: base.Add(3 * time.Minute)},
	}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := repo.Create(tx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	}))

	rows, total, err := repo.List(ctx, TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 2)
	assert.Equal(t, model.TxReturn, rows[0].TransactionType)
	assert.Equal(t, "Item CUP", rows[0].ItemName)
	assert.Equal(t, "User gita", rows[0].UserName)

	rows, total, err = repo.List(ctx, TransactionFilter{Type: model.TxDistribution, ItemID: &pen.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, -2, rows[0].QuantityChange)

	rows, _, err = repo.List(ctx, TransactionFilter{Types: []model.TransactionType{model.TxDistribution, model.TxReturn}})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	count, err := repo.CountByItem(ctx, cup.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestTransactionRepo_DetailsSurviveJoinedReads(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	user := testutil.SeedUser(t, db, "hana", model.RoleAdmin)
	item := testutil.SeedItem(t, db, "TONER", 0, 1, nil)

	entry := &model.Transaction{
		ItemID:          item.ID,
		UserID:          user.ID,
		TransactionType: model.TxStockIn,
		QuantityChange:  4,
		Details:         model.Details{"source": "Vendor A", "invoice": "INV-7"},
	}
	require.NoError(t, repo.Create(db, entry))

	rows, _, err := repo.List(ctx, TransactionFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Vendor A", rows[0].Details["source"])
	assert.Equal(t, "INV-7", rows[0].Details["invoice"])

	report, err := repo.ListForReport(ctx, TransactionFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "Vendor A", report[0].Details["source"])
}
