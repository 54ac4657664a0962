package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"
	"go-office-inventory/internal/testutil"
	"go-office-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newStockFixture(t *testing.T) (*gorm.DB, StockService, *recordingPublisher, *model.User) {
	t.Helper()

	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	svc := NewStockService(db,
		repository.NewItemRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewCategoryRepo(db),
		pub,
		zap.NewNop(),
	)
	user := testutil.SeedUser(t, db, "budi", model.RoleOfficeBoy)
	return db, svc, pub, user
}

func TestStockOperations_ApplySignedDelta(t *testing.T) {
	ctx := context.Background()
	db, svc, pub, user := newStockFixture(t)
	item := testutil.SeedItem(t, db, "PEN-01", 10, 2, nil)

	res, err := svc.StockIn(ctx, StockRequest{ItemID: item.ID, Quantity: 5, UserID: user.ID, Details: model.Details{"supplier": "ACME"}})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Item.CurrentQuantity)
	assert.Equal(t, model.TxStockIn, res.Transaction.TransactionType)
	assert.Equal(t, 5, res.Transaction.QuantityChange)

	res, err = svc.Distribute(ctx, StockRequest{ItemID: item.ID, Quantity: 4, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, 11, res.Item.CurrentQuantity)
	assert.Equal(t, -4, res.Transaction.QuantityChange)

	res, err = svc.Return(ctx, StockRequest{ItemID: item.ID, Quantity: 1, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Item.CurrentQuantity)
	assert.Equal(t, 1, res.Transaction.QuantityChange)

	assert.Equal(t, 12, testutil.Quantity(t, db, item.ID))
	assert.EqualValues(t, 3, testutil.TransactionCount(t, db, item.ID))
	assert.Equal(t, 3, pub.count())

	var stored model.Transaction
	require.NoError(t, db.Where("transaction_type = ?", model.TxStockIn).First(&stored).Error)
	assert.Equal(t, "ACME", stored.Details["supplier"])
}

func TestDistribute_InsufficientStockLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	db, svc, pub, user := newStockFixture(t)
	item := testutil.SeedItem(t, db, "PAPER-A4", 10, 2, nil)

	res, err := svc.Distribute(ctx, StockRequest{ItemID: item.ID, Quantity: 7, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Item.CurrentQuantity)

	_, err = svc.Distribute(ctx, StockRequest{ItemID: item.ID, Quantity: 5, UserID: user.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Contains(t, err.Error(), "available 3, requested 5")

	assert.Equal(t, 3, testutil.Quantity(t, db, item.ID))
	assert.EqualValues(t, 1, testutil.TransactionCount(t, db, item.ID))
	assert.Equal(t, 1, pub.count())
}

func TestDistribute_ExactQuantityEmptiesStock(t *testing.T) {
	ctx := context.Background()
	db, svc, _, user := newStockFixture(t)
	item := testutil.SeedItem(t, db, "TAPE", 4, 1, nil)

	res, err := svc.Distribute(ctx, StockRequest{ItemID: item.ID, Quantity: 4, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.CurrentQuantity)
	assert.True(t, res.Item.IsLowStock())
}

func TestStockOperations_RejectInvalidInput(t *testing.T) {
	ctx := context.Background()
	db, svc, pub, user := newStockFixture(t)
	item := testutil.SeedItem(t, db, "CLIP", 5, 1, nil)

	cases := []struct {
		name string
		req  StockRequest
	}{
		{"zero quantity", StockRequest{ItemID: item.ID, Quantity: 0, UserID: user.ID}},
		{"negative quantity", StockRequest{ItemID: item.ID, Quantity: -3, UserID: user.ID}},
		{"missing item id", StockRequest{Quantity: 1, UserID: user.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.StockIn(ctx, tc.req)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}

	assert.Equal(t, 5, testutil.Quantity(t, db, item.ID))
	assert.EqualValues(t, 0, testutil.TransactionCount(t, db, item.ID))
	assert.Zero(t, pub.count())
}

func TestStockOperations_UnknownItem(t *testing.T) {
	_, svc, pub, user := newStockFixture(t)

	_, err := svc.Return(context.Background(), StockRequest{ItemID: uuid.New(), Quantity: 1, UserID: user.ID})
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, pub.count())
}

func TestStockOperations_RollBackWhenLogInsertFails(t *testing.T) {
	ctx := context.Background()
	db, svc, pub, _ := newStockFixture(t)
	item := testutil.SeedItem(t, db, "STAPLER", 8, 1, nil)

	// The quantity update succeeds, the log row then violates the user foreign key
	_, err := svc.StockIn(ctx, StockRequest{ItemID: item.ID, Quantity: 2, UserID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	assert.Equal(t, 8, testutil.Quantity(t, db, item.ID))
	assert.EqualValues(t, 0, testutil.TransactionCount(t, db, item.ID))
	assert.Zero(t, pub.count())
}

// raceDistributes fires workers concurrent distributions against stock for workers-1 of them
func raceDistributes(t *testing.T, db *gorm.DB, svc StockService, user *model.User, sku string) {
	t.Helper()
	ctx := context.Background()

	const workers = 8
	const unit = 3
	item := testutil.SeedItem(t, db, sku, (workers-1)*unit, 5, nil)
	t.Cleanup(func() {
		db.Where("item_id = ?", item.ID).Delete(&model.Transaction{})
		db.Delete(&model.Item{}, "id = ?", item.ID)
	})

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Distribute(ctx, StockRequest{ItemID: item.ID, Quantity: unit, UserID: user.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, short int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, workers-1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 0, testutil.Quantity(t, db, item.ID))
	assert.EqualValues(t, workers-1, testutil.TransactionCount(t, db, item.ID))
}

// The SQLite store has a single connection, so these goroutines are queued and
// run one transaction at a time. This checks the accounting, not the row-level
// guard under contention; TestDistribute_ConcurrentWritersOnPostgres does that.
func TestDistribute_ConcurrentRequestsNeverOversell(t *testing.T) {
	db, svc, _, user := newStockFixture(t)
	raceDistributes(t, db, svc, user, "COFFEE")
}

// Runs only when TEST_DATABASE_URL points at a disposable Postgres database
func TestDistribute_ConcurrentWritersOnPostgres(t *testing.T) {
	db := testutil.NewPostgresDB(t)
	svc := NewStockService(db,
		repository.NewItemRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewCategoryRepo(db),
		nil,
		zap.NewNop(),
	)
	user := testutil.SeedUser(t, db, "race-"+uuid.NewString()[:8], model.RoleOfficeBoy)
	t.Cleanup(func() { db.Delete(&model.User{}, "id = ?", user.ID) })

	raceDistributes(t, db, svc, user, "RACE-"+uuid.NewString()[:8])
}

func TestCreateItemWithInitialStock(t *testing.T) {
	ctx := context.Background()
	db, svc, pub, user := newStockFixture(t)
	category := testutil.SeedCategory(t, db, "Stationery")

	t.Run("zero quantity writes no log", func(t *testing.T) {
		res, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "ENV-C4",
			Name:              "Envelope C4",
			CategoryID:        &category.ID,
			LowStockThreshold: 10,
			UnitOfMeasurement: "pcs",
		}, user.ID)
		require.NoError(t, err)
		assert.Nil(t, res.Transaction)
		assert.Equal(t, 0, res.Item.CurrentQuantity)
		assert.EqualValues(t, 0, testutil.TransactionCount(t, db, res.Item.ID))
	})

	t.Run("positive quantity writes one stock in", func(t *testing.T) {
		res, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "MARKER-BLK",
			Name:              "Marker Black",
			InitialQuantity:   5,
			LowStockThreshold: 2,
			UnitOfMeasurement: "pcs",
		}, user.ID)
		require.NoError(t, err)
		require.NotNil(t, res.Transaction)
		assert.Equal(t, model.TxStockIn, res.Transaction.TransactionType)
		assert.Equal(t, 5, res.Transaction.QuantityChange)
		assert.Equal(t, 5, testutil.Quantity(t, db, res.Item.ID))
		assert.EqualValues(t, 1, testutil.TransactionCount(t, db, res.Item.ID))
	})

	t.Run("duplicate sku", func(t *testing.T) {
		_, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "MARKER-BLK",
			Name:              "Another marker",
			InitialQuantity:   3,
			UnitOfMeasurement: "pcs",
		}, user.ID)
		assert.True(t, errors.Is(err, ErrDuplicateSKU))
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("unknown category", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "GLUE",
			Name:              "Glue stick",
			CategoryID:        &missing,
			UnitOfMeasurement: "pcs",
		}, user.ID)
		assert.True(t, errors.Is(err, ErrCategoryNotFound))
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "ERASER",
			Name:              "Eraser",
			InitialQuantity:   -1,
			UnitOfMeasurement: "pcs",
		}, user.ID)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("unknown creator rolls back the item", func(t *testing.T) {
		_, err := svc.CreateItemWithInitialStock(ctx, &CreateItemRequest{
			SKU:               "RULER",
			Name:              "Ruler",
			InitialQuantity:   2,
			UnitOfMeasurement: "pcs",
		}, uuid.New())
		assert.True(t, errors.Is(err, ErrUserNotFound))

		var count int64
		require.NoError(t, db.Model(&model.Item{}).Where("sku = ?", "RULER").Count(&count).Error)
		assert.Zero(t, count)
	})

	assert.Equal(t, 2, pub.count())
}
