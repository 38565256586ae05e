package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flour-ledger/internal/config"
	"flour-ledger/internal/database"
	"flour-ledger/internal/models"
	"flour-ledger/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	backups  *Service
	users    *service.UserService
	orders   *service.OrderService
	invoices *service.InvoiceService
}

func setup(t *testing.T, secret string) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(dir, "flour.db")})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	clock := service.MonotonicClock()
	return &fixture{
		db:       db,
		backups:  New(db, filepath.Join(dir, "backups"), secret, logger),
		users:    service.NewUserService(db, logger, clock),
		orders:   service.NewOrderService(db, logger, clock),
		invoices: service.NewInvoiceService(db, logger, clock),
	}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateAndRestore(t *testing.T) {
	f := setup(t, "secret")
	ctx := context.Background()

	u, err := f.users.AddUser(ctx, "Mona", "0100", decimal.NewFromInt(100))
	require.NoError(t, err)
	o, err := f.orders.AddOrder(ctx, u.ID, decimal.NewFromInt(30), 16, 10, 2026)
	require.NoError(t, err)
	_, err = f.orders.ToggleDone(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.invoices.AddInvoice(ctx, service.InvoiceInput{Year: 2026, Month: 10, Day: 16, Title: "sack", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	b, err := f.backups.Create(ctx)
	require.NoError(t, err)
	assert.FileExists(t, b.FilePath)
	assert.Positive(t, b.Size)

	// mutate after the backup
	require.NoError(t, f.orders.DeleteOrder(ctx, o.ID))
	_, err = f.users.AddUser(ctx, "Late", "0200", decimal.Zero)
	require.NoError(t, err)

	res, err := f.backups.Restore(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, RestoreResult{Users: 1, Orders: 1, Invoices: 1}, *res)

	assert.EqualValues(t, 1, count(t, f.db, &models.User{}))
	got, err := f.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(70).Equal(got.FlourAmount), "balance %s", got.FlourAmount)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	page, err := f.orders.GetOrdersByUser(ctx, u.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, o.ID, page.Items[0].ID)
	assert.NotNil(t, page.Items[0].DoneAt)
}

func TestRestore_WrongSecretChangesNothing(t *testing.T) {
	f := setup(t, "secret")
	ctx := context.Background()

	_, err := f.users.AddUser(ctx, "Mona", "0100", decimal.Zero)
	require.NoError(t, err)
	b, err := f.backups.Create(ctx)
	require.NoError(t, err)

	_, err = f.users.AddUser(ctx, "Omar", "0101", decimal.Zero)
	require.NoError(t, err)

	other := New(f.db, filepath.Dir(b.FilePath), "not-the-secret", nil)
	_, err = other.Restore(ctx, b.ID)
	require.Error(t, err)
	assert.EqualValues(t, 2, count(t, f.db, &models.User{}))
}

func TestListAndDelete(t *testing.T) {
	f := setup(t, "secret")
	ctx := context.Background()

	first, err := f.backups.Create(ctx)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := f.backups.Create(ctx)
	require.NoError(t, err)

	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, f.backups.Delete(ctx, first.ID))
	_, statErr := os.Stat(first.FilePath)
	assert.True(t, os.IsNotExist(statErr))

	list, err = f.backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, f.backups.Delete(ctx, first.ID), service.ErrNotFound)
	_, err = f.backups.Restore(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCreate_EmptySecret(t *testing.T) {
	f := setup(t, "")

	_, err := f.backups.Create(context.Background())
	require.Error(t, err)

	list, err := f.backups.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
