package repository

import (
	"testing"
	"time"

	"senpai_store/internal/domain/order/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(model.OrderStatusShipped, sqlmock.AnyArg(), "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus("order-1", model.OrderStatusShipped)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentState(t *testing.T) {
	t.Run("with fulfillment status", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db)

		// Map updates render in sorted column order.
		mock.ExpectExec(`UPDATE "orders" SET "payment_status"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
			WithArgs(model.PaymentStatusPaid, model.OrderStatusConfirmed, sqlmock.AnyArg(), "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentState("order-1", model.PaymentStatusPaid, model.OrderStatusConfirmed)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("payment status only", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db)

		mock.ExpectExec(`UPDATE "orders" SET "payment_status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(model.PaymentStatusFailed, sqlmock.AnyArg(), "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentState("order-1", model.PaymentStatusFailed, "")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetGatewaySession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE "orders" SET "cashfree_order_id"=\$1,"payment_session_id"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs("cf-100", "session_abc", sqlmock.AnyArg(), "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetGatewaySession("order-1", "cf-100", "session_abc")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentOnline(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	since := time.Now().Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "payment_method", "payment_status", "total"}).
		AddRow("order-1", model.PaymentMethodOnline, model.PaymentStatusPending, 899.0).
		AddRow("order-2", model.PaymentMethodOnline, model.PaymentStatusPaid, 1798.0)

	// gorm parenthesizes the condition and appends the soft-delete clause.
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE \(payment_method = \$1 AND created_at >= \$2\)`).
		WillReturnRows(rows)

	orders, err := repo.GetRecentOnline(since, 50)

	assert.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "order-1", orders[0].ID)
	assert.Equal(t, model.PaymentStatusPaid, orders[1].PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
