package service

import (
	"testing"
	"time"

	orderModel "senpai_store/internal/domain/order/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func onlineOrderAt(id, paymentStatus string, age time.Duration) orderModel.Order {
	o := orderModel.Order{
		Total:         899,
		PaymentMethod: orderModel.PaymentMethodOnline,
		PaymentStatus: paymentStatus,
	}
	o.ID = id
	o.CreatedAt = time.Now().Add(-age)
	return o
}

func TestGetWebhookHealth(t *testing.T) {
	t.Run("counts states and flags stale pendings", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetRecentOnline", mock.Anything, 50).Return([]orderModel.Order{
			onlineOrderAt("o-1", orderModel.PaymentStatusPaid, 30*time.Minute),
			onlineOrderAt("o-2", orderModel.PaymentStatusFailed, 2*time.Hour),
			onlineOrderAt("o-3", orderModel.PaymentStatusPending, 10*time.Minute),
			onlineOrderAt("o-4", orderModel.PaymentStatusPending, 3*time.Hour),
		}, nil)

		health, err := svc.GetWebhookHealth()

		assert.NoError(t, err)
		assert.Equal(t, 4, health.TotalOnlineOrders)
		assert.Equal(t, 1, health.PaidOrders)
		assert.Equal(t, 1, health.FailedOrders)
		assert.Equal(t, 2, health.PendingOrders)
		assert.Equal(t, 1, health.StaleOrders)
		assert.Equal(t, 50, health.PercentageCompleted)
		if assert.Len(t, health.StaleOrderDetails, 1) {
			assert.Equal(t, "o-4", health.StaleOrderDetails[0].ID)
			assert.Equal(t, 3, health.StaleOrderDetails[0].HoursPending)
		}
	})

	t.Run("empty window", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetRecentOnline", mock.Anything, 50).Return([]orderModel.Order{}, nil)

		health, err := svc.GetWebhookHealth()

		assert.NoError(t, err)
		assert.Equal(t, 0, health.TotalOnlineOrders)
		assert.Equal(t, 0, health.PercentageCompleted)
		assert.NotNil(t, health.StaleOrderDetails)
	})
}
