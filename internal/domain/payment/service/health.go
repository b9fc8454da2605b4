package service

import (
	"time"

	orderModel "senpai_store/internal/domain/order/model"
)

// WebhookHealth summarizes the last 24h of online orders so an operator can
// spot a broken webhook path: a pile of stale PENDING orders means the
// gateway's deliveries are not landing.
type WebhookHealth struct {
	TotalOnlineOrders   int          `json:"totalOnlineOrders"`
	PaidOrders          int          `json:"paidOrders"`
	FailedOrders        int          `json:"failedOrders"`
	PendingOrders       int          `json:"pendingOrders"`
	StaleOrders         int          `json:"staleOrders"`
	PercentageCompleted int          `json:"percentageCompleted"`
	StaleOrderDetails   []StaleOrder `json:"staleOrderDetails"`
	LastChecked         time.Time    `json:"lastChecked"`
}

// StaleOrder is an online order pending for over an hour.
type StaleOrder struct {
	ID              string    `json:"id"`
	CashfreeOrderID string    `json:"cashfreeOrderId"`
	Total           float64   `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
	HoursPending    int       `json:"hoursPending"`
}

// GetWebhookHealth computes the webhook health report.
func (s *paymentService) GetWebhookHealth() (*WebhookHealth, error) {
	now := time.Now()
	orders, err := s.orders.GetRecentOnline(now.Add(-24*time.Hour), 50)
	if err != nil {
		return nil, err
	}

	health := &WebhookHealth{
		TotalOnlineOrders: len(orders),
		StaleOrderDetails: []StaleOrder{},
		LastChecked:       now,
	}

	for _, o := range orders {
		switch o.PaymentStatus {
		case orderModel.PaymentStatusPaid:
			health.PaidOrders++
		case orderModel.PaymentStatusFailed:
			health.FailedOrders++
		case orderModel.PaymentStatusPending:
			health.PendingOrders++
			if pending := now.Sub(o.CreatedAt); pending > time.Hour {
				health.StaleOrders++
				health.StaleOrderDetails = append(health.StaleOrderDetails, StaleOrder{
					ID:              o.ID,
					CashfreeOrderID: o.CashfreeOrderID,
					Total:           o.Total,
					CreatedAt:       o.CreatedAt,
					HoursPending:    int(pending.Hours()),
				})
			}
		}
	}

	if health.TotalOnlineOrders > 0 {
		done := health.PaidOrders + health.FailedOrders
		health.PercentageCompleted = done * 100 / health.TotalOnlineOrders
	}

	return health, nil
}
