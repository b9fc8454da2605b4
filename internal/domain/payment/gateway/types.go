package gateway

import "encoding/json"

// PaymentStatusSuccess is the terminal success state reported by the
// gateway's payments query.
const PaymentStatusSuccess = "SUCCESS"

// CustomerDetails identifies the payer on a session request.
type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
}

// OrderMeta carries the two callback URLs: where the shopper's browser
// returns, and where the gateway posts the server-to-server webhook.
type OrderMeta struct {
	ReturnURL string `json:"return_url"`
	NotifyURL string `json:"notify_url"`
}

// CreateOrderRequest is the POST /pg/orders payload.
type CreateOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	OrderMeta       OrderMeta       `json:"order_meta"`
}

// CreateOrderResponse is the subset of the gateway's order object we keep.
type CreateOrderResponse struct {
	CFOrderID        string `json:"cf_order_id"`
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
}

// Payment is one record from GET /pg/orders/{id}/payments.
type Payment struct {
	CFPaymentID   json.Number `json:"cf_payment_id"`
	PaymentStatus string      `json:"payment_status"`
	PaymentAmount float64     `json:"payment_amount"`
}
