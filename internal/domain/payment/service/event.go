package service

import "encoding/json"

// EventKind is the discriminated webhook event type, resolved once at the
// boundary so the rest of the flow switches on a closed set.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPaymentSuccess
	EventPaymentFailed
	EventUserDropped
)

// Gateway event type strings.
const (
	typePaymentSuccess = "PAYMENT_SUCCESS_WEBHOOK"
	typePaymentFailed  = "PAYMENT_FAILED_WEBHOOK"
	typeUserDropped    = "PAYMENT_USER_DROPPED_WEBHOOK"
)

// WebhookEvent is the parsed webhook payload. Raw is retained for logging
// unknown event shapes.
type WebhookEvent struct {
	Kind    EventKind
	Type    string
	OrderID string
	Raw     []byte
}

type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	} `json:"data"`
}

// ParseWebhookEvent decodes the raw body into the event union.
func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, err
	}

	kind := EventUnknown
	switch env.Type {
	case typePaymentSuccess:
		kind = EventPaymentSuccess
	case typePaymentFailed:
		kind = EventPaymentFailed
	case typeUserDropped:
		kind = EventUserDropped
	}

	return &WebhookEvent{
		Kind:    kind,
		Type:    env.Type,
		OrderID: env.Data.Order.OrderID,
		Raw:     rawBody,
	}, nil
}
