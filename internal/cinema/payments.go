package cinema

import (
	"context"
	"fmt"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type PaymentService struct {
	client *apiclient.Client
}

type PaymentOrder struct {
	OrderURL       string `json:"order_url"`
	AppTransID     string `json:"app_trans_id,omitempty"`
	IdempotencyKey string `json:"-"`
}

type PaymentState string

const (
	PaymentPaid    PaymentState = "paid"
	PaymentFailed  PaymentState = "failed"
	PaymentPending PaymentState = "pending"
)

type PaymentStatus struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message,omitempty"`
}

func (p PaymentStatus) State() PaymentState {
	switch p.ReturnCode {
	case 1:
		return PaymentPaid
	case 0:
		return PaymentFailed
	default:
		return PaymentPending
	}
}

// CreateZaloPayOrder asks the backend for a payment link. Callers retrying a submission pass the
// IdempotencyKey of the first attempt, an empty key starts a new submission with a fresh one.
func (s *PaymentService) CreateZaloPayOrder(
	ctx context.Context,
	bookingID models.FlexibleID,
	redirectURL string,
	idempotencyKey string,
) (PaymentOrder, error) {
	key := idempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	order, err := post[PaymentOrder](
		ctx,
		s.client,
		"/payments/zalopay/orders",
		map[string]any{"bookingId": bookingID, "redirectUrl": redirectURL},
		apiclient.WithHeader(idempotencyKeyHeader, key),
	)
	if err != nil {
		return PaymentOrder{}, err
	}
	if order.OrderURL == "" {
		return PaymentOrder{}, fmt.Errorf("the payment order of booking %s has no order url", bookingID)
	}
	order.IdempotencyKey = key
	return order, nil
}

func (s *PaymentService) Status(ctx context.Context, bookingID models.FlexibleID) (PaymentStatus, error) {
	return get[PaymentStatus](ctx, s.client, "/payments/zalopay/status/"+pathID(bookingID))
}
