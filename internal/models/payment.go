package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// PaymentSession is the server-side record of a hosted checkout session.
// Only the signed webhook moves it out of the pending state; the client
// redirect pages carry no authority.
type PaymentSession struct {
	ID          string    `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
