package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/pkg/db/models"
)

// ProcessPaymentInput is the typed payload for recording a dues payment.
type ProcessPaymentInput struct {
	MemberID        uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	// PaymentDate is the business date of the payment, defaulting to today.
	PaymentDate   time.Time
	ReceiptNumber string
	Notes         string
	CreatedBy     string
	// ExpirationOverride bypasses the dues calculation; used for
	// administrative corrections.
	ExpirationOverride *time.Time
}

// ProcessPaymentResult reports the recorded payment and the membership state
// it produced.
type ProcessPaymentResult struct {
	Payment *models.Payment
	Member  *models.Member
	// WasReactivated is true when an inactive member was flipped back to
	// active by this payment.
	WasReactivated bool
	// PreviousExpiration is the expiration before this payment, when one
	// existed.
	PreviousExpiration *time.Time
}
