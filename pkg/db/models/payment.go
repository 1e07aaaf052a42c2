package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one dues receipt. Rows are immutable once created; corrections
// are recorded as new compensating payments.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID        uuid.UUID       `gorm:"column:member_id;type:uuid;not null;index:idx_payments_member_date"`
	Member          *Member         `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	PaymentMethodID uuid.UUID       `gorm:"column:payment_method_id;type:uuid;not null"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:RESTRICT"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	PaymentDate     time.Time       `gorm:"column:payment_date;type:date;not null;index:idx_payments_member_date"`
	ReceiptNumber   string          `gorm:"column:receipt_number;not null"`
	Notes           string          `gorm:"column:notes;not null;default:''"`
	CreatedBy       string          `gorm:"column:created_by;not null;default:''"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
