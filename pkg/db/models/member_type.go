package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberType is a dues schedule: Regular, Senior, Life, and so on.
// CoverageMonths is how many calendar months one full dues payment buys;
// AllowsPayments is false for types like Life that never owe dues.
type MemberType struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"type:text;not null;uniqueIndex"`
	Description    string          `gorm:"column:description;not null;default:''"`
	Dues           decimal.Decimal `gorm:"column:dues;type:numeric(8,2);not null;default:0"`
	CoverageMonths decimal.Decimal `gorm:"column:coverage_months;type:numeric(4,1);not null;default:1"`
	AllowsPayments bool            `gorm:"column:allows_payments;not null;default:true"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
