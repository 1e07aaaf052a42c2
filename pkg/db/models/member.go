package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/srobertsphd/alano-club/pkg/enums"
)

// Member is a club member. ExpirationDate always lands on the last day of a
// month; DateInactivated is set exactly when Status is inactive.
type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MemberNumber *int      `gorm:"column:member_number;uniqueIndex"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null;index"`
	Email        *string   `gorm:"column:email"`
	Phone        *string   `gorm:"column:phone"`

	Address string `gorm:"column:address;not null;default:''"`
	City    string `gorm:"column:city;not null;default:''"`
	State   string `gorm:"column:state;not null;default:''"`
	ZipCode string `gorm:"column:zip_code;not null;default:''"`

	MemberTypeID uuid.UUID   `gorm:"column:member_type_id;type:uuid;not null;index"`
	MemberType   *MemberType `gorm:"foreignKey:MemberTypeID;constraint:OnDelete:RESTRICT"`

	Status          enums.MemberStatus `gorm:"column:status;type:member_status;not null;default:'active';index"`
	JoinedOn        *time.Time         `gorm:"column:joined_on;type:date"`
	ExpirationDate  *time.Time         `gorm:"column:expiration_date;type:date"`
	DateInactivated *time.Time         `gorm:"column:date_inactivated;type:date"`

	Notes     string    `gorm:"column:notes;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName renders "First Last" for reports and log lines.
func (m Member) FullName() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

// IsExpired reports whether the membership lapsed before the given day.
func (m Member) IsExpired(asOf time.Time) bool {
	if m.ExpirationDate == nil {
		return false
	}
	return m.ExpirationDate.Before(asOf)
}
