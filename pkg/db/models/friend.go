package models

import (
	"time"

	"github.com/google/uuid"
)

// Friend is an associate record attached to a member: spouse, sponsor, contact.
type Friend struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID     uuid.UUID `gorm:"column:member_id;type:uuid;not null;index"`
	Member       *Member   `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Name         string    `gorm:"column:name;not null"`
	Relationship string    `gorm:"column:relationship;not null;default:''"`
	Phone        *string   `gorm:"column:phone"`
	Email        *string   `gorm:"column:email"`
	Notes        string    `gorm:"column:notes;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
