package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Donation is a public gift to a park.
type Donation struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	DonationType string          `gorm:"type:varchar(20);not null" json:"donation_type"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ParkName     string          `gorm:"type:varchar(100);not null;index" json:"park_name"`
	FirstName    string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string          `gorm:"type:varchar(255);not null" json:"email"`
	Message      string          `gorm:"type:text" json:"message"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
