package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TourBooking is a guided tour reserved through the public booking form.
type TourBooking struct {
	ID              uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	ParkName        string          `gorm:"type:varchar(100);not null;index" json:"park_name"`
	TourName        string          `gorm:"type:varchar(100);not null" json:"tour_name"`
	TourDate        string          `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	TourTime        string          `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM
	Guests          int             `gorm:"not null" json:"guests"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	FirstName       string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email           string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	SpecialRequests string          `gorm:"type:text" json:"special_requests"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (t *TourBooking) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TourPrice is the amount due for a party of guests.
func TourPrice(guests int) decimal.Decimal {
	return decimal.NewFromInt(int64(guests) * TourPricePerGuest)
}
