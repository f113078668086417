package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KindServiceApplication names service-provider applications in the access
// matrix. It is not a funding request kind.
const KindServiceApplication = "SERVICE_APPLICATION"

// ServiceApplication is a company applying to provide services in the parks.
// Finance decides it once, like a funding request.
type ServiceApplication struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName       string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email           string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone           string     `gorm:"type:varchar(20)" json:"phone"`
	CompanyType     string     `gorm:"type:varchar(50);not null" json:"company_type"`
	ProvidedService string     `gorm:"type:varchar(50)" json:"provided_service"`
	CompanyName     string     `gorm:"type:varchar(200);not null" json:"company_name"`
	TaxID           string     `gorm:"type:varchar(50);not null" json:"tax_id"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy      *uuid.UUID `gorm:"type:char(36)" json:"reviewed_by"`
	Reviewer        *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	DecisionNote    string     `gorm:"type:text" json:"decision_note"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *ServiceApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CanTransition reports whether the application may move to status `to`.
func (a *ServiceApplication) CanTransition(to string) bool {
	return a.Status == StatusPending && (to == StatusApproved || to == StatusRejected)
}
