package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSubmitRequest  = "SUBMIT_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"
	ActionLogin      = "LOGIN"
	ActionLogout     = "LOGOUT"

	ActionReceiveDonation = "RECEIVE_DONATION"
	ActionBookTour        = "BOOK_TOUR"

	ActionSubmitApplication  = "SUBMIT_APPLICATION"
	ActionApproveApplication = "APPROVE_APPLICATION"
	ActionRejectApplication  = "REJECT_APPLICATION"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:char(36);index" json:"user_id"` // Nil for anonymous actions such as public donations
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
