package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portal roles
const (
	RoleAdmin      = "admin"
	RoleParkStaff  = "park-staff"
	RoleFinance    = "finance"
	RoleGovernment = "government"
	RoleAuditor    = "auditor"
	RoleVisitor    = "visitor"
)

// Roles lists every role a user account may hold.
var Roles = []string{RoleAdmin, RoleParkStaff, RoleFinance, RoleGovernment, RoleAuditor, RoleVisitor}

// User represents a portal account of any role
type User struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName   string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"`   // Omit password from JSON requests/responses
	Role        string         `gorm:"type:varchar(30);not null" json:"role"` // admin, park-staff, finance, government, auditor, visitor
	ParkName    string         `gorm:"type:varchar(100)" json:"park_name,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsValidRole reports whether role is a known portal role.
func IsValidRole(role string) bool {
	return Contains(Roles, role)
}
