package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Request kinds. All three share one table and are told apart by Kind.
const (
	KindFund       = "FUND"
	KindEmergency  = "EMERGENCY"
	KindExtraFunds = "EXTRA_FUNDS"
)

// Request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Kinds lists every request kind in display order.
var Kinds = []string{KindFund, KindEmergency, KindExtraFunds}

var collectionByKind = map[string]string{
	KindFund:       "fund-requests",
	KindEmergency:  "emergency-requests",
	KindExtraFunds: "extra-funds-requests",
}

var referencePrefix = map[string]string{
	KindFund:       "FR",
	KindEmergency:  "EM",
	KindExtraFunds: "EX",
}

const (
	referenceAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	referenceSize     = 10
)

// FundingRequest is a fund, emergency or extra-funds request moving from
// pending to exactly one terminal status.
type FundingRequest struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	ReferenceNo   string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"reference_no"`
	Kind          string          `gorm:"type:varchar(20);not null;index" json:"kind"`
	Title         string          `gorm:"type:varchar(200);not null" json:"title"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category      string          `gorm:"type:varchar(50);not null" json:"category"`      // category, or emergency type
	ParkName      string          `gorm:"type:varchar(100);not null;index" json:"park_name"`
	Priority      string          `gorm:"type:varchar(20)" json:"priority"`               // urgency, timeframe or expected duration
	Justification string          `gorm:"type:text" json:"justification"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedBy   uuid.UUID       `gorm:"type:char(36);not null;index" json:"requested_by"`
	Requester     *User           `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	ReviewedBy    *uuid.UUID      `gorm:"type:char(36)" json:"reviewed_by"`
	Reviewer      *User           `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at"`
	DecisionNote  string          `gorm:"type:text" json:"decision_note"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the id and reference number when the caller has not.
func (r *FundingRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ReferenceNo == "" {
		ref, err := NewReferenceNo(r.Kind)
		if err != nil {
			return err
		}
		r.ReferenceNo = ref
	}
	return nil
}

// IsTerminal reports whether the request has left pending.
func (r *FundingRequest) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// CanTransition reports whether the request may move to status `to`.
// Only pending -> approved|rejected is defined.
func (r *FundingRequest) CanTransition(to string) bool {
	if r.Status != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

// NewReferenceNo builds a short human-facing reference such as EM-7K2M9Q4XPA.
func NewReferenceNo(kind string) (string, error) {
	id, err := gonanoid.Generate(referenceAlphabet, referenceSize)
	if err != nil {
		return "", err
	}
	prefix, ok := referencePrefix[kind]
	if !ok {
		prefix = "RQ"
	}
	return prefix + "-" + id, nil
}

// IsValidKind reports whether kind is one of the request kinds.
func IsValidKind(kind string) bool {
	_, ok := collectionByKind[kind]
	return ok
}

// CollectionPath returns the REST collection segment for kind.
func CollectionPath(kind string) string {
	return collectionByKind[kind]
}

// KindForCollection maps a REST collection segment back to its kind.
func KindForCollection(collection string) (string, bool) {
	for kind, c := range collectionByKind {
		if c == collection {
			return kind, true
		}
	}
	return "", false
}

// NormalizeStatus folds the decision spellings used across request kinds
// (denied, declined) onto the canonical statuses. Unknown values are returned
// lower-cased so callers can reject them.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "denied", "declined", "reject":
		return StatusRejected
	case "approve":
		return StatusApproved
	}
	return s
}

// IsValidStatus reports whether s is a canonical status.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
