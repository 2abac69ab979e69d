package models

import (
	"strings"
	"time"
)

// PartyKind is the case-normalized discriminator for the unified party table.
type PartyKind string

const (
	KindLead     PartyKind = "lead"
	KindCustomer PartyKind = "customer"
	KindUser     PartyKind = "user"
)

// NormalizeKind maps any historical casing ("Lead", "Customer", ...) onto the
// canonical lowercase discriminator. Unknown values pass through lowercased.
func NormalizeKind(s string) PartyKind {
	return PartyKind(strings.ToLower(strings.TrimSpace(s)))
}

// Party is the unified record for leads, customers and internal users,
// distinguished by Kind. assignedTo/enteredBy are free-text identifiers and
// may hold a user's id or display name interchangeably.
type Party struct {
	ID   string    `json:"id" gorm:"type:uuid;primaryKey"`
	Kind PartyKind `json:"type" gorm:"column:kind;type:varchar(16);index;not null"`

	Name          string `json:"name" gorm:"not null"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	Email2        string `json:"email2,omitempty"`
	Mobile        string `json:"mobile"`
	Mobile2       string `json:"mobile2,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`

	LeadSource       string `json:"leadSource,omitempty"`
	CustomerCategory string `json:"customerCategory,omitempty"`
	Priority         string `json:"priority,omitempty"`

	Status        string  `json:"status"`
	ExpectedValue float64 `json:"expectedValue"`
	Notes         string  `json:"notes,omitempty"`

	AssignedTo string `json:"assignedTo" gorm:"index"`
	EnteredBy  string `json:"enteredBy,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`

	// User-kind fields
	Role         string `json:"role,omitempty"`
	Department   string `json:"department,omitempty"`
	Designation  string `json:"designation,omitempty"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`

	FollowUps []LeadFollowUp `json:"followUps" gorm:"foreignKey:LeadID;references:ID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Party) TableName() string { return "parties" }

// LeadFollowUp is a scheduled touchpoint on a lead. Follow-ups live in their
// own table keyed by the parent lead id so that adding one is an atomic
// insert rather than a whole-document read-modify-write.
type LeadFollowUp struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID string `json:"leadId" gorm:"type:uuid;index;not null"`

	// Date is the absolute anchor, resolved once at write time. When the
	// follow-up was created from a relative offset, FollowupAfterDays records
	// the offset that produced it.
	Date              time.Time `json:"date" gorm:"not null"`
	Note              string    `json:"note"`
	FollowupType      string    `json:"followupType"`
	FollowupAfterDays int       `json:"followupAfterDays"`
	Priority          string    `json:"priority"`
	Status            string    `json:"status"`
	AssignTo          string    `json:"assignTo"`
	EnterBy           string    `json:"enterBy"`
	Remarks           string    `json:"remarks"`

	CreatedAt time.Time `json:"createdAt"`
}

// Lead follow-up statuses
const (
	FollowUpScheduled  = "Scheduled"
	FollowUpInProgress = "In Progress"
	FollowUpCompleted  = "Completed"
	FollowUpOverdue    = "Overdue"
)
