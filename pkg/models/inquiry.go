package models

import "time"

// Inquiry references its source party by (sourceType, sourceId) — a weak
// reference with no existence guarantee. Readers must tolerate a dangling
// source.
type Inquiry struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	SourceType string `json:"sourceType" gorm:"not null"`
	SourceID   string `json:"sourceId" gorm:"not null"`
	SourceName string `json:"sourceName"`

	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`

	VehicleType           string     `json:"vehicleType"`
	RequirementType       string     `json:"requirementType"`
	ShowroomRequired      bool       `json:"showroomRequired"`
	ServiceCenterRequired bool       `json:"serviceCenterRequired"`
	ModelInterested       string     `json:"modelInterested"`
	Variant               string     `json:"variant"`
	Quantity              int        `json:"quantity"`
	ExpectedDeliveryDate  *time.Time `json:"expectedDeliveryDate,omitempty"`

	Status     string `json:"status" gorm:"index"`
	AssignedTo string `json:"assignedTo" gorm:"index"`
	CreatedBy  string `json:"createdBy"`
	Notes      string `json:"notes"`

	Followups []InquiryFollowUp `json:"followups" gorm:"foreignKey:InquiryID;references:ID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Inquiry statuses
const (
	InquiryStatusNew        = "New"
	InquiryStatusInProgress = "In Progress"
	InquiryStatusQualified  = "Qualified"
	InquiryStatusConverted  = "Converted"
	InquiryStatusLost       = "Lost"
)

// InquiryFollowUp is the inquiry-side follow-up variant. The shape differs
// from LeadFollowUp (explicit date plus time-of-day string, different status
// set) and the two are kept as separate named types.
type InquiryFollowUp struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey"`
	InquiryID string `json:"inquiryId" gorm:"type:uuid;index;not null"`

	FollowupDate time.Time `json:"followupDate" gorm:"not null"`
	FollowupTime string    `json:"followupTime"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	Remarks      string    `json:"remarks"`
	CreatedBy    string    `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
}

// Inquiry follow-up statuses
const (
	InquiryFollowUpPending   = "Pending"
	InquiryFollowUpScheduled = "Scheduled"
	InquiryFollowUpCompleted = "Completed"
	InquiryFollowUpCancelled = "Cancelled"
)
