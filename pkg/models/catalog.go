package models

import "time"

// Product is a catalog entity with an independent lifecycle. Line items
// reference it only by weak id plus a copied snapshot of name and pricing.
type Product struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	Name        string `json:"name" gorm:"not null"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`
	VehicleType string `json:"vehicleType"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Variant     string `json:"variant"`

	UnitPrice float64 `json:"unitPrice"`
	TaxRate   float64 `json:"taxRate"`
	StockQty  int     `json:"stockQty"`
	Unit      string  `json:"unit"`

	Description string `json:"description"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeadSource is a static catalog entry for where a lead came from.
type LeadSource struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is an independent work item with no relationship to parties or
// inquiries.
type Task struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"index"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  string     `json:"assignedTo" gorm:"index"`
	CreatedBy   string     `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Task statuses
const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
)
