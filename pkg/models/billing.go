package models

import "time"

// LineItem is a denormalized snapshot of a product at quote time. Later
// product edits do not retroactively change historical line amounts.
type LineItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	Discount    float64 `json:"discount"`
}

// Quotation originates from an inquiry (weak reference) and carries a
// one-time copy of the customer contact fields.
type Quotation struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	InquiryID  string `json:"inquiryId"`
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`

	CustomerName   string `json:"customerName" gorm:"not null"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
	VehicleType    string `json:"vehicleType"`

	Items []LineItem `json:"items" gorm:"serializer:json"`

	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discountTotal"`
	TaxTotal      float64 `json:"taxTotal"`
	GrandTotal    float64 `json:"grandTotal"`

	Status     string     `json:"status" gorm:"index"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	Notes      string     `json:"notes"`
	CreatedBy  string     `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Quotation statuses
const (
	QuotationDraft    = "Draft"
	QuotationSent     = "Sent"
	QuotationAccepted = "Accepted"
	QuotationRejected = "Rejected"
)

// ProformaInvoice optionally originates from a quotation and copies its
// items and contact fields once at creation time.
type ProformaInvoice struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	QuotationID string `json:"quotationId"`
	InquiryID   string `json:"inquiryId"`
	SourceType  string `json:"sourceType"`
	SourceID    string `json:"sourceId"`

	InvoiceNumber string     `json:"invoiceNumber"`
	IssueDate     *time.Time `json:"issueDate,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`

	CustomerName   string `json:"customerName" gorm:"not null"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
	VehicleType    string `json:"vehicleType"`

	Items []LineItem `json:"items" gorm:"serializer:json"`

	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discountTotal"`
	TaxTotal      float64 `json:"taxTotal"`
	GrandTotal    float64 `json:"grandTotal"`

	Status    string `json:"status" gorm:"index"`
	Notes     string `json:"notes"`
	CreatedBy string `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Proforma invoice statuses
const (
	InvoiceDraft     = "Draft"
	InvoiceIssued    = "Issued"
	InvoicePaid      = "Paid"
	InvoiceCancelled = "Cancelled"
)
