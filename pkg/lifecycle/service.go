// Package lifecycle implements the inquiry → quotation → proforma invoice
// progression: weak-reference linkage, one-time denormalizing copies from
// the referenced document, and line-item totals.
package lifecycle

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
)

// Service handles inquiry, quotation and proforma invoice operations.
type Service struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewService creates a new lifecycle service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, validate: validator.New()}
}

// CreateInquiryRequest carries a new inquiry. The source party reference is
// required but its existence is deliberately not verified.
type CreateInquiryRequest struct {
	SourceType string `json:"sourceType" validate:"required,oneof=lead customer"`
	SourceID   string `json:"sourceId" validate:"required"`
	SourceName string `json:"sourceName"`

	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`

	VehicleType           string `json:"vehicleType"`
	RequirementType       string `json:"requirementType"`
	ShowroomRequired      bool   `json:"showroomRequired"`
	ServiceCenterRequired bool   `json:"serviceCenterRequired"`
	ModelInterested       string `json:"modelInterested"`
	Variant               string `json:"variant"`
	Quantity              int    `json:"quantity"`
	ExpectedDeliveryDate  string `json:"expectedDeliveryDate"`

	Status     string `json:"status"`
	AssignedTo string `json:"assignedTo"`
	CreatedBy  string `json:"createdBy"`
	Notes      string `json:"notes"`
}

// UpdateInquiryRequest merges only the supplied fields.
type UpdateInquiryRequest struct {
	SourceName            *string `json:"sourceName"`
	ContactPerson         *string `json:"contactPerson"`
	Email                 *string `json:"email"`
	Mobile                *string `json:"mobile"`
	VehicleType           *string `json:"vehicleType"`
	RequirementType       *string `json:"requirementType"`
	ShowroomRequired      *bool   `json:"showroomRequired"`
	ServiceCenterRequired *bool   `json:"serviceCenterRequired"`
	ModelInterested       *string `json:"modelInterested"`
	Variant               *string `json:"variant"`
	Quantity              *int    `json:"quantity"`
	ExpectedDeliveryDate  *string `json:"expectedDeliveryDate"`
	Status                *string `json:"status"`
	AssignedTo            *string `json:"assignedTo"`
	Notes                 *string `json:"notes"`
}

// CreateInquiry stores a new inquiry with a weak source reference.
func (s *Service) CreateInquiry(ctx context.Context, req CreateInquiryRequest) (*models.Inquiry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewValidationError("sourceType (lead or customer) and sourceId are required")
	}

	inq := models.Inquiry{
		ID:                    uuid.NewString(),
		SourceType:            req.SourceType,
		SourceID:              req.SourceID,
		SourceName:            req.SourceName,
		ContactPerson:         req.ContactPerson,
		Email:                 req.Email,
		Mobile:                req.Mobile,
		VehicleType:           req.VehicleType,
		RequirementType:       req.RequirementType,
		ShowroomRequired:      req.ShowroomRequired,
		ServiceCenterRequired: req.ServiceCenterRequired,
		ModelInterested:       req.ModelInterested,
		Variant:               req.Variant,
		Quantity:              defaultInt(req.Quantity, 1),
		Status:                defaultStr(req.Status, models.InquiryStatusNew),
		AssignedTo:            req.AssignedTo,
		CreatedBy:             req.CreatedBy,
		Notes:                 req.Notes,
	}
	if req.ExpectedDeliveryDate != "" {
		if d, err := models.ParseDate(req.ExpectedDeliveryDate); err == nil {
			inq.ExpectedDeliveryDate = &d
		}
	}

	if err := s.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &inq, nil
}

// ListInquiries returns inquiries, newest first.
func (s *Service) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := s.db.WithContext(ctx).
		Preload("Followups", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Order("created_at desc").
		Find(&inquiries).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return inquiries, nil
}

// GetInquiry returns one inquiry. A dangling source reference is not an
// error; the inquiry comes back with the stale sourceId intact.
func (s *Service) GetInquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("inquiry")
	}
	var inq models.Inquiry
	err := s.db.WithContext(ctx).
		Preload("Followups", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Where("id = ?", id).
		First(&inq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Inquiry")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &inq, nil
}

// UpdateInquiry merges the supplied fields into an existing inquiry.
func (s *Service) UpdateInquiry(ctx context.Context, id string, req UpdateInquiryRequest) (*models.Inquiry, error) {
	inq, err := s.GetInquiry(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SourceName != nil {
		inq.SourceName = *req.SourceName
	}
	if req.ContactPerson != nil {
		inq.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		inq.Email = *req.Email
	}
	if req.Mobile != nil {
		inq.Mobile = *req.Mobile
	}
	if req.VehicleType != nil {
		inq.VehicleType = *req.VehicleType
	}
	if req.RequirementType != nil {
		inq.RequirementType = *req.RequirementType
	}
	if req.ShowroomRequired != nil {
		inq.ShowroomRequired = *req.ShowroomRequired
	}
	if req.ServiceCenterRequired != nil {
		inq.ServiceCenterRequired = *req.ServiceCenterRequired
	}
	if req.ModelInterested != nil {
		inq.ModelInterested = *req.ModelInterested
	}
	if req.Variant != nil {
		inq.Variant = *req.Variant
	}
	if req.Quantity != nil {
		inq.Quantity = *req.Quantity
	}
	if req.ExpectedDeliveryDate != nil {
		if d, perr := models.ParseDate(*req.ExpectedDeliveryDate); perr == nil {
			inq.ExpectedDeliveryDate = &d
		}
	}
	if req.Status != nil {
		inq.Status = *req.Status
	}
	if req.AssignedTo != nil {
		inq.AssignedTo = *req.AssignedTo
	}
	if req.Notes != nil {
		inq.Notes = *req.Notes
	}

	if err := s.db.WithContext(ctx).Save(inq).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return inq, nil
}

// DeleteInquiry removes an inquiry together with its follow-ups. Documents
// referencing it (quotations) keep their stale inquiryId.
func (s *Service) DeleteInquiry(ctx context.Context, id string) error {
	inq, err := s.GetInquiry(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inquiry_id = ?", inq.ID).Delete(&models.InquiryFollowUp{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", inq.ID).Delete(&models.Inquiry{}).Error
	})
	if err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// CreateQuotationRequest carries a new quotation. inquiryId is a weak,
// optional reference; when present the contact fields the request leaves
// blank are copied from the inquiry once, at creation time.
type CreateQuotationRequest struct {
	InquiryID  string `json:"inquiryId"`
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`

	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
	VehicleType    string `json:"vehicleType"`

	Items []models.LineItem `json:"items"`

	Status     string `json:"status"`
	ValidUntil string `json:"validUntil"`
	Notes      string `json:"notes"`
	CreatedBy  string `json:"createdBy"`
}

// UpdateQuotationRequest merges only the supplied fields. Supplying items
// re-prunes them and recomputes totals.
type UpdateQuotationRequest struct {
	CustomerName   *string            `json:"customerName"`
	CustomerEmail  *string            `json:"customerEmail"`
	CustomerMobile *string            `json:"customerMobile"`
	VehicleType    *string            `json:"vehicleType"`
	Items          *[]models.LineItem `json:"items"`
	Status         *string            `json:"status"`
	ValidUntil     *string            `json:"validUntil"`
	Notes          *string            `json:"notes"`
}

// CreateQuotation stores a new quotation, pre-filling from the referenced
// inquiry when one is supplied. The copy happens once; later inquiry edits
// do not sync back.
func (s *Service) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*models.Quotation, error) {
	q := models.Quotation{
		ID:             uuid.NewString(),
		InquiryID:      req.InquiryID,
		SourceType:     req.SourceType,
		SourceID:       req.SourceID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
		VehicleType:    req.VehicleType,
		Status:         defaultStr(req.Status, models.QuotationDraft),
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}
	if req.ValidUntil != "" {
		if d, err := models.ParseDate(req.ValidUntil); err == nil {
			q.ValidUntil = &d
		}
	}

	if req.InquiryID != "" {
		// Weak reference: a missing inquiry is tolerated, the request
		// values stand as-is.
		if inq, err := s.GetInquiry(ctx, req.InquiryID); err == nil {
			q.SourceType = defaultStr(q.SourceType, inq.SourceType)
			q.SourceID = defaultStr(q.SourceID, inq.SourceID)
			q.CustomerName = defaultStr(q.CustomerName, inq.SourceName)
			q.CustomerEmail = defaultStr(q.CustomerEmail, inq.Email)
			q.CustomerMobile = defaultStr(q.CustomerMobile, inq.Mobile)
			q.VehicleType = defaultStr(q.VehicleType, inq.VehicleType)
		}
	}

	if q.CustomerName == "" {
		return nil, domain.NewValidationError("customerName is required")
	}

	q.Items = PruneItems(req.Items)
	applyTotals(&q.Subtotal, &q.DiscountTotal, &q.TaxTotal, &q.GrandTotal, q.Items)

	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &q, nil
}

// ListQuotations returns quotations, newest first.
func (s *Service) ListQuotations(ctx context.Context) ([]models.Quotation, error) {
	var quotations []models.Quotation
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&quotations).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return quotations, nil
}

// GetQuotation returns one quotation by id.
func (s *Service) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("quotation")
	}
	var q models.Quotation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Quotation")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &q, nil
}

// UpdateQuotation merges the supplied fields and recomputes totals when the
// items changed.
func (s *Service) UpdateQuotation(ctx context.Context, id string, req UpdateQuotationRequest) (*models.Quotation, error) {
	q, err := s.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		q.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		q.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerMobile != nil {
		q.CustomerMobile = *req.CustomerMobile
	}
	if req.VehicleType != nil {
		q.VehicleType = *req.VehicleType
	}
	if req.Status != nil {
		q.Status = *req.Status
	}
	if req.ValidUntil != nil {
		if d, perr := models.ParseDate(*req.ValidUntil); perr == nil {
			q.ValidUntil = &d
		}
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}
	if req.Items != nil {
		q.Items = PruneItems(*req.Items)
		applyTotals(&q.Subtotal, &q.DiscountTotal, &q.TaxTotal, &q.GrandTotal, q.Items)
	}

	if err := s.db.WithContext(ctx).Save(q).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return q, nil
}

// DeleteQuotation removes a quotation. Proforma invoices referencing it keep
// their stale quotationId.
func (s *Service) DeleteQuotation(ctx context.Context, id string) error {
	if _, err := s.GetQuotation(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quotation{}).Error; err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// CreateProformaRequest carries a new proforma invoice. quotationId is a
// weak, optional reference; when present, contact fields and items the
// request leaves blank are copied from the quotation once.
type CreateProformaRequest struct {
	QuotationID string `json:"quotationId"`
	InquiryID   string `json:"inquiryId"`
	SourceType  string `json:"sourceType"`
	SourceID    string `json:"sourceId"`

	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`

	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
	VehicleType    string `json:"vehicleType"`

	Items []models.LineItem `json:"items"`

	Status    string `json:"status"`
	Notes     string `json:"notes"`
	CreatedBy string `json:"createdBy"`
}

// UpdateProformaRequest merges only the supplied fields.
type UpdateProformaRequest struct {
	InvoiceNumber  *string            `json:"invoiceNumber"`
	IssueDate      *string            `json:"issueDate"`
	DueDate        *string            `json:"dueDate"`
	CustomerName   *string            `json:"customerName"`
	CustomerEmail  *string            `json:"customerEmail"`
	CustomerMobile *string            `json:"customerMobile"`
	VehicleType    *string            `json:"vehicleType"`
	Items          *[]models.LineItem `json:"items"`
	Status         *string            `json:"status"`
	Notes          *string            `json:"notes"`
}

// CreateProforma stores a new proforma invoice, pre-filling from the
// referenced quotation when one is supplied.
func (s *Service) CreateProforma(ctx context.Context, req CreateProformaRequest) (*models.ProformaInvoice, error) {
	inv := models.ProformaInvoice{
		ID:             uuid.NewString(),
		QuotationID:    req.QuotationID,
		InquiryID:      req.InquiryID,
		SourceType:     req.SourceType,
		SourceID:       req.SourceID,
		InvoiceNumber:  req.InvoiceNumber,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
		VehicleType:    req.VehicleType,
		Items:          req.Items,
		Status:         defaultStr(req.Status, models.InvoiceDraft),
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}
	if req.IssueDate != "" {
		if d, err := models.ParseDate(req.IssueDate); err == nil {
			inv.IssueDate = &d
		}
	}
	if req.DueDate != "" {
		if d, err := models.ParseDate(req.DueDate); err == nil {
			inv.DueDate = &d
		}
	}

	if req.QuotationID != "" {
		if q, err := s.GetQuotation(ctx, req.QuotationID); err == nil {
			inv.InquiryID = defaultStr(inv.InquiryID, q.InquiryID)
			inv.SourceType = defaultStr(inv.SourceType, q.SourceType)
			inv.SourceID = defaultStr(inv.SourceID, q.SourceID)
			inv.CustomerName = defaultStr(inv.CustomerName, q.CustomerName)
			inv.CustomerEmail = defaultStr(inv.CustomerEmail, q.CustomerEmail)
			inv.CustomerMobile = defaultStr(inv.CustomerMobile, q.CustomerMobile)
			inv.VehicleType = defaultStr(inv.VehicleType, q.VehicleType)
			if len(inv.Items) == 0 {
				inv.Items = q.Items
			}
		}
	}

	if inv.CustomerName == "" {
		return nil, domain.NewValidationError("customerName is required")
	}

	inv.Items = PruneItems(inv.Items)
	applyTotals(&inv.Subtotal, &inv.DiscountTotal, &inv.TaxTotal, &inv.GrandTotal, inv.Items)

	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &inv, nil
}

// ListProformas returns proforma invoices, newest first.
func (s *Service) ListProformas(ctx context.Context) ([]models.ProformaInvoice, error) {
	var invoices []models.ProformaInvoice
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&invoices).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return invoices, nil
}

// GetProforma returns one proforma invoice by id.
func (s *Service) GetProforma(ctx context.Context, id string) (*models.ProformaInvoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("proforma invoice")
	}
	var inv models.ProformaInvoice
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Proforma invoice")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &inv, nil
}

// UpdateProforma merges the supplied fields and recomputes totals when the
// items changed.
func (s *Service) UpdateProforma(ctx context.Context, id string, req UpdateProformaRequest) (*models.ProformaInvoice, error) {
	inv, err := s.GetProforma(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.InvoiceNumber != nil {
		inv.InvoiceNumber = *req.InvoiceNumber
	}
	if req.IssueDate != nil {
		if d, perr := models.ParseDate(*req.IssueDate); perr == nil {
			inv.IssueDate = &d
		}
	}
	if req.DueDate != nil {
		if d, perr := models.ParseDate(*req.DueDate); perr == nil {
			inv.DueDate = &d
		}
	}
	if req.CustomerName != nil {
		inv.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		inv.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerMobile != nil {
		inv.CustomerMobile = *req.CustomerMobile
	}
	if req.VehicleType != nil {
		inv.VehicleType = *req.VehicleType
	}
	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.Items != nil {
		inv.Items = PruneItems(*req.Items)
		applyTotals(&inv.Subtotal, &inv.DiscountTotal, &inv.TaxTotal, &inv.GrandTotal, inv.Items)
	}

	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return inv, nil
}

// DeleteProforma removes a proforma invoice.
func (s *Service) DeleteProforma(ctx context.Context, id string) error {
	if _, err := s.GetProforma(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProformaInvoice{}).Error; err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func applyTotals(subtotal, discountTotal, taxTotal, grandTotal *float64, items []models.LineItem) {
	t := ComputeTotals(items)
	*subtotal = t.Subtotal
	*discountTotal = t.DiscountTotal
	*taxTotal = t.TaxTotal
	*grandTotal = t.GrandTotal
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
