// Package catalog handles the static product and lead-source catalogs.
// Products are referenced from line items only by weak id plus a copied
// snapshot, so edits here never rewrite historical quotations or invoices.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
)

// Service handles catalog operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateProductRequest carries a new product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	VehicleType string  `json:"vehicleType"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Variant     string  `json:"variant"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	StockQty    int     `json:"stockQty"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateProductRequest merges only the supplied fields.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	SKU         *string  `json:"sku"`
	Category    *string  `json:"category"`
	VehicleType *string  `json:"vehicleType"`
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Variant     *string  `json:"variant"`
	UnitPrice   *float64 `json:"unitPrice"`
	TaxRate     *float64 `json:"taxRate"`
	StockQty    *int     `json:"stockQty"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

// CreateProduct stores a new catalog product.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}

	p := models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		SKU:         req.SKU,
		Category:    req.Category,
		VehicleType: req.VehicleType,
		Brand:       req.Brand,
		Model:       req.Model,
		Variant:     req.Variant,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
		StockQty:    req.StockQty,
		Unit:        req.Unit,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

// ListProducts returns all products, newest first.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&products).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return products, nil
}

// GetProduct returns one product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("product")
	}
	var p models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Product")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

// UpdateProduct merges the supplied fields into an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.VehicleType != nil {
		p.VehicleType = *req.VehicleType
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.Variant != nil {
		p.Variant = *req.Variant
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.TaxRate != nil {
		p.TaxRate = *req.TaxRate
	}
	if req.StockQty != nil {
		p.StockQty = *req.StockQty
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return p, nil
}

// DeleteProduct removes a product. Line items referencing it keep their
// denormalized snapshot.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error; err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// CreateLeadSource adds a lead-source catalog entry.
func (s *Service) CreateLeadSource(ctx context.Context, name string) (*models.LeadSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.LeadSource{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	if count > 0 {
		return nil, domain.NewValidationError("Lead source already exists")
	}

	ls := models.LeadSource{ID: uuid.NewString(), Name: name}
	if err := s.db.WithContext(ctx).Create(&ls).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &ls, nil
}

// ListLeadSources returns all lead sources.
func (s *Service) ListLeadSources(ctx context.Context) ([]models.LeadSource, error) {
	var sources []models.LeadSource
	if err := s.db.WithContext(ctx).Order("name asc").Find(&sources).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return sources, nil
}

// DeleteLeadSource removes a lead source by id. Leads keep whatever source
// string was copied onto them.
func (s *Service) DeleteLeadSource(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewMalformedIDError("lead source")
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LeadSource{})
	if res.Error != nil {
		return domain.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("Lead source")
	}
	return nil
}
