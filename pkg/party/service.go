// Package party is the data-access boundary for the unified party table
// (leads, customers and internal users under one roof, split by a
// case-normalized kind discriminator).
package party

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/auth"
	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

// Service handles party storage operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new party service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreatePartyRequest carries a new lead, customer or user. Name, email and
// mobile are mandatory for every kind.
type CreatePartyRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Email2        string `json:"email2"`
	Mobile        string `json:"mobile"`
	Mobile2       string `json:"mobile2"`
	ContactPerson string `json:"contactPerson"`

	LeadSource       string `json:"leadSource"`
	CustomerCategory string `json:"customerCategory"`
	Priority         string `json:"priority"`

	Status        string  `json:"status"`
	ExpectedValue float64 `json:"expectedValue"`
	Notes         string  `json:"notes"`

	AssignedTo string `json:"assignedTo"`
	EnteredBy  string `json:"enteredBy"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`

	// User-kind fields
	Role        string `json:"role"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Password    string `json:"password"`
}

// UpdatePartyRequest merges only the supplied fields.
type UpdatePartyRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Email2        *string `json:"email2"`
	Mobile        *string `json:"mobile"`
	Mobile2       *string `json:"mobile2"`
	ContactPerson *string `json:"contactPerson"`

	LeadSource       *string `json:"leadSource"`
	CustomerCategory *string `json:"customerCategory"`
	Priority         *string `json:"priority"`

	Status        *string  `json:"status"`
	ExpectedValue *float64 `json:"expectedValue"`
	Notes         *string  `json:"notes"`

	AssignedTo *string `json:"assignedTo"`
	EnteredBy  *string `json:"enteredBy"`

	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`

	Role        *string `json:"role"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	Password    *string `json:"password"`
}

// List returns parties of one kind. When a caller is supplied the access
// scope filter narrows the set; a nil caller means no scoping (customer and
// user listings are unscoped).
func (s *Service) List(ctx context.Context, kind models.PartyKind, caller *scope.Caller) ([]models.Party, error) {
	q := s.db.WithContext(ctx).Where("kind = ?", kind)
	if caller != nil {
		q = scope.Apply(q, *caller)
	}

	var parties []models.Party
	err := q.Preload("FollowUps", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Order("created_at asc").
		Find(&parties).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return parties, nil
}

// Get returns one party of the given kind by id.
func (s *Service) Get(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError(string(kind))
	}

	var p models.Party
	err := s.db.WithContext(ctx).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Where("id = ? AND kind = ?", id, kind).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError(titleKind(kind))
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

// Create stores a new party of the given kind. Email must be unique across
// the whole table, matching the legacy single-collection constraint.
func (s *Service) Create(ctx context.Context, kind models.PartyKind, req CreatePartyRequest) (*models.Party, error) {
	if req.Name == "" || req.Email == "" || req.Mobile == "" {
		return nil, domain.NewValidationError("name, email, and mobile are required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Party{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	if count > 0 {
		return nil, domain.NewValidationError("Email already exists")
	}

	p := models.Party{
		ID:               uuid.NewString(),
		Kind:             kind,
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Email2:           req.Email2,
		Mobile:           req.Mobile,
		Mobile2:          req.Mobile2,
		ContactPerson:    req.ContactPerson,
		LeadSource:       req.LeadSource,
		CustomerCategory: req.CustomerCategory,
		Priority:         req.Priority,
		Status:           req.Status,
		ExpectedValue:    req.ExpectedValue,
		Notes:            req.Notes,
		AssignedTo:       req.AssignedTo,
		EnteredBy:        req.EnteredBy,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Role:             req.Role,
		Department:       req.Department,
		Designation:      req.Designation,
	}
	if p.Status == "" {
		switch kind {
		case models.KindUser:
			p.Status = "Active"
		default:
			p.Status = "New"
		}
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		p.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

// Update merges the supplied fields into an existing party.
func (s *Service) Update(ctx context.Context, kind models.PartyKind, id string, req UpdatePartyRequest) (*models.Party, error) {
	p, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != p.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.Party{}).
				Where("email = ? AND id <> ?", email, p.ID).
				Count(&count).Error; err != nil {
				return nil, domain.NewInternalError(err)
			}
			if count > 0 {
				return nil, domain.NewValidationError("Email already exists")
			}
		}
		p.Email = email
	}
	if req.Email2 != nil {
		p.Email2 = *req.Email2
	}
	if req.Mobile != nil {
		p.Mobile = *req.Mobile
	}
	if req.Mobile2 != nil {
		p.Mobile2 = *req.Mobile2
	}
	if req.ContactPerson != nil {
		p.ContactPerson = *req.ContactPerson
	}
	if req.LeadSource != nil {
		p.LeadSource = *req.LeadSource
	}
	if req.CustomerCategory != nil {
		p.CustomerCategory = *req.CustomerCategory
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.ExpectedValue != nil {
		p.ExpectedValue = *req.ExpectedValue
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.AssignedTo != nil {
		p.AssignedTo = *req.AssignedTo
	}
	if req.EnteredBy != nil {
		p.EnteredBy = *req.EnteredBy
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.Country != nil {
		p.Country = *req.Country
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.Department != nil {
		p.Department = *req.Department
	}
	if req.Designation != nil {
		p.Designation = *req.Designation
	}
	if req.Password != nil && *req.Password != "" {
		hash, herr := auth.HashPassword(*req.Password)
		if herr != nil {
			return nil, domain.NewInternalError(herr)
		}
		p.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Omit("FollowUps").Save(p).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return p, nil
}

// Delete removes a party. A lead's follow-ups are bound to its lifecycle and
// go with it; inquiries referencing the party keep their stale sourceId.
func (s *Service) Delete(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	p, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", p.ID).Delete(&models.LeadFollowUp{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", p.ID).Delete(&models.Party{}).Error
	})
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return p, nil
}

// FindByEmail returns a party by its (lowercased) email, any kind.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.Party, error) {
	var p models.Party
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("User")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

func titleKind(kind models.PartyKind) string {
	switch kind {
	case models.KindLead:
		return "Lead"
	case models.KindCustomer:
		return "Customer"
	case models.KindUser:
		return "User"
	default:
		return "Party"
	}
}
