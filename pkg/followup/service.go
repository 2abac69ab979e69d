// Package followup owns the follow-up records attached to leads and
// inquiries: append, in-place update, removal, and the time-bucketed
// today/overdue/upcoming summary used by the dashboard.
package followup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

// Service handles follow-up operations for both parent kinds.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new follow-up service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// AddLeadFollowUpRequest carries a new lead follow-up. Either Date or
// FollowupAfterDays must be present; an explicit date wins when both are.
type AddLeadFollowUpRequest struct {
	Date              string `json:"date"`
	Note              string `json:"note"`
	Status            string `json:"status"`
	FollowupType      string `json:"followupType"`
	FollowupAfterDays *int   `json:"followupAfterDays"`
	Priority          string `json:"priority"`
	AssignTo          string `json:"assignTo"`
	EnterBy           string `json:"enterBy"`
	Remarks           string `json:"remarks"`
}

// UpdateLeadFollowUpRequest merges only the supplied fields.
type UpdateLeadFollowUpRequest struct {
	Date              *string `json:"date"`
	Note              *string `json:"note"`
	Status            *string `json:"status"`
	FollowupType      *string `json:"followupType"`
	FollowupAfterDays *int    `json:"followupAfterDays"`
	Priority          *string `json:"priority"`
	AssignTo          *string `json:"assignTo"`
	EnterBy           *string `json:"enterBy"`
	Remarks           *string `json:"remarks"`
}

// AddLeadFollowUp appends a follow-up to a lead. The anchor date is resolved
// once here: an explicit date wins, otherwise now + followupAfterDays. It is
// never re-derived on later reads.
func (s *Service) AddLeadFollowUp(ctx context.Context, leadID string, req AddLeadFollowUpRequest) (*models.LeadFollowUp, error) {
	if req.Note == "" {
		return nil, domain.NewValidationError("note is required")
	}

	if _, err := s.findParty(ctx, leadID); err != nil {
		return nil, err
	}

	var anchor time.Time
	switch {
	case req.Date != "":
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			return nil, domain.NewValidationError("valid date or followupAfterDays required")
		}
		anchor = parsed
	case req.FollowupAfterDays != nil:
		anchor = s.now().AddDate(0, 0, *req.FollowupAfterDays)
	default:
		return nil, domain.NewValidationError("valid date or followupAfterDays required")
	}

	fu := models.LeadFollowUp{
		ID:           uuid.NewString(),
		LeadID:       leadID,
		Date:         anchor,
		Note:         req.Note,
		Status:       defaultStr(req.Status, models.FollowUpScheduled),
		FollowupType: defaultStr(req.FollowupType, "Call"),
		Priority:     req.Priority,
		AssignTo:     req.AssignTo,
		EnterBy:      req.EnterBy,
		Remarks:      req.Remarks,
		CreatedAt:    s.now(),
	}
	if req.FollowupAfterDays != nil {
		fu.FollowupAfterDays = *req.FollowupAfterDays
	}

	if err := s.db.WithContext(ctx).Create(&fu).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &fu, nil
}

// ListLeadFollowUps returns a lead's follow-ups in insertion order.
func (s *Service) ListLeadFollowUps(ctx context.Context, leadID string) ([]models.LeadFollowUp, error) {
	if _, err := s.findParty(ctx, leadID); err != nil {
		return nil, err
	}

	var fus []models.LeadFollowUp
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at asc").
		Find(&fus).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return fus, nil
}

// UpdateLeadFollowUp mutates a follow-up in place; unset fields keep their
// prior value.
func (s *Service) UpdateLeadFollowUp(ctx context.Context, leadID, followupID string, req UpdateLeadFollowUpRequest) (*models.LeadFollowUp, error) {
	if _, err := s.findParty(ctx, leadID); err != nil {
		return nil, err
	}

	fu, err := s.findLeadFollowUp(ctx, leadID, followupID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		parsed, perr := models.ParseDate(*req.Date)
		if perr != nil {
			return nil, domain.NewValidationError("invalid date")
		}
		fu.Date = parsed
	}
	if req.Note != nil {
		fu.Note = *req.Note
	}
	if req.Status != nil {
		fu.Status = *req.Status
	}
	if req.FollowupType != nil {
		fu.FollowupType = *req.FollowupType
	}
	if req.FollowupAfterDays != nil {
		fu.FollowupAfterDays = *req.FollowupAfterDays
	}
	if req.Priority != nil {
		fu.Priority = *req.Priority
	}
	if req.AssignTo != nil {
		fu.AssignTo = *req.AssignTo
	}
	if req.EnterBy != nil {
		fu.EnterBy = *req.EnterBy
	}
	if req.Remarks != nil {
		fu.Remarks = *req.Remarks
	}

	if err := s.db.WithContext(ctx).Save(fu).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return fu, nil
}

// DeleteLeadFollowUp removes a follow-up by id. An absent id is reported as
// not found for both parent kinds.
func (s *Service) DeleteLeadFollowUp(ctx context.Context, leadID, followupID string) error {
	if _, err := s.findParty(ctx, leadID); err != nil {
		return err
	}
	if _, err := s.findLeadFollowUp(ctx, leadID, followupID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Where("lead_id = ? AND id = ?", leadID, followupID).
		Delete(&models.LeadFollowUp{}).Error
	if err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// AddInquiryFollowUpRequest carries a new inquiry follow-up. The explicit
// date is mandatory for this variant.
type AddInquiryFollowUpRequest struct {
	FollowupDate string `json:"followupDate"`
	FollowupTime string `json:"followupTime"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	Remarks      string `json:"remarks"`
	CreatedBy    string `json:"createdBy"`
}

// UpdateInquiryFollowUpRequest merges only the supplied fields.
type UpdateInquiryFollowUpRequest struct {
	FollowupDate *string `json:"followupDate"`
	FollowupTime *string `json:"followupTime"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	Remarks      *string `json:"remarks"`
}

// AddInquiryFollowUp appends a follow-up to an inquiry.
func (s *Service) AddInquiryFollowUp(ctx context.Context, inquiryID string, req AddInquiryFollowUpRequest) (*models.InquiryFollowUp, error) {
	if _, err := s.findInquiry(ctx, inquiryID); err != nil {
		return nil, err
	}

	if req.FollowupDate == "" {
		return nil, domain.NewValidationError("followupDate is required")
	}
	anchor, err := models.ParseDate(req.FollowupDate)
	if err != nil {
		return nil, domain.NewValidationError("followupDate is required")
	}

	fu := models.InquiryFollowUp{
		ID:           uuid.NewString(),
		InquiryID:    inquiryID,
		FollowupDate: anchor,
		FollowupTime: req.FollowupTime,
		Status:       defaultStr(req.Status, models.InquiryFollowUpPending),
		Priority:     defaultStr(req.Priority, "Medium"),
		Remarks:      req.Remarks,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    s.now(),
	}

	if err := s.db.WithContext(ctx).Create(&fu).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &fu, nil
}

// UpdateInquiryFollowUp mutates an inquiry follow-up in place.
func (s *Service) UpdateInquiryFollowUp(ctx context.Context, inquiryID, followupID string, req UpdateInquiryFollowUpRequest) (*models.InquiryFollowUp, error) {
	if _, err := s.findInquiry(ctx, inquiryID); err != nil {
		return nil, err
	}

	fu, err := s.findInquiryFollowUp(ctx, inquiryID, followupID)
	if err != nil {
		return nil, err
	}

	if req.FollowupDate != nil {
		parsed, perr := models.ParseDate(*req.FollowupDate)
		if perr != nil {
			return nil, domain.NewValidationError("invalid followupDate")
		}
		fu.FollowupDate = parsed
	}
	if req.FollowupTime != nil {
		fu.FollowupTime = *req.FollowupTime
	}
	if req.Status != nil {
		fu.Status = *req.Status
	}
	if req.Priority != nil {
		fu.Priority = *req.Priority
	}
	if req.Remarks != nil {
		fu.Remarks = *req.Remarks
	}

	if err := s.db.WithContext(ctx).Save(fu).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return fu, nil
}

// DeleteInquiryFollowUp removes an inquiry follow-up by id.
func (s *Service) DeleteInquiryFollowUp(ctx context.Context, inquiryID, followupID string) error {
	if _, err := s.findInquiry(ctx, inquiryID); err != nil {
		return err
	}
	if _, err := s.findInquiryFollowUp(ctx, inquiryID, followupID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Where("inquiry_id = ? AND id = ?", inquiryID, followupID).
		Delete(&models.InquiryFollowUp{}).Error
	if err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// Summary partitions every non-completed lead follow-up visible to the
// caller into today/overdue/upcoming by comparing its anchor against the
// start of the current and next calendar day. Entries keep iteration order
// (leads by creation, follow-ups by insertion); callers sort for display.
func (s *Service) Summary(ctx context.Context, caller scope.Caller, now time.Time) (*models.FollowUpSummary, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var leads []models.Party
	q := scope.Apply(s.db.WithContext(ctx).Where("kind = ?", models.KindLead), caller)
	err := q.Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	}).Order("created_at asc").Find(&leads).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	summary := &models.FollowUpSummary{
		TodayFollowups:    []models.LeadFollowUpPair{},
		OverdueFollowups:  []models.LeadFollowUpPair{},
		UpcomingFollowups: []models.LeadFollowUpPair{},
	}

	for i := range leads {
		lead := &leads[i]
		for _, fu := range lead.FollowUps {
			if fu.Status == models.FollowUpCompleted {
				continue
			}
			pair := models.LeadFollowUpPair{Lead: lead, FollowUp: fu}
			switch {
			case fu.Date.Before(today):
				summary.OverdueFollowups = append(summary.OverdueFollowups, pair)
			case fu.Date.Before(tomorrow):
				summary.TodayFollowups = append(summary.TodayFollowups, pair)
			default:
				summary.UpcomingFollowups = append(summary.UpcomingFollowups, pair)
			}
		}
	}

	return summary, nil
}

func (s *Service) findParty(ctx context.Context, id string) (*models.Party, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("lead")
	}
	var p models.Party
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Lead")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &p, nil
}

func (s *Service) findInquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("inquiry")
	}
	var inq models.Inquiry
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&inq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Inquiry")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &inq, nil
}

func (s *Service) findLeadFollowUp(ctx context.Context, leadID, id string) (*models.LeadFollowUp, error) {
	var fu models.LeadFollowUp
	err := s.db.WithContext(ctx).Where("lead_id = ? AND id = ?", leadID, id).First(&fu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Follow-up")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &fu, nil
}

func (s *Service) findInquiryFollowUp(ctx context.Context, inquiryID, id string) (*models.InquiryFollowUp, error) {
	var fu models.InquiryFollowUp
	err := s.db.WithContext(ctx).Where("inquiry_id = ? AND id = ?", inquiryID, id).First(&fu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Follow-up")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &fu, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
