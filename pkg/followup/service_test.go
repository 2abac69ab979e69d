package followup

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Party{},
		&models.LeadFollowUp{},
		&models.Inquiry{},
		&models.InquiryFollowUp{},
	))
	return db
}

func createTestLead(t *testing.T, db *gorm.DB, assignedTo string) *models.Party {
	lead := &models.Party{
		ID:         uuid.NewString(),
		Kind:       models.KindLead,
		Name:       "Test Lead",
		Email:      uuid.NewString() + "@example.com",
		Mobile:     "9999999999",
		Status:     "New",
		AssignedTo: assignedTo,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func createTestInquiry(t *testing.T, db *gorm.DB) *models.Inquiry {
	inq := &models.Inquiry{
		ID:         uuid.NewString(),
		SourceType: "lead",
		SourceID:   uuid.NewString(),
		Status:     models.InquiryStatusNew,
		Quantity:   1,
	}
	require.NoError(t, db.Create(inq).Error)
	return inq
}

func TestAddLeadFollowUp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead := createTestLead(t, db, "Asha")

	t.Run("explicit date wins over offset", func(t *testing.T) {
		days := 5
		fu, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{
			Date:              "2024-06-20",
			Note:              "call back",
			FollowupAfterDays: &days,
		})
		require.NoError(t, err)
		assert.Equal(t, 2024, fu.Date.Year())
		assert.Equal(t, time.June, fu.Date.Month())
		assert.Equal(t, 20, fu.Date.Day())
		assert.Equal(t, models.FollowUpScheduled, fu.Status)
		assert.Equal(t, "Call", fu.FollowupType)
	})

	t.Run("offset derives anchor once at write time", func(t *testing.T) {
		fixed := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }
		defer func() { svc.now = time.Now }()

		days := 3
		fu, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{
			Note:              "site visit",
			FollowupAfterDays: &days,
		})
		require.NoError(t, err)
		assert.Equal(t, fixed.AddDate(0, 0, 3), fu.Date)
		assert.Equal(t, 3, fu.FollowupAfterDays)

		// Stored anchor is absolute; re-reading does not re-derive it.
		var stored models.LeadFollowUp
		require.NoError(t, db.Where("id = ?", fu.ID).First(&stored).Error)
		assert.True(t, stored.Date.Equal(fixed.AddDate(0, 0, 3)))
	})

	t.Run("missing note rejected", func(t *testing.T) {
		_, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{Date: "2024-06-20"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("missing anchor and offset rejected", func(t *testing.T) {
		_, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{Note: "no date"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown parent rejected", func(t *testing.T) {
		_, err := svc.AddLeadFollowUp(ctx, uuid.NewString(), AddLeadFollowUpRequest{
			Note: "x", Date: "2024-06-20",
		})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("malformed parent id rejected", func(t *testing.T) {
		_, err := svc.AddLeadFollowUp(ctx, "not-a-uuid", AddLeadFollowUpRequest{
			Note: "x", Date: "2024-06-20",
		})
		require.Error(t, err)
		assert.True(t, domain.IsMalformedID(err))
	})
}

func TestUpdateLeadFollowUpPartialMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead := createTestLead(t, db, "Asha")
	fu, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{
		Date:     "2024-06-20",
		Note:     "original note",
		Priority: "Hot",
		Remarks:  "keep me",
	})
	require.NoError(t, err)

	status := models.FollowUpCompleted
	updated, err := svc.UpdateLeadFollowUp(ctx, lead.ID, fu.ID, UpdateLeadFollowUpRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, models.FollowUpCompleted, updated.Status)
	assert.Equal(t, "original note", updated.Note)
	assert.Equal(t, "Hot", updated.Priority)
	assert.Equal(t, "keep me", updated.Remarks)

	t.Run("unknown followup id", func(t *testing.T) {
		_, err := svc.UpdateLeadFollowUp(ctx, lead.ID, uuid.NewString(), UpdateLeadFollowUpRequest{})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestDeleteLeadFollowUp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead := createTestLead(t, db, "Asha")
	fu, err := svc.AddLeadFollowUp(ctx, lead.ID, AddLeadFollowUpRequest{Date: "2024-06-20", Note: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLeadFollowUp(ctx, lead.ID, fu.ID))

	// Deleting again reports not found, same as the inquiry variant.
	err = svc.DeleteLeadFollowUp(ctx, lead.ID, fu.ID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestInquiryFollowUps(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	inq := createTestInquiry(t, db)

	t.Run("date is mandatory", func(t *testing.T) {
		_, err := svc.AddInquiryFollowUp(ctx, inq.ID, AddInquiryFollowUpRequest{Remarks: "no date"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("defaults applied", func(t *testing.T) {
		fu, err := svc.AddInquiryFollowUp(ctx, inq.ID, AddInquiryFollowUpRequest{
			FollowupDate: "2024-07-01",
			FollowupTime: "10:30",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InquiryFollowUpPending, fu.Status)
		assert.Equal(t, "Medium", fu.Priority)

		st := models.InquiryFollowUpCompleted
		updated, err := svc.UpdateInquiryFollowUp(ctx, inq.ID, fu.ID, UpdateInquiryFollowUpRequest{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, models.InquiryFollowUpCompleted, updated.Status)
		assert.Equal(t, "10:30", updated.FollowupTime)

		require.NoError(t, svc.DeleteInquiryFollowUp(ctx, inq.ID, fu.ID))
		err = svc.DeleteInquiryFollowUp(ctx, inq.ID, fu.ID)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown inquiry", func(t *testing.T) {
		_, err := svc.AddInquiryFollowUp(ctx, uuid.NewString(), AddInquiryFollowUpRequest{FollowupDate: "2024-07-01"})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestSummaryBuckets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	lead := createTestLead(t, db, "Asha")
	addFU := func(date time.Time, status string) {
		require.NoError(t, db.Create(&models.LeadFollowUp{
			ID:     uuid.NewString(),
			LeadID: lead.ID,
			Date:   date,
			Note:   "n",
			Status: status,
		}).Error)
	}

	addFU(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC), models.FollowUpScheduled)  // today
	addFU(time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC), models.FollowUpScheduled) // overdue
	addFU(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), models.FollowUpScheduled)   // upcoming
	addFU(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), models.FollowUpCompleted)   // excluded

	caller := scope.Caller{Sub: "U1", Role: "Sales", Name: "Asha"}
	summary, err := svc.Summary(ctx, caller, now)
	require.NoError(t, err)

	require.Len(t, summary.TodayFollowups, 1)
	require.Len(t, summary.OverdueFollowups, 1)
	require.Len(t, summary.UpcomingFollowups, 1)

	assert.Equal(t, 8, summary.TodayFollowups[0].FollowUp.Date.Hour())
	assert.Equal(t, 14, summary.OverdueFollowups[0].FollowUp.Date.Day())
	assert.Equal(t, 16, summary.UpcomingFollowups[0].FollowUp.Date.Day())
	assert.Equal(t, lead.ID, summary.TodayFollowups[0].Lead.ID)
}

func TestSummaryMidnightAnchorIsToday(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	lead := createTestLead(t, db, "Asha")

	// Anchor exactly at start of day belongs to today, not upcoming.
	require.NoError(t, db.Create(&models.LeadFollowUp{
		ID:     uuid.NewString(),
		LeadID: lead.ID,
		Date:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Note:   "n",
		Status: models.FollowUpScheduled,
	}).Error)

	summary, err := svc.Summary(ctx, scope.Caller{Role: "Admin"}, now)
	require.NoError(t, err)
	assert.Len(t, summary.TodayFollowups, 1)
	assert.Empty(t, summary.UpcomingFollowups)
}

func TestSummaryRespectsScope(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	mine := createTestLead(t, db, "Asha")
	other := createTestLead(t, db, "U2")
	for _, l := range []*models.Party{mine, other} {
		require.NoError(t, db.Create(&models.LeadFollowUp{
			ID:     uuid.NewString(),
			LeadID: l.ID,
			Date:   now,
			Note:   "n",
			Status: models.FollowUpScheduled,
		}).Error)
	}

	summary, err := svc.Summary(ctx, scope.Caller{Sub: "U1", Role: "Sales", Name: "Asha"}, now)
	require.NoError(t, err)
	require.Len(t, summary.TodayFollowups, 1)
	assert.Equal(t, mine.ID, summary.TodayFollowups[0].Lead.ID)

	adminSummary, err := svc.Summary(ctx, scope.Caller{Sub: "U9", Role: "Admin", Name: "Root"}, now)
	require.NoError(t, err)
	assert.Len(t, adminSummary.TodayFollowups, 2)
}
