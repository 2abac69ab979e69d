package party

import (
	"context"
	"testing"

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

	require.NoError(t, db.AutoMigrate(&models.Party{}, &models.LeadFollowUp{}))
	return db
}

func TestCreateLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("requires name email mobile", func(t *testing.T) {
		_, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{Name: "No Contact"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("defaults and normalization", func(t *testing.T) {
		lead, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
			Name:   "Asha Traders",
			Email:  "Asha@Example.COM",
			Mobile: "9999999999",
		})
		require.NoError(t, err)
		assert.Equal(t, models.KindLead, lead.Kind)
		assert.Equal(t, "asha@example.com", lead.Email)
		assert.Equal(t, "New", lead.Status)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, models.KindCustomer, CreatePartyRequest{
			Name:   "Other",
			Email:  "asha@example.com", // taken by the lead above, any kind counts
			Mobile: "1111111111",
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestGetRespectsKind(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
		Name: "Lead", Email: "lead@example.com", Mobile: "1",
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, models.KindCustomer, lead.ID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.Get(ctx, models.KindLead, "notanid")
	require.Error(t, err)
	assert.True(t, domain.IsMalformedID(err))
}

func TestListScoping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	mk := func(name, email, assignedTo string) {
		_, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
			Name: name, Email: email, Mobile: "1", AssignedTo: assignedTo,
		})
		require.NoError(t, err)
	}
	mk("Mine by name", "a@example.com", "Asha")
	mk("Mine by id", "b@example.com", "U1")
	mk("Not mine", "c@example.com", "U2")

	caller := scope.Caller{Sub: "U1", Role: "Sales", Name: "Asha"}
	leads, err := svc.List(ctx, models.KindLead, &caller)
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	admin := scope.Caller{Sub: "U9", Role: "Admin", Name: "Root"}
	leads, err = svc.List(ctx, models.KindLead, &admin)
	require.NoError(t, err)
	assert.Len(t, leads, 3)

	// nil caller = unscoped listing
	leads, err = svc.List(ctx, models.KindLead, nil)
	require.NoError(t, err)
	assert.Len(t, leads, 3)
}

func TestUpdatePartialMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
		Name: "Before", Email: "x@example.com", Mobile: "1", Priority: "Hot",
	})
	require.NoError(t, err)

	status := "Converted"
	updated, err := svc.Update(ctx, models.KindLead, lead.ID, UpdatePartyRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Converted", updated.Status)
	assert.Equal(t, "Before", updated.Name)
	assert.Equal(t, "Hot", updated.Priority)
}

func TestUpdateEmailUniqueness(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
		Name: "First", Email: "first@example.com", Mobile: "1",
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
		Name: "Second", Email: "second@example.com", Mobile: "2",
	})
	require.NoError(t, err)

	t.Run("taken email rejected", func(t *testing.T) {
		taken := "first@example.com"
		_, err := svc.Update(ctx, models.KindLead, second.ID, UpdatePartyRequest{Email: &taken})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("own email keeps working", func(t *testing.T) {
		same := "Second@Example.com" // case-folds to the current value
		name := "Second Renamed"
		updated, err := svc.Update(ctx, models.KindLead, second.ID, UpdatePartyRequest{Email: &same, Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "second@example.com", updated.Email)
		assert.Equal(t, "Second Renamed", updated.Name)
	})

	t.Run("fresh email accepted", func(t *testing.T) {
		fresh := "third@example.com"
		updated, err := svc.Update(ctx, models.KindLead, second.ID, UpdatePartyRequest{Email: &fresh})
		require.NoError(t, err)
		assert.Equal(t, "third@example.com", updated.Email)
	})
}

func TestDeleteRemovesFollowUps(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead, err := svc.Create(ctx, models.KindLead, CreatePartyRequest{
		Name: "Doomed", Email: "d@example.com", Mobile: "1",
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.LeadFollowUp{
		ID: uuid.NewString(), LeadID: lead.ID, Note: "n", Status: models.FollowUpScheduled,
	}).Error)

	_, err = svc.Delete(ctx, models.KindLead, lead.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.LeadFollowUp{}).Where("lead_id = ?", lead.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Delete(ctx, models.KindLead, lead.ID)
	assert.True(t, domain.IsNotFound(err))
}
