package lifecycle

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
		&models.Quotation{},
		&models.ProformaInvoice{},
	))
	return db
}

func TestCreateInquiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("requires source reference", func(t *testing.T) {
		_, err := svc.CreateInquiry(ctx, CreateInquiryRequest{SourceType: "lead"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("source existence is not verified", func(t *testing.T) {
		inq, err := svc.CreateInquiry(ctx, CreateInquiryRequest{
			SourceType: "lead",
			SourceID:   uuid.NewString(), // no such party
			SourceName: "Ghost Lead",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InquiryStatusNew, inq.Status)
		assert.Equal(t, 1, inq.Quantity)
	})
}

func TestInquirySurvivesSourceDeletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lead := models.Party{
		ID: uuid.NewString(), Kind: models.KindLead, Name: "Doomed", AssignedTo: "U1",
	}
	require.NoError(t, db.Create(&lead).Error)

	inq, err := svc.CreateInquiry(ctx, CreateInquiryRequest{
		SourceType: "lead", SourceID: lead.ID, SourceName: lead.Name,
	})
	require.NoError(t, err)

	require.NoError(t, db.Where("id = ?", lead.ID).Delete(&models.Party{}).Error)

	// The inquiry still reads fine with the stale sourceId intact.
	got, err := svc.GetInquiry(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, got.SourceID)
}

func TestCreateQuotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("copies contact fields from inquiry once", func(t *testing.T) {
		inq, err := svc.CreateInquiry(ctx, CreateInquiryRequest{
			SourceType:  "customer",
			SourceID:    uuid.NewString(),
			SourceName:  "Acme Motors",
			Email:       "acme@example.com",
			Mobile:      "8888888888",
			VehicleType: "4W",
		})
		require.NoError(t, err)

		q, err := svc.CreateQuotation(ctx, CreateQuotationRequest{InquiryID: inq.ID})
		require.NoError(t, err)
		assert.Equal(t, "Acme Motors", q.CustomerName)
		assert.Equal(t, "acme@example.com", q.CustomerEmail)
		assert.Equal(t, "8888888888", q.CustomerMobile)
		assert.Equal(t, "customer", q.SourceType)
		assert.Equal(t, "4W", q.VehicleType)
		assert.Equal(t, models.QuotationDraft, q.Status)

		// One-time copy: renaming the inquiry later does not sync back.
		name := "Renamed"
		_, err = svc.UpdateInquiry(ctx, inq.ID, UpdateInquiryRequest{SourceName: &name})
		require.NoError(t, err)
		again, err := svc.GetQuotation(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Motors", again.CustomerName)
	})

	t.Run("dangling inquiry reference tolerated", func(t *testing.T) {
		q, err := svc.CreateQuotation(ctx, CreateQuotationRequest{
			InquiryID:    uuid.NewString(),
			CustomerName: "Walk-in",
		})
		require.NoError(t, err)
		assert.Equal(t, "Walk-in", q.CustomerName)
	})

	t.Run("customerName required", func(t *testing.T) {
		_, err := svc.CreateQuotation(ctx, CreateQuotationRequest{})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("whitespace-only product names pruned and totals computed", func(t *testing.T) {
		q, err := svc.CreateQuotation(ctx, CreateQuotationRequest{
			CustomerName: "Asha",
			Items: []models.LineItem{
				{ProductName: "Scooter", Quantity: 2, UnitPrice: 100, TaxRate: 10, Discount: 20},
				{ProductName: "  ", Quantity: 1, UnitPrice: 999},
				{ProductName: "Helmet", Quantity: 1, UnitPrice: 50},
			},
		})
		require.NoError(t, err)
		require.Len(t, q.Items, 2)
		assert.InDelta(t, 250, q.Subtotal, 1e-9)
		assert.InDelta(t, 20, q.DiscountTotal, 1e-9)
		assert.InDelta(t, 18, q.TaxTotal, 1e-9)
		assert.InDelta(t, 248, q.GrandTotal, 1e-9)

		// Persisted items don't contain the blank line either.
		stored, err := svc.GetQuotation(ctx, q.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
	})
}

func TestUpdateQuotationRecomputesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	q, err := svc.CreateQuotation(ctx, CreateQuotationRequest{
		CustomerName: "Asha",
		Items:        []models.LineItem{{ProductName: "A", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100, q.GrandTotal, 1e-9)

	items := []models.LineItem{{ProductName: "A", Quantity: 2, UnitPrice: 100}}
	updated, err := svc.UpdateQuotation(ctx, q.ID, UpdateQuotationRequest{Items: &items})
	require.NoError(t, err)
	assert.InDelta(t, 200, updated.GrandTotal, 1e-9)

	// Status has no transition guard: any value may follow any other.
	status := models.QuotationRejected
	updated, err = svc.UpdateQuotation(ctx, q.ID, UpdateQuotationRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationRejected, updated.Status)
	status = models.QuotationDraft
	updated, err = svc.UpdateQuotation(ctx, q.ID, UpdateQuotationRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationDraft, updated.Status)
}

func TestCreateProforma(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	q, err := svc.CreateQuotation(ctx, CreateQuotationRequest{
		InquiryID:      uuid.NewString(),
		CustomerName:   "Acme Motors",
		CustomerEmail:  "acme@example.com",
		CustomerMobile: "8888888888",
		VehicleType:    "2W",
		Items: []models.LineItem{
			{ProductName: "Scooter", Quantity: 2, UnitPrice: 100, TaxRate: 10, Discount: 20},
		},
	})
	require.NoError(t, err)

	t.Run("copies everything from quotation", func(t *testing.T) {
		inv, err := svc.CreateProforma(ctx, CreateProformaRequest{
			QuotationID:   q.ID,
			InvoiceNumber: "PI-001",
		})
		require.NoError(t, err)
		assert.Equal(t, q.InquiryID, inv.InquiryID)
		assert.Equal(t, "Acme Motors", inv.CustomerName)
		assert.Equal(t, "2W", inv.VehicleType)
		require.Len(t, inv.Items, 1)
		assert.InDelta(t, q.GrandTotal, inv.GrandTotal, 1e-9)
		assert.Equal(t, models.InvoiceDraft, inv.Status)
	})

	t.Run("dangling quotation reference tolerated", func(t *testing.T) {
		inv, err := svc.CreateProforma(ctx, CreateProformaRequest{
			QuotationID:  uuid.NewString(),
			CustomerName: "Direct",
		})
		require.NoError(t, err)
		assert.Equal(t, "Direct", inv.CustomerName)
		assert.Empty(t, inv.Items)
	})
}

func TestGetMalformedIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.GetInquiry(ctx, "nope")
	assert.True(t, domain.IsMalformedID(err))
	_, err = svc.GetQuotation(ctx, "nope")
	assert.True(t, domain.IsMalformedID(err))
	_, err = svc.GetProforma(ctx, "nope")
	assert.True(t, domain.IsMalformedID(err))
}

func TestDeleteInquiryRemovesFollowups(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	inq, err := svc.CreateInquiry(ctx, CreateInquiryRequest{
		SourceType: "lead", SourceID: uuid.NewString(),
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.InquiryFollowUp{
		ID:        uuid.NewString(),
		InquiryID: inq.ID,
		Status:    models.InquiryFollowUpPending,
	}).Error)

	require.NoError(t, svc.DeleteInquiry(ctx, inq.ID))

	var count int64
	require.NoError(t, db.Model(&models.InquiryFollowUp{}).Where("inquiry_id = ?", inq.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = svc.DeleteInquiry(ctx, inq.ID)
	assert.True(t, domain.IsNotFound(err))
}
