// Command seed populates the database with demo data for local development.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/nexgencrm/backend/config"
	"github.com/nexgencrm/backend/pkg/catalog"
	"github.com/nexgencrm/backend/pkg/database"
	"github.com/nexgencrm/backend/pkg/followup"
	"github.com/nexgencrm/backend/pkg/lifecycle"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/party"
	"github.com/nexgencrm/backend/pkg/tasks"
)

const (
	numLeads     = 40
	numCustomers = 15
	numInquiries = 20
	numProducts  = 10
	numTasks     = 12
)

var leadStatuses = []string{"New", "Contacted", "Qualified", "Converted", "Lost"}
var priorities = []string{"Low", "Medium", "High"}

func main() {
	cfg := config.Load()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	gofakeit.Seed(0)

	parties := party.NewService(db.Gorm)
	followups := followup.NewService(db.Gorm)
	lc := lifecycle.NewService(db.Gorm)
	cat := catalog.NewService(db.Gorm)
	taskSvc := tasks.NewService(db.Gorm)

	// Demo users
	admin, err := parties.Create(ctx, models.KindUser, party.CreatePartyRequest{
		Name:     "Admin User",
		Email:    "admin@nexgencrm.local",
		Mobile:   gofakeit.Phone(),
		Role:     "Admin",
		Password: "admin123",
	})
	if err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	sales, err := parties.Create(ctx, models.KindUser, party.CreatePartyRequest{
		Name:     "Sales Rep",
		Email:    "sales@nexgencrm.local",
		Mobile:   gofakeit.Phone(),
		Role:     "Sales",
		Password: "sales123",
	})
	if err != nil {
		log.Fatalf("failed to create sales user: %v", err)
	}
	log.Printf("created users: %s, %s", admin.Email, sales.Email)

	// Lead sources
	for _, name := range []string{"Website", "Referral", "Trade Show", "Cold Call", "Social Media"} {
		if _, err := cat.CreateLeadSource(ctx, name); err != nil {
			log.Printf("lead source %q: %v", name, err)
		}
	}

	// Products
	productNames := make([]string, 0, numProducts)
	for i := 0; i < numProducts; i++ {
		name := gofakeit.ProductName()
		if _, err := cat.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:        name,
			Description: gofakeit.Sentence(8),
			UnitPrice:   gofakeit.Price(50, 5000),
			TaxRate:     18,
			Unit:        "pcs",
		}); err != nil {
			log.Printf("product %q: %v", name, err)
			continue
		}
		productNames = append(productNames, name)
	}

	// Leads with follow-ups
	assignees := []string{admin.Name, sales.Name}
	for i := 0; i < numLeads; i++ {
		lead, err := parties.Create(ctx, models.KindLead, party.CreatePartyRequest{
			Name:          gofakeit.Company(),
			Email:         gofakeit.Email(),
			Mobile:        gofakeit.Phone(),
			ContactPerson: gofakeit.Name(),
			LeadSource:    gofakeit.RandomString([]string{"Website", "Referral", "Trade Show"}),
			Status:        gofakeit.RandomString(leadStatuses),
			Priority:      gofakeit.RandomString(priorities),
			ExpectedValue: gofakeit.Price(1000, 100000),
			AssignedTo:    gofakeit.RandomString(assignees),
			EnteredBy:     admin.Name,
			City:          gofakeit.City(),
			Country:       gofakeit.Country(),
		})
		if err != nil {
			log.Printf("lead: %v", err)
			continue
		}

		// A scattering of follow-ups around today
		for j := 0; j < gofakeit.Number(0, 3); j++ {
			date := time.Now().AddDate(0, 0, gofakeit.Number(-5, 10))
			if _, err := followups.AddLeadFollowUp(ctx, lead.ID, followup.AddLeadFollowUpRequest{
				Date:         date.Format("2006-01-02"),
				Note:         gofakeit.Sentence(10),
				FollowupType: gofakeit.RandomString([]string{"Call", "Email", "Meeting"}),
				Priority:     gofakeit.RandomString(priorities),
				AssignTo:     gofakeit.RandomString(assignees),
				EnterBy:      admin.Name,
			}); err != nil {
				log.Printf("lead follow-up: %v", err)
			}
		}
	}

	// Customers
	for i := 0; i < numCustomers; i++ {
		if _, err := parties.Create(ctx, models.KindCustomer, party.CreatePartyRequest{
			Name:             gofakeit.Company(),
			Email:            gofakeit.Email(),
			Mobile:           gofakeit.Phone(),
			ContactPerson:    gofakeit.Name(),
			CustomerCategory: gofakeit.RandomString([]string{"Retail", "Wholesale", "Enterprise"}),
			City:             gofakeit.City(),
			Country:          gofakeit.Country(),
		}); err != nil {
			log.Printf("customer: %v", err)
		}
	}

	// Inquiries, some carried into quotations
	for i := 0; i < numInquiries; i++ {
		inquiry, err := lc.CreateInquiry(ctx, lifecycle.CreateInquiryRequest{
			SourceType:      "lead",
			SourceID:        gofakeit.UUID(),
			SourceName:      gofakeit.Company(),
			ContactPerson:   gofakeit.Name(),
			Email:           gofakeit.Email(),
			Mobile:          gofakeit.Phone(),
			VehicleType:     gofakeit.RandomString([]string{"2W", "3W", "4W"}),
			RequirementType: "Purchase",
			ModelInterested: gofakeit.RandomString(productNames),
			Quantity:        gofakeit.Number(1, 50),
			CreatedBy:       admin.Name,
			Notes:           gofakeit.Sentence(12),
		})
		if err != nil {
			log.Printf("inquiry: %v", err)
			continue
		}

		if i%3 == 0 {
			if _, err := lc.CreateQuotation(ctx, lifecycle.CreateQuotationRequest{
				InquiryID:    inquiry.ID,
				CustomerName: inquiry.SourceName,
				CreatedBy:    admin.Name,
				Items: []models.LineItem{{
					ProductName: inquiry.ModelInterested,
					Quantity:    float64(inquiry.Quantity),
					UnitPrice:   gofakeit.Price(50, 2000),
					TaxRate:     18,
				}},
			}); err != nil {
				log.Printf("quotation: %v", err)
			}
		}
	}

	// Tasks
	for i := 0; i < numTasks; i++ {
		due := time.Now().AddDate(0, 0, gofakeit.Number(-3, 14))
		if _, err := taskSvc.Create(ctx, tasks.CreateTaskRequest{
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Sentence(10),
			DueDate:     due.Format("2006-01-02"),
			Priority:    gofakeit.RandomString(priorities),
			AssignedTo:  gofakeit.RandomString(assignees),
		}); err != nil {
			log.Printf("task: %v", err)
		}
	}

	fmt.Println("seed complete")
}
