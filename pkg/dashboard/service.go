// Package dashboard produces the scope-filtered summary counts shown on the
// landing page.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/cache"
	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

// Service computes dashboard aggregates.
type Service struct {
	db    *gorm.DB
	cache *cache.Client
	ttl   time.Duration
}

// NewService creates a new dashboard service. The cache client may be nil,
// in which case every request recomputes.
func NewService(db *gorm.DB, cacheClient *cache.Client, ttl time.Duration) *Service {
	return &Service{db: db, cache: cacheClient, ttl: ttl}
}

// Summary returns the four dashboard counts for the caller's scope. Either
// all four are computed or the whole request fails; there is no partial
// summary. Results are cached briefly per caller scope.
func (s *Service) Summary(ctx context.Context, caller scope.Caller) (*models.DashboardSummary, error) {
	key := cacheKey(caller)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached models.DashboardSummary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx, caller)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			// Cache misses are recomputed anyway; a failed set is not fatal.
			_ = s.cache.Set(ctx, key, raw, s.ttl)
		}
	}
	return summary, nil
}

// Invalidate drops every cached summary, all scopes. Called after lead and
// task mutations so the next summary reflects them without waiting out the
// TTL. A failed flush only means stale reads until expiry.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, "dashboard:summary:*")
}

func (s *Service) compute(ctx context.Context, caller scope.Caller) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary

	leadScope := func() *gorm.DB {
		return scope.Apply(
			s.db.WithContext(ctx).Model(&models.Party{}).Where("kind = ?", models.KindLead),
			caller,
		)
	}

	if err := leadScope().Where("status = ?", "Converted").Count(&summary.TotalCustomers).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}

	if err := leadScope().Where("status NOT IN ?", []string{"Converted", "Lost", "Inactive"}).
		Count(&summary.ActiveLeads).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}

	err := leadScope().Where("status = ?", "Converted").
		Select("COALESCE(SUM(expected_value), 0)").
		Scan(&summary.TotalSales).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	taskScope := scope.Apply(s.db.WithContext(ctx).Model(&models.Task{}), caller)
	if err := taskScope.Where("status != ?", models.TaskCompleted).Count(&summary.PendingTasks).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}

	return &summary, nil
}

func cacheKey(caller scope.Caller) string {
	if caller.IsAdmin() {
		return "dashboard:summary:admin"
	}
	return fmt.Sprintf("dashboard:summary:%s:%s", caller.Sub, caller.Name)
}
