package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/timeutil"
)

// StatsService aggregates dashboard numbers over the actor's visibility scope
type StatsService struct {
	Orders     OrderStore
	Users      UserStore
	Visibility *VisibilityService
}

func NewStatsService(orders OrderStore, users UserStore, visibility *VisibilityService) *StatsService {
	return &StatsService{
		Orders:     orders,
		Users:      users,
		Visibility: visibility,
	}
}

// Summary returns totals and per-status counts for the window, scoped exactly
// like the order listing. staffID narrows further but only within the scope.
// Day boundaries resolve in IST.
func (s *StatsService) Summary(ctx context.Context, actor *models.User, from, to time.Time, staffID *int) (*models.StatsSummary, error) {
	scope, err := s.Visibility.ScopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	if from.IsZero() {
		from = timeutil.StartOfDay(timeutil.Now().AddDate(0, 0, -30))
	} else {
		from = timeutil.StartOfDay(from)
	}
	if to.IsZero() {
		to = timeutil.EndOfDay(timeutil.Now())
	} else {
		to = timeutil.EndOfDay(to)
	}

	// The staff filter narrows the scope, never widens it
	if staffID != nil {
		if !scope.Allows(staffID) {
			return nil, ErrForbidden
		}
		scope = models.OrderScope{UserIDs: []int{*staffID}}
	}

	// Admin dashboard is hot; serve from cache when the window matches
	cacheKey := ""
	if actor.Role == models.RoleAdmin && staffID == nil {
		cacheKey = fmt.Sprintf("stats:summary:%s:%s",
			timeutil.FormatIST(from, timeutil.DateLayout),
			timeutil.FormatIST(to, timeutil.DateLayout))
		if data, ok := cache.GetCached(ctx, cacheKey); ok {
			var cached models.StatsSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	byStatus, err := s.Orders.CountByStatus(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.Orders.SalesPlaced(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}

	summary := &models.StatsSummary{
		Totals: models.StatsTotals{
			TotalOrders:      total,
			PlacedOrders:     byStatus[string(models.OrderStatusPlaced)],
			ConfirmedOrders:  byStatus[string(models.OrderStatusConfirmed)],
			TotalSalesPlaced: sales,
		},
		ByStatus:   byStatus,
		StaffUsers: []models.Assignable{},
	}

	staffUsers, err := s.staffUsersFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary.StaffUsers = staffUsers

	if cacheKey != "" {
		if data, err := json.Marshal(summary); err == nil {
			cache.SetCached(ctx, cacheKey, data, 2*time.Minute)
		}
	}

	return summary, nil
}

// staffUsersFor returns the accounts the dashboard offers as staff filters
func (s *StatsService) staffUsersFor(ctx context.Context, actor *models.User) ([]models.Assignable, error) {
	var users []*models.User
	var err error

	switch actor.Role {
	case models.RoleAdmin:
		subs, serr := s.Users.ListByRole(ctx, models.RoleSubAdmin)
		if serr != nil {
			return nil, serr
		}
		staff, serr := s.Users.ListByRole(ctx, models.RoleStaff)
		if serr != nil {
			return nil, serr
		}
		users = append(subs, staff...)
	case models.RoleSubAdmin:
		users, err = s.Users.ListStaffOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		users = append([]*models.User{actor}, users...)
	default:
		return []models.Assignable{}, nil
	}

	result := make([]models.Assignable, 0, len(users))
	for _, u := range users {
		result = append(result, models.Assignable{ID: u.ID, Name: u.Name, Role: u.Role})
	}
	return result, nil
}
