package services

import (
	"context"
	"fmt"

	"github.com/milan1710/mern-ayurveda/internal/models"
)

// VisibilityService resolves the role-scoped order visibility predicate.
// Order listing, single-order access and stats all consume the same scope.
type VisibilityService struct {
	Users UserStore
}

func NewVisibilityService(users UserStore) *VisibilityService {
	return &VisibilityService{Users: users}
}

// ScopeFor returns the set of assignees whose orders the actor may see.
// Admin sees everything; a sub-admin sees its own and its staff's orders;
// staff see only their own.
func (s *VisibilityService) ScopeFor(ctx context.Context, actor *models.User) (models.OrderScope, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return models.OrderScope{All: true}, nil
	case models.RoleSubAdmin:
		staffIDs, err := s.Users.StaffIDsOf(ctx, actor.ID)
		if err != nil {
			return models.OrderScope{}, fmt.Errorf("failed to resolve staff set: %w", err)
		}
		return models.OrderScope{UserIDs: append([]int{actor.ID}, staffIDs...)}, nil
	case models.RoleStaff:
		return models.OrderScope{UserIDs: []int{actor.ID}}, nil
	}
	return models.OrderScope{}, fmt.Errorf("unknown role %q", actor.Role)
}

// CanAccessOrder applies the same predicate to a single order
func (s *VisibilityService) CanAccessOrder(ctx context.Context, order *models.Order, actor *models.User) (bool, error) {
	scope, err := s.ScopeFor(ctx, actor)
	if err != nil {
		return false, err
	}
	return scope.Allows(order.AssignedTo), nil
}
