package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/milan1710/mern-ayurveda/internal/auth"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// LoginResult carries either a full session or a pending 2FA challenge
type LoginResult struct {
	Auth      *models.AuthResponse
	Needs2FA  bool
	TempToken string
}

// Login authenticates by email and password. Accounts with TOTP enabled get
// a short-lived temp token instead of a session; VerifyTOTP finishes the login.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountSuspended
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Needs2FA: true, TempToken: tempToken}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Auth: &models.AuthResponse{Token: token, User: user}}, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// CreateStaff creates a staff account. Admins create free-standing staff;
// a sub-admin owns the staff it creates.
func (s *UserService) CreateStaff(ctx context.Context, req *models.CreateStaffRequest, actor *models.User) (*models.User, error) {
	if actor.Role == models.RoleStaff {
		return nil, ErrForbidden
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleStaff,
		IsActive:     true,
	}
	if actor.Role == models.RoleSubAdmin {
		parentID := actor.ID
		user.ParentID = &parentID
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListStaff returns the staff visible to the actor: all staff for an admin,
// own staff for a sub-admin.
func (s *UserService) ListStaff(ctx context.Context, actor *models.User) ([]*models.User, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return s.Repo.ListByRole(ctx, models.RoleStaff)
	case models.RoleSubAdmin:
		return s.Repo.ListStaffOf(ctx, actor.ID)
	}
	return nil, ErrForbidden
}

// DeleteStaff removes a staff account the actor owns (or any, for admin)
func (s *UserService) DeleteStaff(ctx context.Context, id int, actor *models.User) error {
	target, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if target.Role != models.RoleStaff {
		return ErrForbidden
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleSubAdmin:
		if target.ParentID == nil || *target.ParentID != actor.ID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	return s.Repo.Delete(ctx, id)
}

// Assignables returns the accounts the actor may assign orders to,
// per the role matrix.
func (s *UserService) Assignables(ctx context.Context, actor *models.User) ([]models.Assignable, error) {
	var users []*models.User

	switch actor.Role {
	case models.RoleAdmin:
		subs, err := s.Repo.ListByRole(ctx, models.RoleSubAdmin)
		if err != nil {
			return nil, err
		}
		staff, err := s.Repo.ListByRole(ctx, models.RoleStaff)
		if err != nil {
			return nil, err
		}
		users = append(subs, staff...)
	case models.RoleSubAdmin:
		users = append(users, actor)
		staff, err := s.Repo.ListStaffOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		users = append(users, staff...)
	default:
		return []models.Assignable{}, nil
	}

	assignables := make([]models.Assignable, 0, len(users))
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		assignables = append(assignables, models.Assignable{ID: u.ID, Name: u.Name, Role: u.Role})
	}
	return assignables, nil
}

// CreateSubAdmin provisions a sub-admin account (super-admin surface)
func (s *UserService) CreateSubAdmin(ctx context.Context, req *models.CreateSubAdminRequest) (*models.User, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleSubAdmin,
		ApplyCharge:  req.ApplyCharge,
		OrderCharge:  req.OrderCharge,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListSubAdmins returns all sub-admin accounts (super-admin surface)
func (s *UserService) ListSubAdmins(ctx context.Context) ([]*models.User, error) {
	return s.Repo.ListByRole(ctx, models.RoleSubAdmin)
}

// SetActive toggles an account's suspension flag
func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = active
	if err := s.Repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}
	return nil
}
