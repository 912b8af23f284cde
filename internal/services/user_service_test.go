package services

import (
	"context"
	"errors"
	"testing"

	"github.com/milan1710/mern-ayurveda/internal/auth"
	"github.com/milan1710/mern-ayurveda/internal/config"
	"github.com/milan1710/mern-ayurveda/internal/models"
)

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"
	return auth.NewJWTManager(cfg)
}

func testUser(t *testing.T, id int, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &models.User{ID: id, Email: email, PasswordHash: hash, Role: role, IsActive: true}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewUserService(newStubUserStore(), testJWTManager())

	req := &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"}
	if _, err := svc.Login(context.Background(), req); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, 1, "admin@example.com", "secret123", models.RoleAdmin)
	svc := NewUserService(newStubUserStore(user), testJWTManager())

	req := &models.LoginRequest{Email: "admin@example.com", Password: "wrong"}
	if _, err := svc.Login(context.Background(), req); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_SuspendedAccount(t *testing.T) {
	user := testUser(t, 1, "sub@example.com", "secret123", models.RoleSubAdmin)
	user.IsActive = false
	svc := NewUserService(newStubUserStore(user), testJWTManager())

	req := &models.LoginRequest{Email: "sub@example.com", Password: "secret123"}
	if _, err := svc.Login(context.Background(), req); !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestLogin_IssuesSession(t *testing.T) {
	user := testUser(t, 1, "admin@example.com", "secret123", models.RoleAdmin)
	svc := NewUserService(newStubUserStore(user), testJWTManager())

	req := &models.LoginRequest{Email: "admin@example.com", Password: "secret123"}
	result, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Needs2FA {
		t.Fatal("account without TOTP must not be challenged")
	}
	if result.Auth == nil || result.Auth.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.Auth.User.ID != 1 {
		t.Fatalf("expected user 1 in the session, got %d", result.Auth.User.ID)
	}
}

func TestLogin_TOTPEnabledReturnsChallenge(t *testing.T) {
	user := testUser(t, 1, "admin@example.com", "secret123", models.RoleAdmin)
	user.TOTPEnabled = true
	svc := NewUserService(newStubUserStore(user), testJWTManager())

	req := &models.LoginRequest{Email: "admin@example.com", Password: "secret123"}
	result, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Needs2FA {
		t.Fatal("expected a 2FA challenge")
	}
	if result.TempToken == "" {
		t.Fatal("expected a temp token")
	}
	if result.Auth != nil {
		t.Fatal("no session may be issued before the second factor")
	}
}

func TestCreateStaff_SubAdminOwnsItsStaff(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(sub)
	svc := NewUserService(users, testJWTManager())

	req := &models.CreateStaffRequest{Name: "Meera", Email: "meera@example.com", Password: "secret123"}
	staff, err := svc.CreateStaff(context.Background(), req, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if staff.Role != models.RoleStaff {
		t.Fatalf("expected staff role, got %q", staff.Role)
	}
	if staff.ParentID == nil || *staff.ParentID != 10 {
		t.Fatalf("expected staff owned by sub-admin 10, got %+v", staff.ParentID)
	}
}

func TestCreateStaff_AdminStaffIsFreeStanding(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	svc := NewUserService(newStubUserStore(admin), testJWTManager())

	req := &models.CreateStaffRequest{Name: "Meera", Email: "meera@example.com", Password: "secret123"}
	staff, err := svc.CreateStaff(context.Background(), req, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if staff.ParentID != nil {
		t.Fatalf("admin-created staff must have no parent, got %v", *staff.ParentID)
	}
}

func TestCreateStaff_StaffForbidden(t *testing.T) {
	staff := &models.User{ID: 7, Role: models.RoleStaff, IsActive: true}
	svc := NewUserService(newStubUserStore(staff), testJWTManager())

	req := &models.CreateStaffRequest{Name: "Meera", Email: "meera@example.com", Password: "secret123"}
	if _, err := svc.CreateStaff(context.Background(), req, staff); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteStaff_SubAdminForeignStaffForbidden(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	foreign := &models.User{ID: 20, Role: models.RoleStaff, IsActive: true, ParentID: intPtr(99)}
	users := newStubUserStore(sub, foreign)
	svc := NewUserService(users, testJWTManager())

	if err := svc.DeleteStaff(context.Background(), 20, sub); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := users.users[20]; !ok {
		t.Fatal("foreign staff must survive the delete attempt")
	}
}

func TestDeleteStaff_RefusesNonStaffTarget(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(admin, sub)
	svc := NewUserService(users, testJWTManager())

	if err := svc.DeleteStaff(context.Background(), 10, admin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAssignables_SkipsSuspendedAccounts(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	users := newStubUserStore(
		admin,
		&models.User{ID: 2, Name: "Active Sub", Role: models.RoleSubAdmin, IsActive: true},
		&models.User{ID: 3, Name: "Suspended Sub", Role: models.RoleSubAdmin, IsActive: false},
		&models.User{ID: 4, Name: "Active Staff", Role: models.RoleStaff, IsActive: true},
	)
	svc := NewUserService(users, testJWTManager())

	assignables, err := svc.Assignables(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignables) != 2 {
		t.Fatalf("expected 2 assignables, got %d: %+v", len(assignables), assignables)
	}
	for _, a := range assignables {
		if a.ID == 3 {
			t.Fatal("suspended account must not be assignable")
		}
	}
}

func TestAssignables_StaffGetsEmptyList(t *testing.T) {
	staff := &models.User{ID: 7, Role: models.RoleStaff, IsActive: true}
	svc := NewUserService(newStubUserStore(staff), testJWTManager())

	assignables, err := svc.Assignables(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignables) != 0 {
		t.Fatalf("staff may not assign, got %+v", assignables)
	}
}
