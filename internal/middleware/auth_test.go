package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/milan1710/mern-ayurveda/internal/models"
)

func contextRequest(user *models.User) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	ctx := context.WithValue(r.Context(), UserKey, user)
	return r.WithContext(ctx)
}

func TestRequireRole_ReusesAuthenticatedUser(t *testing.T) {
	m := NewAuthMiddleware(nil, nil)
	called := false
	handler := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// No Authorization header: the user loaded upstream must be enough
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, contextRequest(&models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}))

	if !called {
		t.Fatalf("expected the handler to run, got status %d", rec.Code)
	}
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	m := NewAuthMiddleware(nil, nil)
	handler := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, contextRequest(&models.User{ID: 7, Role: models.RoleStaff, IsActive: true}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_UnauthenticatedRejected(t *testing.T) {
	m := NewAuthMiddleware(nil, nil)
	handler := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
