package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/internal/users"
	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
)

type stubUsersService struct {
	dto *users.UserDTO
	err error

	updatedID  uuid.UUID
	updatedReq users.UpdateProfileRequest
}

func (s *stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.dto, s.err
}

func (s *stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, req users.UpdateProfileRequest) (*users.UserDTO, error) {
	s.updatedID = userID
	s.updatedReq = req
	return s.dto, s.err
}

func TestUserProfileSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubUsersService{dto: &users.UserDTO{ID: userID, Name: "Casey", Email: "casey@example.com"}}
	handler := UserProfile(svc, nil)

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String(), nil), "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != userID {
		t.Fatalf("expected id %s got %s", userID, envelope.Data.ID)
	}
}

func TestUserProfileNotFound(t *testing.T) {
	svc := &stubUsersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := UserProfile(svc, nil)
	userID := uuid.New()

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String(), nil), "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestUserUpdateAppliesChanges(t *testing.T) {
	userID := uuid.New()
	svc := &stubUsersService{dto: &users.UserDTO{ID: userID, Name: "New Name"}}
	handler := UserUpdate(svc, nil)

	body := `{"name":"New Name","email":"new@example.com","phone":"555-0100"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/"+userID.String(), bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updatedID != userID {
		t.Fatalf("expected id %s got %s", userID, svc.updatedID)
	}
	if svc.updatedReq.Name == nil || *svc.updatedReq.Name != "New Name" {
		t.Fatalf("unexpected name %v", svc.updatedReq.Name)
	}
	if svc.updatedReq.Email == nil || *svc.updatedReq.Email != "new@example.com" {
		t.Fatalf("unexpected email %v", svc.updatedReq.Email)
	}
	if svc.updatedReq.Phone == nil || *svc.updatedReq.Phone != "555-0100" {
		t.Fatalf("unexpected phone %v", svc.updatedReq.Phone)
	}
}

func TestUserUpdateInvalidID(t *testing.T) {
	svc := &stubUsersService{}
	handler := UserUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/nope", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "userId", "nope")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
