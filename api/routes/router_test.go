package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/internal/analytics"
	"github.com/civictrack/civictrack-backend/internal/auth"
	"github.com/civictrack/civictrack-backend/internal/complaints"
	"github.com/civictrack/civictrack-backend/internal/geocoding"
	"github.com/civictrack/civictrack-backend/internal/users"
	pkgAuth "github.com/civictrack/civictrack-backend/pkg/auth"
	"github.com/civictrack/civictrack-backend/pkg/config"
	"github.com/civictrack/civictrack-backend/pkg/logger"
	"github.com/civictrack/civictrack-backend/pkg/pagination"
	"github.com/civictrack/civictrack-backend/pkg/redis"
	"github.com/civictrack/civictrack-backend/pkg/visibility"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{Token: "session-token"}, nil
}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{Token: "session-token"}, nil
}

type stubUsersService struct{}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, req users.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubComplaintsService struct {
	lastViewer visibility.Viewer
}

func (s *stubComplaintsService) Create(ctx context.Context, ownerID uuid.UUID, req complaints.CreateComplaintRequest) (*complaints.ComplaintDTO, error) {
	return &complaints.ComplaintDTO{ID: uuid.New()}, nil
}

func (s *stubComplaintsService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]complaints.ComplaintDTO, error) {
	return nil, nil
}

func (s *stubComplaintsService) ListPublic(ctx context.Context, params pagination.Params) (*complaints.ComplaintPage, error) {
	return &complaints.ComplaintPage{}, nil
}

func (s *stubComplaintsService) ListAll(ctx context.Context, params pagination.Params) (*complaints.ComplaintPage, error) {
	return &complaints.ComplaintPage{}, nil
}

func (s *stubComplaintsService) GetDetail(ctx context.Context, viewer visibility.Viewer, id uuid.UUID) (*complaints.ComplaintDTO, error) {
	s.lastViewer = viewer
	return &complaints.ComplaintDTO{ID: id}, nil
}

func (s *stubComplaintsService) Upvote(ctx context.Context, id uuid.UUID) (*complaints.ComplaintDTO, error) {
	return &complaints.ComplaintDTO{ID: id}, nil
}

func (s *stubComplaintsService) UpdateStatus(ctx context.Context, id uuid.UUID, req complaints.UpdateStatusRequest) (*complaints.ComplaintDTO, error) {
	return &complaints.ComplaintDTO{ID: id}, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Summarize(ctx context.Context, windowDays int) (*analytics.Summary, error) {
	return &analytics.Summary{}, nil
}

type stubGeocodingService struct{}

func (stubGeocodingService) ResolveAddress(ctx context.Context, lat, lng float64) (*geocoding.Result, error) {
	return &geocoding.Result{Address: "Main St"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, complaintsService complaints.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		nil,
		stubAuthService{},
		stubUsersService{},
		complaintsService,
		stubAnalyticsService{},
		stubGeocodingService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, isAdmin bool) string {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{
		UserID:  uuid.New(),
		Email:   "citizen@example.com",
		IsAdmin: isAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), &stubComplaintsService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicFeedNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig(), &stubComplaintsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/public", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestComplaintCreateRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), &stubComplaintsService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminRoutesRequireAdminFlag(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubComplaintsService{})

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/all", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/all", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAnalyticsRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubComplaintsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestComplaintDetailCarriesOptionalClaims(t *testing.T) {
	cfg := testConfig()
	svc := &stubComplaintsService{}
	router := newTestRouter(cfg, svc)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous detail got %d", resp.Code)
	}
	if svc.lastViewer.Authenticated {
		t.Fatal("expected anonymous viewer")
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/"+uuid.NewString(), nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed detail got %d", resp.Code)
	}
	if !svc.lastViewer.Authenticated || !svc.lastViewer.IsAdmin {
		t.Fatalf("expected admin viewer got %+v", svc.lastViewer)
	}
}

func TestGeocodeReverseIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), &stubComplaintsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode/reverse?lat=1&lng=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data geocoding.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Address != "Main St" {
		t.Fatalf("unexpected address %q", envelope.Data.Address)
	}
}

func TestLoginRouteWired(t *testing.T) {
	router := newTestRouter(testConfig(), &stubComplaintsService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"citizen@example.com","password":"Secret#12"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
