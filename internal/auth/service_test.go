package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack-backend/internal/users"
	pkgAuth "github.com/civictrack/civictrack-backend/pkg/auth"
	"github.com/civictrack/civictrack-backend/pkg/config"
	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/errors"
	"github.com/civictrack/civictrack-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := f.byEmail[dto.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	f.byEmail[dto.Email] = user
	return user, nil
}

func testPasswordConfig() config.PasswordConfig {
	// Smallest sane argon2 parameters so tests stay fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "civictrack",
		ExpirationMinutes: 60,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	repo.byEmail[email] = user
	return user
}

func newTestService(t *testing.T, repo *fakeUserRepo) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "citizen@example.com", "correct horse", false)
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Citizen@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user %s", resp.User.ID)
	}

	claims, err := pkgAuth.ParseSessionToken(testJWTConfig(), resp.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginUnknownEmailAndBadPasswordSameError(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "citizen@example.com", "correct horse", false)
	svc := newTestService(t, repo)

	unknownErr := func() error {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		return err
	}()
	badPassErr := func() error {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "citizen@example.com", Password: "wrong"})
		return err
	}()

	for _, err := range []error{unknownErr, badPassErr} {
		if err == nil {
			t.Fatal("expected login failure")
		}
		typed := errors.As(err)
		if typed.Code() != errors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %s", typed.Code())
		}
		if !strings.Contains(typed.Message(), "invalid credentials") {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	}
	if unknownErr.Error() != badPassErr.Error() {
		t.Fatal("unknown email and bad password must be indistinguishable")
	}
}

func TestLoginWantsAdminRejectedForCitizen(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "citizen@example.com", "correct horse", false)
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:      "citizen@example.com",
		Password:   "correct horse",
		WantsAdmin: true,
	})
	if err == nil || errors.As(err).Code() != errors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLoginWantsAdminAllowedForAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin@example.com", "correct horse", true)
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:      "admin@example.com",
		Password:   "correct horse",
		WantsAdmin: true,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseSessionToken(testJWTConfig(), resp.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if !claims.IsAdmin {
		t.Fatal("expected admin claim in token")
	}
}

func TestRegisterSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "New Citizen",
		Email:    "New@Example.com",
		Password: "long enough pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.User.Email != "new@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.IsAdmin {
		t.Fatal("self-registration must never yield an admin account")
	}

	stored := repo.byEmail["new@example.com"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "long enough pass" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "taken@example.com", "whatever pass", false)
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Second",
		Email:    "taken@example.com",
		Password: "long enough pass",
	})
	if err == nil || errors.As(err).Code() != errors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
