package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	pkgAuth "github.com/mijnfegon/mijnfegon-backend/pkg/auth"
	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	created []users.CreateUserDTO
	logins  []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	f.created = append(f.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.logins = append(f.logins, id)
	return nil
}

type fakeSessions struct {
	created []string
	revoked []string
}

func (f *fakeSessions) Create(ctx context.Context, accessID string, userID string) error {
	f.created = append(f.created, accessID)
	return nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "mijnfegon", ExpirationMinutes: 30}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceLogin(t *testing.T) {
	password := "monteur-geheim"
	repo := newFakeUserRepo()
	repo.byEmail["monteur@voorbeeld.nl"] = &models.User{
		ID:           uuid.New(),
		Email:        "monteur@voorbeeld.nl",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Jan",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	sessions := &fakeSessions{}
	svc := buildService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Monteur@Voorbeeld.nl ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleUser {
		t.Errorf("role claim = %s, want user", claims.Role)
	}
	if len(sessions.created) != 1 || claims.ID != sessions.created[0] {
		t.Error("session was not created for the minted token")
	}
	if len(repo.logins) != 1 {
		t.Error("last login was not stamped")
	}
	if resp.User.LastLoginAt == nil {
		t.Error("response profile misses last login")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.byEmail["monteur@voorbeeld.nl"] = &models.User{
		ID:           uuid.New(),
		Email:        "monteur@voorbeeld.nl",
		PasswordHash: mustHashPassword(t, "juist"),
		IsActive:     true,
	}
	svc := buildService(t, repo, &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "monteur@voorbeeld.nl",
		Password: "onjuist",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
}

func TestServiceLoginInactiveAccount(t *testing.T) {
	password := "geheim12"
	repo := newFakeUserRepo()
	repo.byEmail["oud@voorbeeld.nl"] = &models.User{
		ID:           uuid.New(),
		Email:        "oud@voorbeeld.nl",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}
	svc := buildService(t, repo, &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "oud@voorbeeld.nl", Password: password})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
}

func TestServiceRegister(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := &fakeSessions{}
	svc := buildService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Nieuw@Voorbeeld.NL",
		Password: "wachtwoord",
		Name:     "Piet",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created users = %d, want 1", len(repo.created))
	}
	if repo.created[0].Email != "nieuw@voorbeeld.nl" {
		t.Errorf("email not normalized: %q", repo.created[0].Email)
	}
	if repo.created[0].Role != enums.UserRoleUser {
		t.Errorf("role = %q, want user", repo.created[0].Role)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token after registration")
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.byEmail["bestaat@voorbeeld.nl"] = &models.User{ID: uuid.New(), Email: "bestaat@voorbeeld.nl"}
	svc := buildService(t, repo, &fakeSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "bestaat@voorbeeld.nl",
		Password: "wachtwoord",
		Name:     "Piet",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestServiceLogout(t *testing.T) {
	sessions := &fakeSessions{}
	svc := buildService(t, newFakeUserRepo(), sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Errorf("revoked = %v, want [access-1]", sessions.revoked)
	}

	// Blank access id is a no-op.
	if err := svc.Logout(context.Background(), "  "); err != nil {
		t.Fatalf("blank logout: %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Error("blank access id must not revoke")
	}
}
