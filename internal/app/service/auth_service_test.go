package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/common/security"
	"adventure_hunt/internal/domain/model"
	"adventure_hunt/internal/platform/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	users map[string]*model.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func TestSignup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "ash",
		Email:    "ash@example.com",
		Password: "pikachu123",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("Signup() returned empty token")
	}
	if resp.User.HashedPassword != "" {
		t.Error("Signup() leaked the password hash")
	}
	if resp.User.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", resp.User.CurrentLevel)
	}

	// Same username again.
	_, err = svc.Signup(context.Background(), SignupRequest{
		Username: "ash",
		Email:    "other@example.com",
		Password: "pikachu123",
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("duplicate Signup() error = %v, want %v", err, common.ErrConflict)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	_, err := svc.Signup(context.Background(), SignupRequest{Username: "ash"})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("Signup() error = %v, want %v", err, common.ErrBadRequest)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	if _, err := svc.Signup(context.Background(), SignupRequest{
		Username: "misty",
		Email:    "misty@example.com",
		Password: "starmie456",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{"ByEmail", LoginRequest{LoginField: "misty@example.com", Password: "starmie456"}, nil},
		{"ByUsername", LoginRequest{LoginField: "misty", Password: "starmie456"}, nil},
		{"WrongPassword", LoginRequest{LoginField: "misty", Password: "wrong"}, common.ErrUnauthorized},
		{"UnknownUser", LoginRequest{LoginField: "brock", Password: "starmie456"}, common.ErrUnauthorized},
		{"MissingPassword", LoginRequest{LoginField: "misty"}, common.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if resp.Token == "" {
				t.Error("Login() returned empty token")
			}
			if resp.User.HashedPassword != "" {
				t.Error("Login() leaked the password hash")
			}
		})
	}
}
