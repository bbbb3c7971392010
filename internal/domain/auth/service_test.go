package auth_test

import (
	"context"
	"testing"

	"Doare/internal/domain/auth"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	createFn     func(ctx context.Context, u *user.User) error
	getByEmailFn func(ctx context.Context, email string) (*user.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}
func (f *fakeUserRepo) Update(ctx context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, _ ulid.ULID) error  { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id ulid.ULID) (*user.User, error) {
	return &user.User{Id: id}, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, appErrors.ErrUserNotFound
}

func newAuthService(repo *fakeUserRepo) *auth.Service {
	return auth.NewService(repo, user.NewService(repo))
}

func TestRegisterForcesDonorRole(t *testing.T) {
	t.Parallel()

	var created *user.User
	repo := &fakeUserRepo{
		createFn: func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		},
	}
	svc := newAuthService(repo)

	entity := &user.User{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "senha1234",
		Role:     user.RoleAdmin,
	}
	if err := svc.Register(context.Background(), entity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.Role != user.RoleDonor {
		t.Fatalf("expected DONOR role, got %+v", created)
	}
	if created.Password == "senha1234" {
		t.Fatalf("expected hashed password")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{Email: email}, nil
		},
	}
	svc := newAuthService(repo)

	err := svc.Register(context.Background(), &user.User{
		Email:    "maria@example.com",
		Password: "senha1234",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.ErrEmailAlreadyExists.Code {
		t.Fatalf("expected EMAIL_ALREADY_EXISTS, got %v", err)
	}
}

func TestPasswordRequirements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		valid    bool
	}{
		{"senha1234", true},
		{"curta1", false},
		{"somenteletras", false},
		{"12345678", false},
	}

	for _, tt := range tests {
		err := auth.PasswordRequirements(tt.password)
		if tt.valid && err != nil {
			t.Errorf("expected %q to pass: %v", tt.password, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("expected %q to be rejected", tt.password)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email == "maria@example.com" {
				return &user.User{Email: email, Password: string(hash)}, nil
			}
			return nil, appErrors.ErrUserNotFound
		},
	}
	svc := newAuthService(repo)
	ctx := context.Background()

	t.Run("email desconhecido não vaza existência", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.Login{Email: "outra@example.com", Password: "senha1234"})
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.ErrInvalidCredentials.Code {
			t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
		}
	})

	t.Run("senha errada", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.Login{Email: "maria@example.com", Password: "errada999"})
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.ErrInvalidCredentials.Code {
			t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
		}
	})

	t.Run("credenciais corretas", func(t *testing.T) {
		entity, err := svc.Login(ctx, auth.Login{Email: "maria@example.com", Password: "senha1234"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entity.Email != "maria@example.com" {
			t.Fatalf("unexpected user: %+v", entity)
		}
	})
}
