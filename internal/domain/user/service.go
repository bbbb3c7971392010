package user

import (
	"context"
	"strings"

	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, u *User) error {
	u.Id = pkg.GenerateULIDObject()

	now := pkg.SetTimestamps()
	u.CreatedAt = now
	u.UpdatedAt = now

	if !u.Role.IsValid() {
		u.Role = RoleDonor
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), 12)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)

	return s.Repository.Create(ctx, u)
}

func (s *Service) GetByID(ctx context.Context, id ulid.ULID) (*User, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.Repository.GetByEmail(ctx, email)
}

func (s *Service) UpdateName(ctx context.Context, userID ulid.ULID, name string) error {
	if strings.TrimSpace(name) == "" {
		return appErrors.NewValidationError("name", "nome não pode estar vazio")
	}

	entity, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	entity.Name = strings.TrimSpace(name)
	entity.UpdatedAt = pkg.SetTimestamps()

	return s.Repository.Update(ctx, entity)
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	return s.Repository.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, userID ulid.ULID) error {
	_, err := s.GetByID(ctx, userID)
	return err
}
