package auth

import (
	"context"
	"regexp"

	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	Repository  user.Repository
	UserService *user.Service
}

func NewService(repo user.Repository, userSvc *user.Service) *Service {
	return &Service{Repository: repo, UserService: userSvc}
}

type Login struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, login Login) (*user.User, error) {
	entity, err := s.Repository.GetByEmail(ctx, login.Email)
	if err != nil {
		if appErr, ok := appErrors.AsAppError(err); ok && appErr.Code == appErrors.ErrUserNotFound.Code {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := PasswordValidate(login.Password, entity.Password); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) Register(ctx context.Context, entity *user.User) error {
	existing, err := s.Repository.GetByEmail(ctx, entity.Email)
	if err != nil {
		if appErr, ok := appErrors.AsAppError(err); !ok || appErr.Code != appErrors.ErrUserNotFound.Code {
			return err
		}
	}
	if existing != nil {
		return appErrors.ErrEmailAlreadyExists
	}

	if err := PasswordRequirements(entity.Password); err != nil {
		return err
	}

	// auto-registro nunca concede perfil administrativo
	entity.Role = user.RoleDonor

	return s.UserService.Create(ctx, entity)
}

func PasswordValidate(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return appErrors.ErrInvalidCredentials
	}
	return nil
}

var (
	hasDigit  = regexp.MustCompile(`[0-9]`)
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
)

func PasswordRequirements(password string) error {
	if len(password) < 8 {
		return appErrors.NewValidationError("password", "senha deve ter no mínimo 8 caracteres")
	}
	if !hasDigit.MatchString(password) || !hasLetter.MatchString(password) {
		return appErrors.NewValidationError("password", "senha deve conter letras e números")
	}
	return nil
}
