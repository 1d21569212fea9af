package service

import (
	"context"
	"errors"
	"strings"

	"eventbook/internal/auth"
	"eventbook/internal/domain"
	"eventbook/internal/repository"
	"eventbook/internal/validation"
)

// UserService covers account lifecycle operations: registration, login and
// the user CRUD surface.
type UserService interface {
	Create(ctx context.Context, form validation.UserForm) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, form validation.UserForm) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
	}
}

// Create registers a new account. The unique constraint on email is the
// authority for conflicts; the pre-check only makes the common case cheap.
func (s *userService) Create(ctx context.Context, form validation.UserForm) (*domain.User, error) {
	if violations := form.Validate(validation.Strict); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	taken, err := s.users.EmailTaken(ctx, *form.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(*form.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Firstname:    *form.Firstname,
		Lastname:     *form.Lastname,
		Email:        *form.Email,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the same failure.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, form validation.UserForm) (*domain.User, error) {
	if violations := form.Validate(validation.Partial); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if form.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *form.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
	}

	patch := domain.UserPatch{
		Firstname: form.Firstname,
		Lastname:  form.Lastname,
		Email:     form.Email,
	}
	if form.Password != nil {
		hash, err := auth.HashPassword(*form.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	if patch.Empty() {
		return nil, ErrNoFields
	}

	if err := s.users.Update(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
