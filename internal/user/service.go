package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, name, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, email string) (*User, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrNameRequired
	}
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}

	if err := s.ensureEmailFree(ctx, cleanEmail, 0); err != nil {
		return nil, err
	}

	u := &User{
		Name:  cleanName,
		Email: cleanEmail,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailAlreadyUsed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cleanName := strings.TrimSpace(*req.Name)
		if cleanName == "" {
			return nil, ErrNameRequired
		}
		u.Name = cleanName
	}

	if req.Email != nil {
		cleanEmail := normalizeEmail(*req.Email)
		if cleanEmail == "" {
			return nil, ErrEmailRequired
		}
		if cleanEmail != u.Email {
			if err := s.ensureEmailFree(ctx, cleanEmail, u.ID); err != nil {
				return nil, err
			}
		}
		u.Email = cleanEmail
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrEmailAlreadyUsed) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ensureEmailFree fails with ErrEmailAlreadyUsed when email belongs to a user other than selfID.
func (s *service) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailAlreadyUsed
		}
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	return nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
