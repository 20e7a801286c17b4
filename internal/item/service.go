package item

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	Update(ctx context.Context, id, userID int64, req UpdateRequest) (*Item, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailabilityMissing
	}

	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	it := &Item{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   *req.Available,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) Update(ctx context.Context, id, userID int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
