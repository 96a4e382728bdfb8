package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

// BannerRequest is the admin payload for creating or updating a banner.
type BannerRequest struct {
	Title    string  `json:"title" validate:"required,max=200"`
	ImageURL string  `json:"image_url" validate:"required,url"`
	LinkURL  *string `json:"link_url" validate:"omitempty,url"`
	Position int     `json:"position" validate:"gte=0"`
	Active   *bool   `json:"active"`
}

// NavItemRequest is the admin payload for creating or updating a nav entry.
type NavItemRequest struct {
	Label    string     `json:"label" validate:"required,max=80"`
	Href     string     `json:"href" validate:"required,max=300"`
	ParentID *uuid.UUID `json:"parent_id"`
	Position int        `json:"position" validate:"gte=0"`
	Active   *bool      `json:"active"`
}

// BannerResponse is the banner API shape.
type BannerResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NavItemResponse is the nav entry API shape.
type NavItemResponse struct {
	ID       uuid.UUID  `json:"id"`
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Position int        `json:"position"`
	Active   bool       `json:"active"`
}

// Service manages storefront banners and navigation.
type Service interface {
	ListBanners(ctx context.Context, includeHidden bool) ([]BannerResponse, error)
	CreateBanner(ctx context.Context, input BannerRequest) (*BannerResponse, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, input BannerRequest) (*BannerResponse, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	ListNavItems(ctx context.Context, includeHidden bool) ([]NavItemResponse, error)
	CreateNavItem(ctx context.Context, input NavItemRequest) (*NavItemResponse, error)
	UpdateNavItem(ctx context.Context, id uuid.UUID, input NavItemRequest) (*NavItemResponse, error)
	DeleteNavItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a content service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBanners(ctx context.Context, includeHidden bool) ([]BannerResponse, error) {
	banners, err := s.repo.ListBanners(ctx, !includeHidden)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list banners")
	}
	out := make([]BannerResponse, 0, len(banners))
	for i := range banners {
		out = append(out, *toBannerResponse(&banners[i]))
	}
	return out, nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerRequest) (*BannerResponse, error) {
	banner := &models.Banner{
		Title:    input.Title,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		Active:   true,
	}
	if input.Active != nil {
		banner.Active = *input.Active
	}
	created, err := s.repo.CreateBanner(ctx, banner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert banner")
	}
	return toBannerResponse(created), nil
}

func (s *service) UpdateBanner(ctx context.Context, id uuid.UUID, input BannerRequest) (*BannerResponse, error) {
	banner, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load banner")
	}

	banner.Title = input.Title
	banner.ImageURL = input.ImageURL
	banner.LinkURL = input.LinkURL
	banner.Position = input.Position
	if input.Active != nil {
		banner.Active = *input.Active
	}

	updated, err := s.repo.UpdateBanner(ctx, banner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update banner")
	}
	return toBannerResponse(updated), nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindBanner(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load banner")
	}
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete banner")
	}
	return nil
}

func (s *service) ListNavItems(ctx context.Context, includeHidden bool) ([]NavItemResponse, error) {
	items, err := s.repo.ListNavItems(ctx, !includeHidden)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list nav items")
	}
	out := make([]NavItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *toNavItemResponse(&items[i]))
	}
	return out, nil
}

func (s *service) CreateNavItem(ctx context.Context, input NavItemRequest) (*NavItemResponse, error) {
	if input.ParentID != nil {
		if _, err := s.repo.FindNavItem(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent nav item does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent nav item")
		}
	}

	item := &models.NavItem{
		Label:    input.Label,
		Href:     input.Href,
		ParentID: input.ParentID,
		Position: input.Position,
		Active:   true,
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
	created, err := s.repo.CreateNavItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert nav item")
	}
	return toNavItemResponse(created), nil
}

func (s *service) UpdateNavItem(ctx context.Context, id uuid.UUID, input NavItemRequest) (*NavItemResponse, error) {
	item, err := s.repo.FindNavItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nav item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load nav item")
	}

	if input.ParentID != nil && *input.ParentID == item.ID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nav item cannot be its own parent")
	}

	item.Label = input.Label
	item.Href = input.Href
	item.ParentID = input.ParentID
	item.Position = input.Position
	if input.Active != nil {
		item.Active = *input.Active
	}

	updated, err := s.repo.UpdateNavItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update nav item")
	}
	return toNavItemResponse(updated), nil
}

func (s *service) DeleteNavItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindNavItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "nav item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load nav item")
	}
	if err := s.repo.DeleteNavItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete nav item")
	}
	return nil
}

func toBannerResponse(b *models.Banner) *BannerResponse {
	return &BannerResponse{
		ID:        b.ID,
		Title:     b.Title,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		Position:  b.Position,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
	}
}

func toNavItemResponse(n *models.NavItem) *NavItemResponse {
	return &NavItemResponse{
		ID:       n.ID,
		Label:    n.Label,
		Href:     n.Href,
		ParentID: n.ParentID,
		Position: n.Position,
		Active:   n.Active,
	}
}
