package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

// Service exposes catalog management and storefront reads.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProductBySlug(ctx context.Context, slug string) (*ProductResponse, error)
	ListProducts(ctx context.Context) ([]ProductResponse, error)
}

// service implements the catalog service.
type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateProduct creates the product with its size variants and prices.
func (s *service) CreateProduct(ctx context.Context, input CreateProductRequest) (*ProductResponse, error) {
	availability, err := enums.ParseAvailability(input.Availability)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	productType, err := enums.ParseProductType(input.ProductType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	sizeReq, err := enums.ParseSizeRequirement(input.SizeRequirement)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if sizeReq == enums.SizeRequirementMandatory && len(input.Sizes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sizes required when size_requirement is mandatory")
	}
	if productType == enums.ProductTypeAffiliate && strings.TrimSpace(input.AffiliateURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "affiliate_url required for affiliate products")
	}
	if err := ensureUniqueSizes(input.Sizes); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Slug:            strings.ToLower(strings.TrimSpace(input.Slug)),
			Title:           input.Title,
			Description:     input.Description,
			Availability:    availability,
			ProductType:     productType,
			SizeRequirement: sizeReq,
			Quantity:        input.Quantity,
			AffiliateURL:    input.AffiliateURL,
			IsActive:        true,
		}
		for _, size := range input.Sizes {
			product.Sizes = append(product.Sizes, models.ProductSize{
				Name:     size.Name,
				Quantity: size.Quantity,
			})
		}
		for _, price := range input.Prices {
			product.Prices = append(product.Prices, models.ProductPrice{
				Currency: strings.ToUpper(price.Currency),
				Amount:   price.Amount,
			})
		}

		created, err := txRepo.Create(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, "slug already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.load(ctx, createdID)
}

// UpdateProduct updates an existing product and replaces its sizes and prices
// when the payload carries them.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductRequest) (*ProductResponse, error) {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		if input.Title != nil {
			product.Title = *input.Title
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Availability != nil {
			availability, err := enums.ParseAvailability(*input.Availability)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			product.Availability = availability
		}
		if input.SizeRequirement != nil {
			sizeReq, err := enums.ParseSizeRequirement(*input.SizeRequirement)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			product.SizeRequirement = sizeReq
		}
		if input.Quantity != nil {
			product.Quantity = *input.Quantity
		}
		if input.AffiliateURL != nil {
			product.AffiliateURL = *input.AffiliateURL
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		// Save only mutates the parent row; children are replaced below.
		product.Sizes = nil
		product.Prices = nil
		if _, err := txRepo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Sizes != nil {
			if err := ensureUniqueSizes(input.Sizes); err != nil {
				return err
			}
			sizes := make([]models.ProductSize, 0, len(input.Sizes))
			for _, size := range input.Sizes {
				sizes = append(sizes, models.ProductSize{
					ProductID: product.ID,
					Name:      size.Name,
					Quantity:  size.Quantity,
				})
			}
			if err := txRepo.ReplaceSizes(ctx, product.ID, sizes); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace sizes")
			}
		}

		if input.Prices != nil {
			prices := make([]models.ProductPrice, 0, len(input.Prices))
			for _, price := range input.Prices {
				prices = append(prices, models.ProductPrice{
					ProductID: product.ID,
					Currency:  strings.ToUpper(price.Currency),
					Amount:    price.Amount,
				})
			}
			if err := txRepo.ReplacePrices(ctx, product.ID, prices); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace prices")
			}
		}

		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.load(ctx, productID)
}

// DeleteProduct removes the product from the catalog.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// GetProductBySlug loads one storefront product.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return toProductResponse(product), nil
}

// ListProducts returns the active catalog for the storefront.
func (s *service) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, *toProductResponse(&list[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductResponse(product), nil
}

func ensureUniqueSizes(sizes []SizeInput) error {
	seen := make(map[string]struct{}, len(sizes))
	for _, size := range sizes {
		key := strings.ToUpper(strings.TrimSpace(size.Name))
		if key == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "size name cannot be empty")
		}
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate size %q", size.Name))
		}
		seen[key] = struct{}{}
	}
	return nil
}
