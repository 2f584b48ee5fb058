package service

import (
	"context"
	"strings"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/internal/domain/repository"
	"github.com/meateat/pos-api/pkg/apperror"
	"github.com/meateat/pos-api/pkg/pagination"
)

// ProductService handles catalog operations. Bills copy product id, name
// and price at sale time, so edits here never alter historical bills.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents create/update product input
type ProductInput struct {
	Name       string
	Category   string
	PriceCents int64
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.NewBadRequestError("Product name is required")
	}
	if in.PriceCents < 0 {
		return apperror.NewBadRequestError("Product price cannot be negative")
	}
	return nil
}

// CreateProduct creates a catalog entry
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:       strings.TrimSpace(input.Name),
		Category:   strings.TrimSpace(input.Category),
		PriceCents: input.PriceCents,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct updates a catalog entry
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Category = strings.TrimSpace(input.Category)
	product.PriceCents = input.PriceCents

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a catalog entry
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFoundError("Product")
	}
	return nil
}

// ListProducts lists products with name search and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}
