package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID uint, page, size int) (*transport.ProductPage, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{CategoryID: categoryID}, offset, limit)
	if err != nil {
		return nil, err
	}
	return &transport.ProductPage{Data: items, Meta: util.NewPage(page, limit, total)}, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("category name required: %w", domain.ErrValidation)
	}
	cat := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("product name required: %w", domain.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", domain.ErrValidation)
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", req.CategoryID, domain.ErrValidation)
	}

	prod, err := s.Repo.CreateProduct(ctx, &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProduct, strconv.FormatUint(uint64(prod.ID), 10), events.Event{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative: %w", domain.ErrValidation)
		}
		p := req.Price.Round(2)
		req.Price = &p
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("product name required: %w", domain.ErrValidation)
	}
	if req.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category %d: %w", *req.CategoryID, domain.ErrValidation)
		}
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProduct, strconv.FormatUint(uint64(prod.ID), 10), events.Event{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, events.TopicProduct, strconv.FormatUint(uint64(id), 10), events.Event{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}
