package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"queentouch/internal/cache"
	"queentouch/internal/models"
	"queentouch/internal/pricing"
	"queentouch/internal/repository"

	"gorm.io/gorm"
)

const catalogCacheTTL = 5 * time.Minute

// PricedProduct is a catalog product annotated with the price the viewing
// actor would pay. FinalPrice equals Price for guests.
type PricedProduct struct {
	models.Product
	FinalPrice    int64  `json:"final_price"`
	DiscountLabel string `json:"discount_label,omitempty"`
}

// PricedCourse mirrors PricedProduct for academy courses.
type PricedCourse struct {
	models.Course
	FinalPrice    int64  `json:"final_price"`
	DiscountLabel string `json:"discount_label,omitempty"`
}

// CatalogService serves shop products and academy courses with viewer
// pricing applied.
type CatalogService struct {
	productRepo repository.ProductRepository
	courseRepo  repository.CourseRepository
}

func NewCatalogService(productRepo repository.ProductRepository, courseRepo repository.CourseRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		courseRepo:  courseRepo,
	}
}

// ListProducts returns the catalog with the actor's display price on every
// item. Base rows are cached; the per-actor annotation is always computed
// fresh so cached entries stay actor-agnostic.
func (s *CatalogService) ListProducts(ctx context.Context, category string, actor *models.Actor) ([]PricedProduct, error) {
	var products []*models.Product

	cacheable := category == ""
	if !cacheable || !cache.GetJSON(ctx, cache.ProductListKey, &products) {
		var err error
		products, err = s.productRepo.List(ctx, category)
		if err != nil {
			return nil, err
		}
		if cacheable {
			cache.SetJSON(ctx, cache.ProductListKey, products, catalogCacheTTL)
		}
	}

	priced := make([]PricedProduct, 0, len(products))
	for _, p := range products {
		final, err := pricing.Price(p.Price, actor)
		if err != nil {
			return nil, err
		}
		_, label := pricing.Discount(actor)
		priced = append(priced, PricedProduct{Product: *p, FinalPrice: final, DiscountLabel: label})
	}
	return priced, nil
}

// GetProduct returns a single product with viewer pricing.
func (s *CatalogService) GetProduct(ctx context.Context, id uint, actor *models.Actor) (*PricedProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("product", id)
		}
		return nil, err
	}
	final, err := pricing.Price(product.Price, actor)
	if err != nil {
		return nil, err
	}
	_, label := pricing.Discount(actor)
	return &PricedProduct{Product: *product, FinalPrice: final, DiscountLabel: label}, nil
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return models.NewValidationError("Name is required")
	}
	if product.Price <= 0 {
		return models.NewInvalidPriceError("base price must be positive")
	}
	return s.productRepo.Create(ctx, product)
}

// UpdateProduct replaces a product's catalog fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Price <= 0 {
		return models.NewInvalidPriceError("base price must be positive")
	}
	if _, err := s.productRepo.GetByID(ctx, product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("product", product.ID)
		}
		return err
	}
	return s.productRepo.Update(ctx, product)
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("product", id)
		}
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListCourses returns academy courses with viewer pricing.
func (s *CatalogService) ListCourses(ctx context.Context, actor *models.Actor) ([]PricedCourse, error) {
	var courses []*models.Course
	if !cache.GetJSON(ctx, cache.CourseListKey, &courses) {
		var err error
		courses, err = s.courseRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		cache.SetJSON(ctx, cache.CourseListKey, courses, catalogCacheTTL)
	}

	priced := make([]PricedCourse, 0, len(courses))
	for _, course := range courses {
		final, err := pricing.Price(course.Price, actor)
		if err != nil {
			return nil, err
		}
		_, label := pricing.Discount(actor)
		priced = append(priced, PricedCourse{Course: *course, FinalPrice: final, DiscountLabel: label})
	}
	return priced, nil
}

// CreateCourse adds an academy course.
func (s *CatalogService) CreateCourse(ctx context.Context, course *models.Course) error {
	if strings.TrimSpace(course.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if course.Price <= 0 {
		return models.NewInvalidPriceError("base price must be positive")
	}
	return s.courseRepo.Create(ctx, course)
}
