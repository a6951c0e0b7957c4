package repository

import (
	"context"

	"queentouch/internal/cache"
	"queentouch/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Product, error)
	List(ctx context.Context, category string) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Create(product).Error
	if err == nil {
		cache.Invalidate(ctx, cache.ProductListKey)
	}
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) List(ctx context.Context, category string) ([]*models.Product, error) {
	var products []*models.Product
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ProductListKey)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ProductListKey)
	return nil
}
