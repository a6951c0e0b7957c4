package repository

import (
	"context"

	"queentouch/internal/cache"
	"queentouch/internal/models"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for course data operations
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.WithContext(ctx).Create(course).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CourseListKey)
	}
	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CourseListKey)
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CourseListKey)
	return nil
}
