// Package seed provides helpers to create demo data for the store's
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"

	"queentouch/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls seeding behavior.
type Options struct {
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// SkipBcrypt stores a plaintext demo password for faster local seeding.
	SkipBcrypt bool
	// Products is the number of random catalog products to generate in
	// addition to the fixed demo set.
	Products int
	// Comments is the number of random comments per seeded product thread.
	Comments int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   Options
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{db: db, opts: opts, nextID: 1000}
}

func (f *Factory) create(label string, value interface{}) error {
	if f.opts.DryRun {
		f.nextID++
		log.Printf("[dry-run] %s: %+v", label, value)
		return nil
	}
	return f.db.Create(value).Error
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email: gofakeit.Email(),
		Name:  gofakeit.Name(),
		Role:  models.RoleUser,
	}

	if f.opts.SkipBcrypt {
		user.Password = "DemoPassword1!"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("DemoPassword1!"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.create("CreateUser", user); err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		user.ID = f.nextID
	}
	return user, nil
}

// CreateProduct constructs and persists a sample catalog product.
func (f *Factory) CreateProduct(overrides ...func(*models.Product)) (*models.Product, error) {
	product := &models.Product{
		Name:        gofakeit.ProductName(),
		Price:       int64(gofakeit.Number(20, 180)) * 1000,
		Description: gofakeit.ProductDescription(),
		Category:    "esmaltes",
		Subcategory: "semipermanente",
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/600", gofakeit.UUID()),
		Colors:      gofakeit.SafeColor(),
		Stock:       gofakeit.Number(0, 120),
	}

	for _, override := range overrides {
		override(product)
	}

	if err := f.create("CreateProduct", product); err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		product.ID = f.nextID
	}
	return product, nil
}

// CreateCourse constructs and persists a sample academy course.
func (f *Factory) CreateCourse(overrides ...func(*models.Course)) (*models.Course, error) {
	course := &models.Course{
		Title:       gofakeit.BookTitle(),
		Price:       int64(gofakeit.Number(150, 900)) * 1000,
		Level:       gofakeit.RandomString([]string{"Básico", "Intermedio", "Avanzado"}),
		Duration:    fmt.Sprintf("%d horas", gofakeit.Number(4, 40)),
		Location:    gofakeit.City(),
		Description: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(course)
	}

	if err := f.create("CreateCourse", course); err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		course.ID = f.nextID
	}
	return course, nil
}

// CreateComment constructs and persists a sample comment by the given user.
func (f *Factory) CreateComment(user *models.User, targetID string, parentID *uint, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		TargetID:   targetID,
		ParentID:   parentID,
		AuthorID:   user.Email,
		AuthorName: user.Name,
		Content:    gofakeit.Sentence(gofakeit.Number(4, 18)),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.create("CreateComment", comment); err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		comment.ID = f.nextID
	}
	return comment, nil
}
