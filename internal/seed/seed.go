package seed

import (
	"fmt"
	"log"

	"queentouch/internal/models"

	"gorm.io/gorm"
)

// demoAccounts are the fixed logins used by local development and demos.
// All of them share the password "DemoPassword1!".
var demoAccounts = []models.User{
	{Email: "admin@queentouch.com", Name: "Administradora", Role: models.RoleAdmin, IsAdmin: true},
	{Email: "distribuidor@queentouch.com", Name: "Distribuidora Valle", Role: models.RoleDistributor},
	{Email: "gold@queentouch.com", Name: "Clienta Gold", Role: models.RoleMember, Tier: models.TierGold},
	{Email: "silver@queentouch.com", Name: "Clienta Silver", Role: models.RoleMember, Tier: models.TierSilver},
	{Email: "bronze@queentouch.com", Name: "Clienta Bronze", Role: models.RoleMember, Tier: models.TierBronze},
	{Email: "cliente@queentouch.com", Name: "Clienta Nueva", Role: models.RoleUser},
}

// demoProducts is a small fixed catalog so the storefront is never empty.
var demoProducts = []models.Product{
	{Name: "Esmalte semipermanente Rojo Pasión", Price: 35000, Category: "esmaltes", Subcategory: "semipermanente", Colors: "rojo", Stock: 50},
	{Name: "Esmalte semipermanente Nude Elegante", Price: 35000, Category: "esmaltes", Subcategory: "semipermanente", Colors: "nude", Stock: 40},
	{Name: "Kit de pinceles para nail art", Price: 48000, Category: "herramientas", Subcategory: "pinceles", Stock: 25},
	{Name: "Lámpara UV/LED profesional 80W", Price: 180000, Category: "equipos", Subcategory: "lamparas", Stock: 10},
	{Name: "Top coat brillo espejo", Price: 28000, Category: "esmaltes", Subcategory: "acabados", Stock: 60},
}

var demoCourses = []models.Course{
	{Title: "Técnica semipermanente desde cero", Price: 250000, Level: "Básico", Duration: "16 horas", Location: "Cali"},
	{Title: "Nail art avanzado y efectos", Price: 420000, Level: "Avanzado", Duration: "24 horas", Location: "Cali"},
}

// Run populates the database with the fixed demo set plus optional random
// filler. It is idempotent for the fixed accounts: existing emails are
// skipped, never overwritten.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)

	users := make([]*models.User, 0, len(demoAccounts))
	for _, account := range demoAccounts {
		account := account
		var existing models.User
		if !opts.DryRun {
			if err := db.Where("email = ?", account.Email).First(&existing).Error; err == nil {
				users = append(users, &existing)
				continue
			}
		}
		user, err := f.CreateUser(func(u *models.User) {
			u.Email = account.Email
			u.Name = account.Name
			u.Role = account.Role
			u.Tier = account.Tier
			u.IsAdmin = account.IsAdmin
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", account.Email, err)
		}
		users = append(users, user)
	}

	productThreads := make([]string, 0, len(demoProducts))
	for _, preset := range demoProducts {
		preset := preset
		product, err := f.CreateProduct(func(p *models.Product) { *p = preset })
		if err != nil {
			return fmt.Errorf("seed product %q: %w", preset.Name, err)
		}
		productThreads = append(productThreads, fmt.Sprintf("product-%d", product.ID))
	}
	for i := 0; i < opts.Products; i++ {
		if _, err := f.CreateProduct(); err != nil {
			return fmt.Errorf("seed random product: %w", err)
		}
	}

	for _, preset := range demoCourses {
		preset := preset
		if _, err := f.CreateCourse(func(c *models.Course) { *c = preset }); err != nil {
			return fmt.Errorf("seed course %q: %w", preset.Title, err)
		}
	}

	// Comment threads: a root plus one reply per product, then random filler.
	for i, targetID := range productThreads {
		author := users[i%len(users)]
		root, err := f.CreateComment(author, targetID, nil)
		if err != nil {
			return fmt.Errorf("seed comment thread %s: %w", targetID, err)
		}
		replier := users[(i+1)%len(users)]
		if _, err := f.CreateComment(replier, targetID, &root.ID); err != nil {
			return fmt.Errorf("seed reply %s: %w", targetID, err)
		}
		for j := 0; j < opts.Comments; j++ {
			if _, err := f.CreateComment(users[(i+j)%len(users)], targetID, nil); err != nil {
				return fmt.Errorf("seed filler comment %s: %w", targetID, err)
			}
		}
	}

	log.Printf("Seed complete: %d users, %d+%d products, %d courses",
		len(users), len(demoProducts), opts.Products, len(demoCourses))
	return nil
}
