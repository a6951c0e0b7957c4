// Command main seeds the database with demo users, catalog and comments.
package main

import (
	"flag"
	"log"

	"queentouch/internal/config"
	"queentouch/internal/database"
	"queentouch/internal/middleware"
	"queentouch/internal/seed"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "log what would be created without writing")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "store plaintext demo passwords (local only)")
	products := flag.Int("products", 10, "number of random products to generate")
	comments := flag.Int("comments", 3, "random comments per seeded product thread")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		DryRun:     *dryRun,
		SkipBcrypt: *skipBcrypt,
		Products:   *products,
		Comments:   *comments,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
