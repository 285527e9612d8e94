// Command migrate applies the database schema.
package main

import (
	"fmt"
	"log"

	"microblog/internal/config"
	"microblog/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("automigrations failed: %w", err)
	}

	log.Println("automigrations applied")
	return nil
}
