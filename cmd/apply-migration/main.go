package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	commondb "github.com/sagar-developer08/Api-v2-sub001/common/database"
	"github.com/sagar-developer08/Api-v2-sub001/internal/config"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"
)

// apply-migration creates the marketing admin tables and indexes. Every
// statement is idempotent, so running it against an existing database is safe.
func main() {
	configPath := flag.String("config", "", "path to config file")
	printOnly := flag.Bool("print", false, "print the schema and exit")
	flag.Parse()

	if *printOnly {
		fmt.Print(repository.SchemaSQL())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := commondb.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to database: %s@%s:%d\n", cfg.Database.Database, cfg.Database.Host, cfg.Database.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := repository.CreateSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migration completed successfully")
}
