package main

import (
	"context"
	"flag"
	"log"
	"time"

	"qnotehub/internal/books"
	"qnotehub/internal/export"
	"qnotehub/pkg/database"
	"qnotehub/pkg/models"
)

// Re-exports previously crawled books from sqlite to the output
// directory tree, without touching the network.
func main() {
	var (
		outDir = flag.String("out", "output", "output directory")
		limit  = flag.Int("limit", 200, "max books to export")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := books.NewRepo(db)
	stored, err := repo.List(ctx, books.ListQuery{Limit: *limit})
	if err != nil {
		log.Fatalf("list books failed: %v", err)
	}

	var results []models.BookResult
	for _, s := range stored {
		full, err := repo.GetByID(ctx, s.ID)
		if err != nil {
			log.Fatalf("load book %s failed: %v", s.ID, err)
		}
		if full == nil {
			continue
		}
		results = append(results, models.BookResult{
			ID:          full.ID,
			Title:       full.Title,
			Description: full.Description,
			Category:    full.Category,
			SourceBook:  full.SourceBook,
			Chapters:    full.Chapters,
		})
	}

	exporter := export.NewExporter(*outDir)
	dirs, err := exporter.ExportBooks(results)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}

	log.Printf("✅ exported %d books to %s", len(dirs), *outDir)
}
