package crawler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"qnotehub/pkg/models"
)

// SaveToDatabase upserts crawled books and replaces their chapter
// rows inside one transaction, so a re-crawl of a book never leaves a
// stale chapter tail behind.
func SaveToDatabase(ctx context.Context, db *sql.DB, books []models.BookResult) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	bookStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, description, categories, source_book, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  description = excluded.description,
		  categories = excluded.categories,
		  source_book = excluded.source_book,
		  crawled_at = excluded.crawled_at
	`)
	if err != nil {
		return fmt.Errorf("prepare book stmt: %w", err)
	}
	defer bookStmt.Close()

	chapterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (book_id, idx, title, content, source)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chapter stmt: %w", err)
	}
	defer chapterStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, b := range books {
		categoriesJSON, err := json.Marshal(b.Category)
		if err != nil {
			return fmt.Errorf("marshal categories for %s: %w", b.ID, err)
		}

		if _, err := bookStmt.ExecContext(
			ctx, b.ID, b.Title, b.Description, string(categoriesJSON), b.SourceBook, now,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", b.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE book_id = ?`, b.ID); err != nil {
			return fmt.Errorf("clear chapters for %s: %w", b.ID, err)
		}
		for i, ch := range b.Chapters {
			if _, err := chapterStmt.ExecContext(
				ctx, b.ID, i+1, ch.Title, ch.Content, ch.Source,
			); err != nil {
				return fmt.Errorf("exec chapter %d for %s: %w", i+1, b.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
