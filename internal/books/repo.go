package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"qnotehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q        string // keyword search in title/description
	Category string // exact match inside the categories list
	Limit    int
	Offset   int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// GetByID loads one book with its chapters in fetch order. Returns
// (nil, nil) when the book does not exist.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.BookDB, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, description, categories, source_book, crawled_at
		FROM books
		WHERE id = ?
	`, id)

	b, err := scanBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT title, content, source
		FROM chapters
		WHERE book_id = ?
		ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("chapters query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.Title, &ch.Content, &ch.Source); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		b.Chapters = append(b.Chapters, ch)
	}
	return b, rows.Err()
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.BookDB, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.BookDB, 0, q.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.BookDB, error) {
	var (
		b              models.BookDB
		description    sql.NullString
		categoriesJSON sql.NullString
		sourceBook     sql.NullString
		crawledAt      sql.NullString
	)
	if err := row.Scan(
		&b.ID, &b.Title, &description, &categoriesJSON, &sourceBook, &crawledAt,
	); err != nil {
		return nil, err
	}
	b.Description = description.String
	b.SourceBook = sourceBook.String
	b.CrawledAt = crawledAt.String
	_ = json.Unmarshal([]byte(categoriesJSON.String), &b.Category)
	return &b, nil
}

func buildListSQL(q ListQuery, count bool) (string, []any) {
	cols := "id, title, description, categories, source_book, crawled_at"
	if count {
		cols = "COUNT(*)"
	}
	sqlStr := "SELECT " + cols + " FROM books WHERE 1=1"
	var args []any

	if q.Q != "" {
		sqlStr += " AND (title LIKE ? OR description LIKE ?)"
		kw := "%" + q.Q + "%"
		args = append(args, kw, kw)
	}
	if q.Category != "" {
		// categories is a JSON array stored as text
		sqlStr += ` AND categories LIKE ?`
		args = append(args, `%"`+q.Category+`"%`)
	}

	if !count {
		sqlStr += " ORDER BY crawled_at DESC, id LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 {
			limit = 20
		}
		args = append(args, limit, q.Offset)
	}
	return sqlStr, args
}
