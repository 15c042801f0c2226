package books

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"qnotehub/internal/crawler"
	"qnotehub/pkg/database"
	"qnotehub/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateFile(db, "../../docs/schema.sql"))
	return db
}

func seedBooks(t *testing.T, db *sql.DB) {
	t.Helper()
	err := crawler.SaveToDatabase(context.Background(), db, []models.BookResult{
		{
			ID:          "1",
			Title:       "言情小说一号",
			Description: "first description",
			Category:    []string{"言情小说"},
			SourceBook:  "https://qnote.qq.com/read/1/1",
			Chapters: []models.Chapter{
				{Title: "c1", Content: "<p>one</p>", Source: "https://qnote.qq.com/read/1/1"},
				{Title: "c2", Content: "<p>two</p>", Source: "https://qnote.qq.com/read/1/2"},
			},
		},
		{
			ID:          "2",
			Title:       "second book",
			Description: "second description",
			Category:    []string{"Unknown"},
			SourceBook:  "https://qnote.qq.com/detail/2",
		},
	})
	require.NoError(t, err)
}

func TestRepoGetByID(t *testing.T) {
	db := testDB(t)
	seedBooks(t, db)
	repo := NewRepo(db)

	b, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Equal(t, "言情小说一号", b.Title)
	require.Equal(t, []string{"言情小说"}, b.Category)
	require.Len(t, b.Chapters, 2)
	require.Equal(t, "c1", b.Chapters[0].Title)
	require.Equal(t, "c2", b.Chapters[1].Title)

	missing, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRepoList(t *testing.T) {
	db := testDB(t)
	seedBooks(t, db)
	repo := NewRepo(db)

	all, err := repo.List(context.Background(), ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)

	total, err := repo.Count(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	byQ, err := repo.List(context.Background(), ListQuery{Q: "second", Limit: 10})
	require.NoError(t, err)
	require.Len(t, byQ, 1)
	require.Equal(t, "2", byQ[0].ID)

	byCat, err := repo.List(context.Background(), ListQuery{Category: "言情小说", Limit: 10})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	require.Equal(t, "1", byCat[0].ID)
}

func TestSaveReplacesChapters(t *testing.T) {
	db := testDB(t)
	seedBooks(t, db)

	// re-crawl with a shorter prefix must not leave a stale tail
	err := crawler.SaveToDatabase(context.Background(), db, []models.BookResult{
		{
			ID:       "1",
			Title:    "言情小说一号",
			Category: []string{"言情小说"},
			Chapters: []models.Chapter{
				{Title: "c1 v2", Content: "<p>one</p>", Source: "https://qnote.qq.com/read/1/1"},
			},
		},
	})
	require.NoError(t, err)

	repo := NewRepo(db)
	b, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, b.Chapters, 1)
	require.Equal(t, "c1 v2", b.Chapters[0].Title)
}
