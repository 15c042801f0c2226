package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"qnotehub/pkg/models"
)

func sampleBook() models.BookResult {
	return models.BookResult{
		ID:          "101",
		Title:       "Test/Book: part 1",
		Description: "A short description",
		Category:    []string{"言情小说", "都市小说"},
		SourceBook:  "https://qnote.qq.com/read/101/1",
		Chapters: []models.Chapter{
			{Title: "Chapter 1", Content: "<p>body one</p>", Source: "https://qnote.qq.com/read/101/1"},
			{Title: "Chapter 2?", Content: "<p>body two</p>", Source: "https://qnote.qq.com/read/101/2"},
		},
	}
}

func TestExportBooks(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	dirs, err := e.ExportBooks([]models.BookResult{sampleBook()})
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	bookDir := dirs[0]
	require.Equal(t, filepath.Join(dir, "101_Test Book part 1"), bookDir)

	desc, err := os.ReadFile(filepath.Join(bookDir, "description.txt"))
	require.NoError(t, err)
	require.Contains(t, string(desc), "Title: Test/Book: part 1")
	require.Contains(t, string(desc), "Category: 言情小说, 都市小说")
	require.Contains(t, string(desc), "Source: https://qnote.qq.com/read/101/1")
	require.Contains(t, string(desc), "A short description")

	ch1, err := os.ReadFile(filepath.Join(bookDir, "001 - Chapter 1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(ch1), "Chapter 1\n\n")
	require.Contains(t, string(ch1), "body one")
	require.NotContains(t, string(ch1), "<p>")

	// illegal characters stripped from the chapter filename
	_, err = os.Stat(filepath.Join(bookDir, "002 - Chapter 2.txt"))
	require.NoError(t, err)

	meta, err := os.ReadFile(filepath.Join(bookDir, "meta.json"))
	require.NoError(t, err)
	var decoded models.BookResult
	require.NoError(t, json.Unmarshal(meta, &decoded))
	require.Equal(t, sampleBook(), decoded)
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	result := &models.CrawlResult{RunID: "run-1", Books: []models.BookResult{sampleBook()}}
	path, err := e.SaveJSON(result)
	require.NoError(t, err)

	base := filepath.Base(path)
	require.Regexp(t, `^qnote_\d{8}T\d{6}Z\.json$`, base)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded models.CrawlResult
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, *result, decoded)
}
