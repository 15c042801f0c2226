// Package export writes crawl results to disk: a single timestamped
// JSON document, or one directory per book with plain-text chapters.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qnotehub/pkg/models"
	"qnotehub/pkg/textutil"
)

const maxNameLen = 200

type Exporter struct {
	OutDir string
}

func NewExporter(outDir string) *Exporter {
	return &Exporter{OutDir: outDir}
}

// SaveJSON writes the whole result as one pretty-printed JSON file
// named qnote_<UTC timestamp>.json and returns its path.
func (e *Exporter) SaveJSON(result *models.CrawlResult) (string, error) {
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("qnote_%s.json", time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(e.OutDir, name)

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportBooks writes one directory per book:
//
//	<id>_<sanitized title>/
//	  description.txt        title, categories, source, description text
//	  001 - <chapter>.txt    one file per chapter, 1-based, zero-padded
//	  meta.json              the full record
//
// Returns the created directories.
func (e *Exporter) ExportBooks(books []models.BookResult) ([]string, error) {
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return nil, err
	}

	var exported []string
	for _, book := range books {
		dirName := fmt.Sprintf("%s_%s", book.ID, textutil.SanitizeFilename(book.Title, maxNameLen))
		bookDir := filepath.Join(e.OutDir, dirName)
		if err := os.MkdirAll(bookDir, 0o755); err != nil {
			return exported, err
		}

		if err := writeDescription(bookDir, book); err != nil {
			return exported, err
		}

		for i, ch := range book.Chapters {
			name := fmt.Sprintf("%03d - %s.txt", i+1, textutil.SanitizeFilename(ch.Title, maxNameLen))
			body := ch.Title + "\n\n" + textutil.HTMLToText(ch.Content)
			if err := os.WriteFile(filepath.Join(bookDir, name), []byte(body), 0o644); err != nil {
				return exported, err
			}
		}

		meta, err := json.MarshalIndent(book, "", "  ")
		if err != nil {
			return exported, err
		}
		if err := os.WriteFile(filepath.Join(bookDir, "meta.json"), meta, 0o644); err != nil {
			return exported, err
		}

		exported = append(exported, bookDir)
	}
	return exported, nil
}

func writeDescription(bookDir string, book models.BookResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", book.Title)
	fmt.Fprintf(&b, "Category: %s\n", strings.Join(book.Category, ", "))
	fmt.Fprintf(&b, "Source: %s\n\n", book.SourceBook)
	b.WriteString(textutil.HTMLToText(book.Description))

	return os.WriteFile(filepath.Join(bookDir, "description.txt"), []byte(b.String()), 0o644)
}
