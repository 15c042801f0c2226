// Package crawler implements the qnote discovery-and-extraction
// pipeline: homepage -> sampled book ids -> per-book metadata and a
// strict prefix of chapters, all best-effort under uncertain markup.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"qnotehub/internal/progress"
	"qnotehub/pkg/models"
)

// ErrHomepageUnreachable is the only failure a run propagates.
// Everything downstream of discovery degrades to fewer books, fewer
// chapters or placeholder text instead of erroring.
var ErrHomepageUnreachable = errors.New("qnote homepage unreachable")

type Crawler struct {
	cfg     Config
	fetcher Fetcher
	events  *progress.Hub // may be nil
}

func New(cfg Config, fetcher Fetcher, events *progress.Hub) *Crawler {
	return &Crawler{cfg: cfg, fetcher: fetcher, events: events}
}

// Crawl runs one full pipeline pass. Fetches are strictly sequential
// over the shared client; per-book failures are skipped, and only the
// homepage fetch aborts the run.
func (c *Crawler) Crawl(ctx context.Context, req models.CrawlRequest) (*models.CrawlResult, error) {
	runID := uuid.NewString()

	body, err := c.fetcher.Fetch(ctx, c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHomepageUnreachable, err)
	}

	ids := DiscoverBookIDs(body, c.cfg.BaseURL, req.NumBooks, c.cfg.Rand)
	log.Printf("[crawler] run %s: %d candidate books (max %d)", runID, len(ids), req.NumBooks)

	c.events.BroadcastJSON(progress.CrawlEvent{
		Type:       progress.EventRunStarted,
		RunID:      runID,
		Candidates: len(ids),
		At:         time.Now().UTC(),
	})

	books := make([]models.BookResult, 0, len(ids))
	for _, id := range ids {
		book, ok := c.resolveBook(ctx, id, req.NumChapters)
		if !ok {
			continue
		}
		books = append(books, book)

		c.events.BroadcastJSON(progress.CrawlEvent{
			Type:     progress.EventBookCrawled,
			RunID:    runID,
			BookID:   book.ID,
			Title:    book.Title,
			Chapters: len(book.Chapters),
			At:       time.Now().UTC(),
		})
	}

	result := &models.CrawlResult{RunID: runID}
	if c.cfg.Grouping == GroupByCategory {
		result.Groups = groupBooks(books, c.cfg.Taxonomy)
	} else {
		result.Books = books
	}

	log.Printf("[crawler] run %s: done, %d books", runID, len(books))
	c.events.BroadcastJSON(progress.CrawlEvent{
		Type:  progress.EventRunFinished,
		RunID: runID,
		Books: len(books),
		At:    time.Now().UTC(),
	})
	return result, nil
}

// groupBooks buckets books into the configured taxonomy. Every
// configured group and subcategory appears in the output in
// configured order, empty or not; the final group is the catch-all.
func groupBooks(books []models.BookResult, taxonomy []TaxonomyGroup) []models.BookGroup {
	groups := make([]models.BookGroup, len(taxonomy))
	for i, tg := range taxonomy {
		subs := make([]models.BookSubgroup, 0, len(tg.Subcategories)+1)
		for _, name := range tg.Subcategories {
			subs = append(subs, models.BookSubgroup{Name: name, Books: []models.BookResult{}})
		}
		// trailing bucket for books that match the group but none of
		// its subcategories
		subs = append(subs, models.BookSubgroup{Name: "其他", Books: []models.BookResult{}})
		groups[i] = models.BookGroup{Category: tg.Name, Subcategories: subs}
	}

	for _, book := range books {
		gi := len(taxonomy) - 1
		for i, tg := range taxonomy {
			if matchesGroup(book.Category, tg) {
				gi = i
				break
			}
		}

		si := len(groups[gi].Subcategories) - 1
		for i, name := range taxonomy[gi].Subcategories {
			if contains(book.Category, name) {
				si = i
				break
			}
		}
		sub := &groups[gi].Subcategories[si]
		sub.Books = append(sub.Books, book)
	}
	return groups
}

func matchesGroup(categories []string, tg TaxonomyGroup) bool {
	if contains(categories, tg.Name) {
		return true
	}
	for _, sub := range tg.Subcategories {
		if contains(categories, sub) {
			return true
		}
	}
	return false
}
