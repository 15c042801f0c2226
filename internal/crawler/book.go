package crawler

import (
	"context"
	"fmt"
	"log"

	"qnotehub/pkg/models"
	"qnotehub/pkg/textutil"
)

// resolveBook fetches the detail page for one id and assembles the
// full BookResult, chapters included. ok is false when the detail
// page is unreachable; the book is then skipped entirely.
func (c *Crawler) resolveBook(ctx context.Context, id string, numChapters int) (book models.BookResult, ok bool) {
	detailURL := c.cfg.DetailURL(id)
	detailBody, err := c.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		log.Printf("[crawler] skip book %s: %v", id, err)
		return models.BookResult{}, false
	}

	// The probe only decides the canonical source; the chapter walk
	// runs either way.
	firstChapterURL := c.cfg.ChapterURL(id, 1)
	sourceBook := detailURL
	if _, err := c.fetcher.Fetch(ctx, firstChapterURL); err == nil {
		sourceBook = firstChapterURL
	}

	doc := parseDoc(detailBody)

	title, found := ExtractTitle(doc, "h1, h2")
	if !found {
		title = fmt.Sprintf("Book %s", id)
	}

	description := ExtractField(doc, FieldSpec{
		Selectors:   c.cfg.DescriptionSelectors,
		Placeholder: c.cfg.DescriptionPlaceholder,
		PlainText:   true,
	})

	return models.BookResult{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    c.categorize(title, ExtractBreadcrumb(doc)),
		SourceBook:  sourceBook,
		Chapters:    c.walkChapters(ctx, id, numChapters),
	}, true
}

// categorize unions the keyword matches on the title with the
// breadcrumb label and the optional labeler hook. Never returns an
// empty list.
func (c *Crawler) categorize(title, breadcrumb string) []string {
	categories := textutil.MatchKeywords(title, c.cfg.CategoryKeywords)

	if breadcrumb != "Unknown" && !contains(categories, breadcrumb) {
		categories = append(categories, breadcrumb)
	}
	if c.cfg.Labeler != nil {
		if label := c.cfg.Labeler(title); label != "" && !contains(categories, label) {
			categories = append(categories, label)
		}
	}
	if len(categories) == 0 {
		categories = []string{"Unknown"}
	}
	return categories
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
