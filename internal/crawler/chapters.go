package crawler

import (
	"context"
	"fmt"
	"log"

	"qnotehub/pkg/models"
)

// walkChapters fetches chapters sequentially starting at 1 and stops
// at the first unreachable one, returning the collected prefix. A
// missing chapter is never skipped over: if chapter k fails, chapters
// beyond k are not attempted.
func (c *Crawler) walkChapters(ctx context.Context, id string, max int) []models.Chapter {
	if max < 0 {
		max = 0
	}
	chapters := make([]models.Chapter, 0, max)

	for i := 1; i <= max; i++ {
		chapterURL := c.cfg.ChapterURL(id, i)
		body, err := c.fetcher.Fetch(ctx, chapterURL)
		if err != nil {
			log.Printf("[crawler] book %s: chapter walk stopped at %d: %v", id, i, err)
			break
		}

		doc := parseDoc(body)

		title, found := ExtractTitle(doc, "h1")
		if !found {
			title = fmt.Sprintf("Chương %d", i)
		}

		content := ExtractField(doc, FieldSpec{
			Selectors:   c.cfg.ChapterSelectors,
			MaxLines:    50,
			Placeholder: c.cfg.ChapterPlaceholder,
		})

		chapters = append(chapters, models.Chapter{
			Title:   title,
			Content: content,
			Source:  chapterURL,
		})
	}
	return chapters
}
