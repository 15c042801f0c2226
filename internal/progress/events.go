package progress

import "time"

// Event types broadcast over the hub during a crawl run.
const (
	EventRunStarted  = "run.started"
	EventBookCrawled = "book.crawled"
	EventRunFinished = "run.finished"
)

type CrawlEvent struct {
	Type       string    `json:"type"`
	RunID      string    `json:"run_id"`
	BookID     string    `json:"book_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Chapters   int       `json:"chapters,omitempty"`
	Books      int       `json:"books,omitempty"`
	Candidates int       `json:"candidates,omitempty"`
	At         time.Time `json:"at"`
}
