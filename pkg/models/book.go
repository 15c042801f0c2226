package models

// Chapter is one ordered unit of a book's content, fetched individually.
// Content is sanitized HTML (images removed, anchors flattened to text).
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"` // absolute URL the chapter was fetched from
}

// BookResult is the normalized output of crawling one book:
// detail-page metadata plus the strict prefix of chapters that
// could be fetched.
type BookResult struct {
	ID          string    `json:"id"`          // opaque token taken from the discovery link
	Title       string    `json:"title"`       // first heading on the detail page, or synthesized
	Description string    `json:"description"` // normalized plain text
	Category    []string  `json:"category"`    // keyword matches + breadcrumb, never empty
	SourceBook  string    `json:"source_book"` // chapter 1 URL if reachable, else detail URL
	Chapters    []Chapter `json:"chapters"`
}

// BookDB is the persisted form of a crawled book. Chapters are only
// filled when a single book is loaded.
type BookDB struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    []string  `json:"category"`
	SourceBook  string    `json:"source_book,omitempty"`
	CrawledAt   string    `json:"crawled_at,omitempty"`
	Chapters    []Chapter `json:"chapters,omitempty"`
}

// CrawlRequest is the immutable input to one crawl run.
type CrawlRequest struct {
	NumBooks    int `json:"num_books"`    // max books to crawl, >= 0
	NumChapters int `json:"num_chapters"` // max chapters per book, >= 0
}

// BookSubgroup is one subcategory bucket inside a category group.
type BookSubgroup struct {
	Name  string       `json:"name"`
	Books []BookResult `json:"books"`
}

// BookGroup is one top-level category bucket. Configured groups are
// always emitted, even when empty.
type BookGroup struct {
	Category      string         `json:"category"`
	Subcategories []BookSubgroup `json:"subcategories"`
}

// CrawlResult is the output of one crawl run. Exactly one of Books
// (flat shape) or Groups (category/subcategory shape) is set,
// depending on the configured grouping mode.
type CrawlResult struct {
	RunID  string       `json:"run_id"`
	Books  []BookResult `json:"books,omitempty"`
	Groups []BookGroup  `json:"groups,omitempty"`
}

// AllBooks flattens the result regardless of grouping shape. Grouped
// results keep their configured category order.
func (r *CrawlResult) AllBooks() []BookResult {
	if r == nil {
		return nil
	}
	if r.Groups == nil {
		return r.Books
	}
	var out []BookResult
	for _, g := range r.Groups {
		for _, sg := range g.Subcategories {
			out = append(out, sg.Books...)
		}
	}
	return out
}
