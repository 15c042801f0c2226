package crawler

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
)

// GroupingMode selects the shape of the aggregated result.
type GroupingMode string

const (
	GroupFlat       GroupingMode = "flat"     // ordered list of books
	GroupByCategory GroupingMode = "category" // category -> subcategory -> books
)

// Labeler assigns an extra category label to a book when no
// authoritative source exists. Return "" to assign nothing.
type Labeler func(title string) string

// TaxonomyGroup is one configured top-level category and its
// subcategories. The last configured group acts as the catch-all for
// books that match nothing.
type TaxonomyGroup struct {
	Name          string
	Subcategories []string
}

// Config carries everything one crawl run needs: site URLs, the
// selector lists per field, the category taxonomy and the sampling
// source. Values are fixed for the lifetime of a run.
type Config struct {
	BaseURL         string // homepage used for discovery
	DetailTemplate  string // one %s: book id
	ChapterTemplate string // %s: book id, %d: 1-based chapter index
	UserAgent       string
	Timeout         time.Duration

	DefaultBooks    int // used when a request leaves num_books unset
	DefaultChapters int

	DescriptionSelectors []string
	ChapterSelectors     []string
	CategoryKeywords     []string

	DescriptionPlaceholder string
	ChapterPlaceholder     string

	Grouping GroupingMode
	Taxonomy []TaxonomyGroup

	// Labeler is optional. The reference behavior of one upstream
	// variant picked a random label here; use RandomLabeler to opt
	// back into that.
	Labeler Labeler

	// Rand drives discovery sampling (and RandomLabeler). Seed it in
	// tests for deterministic runs.
	Rand *rand.Rand
}

// Category keywords matched against resolved titles.
var DefaultCategoryKeywords = []string{
	"奇幻小说", "情色小说", "情色文学", "文学评论", "武侠小说", "通俗小说",
	"时空穿越小说", "类型", "言情小说", "都市小说", "暗黑小说", "青少年言情小说",
}

// DefaultTaxonomy groups the keyword list for the nested output
// shape. "Unknown" is last on purpose: it collects everything that
// matches no other group.
var DefaultTaxonomy = []TaxonomyGroup{
	{Name: "言情小说", Subcategories: []string{"都市小说", "青少年言情小说", "时空穿越小说"}},
	{Name: "奇幻小说", Subcategories: []string{"武侠小说", "暗黑小说"}},
	{Name: "情色文学", Subcategories: []string{"情色小说"}},
	{Name: "通俗小说", Subcategories: []string{"文学评论"}},
	{Name: "Unknown"},
}

// DefaultConfig returns the production configuration for qnote.qq.com.
// QNOTEHUB_BASE_URL overrides the site root (useful against a local
// fixture server).
func DefaultConfig() Config {
	base := os.Getenv("QNOTEHUB_BASE_URL")
	if base == "" {
		base = "https://qnote.qq.com/"
	}
	root := strings.TrimRight(base, "/")

	return Config{
		BaseURL:         base,
		DetailTemplate:  root + "/detail/%s",
		ChapterTemplate: root + "/read/%s/%d",
		UserAgent:       "Mozilla/5.0",
		Timeout:         20 * time.Second,

		DefaultBooks:    5,
		DefaultChapters: 10,

		DescriptionSelectors: []string{
			".intro", ".detail_intro", ".summary", ".review",
			".book-info", ".desc", ".book-desc",
		},
		ChapterSelectors: []string{
			".content", ".chapter", ".read-content", "#content", ".article",
		},
		CategoryKeywords: DefaultCategoryKeywords,

		DescriptionPlaceholder: "Chưa có mô tả",
		ChapterPlaceholder:     "<p>Chưa có nội dung</p>",

		Grouping: GroupFlat,
		Taxonomy: DefaultTaxonomy,

		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c Config) DetailURL(id string) string {
	return fmt.Sprintf(c.DetailTemplate, id)
}

func (c Config) ChapterURL(id string, idx int) string {
	return fmt.Sprintf(c.ChapterTemplate, id, idx)
}

// RandomLabeler picks one of the given labels per book. Kept as an
// explicit opt-in: it was placeholder behavior upstream, not a
// default anyone should inherit silently.
func RandomLabeler(rng *rand.Rand, labels []string) Labeler {
	return func(string) string {
		if len(labels) == 0 {
			return ""
		}
		return labels[rng.Intn(len(labels))]
	}
}
