package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"qnotehub/pkg/models"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("get %s: status 404", url)
	}
	return body, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://qnote.test/"
	cfg.DetailTemplate = "https://qnote.test/detail/%s"
	cfg.ChapterTemplate = "https://qnote.test/read/%s/%d"
	cfg.Rand = rand.New(rand.NewSource(1))
	return cfg
}

func detailPage(title string) string {
	return fmt.Sprintf(`<html><body>
		<h1>%s</h1>
		<div class="breadcrumb"><a href="/">Home</a><a href="/cat">都市小说</a></div>
		<div class="intro"><p>giới thiệu</p></div>
	</body></html>`, title)
}

func chapterPage(n int) string {
	return fmt.Sprintf(`<html><body><h1>Chapter %d</h1><div class="content"><p>body %d</p></div></body></html>`, n, n)
}

func sitePages() map[string]string {
	pages := map[string]string{
		"https://qnote.test/": `<html><body>
			<a href="/detail/1">one</a>
			<a href="/detail/2">two</a>
			<a href="/detail/3">three</a>
		</body></html>`,
	}
	for _, id := range []string{"1", "2", "3"} {
		pages["https://qnote.test/detail/"+id] = detailPage("Book " + id)
		for n := 1; n <= 3; n++ {
			pages[fmt.Sprintf("https://qnote.test/read/%s/%d", id, n)] = chapterPage(n)
		}
	}
	return pages
}

func TestCrawlHomepageUnreachable(t *testing.T) {
	c := New(testConfig(), fakeFetcher{pages: map[string]string{}}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 2, NumChapters: 2})
	require.ErrorIs(t, err, ErrHomepageUnreachable)
	require.Nil(t, result)
}

func TestCrawlBounds(t *testing.T) {
	c := New(testConfig(), fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 2, NumChapters: 2})
	require.NoError(t, err)
	require.Len(t, result.Books, 2)
	for _, b := range result.Books {
		require.LessOrEqual(t, len(b.Chapters), 2)
		require.Contains(t, []string{"1", "2", "3"}, b.ID)
	}
}

func TestCrawlIdentifiersDistinct(t *testing.T) {
	c := New(testConfig(), fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 10, NumChapters: 1})
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, b := range result.Books {
		require.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
	}
}

func TestCrawlStrictChapterPrefix(t *testing.T) {
	pages := sitePages()
	// chapter 2 of book 1 is missing; chapter 3 exists but must not
	// be reached
	delete(pages, "https://qnote.test/read/1/2")

	cfg := testConfig()
	c := New(cfg, fakeFetcher{pages: pages}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 3, NumChapters: 5})
	require.NoError(t, err)

	var book1 *models.BookResult
	for i := range result.Books {
		if result.Books[i].ID == "1" {
			book1 = &result.Books[i]
		}
	}
	require.NotNil(t, book1)
	require.Len(t, book1.Chapters, 1)
	require.Equal(t, "Chapter 1", book1.Chapters[0].Title)
}

func TestCrawlSkipsUnreachableDetailPage(t *testing.T) {
	pages := sitePages()
	delete(pages, "https://qnote.test/detail/2")

	c := New(testConfig(), fakeFetcher{pages: pages}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 10, NumChapters: 1})
	require.NoError(t, err)
	require.Len(t, result.Books, 2)
	for _, b := range result.Books {
		require.NotEqual(t, "2", b.ID)
	}
}

func TestCrawlCanonicalSource(t *testing.T) {
	pages := sitePages()
	// book 3 has no chapters at all: canonical source falls back to
	// the detail page
	for n := 1; n <= 3; n++ {
		delete(pages, fmt.Sprintf("https://qnote.test/read/3/%d", n))
	}

	c := New(testConfig(), fakeFetcher{pages: pages}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 10, NumChapters: 2})
	require.NoError(t, err)
	for _, b := range result.Books {
		if b.ID == "3" {
			require.Equal(t, "https://qnote.test/detail/3", b.SourceBook)
			require.Empty(t, b.Chapters)
		} else {
			require.Equal(t, "https://qnote.test/read/"+b.ID+"/1", b.SourceBook)
		}
	}
}

func TestCrawlCategories(t *testing.T) {
	pages := sitePages()
	pages["https://qnote.test/detail/1"] = `<html><body>
		<h1>都市小说合集：言情小说精选</h1>
	</body></html>`

	c := New(testConfig(), fakeFetcher{pages: pages}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 10, NumChapters: 0})
	require.NoError(t, err)
	for _, b := range result.Books {
		require.NotEmpty(t, b.Category)
		switch b.ID {
		case "1":
			// keyword matches in keyword-list order, no breadcrumb on
			// this page
			require.Equal(t, []string{"言情小说", "都市小说"}, b.Category)
		default:
			require.Equal(t, []string{"都市小说"}, b.Category)
		}
	}
}

func TestCrawlZeroBooks(t *testing.T) {
	c := New(testConfig(), fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 0, NumChapters: 5})
	require.NoError(t, err)
	require.Empty(t, result.Books)
}

func TestCrawlNegativeChapters(t *testing.T) {
	c := New(testConfig(), fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 2, NumChapters: -1})
	require.NoError(t, err)
	require.Len(t, result.Books, 2)
	for _, b := range result.Books {
		require.Empty(t, b.Chapters)
	}
}

func TestCrawlGroupedShape(t *testing.T) {
	cfg := testConfig()
	cfg.Grouping = GroupByCategory
	c := New(cfg, fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 10, NumChapters: 1})
	require.NoError(t, err)
	require.Nil(t, result.Books)

	// every configured category is present, in configured order,
	// empty groups included
	require.Len(t, result.Groups, len(cfg.Taxonomy))
	for i, g := range result.Groups {
		require.Equal(t, cfg.Taxonomy[i].Name, g.Category)
	}

	// all three books carry 都市小说 (from the breadcrumb), which is a
	// subcategory of the first group
	first := result.Groups[0]
	require.Equal(t, "都市小说", first.Subcategories[0].Name)
	require.Len(t, first.Subcategories[0].Books, 3)

	require.Len(t, result.AllBooks(), 3)
}

func TestCrawlRandomLabeler(t *testing.T) {
	cfg := testConfig()
	cfg.Labeler = RandomLabeler(rand.New(rand.NewSource(7)), []string{"暗黑小说"})
	c := New(cfg, fakeFetcher{pages: sitePages()}, nil)

	result, err := c.Crawl(context.Background(), models.CrawlRequest{NumBooks: 1, NumChapters: 0})
	require.NoError(t, err)
	require.Len(t, result.Books, 1)
	require.Contains(t, result.Books[0].Category, "暗黑小说")
}
