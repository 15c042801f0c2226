package crawler

import (
	"math/rand"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var detailIDPattern = regexp.MustCompile(`/detail/(\d+)`)

// DiscoverBookIDs parses the homepage body, collects every detail
// link, and returns a shuffled sample of at most max distinct book
// ids. Shuffling is deliberate: each run samples a different slice of
// the homepage instead of always hitting the same books.
func DiscoverBookIDs(body, baseURL string, max int, rng *rand.Rand) []string {
	doc := parseDoc(body)
	base, baseErr := url.Parse(baseURL)

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "/detail/") {
			return
		}
		if strings.HasPrefix(href, "http") {
			links = append(links, href)
			return
		}
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				links = append(links, base.ResolveReference(ref).String())
				return
			}
		}
		// keep the raw target; the detail fetch will fail it later
		links = append(links, href)
	})

	seen := make(map[string]struct{})
	var ids []string
	for _, link := range links {
		m := detailIDPattern.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}

	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	if max >= 0 && len(ids) > max {
		ids = ids[:max]
	}
	return ids
}
