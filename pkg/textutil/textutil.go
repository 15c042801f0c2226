package textutil

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// CleanHTML removes image nodes and replaces every anchor with its
// inner text, keeping the surrounding markup. Unparseable input is
// returned as-is.
func CleanHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("img").Remove()
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(stdhtml.EscapeString(s.Text()))
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return out
}

// HTMLToText extracts all text from the fragment with a line-break
// separator between nodes, trims each line, drops empty lines and
// joins the rest with blank lines. Applying it to its own output is
// a no-op.
func HTMLToText(fragment string) string {
	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	var b strings.Builder
	collectText(node, &b)

	var lines []string
	for _, ln := range strings.Split(b.String(), "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n\n")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte('\n')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

var illegalFilenameChars = regexp.MustCompile(`[<>:"|?*]`)

// SanitizeFilename makes a string safe to use as a file or directory
// name: canonical decomposition, path separators become spaces,
// characters illegal on common filesystems are stripped, and the
// result is trimmed and truncated to maxLen runes. Never returns an
// empty string.
func SanitizeFilename(name string, maxLen int) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = illegalFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > maxLen {
		name = strings.TrimRight(string(runes[:maxLen]), " ")
	}
	if name == "" {
		return "untitled"
	}
	return name
}

// MatchKeywords returns every keyword that occurs as a substring of s,
// in keyword-list order. Matches are not mutually exclusive.
func MatchKeywords(s string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
