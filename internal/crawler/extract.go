package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"qnotehub/pkg/textutil"
)

// FieldSpec describes how to locate one logical field on a page with
// uncertain markup.
type FieldSpec struct {
	Selectors   []string // ordered class/id probes, first hit wins
	MaxLines    int      // cap for the whole-page text fallback
	Placeholder string   // returned when even the page text is empty
	PlainText   bool     // normalize the result to plain text instead of cleaned markup
}

// ExtractField runs the fallback chain for a field and always returns
// a usable string:
//
//  1. first selector in the probe list that matches at least one node
//  2. paragraph nodes in the body (then anywhere)
//  3. non-empty lines of the whole-page text, capped and wrapped in <p>
//  4. the configured placeholder
//
// All matches of the winning tier are concatenated in document order;
// blocks whose normalized text is an exact duplicate are dropped.
func ExtractField(doc *goquery.Document, spec FieldSpec) string {
	blocks := probeSelectors(doc, spec.Selectors)
	if len(blocks) == 0 {
		blocks = paragraphBlocks(doc)
	}
	if len(blocks) == 0 {
		blocks = textLineBlocks(doc, spec.MaxLines)
	}
	if len(blocks) == 0 {
		return spec.Placeholder
	}

	seen := make(map[string]struct{})
	var parts []string
	for _, b := range blocks {
		clean := textutil.CleanHTML(b)
		text := textutil.HTMLToText(clean)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		if spec.PlainText {
			parts = append(parts, text)
		} else {
			parts = append(parts, clean)
		}
	}
	if len(parts) == 0 {
		return spec.Placeholder
	}
	if spec.PlainText {
		return strings.Join(parts, "\n\n")
	}
	return strings.Join(parts, "")
}

func probeSelectors(doc *goquery.Document, selectors []string) []string {
	for _, sel := range selectors {
		nodes := doc.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		return outerBlocks(nodes)
	}
	return nil
}

func paragraphBlocks(doc *goquery.Document) []string {
	nodes := doc.Find("body p")
	if nodes.Length() == 0 {
		nodes = doc.Find("p")
	}
	return outerBlocks(nodes)
}

// textLineBlocks synthesizes minimal paragraph markup from the raw
// page text. The cap keeps pathological pages from producing
// unbounded output.
func textLineBlocks(doc *goquery.Document, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = 50
	}
	raw, err := doc.Html()
	if err != nil {
		return nil
	}
	text := textutil.HTMLToText(raw)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return []string{"<p>" + strings.Join(lines, "</p><p>") + "</p>"}
}

func outerBlocks(nodes *goquery.Selection) []string {
	var blocks []string
	nodes.Each(func(_ int, s *goquery.Selection) {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		blocks = append(blocks, h)
	})
	return blocks
}

// ExtractTitle returns the trimmed text of the first node matching
// the heading selector, in document order.
func ExtractTitle(doc *goquery.Document, selector string) (string, bool) {
	title := strings.TrimSpace(doc.Find(selector).First().Text())
	return title, title != ""
}

// ExtractBreadcrumb returns the second anchor of a breadcrumb-like
// container, the conventional slot for the category label.
func ExtractBreadcrumb(doc *goquery.Document) string {
	label := strings.TrimSpace(doc.Find(".breadcrumb a:nth-of-type(2)").First().Text())
	if label == "" {
		return "Unknown"
	}
	return label
}

func parseDoc(body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// goquery only fails on reader errors; an empty document keeps
		// every extraction path total.
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}
