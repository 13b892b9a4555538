package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minRenderedLength is the minimum extracted text length to consider a
// plain-HTTP fetch complete. Shorter extractions usually mean the posting is
// a JavaScript-rendered page.
const minRenderedLength = 500

// looksUnrendered reports whether the extracted text is too short to be a
// real posting.
func looksUnrendered(text string) bool {
	return len(strings.TrimSpace(text)) < minRenderedLength
}

// ExtractText strips boilerplate from posting HTML and returns the readable
// text, with whitespace collapsed to single spaces per block.
func ExtractText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	// Remove chrome that never carries posting content.
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	var blocks []string
	doc.Find("h1, h2, h3, h4, p, li, td, div").Each(func(_ int, s *goquery.Selection) {
		// Skip containers; only take elements whose direct text is non-empty.
		if s.Children().Length() > 0 && goquery.NodeName(s) == "div" {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		// Fall back to the whole body text.
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}

	return dedupeBlocks(blocks), nil
}

// dedupeBlocks joins blocks with newlines, dropping exact consecutive
// duplicates (nested list markup often yields the same text twice).
func dedupeBlocks(blocks []string) string {
	var sb strings.Builder
	prev := ""
	for _, block := range blocks {
		if block == prev {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(block)
		prev = block
	}
	return sb.String()
}
