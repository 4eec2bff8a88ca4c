package matching

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText flattens rich-text job details into whitespace separated text.
// Text nodes are joined with spaces so adjacent blocks never fuse into one
// word. Input without markup passes through unchanged apart from spacing.
func PlainText(rich string) string {
	if !strings.ContainsAny(rich, "<&") {
		return strings.Join(strings.Fields(rich), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rich))
	if err != nil {
		return strings.Join(strings.Fields(rich), " ")
	}
	doc.Find("script,style").Remove()

	var b strings.Builder
	collectText(doc.Selection, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
			b.WriteByte(' ')
			return
		}
		collectText(c, b)
	})
}
