package scraper

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is what could be recovered from a job posting page.
type Posting struct {
	Title          string
	CompanyName    string
	CompanyWebsite string
	PostURL        string
	Details        string
}

const maxDetailsChars = 20000

// ParsePosting extracts title, company and body text from a posting page.
// Title prefers og:title, then the first h1, then <title>. Company prefers
// og:site_name and falls back to the page host.
func ParsePosting(pageURL string, html []byte) (Posting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Posting{}, err
	}
	doc.Find("script,style,noscript,nav,footer,header").Remove()

	p := Posting{PostURL: strings.TrimSpace(pageURL)}
	p.Title = firstNonEmpty(
		metaContent(doc, "og:title"),
		squash(doc.Find("h1").First().Text()),
		squash(doc.Find("title").First().Text()),
	)
	host := strings.TrimPrefix(hostFromURL(pageURL), "www.")
	p.CompanyName = firstNonEmpty(metaContent(doc, "og:site_name"), host)
	if host != "" {
		p.CompanyWebsite = "https://" + host
	}

	desc := firstNonEmpty(metaContent(doc, "og:description"), metaContent(doc, "description"))
	body := ""
	for _, sel := range []string{"[itemprop=description]", "article", "main", "body"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if body = squash(s.Text()); body != "" {
				break
			}
		}
	}
	switch {
	case desc != "" && body != "" && !strings.Contains(body, desc):
		p.Details = desc + "\n\n" + body
	case body != "":
		p.Details = body
	default:
		p.Details = desc
	}
	if r := []rune(p.Details); len(r) > maxDetailsChars {
		p.Details = string(r[:maxDetailsChars])
	}

	if p.Title == "" {
		return Posting{}, ErrNoPosting
	}
	return p, nil
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(`meta[property="` + name + `"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find(`meta[name="` + name + `"]`).First()
	}
	v, _ := sel.Attr("content")
	return squash(v)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
