package articles

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const excerptLength = 150

// Excerpt returns the first 150 characters of the text in an HTML body,
// followed by "...".
func Excerpt(html string) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}
