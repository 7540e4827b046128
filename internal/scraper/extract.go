package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawItem is one listed dish line extracted from the menu page, paired with
// the label of the section it appeared under. Text is the human-readable
// text node of the item with consecutive whitespace collapsed to single
// spaces.
type RawItem struct {
	CategoryLabel string
	Text          string
}

// ExtractItems parses the raw menu markup into (category label, item text)
// pairs in document order. The page is organized into labeled ".category"
// sections, each holding zero or more ".pos ul li" item lines. Items whose
// text collapses to nothing are dropped; a malformed item never fails the
// whole page.
func ExtractItems(html string) ([]RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var items []RawItem
	doc.Find(".category").Each(func(_ int, category *goquery.Selection) {
		label := collapseWhitespace(category.Find(".cat_name h2").Text())

		category.Find(".pos ul li").Each(func(_ int, item *goquery.Selection) {
			text := collapseWhitespace(item.Text())
			if text == "" {
				return
			}
			items = append(items, RawItem{CategoryLabel: label, Text: text})
		})
	})
	return items, nil
}

// collapseWhitespace trims s and folds any whitespace run into one space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
