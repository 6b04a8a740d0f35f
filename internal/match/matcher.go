package match

import (
	"strings"

	"github.com/bilgisen/rsswatch/internal/models"
)

// Match returns the first keyword, in listing order, contained in the
// item's title or summary. Comparison is case-insensitive substring
// containment. An empty keyword set matches nothing.
func Match(item models.RawItem, keywords []models.Keyword) (string, bool) {
	if len(keywords) == 0 {
		return "", false
	}

	haystack := strings.ToLower(item.Title + " " + item.Summary)
	for _, kw := range keywords {
		text := strings.ToLower(strings.TrimSpace(kw.Text))
		if text == "" {
			continue
		}
		if strings.Contains(haystack, text) {
			return text, true
		}
	}
	return "", false
}
