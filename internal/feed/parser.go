package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/bilgisen/rsswatch/internal/models"
	"github.com/mmcdole/gofeed"
)

// Parser handles cleaning and normalizing feed entries
type Parser struct {
	htmlTagRegex *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		htmlTagRegex: regexp.MustCompile(`<[^>]*>`),
	}
}

// CleanHTML removes HTML tags and normalizes whitespace
func (p *Parser) CleanHTML(input string) string {
	// Remove HTML tags
	cleaned := p.htmlTagRegex.ReplaceAllString(input, " ")
	// Unescape HTML entities
	cleaned = html.UnescapeString(cleaned)
	// Normalize whitespace
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

// NormalizeEntry converts a gofeed entry into a RawItem. Entries without
// a link cannot be deduplicated and are reported as not ok.
func (p *Parser) NormalizeEntry(entry *gofeed.Item) (models.RawItem, bool) {
	link := strings.TrimSpace(entry.Link)
	if link == "" {
		return models.RawItem{}, false
	}

	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}

	item := models.RawItem{
		Title:       p.CleanHTML(entry.Title),
		Link:        link,
		Summary:     p.CleanHTML(summary),
		PublishedAt: entry.PublishedParsed,
	}
	if item.PublishedAt == nil {
		item.PublishedAt = entry.UpdatedParsed
	}
	return item, true
}
