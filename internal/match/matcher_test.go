package match

import (
	"testing"

	"github.com/bilgisen/rsswatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func keywords(texts ...string) []models.Keyword {
	kws := make([]models.Keyword, len(texts))
	for i, text := range texts {
		kws[i] = models.Keyword{ID: int64(i + 1), Text: text}
	}
	return kws
}

func TestMatchCaseInsensitive(t *testing.T) {
	item := models.RawItem{Title: "Bitcoin surges", Summary: "markets react"}

	matched, ok := Match(item, keywords("BITCOIN"))
	assert.True(t, ok)
	assert.Equal(t, "bitcoin", matched)
}

func TestMatchAgainstSummary(t *testing.T) {
	item := models.RawItem{Title: "Weekly roundup", Summary: "Ethereum hits a new high"}

	matched, ok := Match(item, keywords("ethereum"))
	assert.True(t, ok)
	assert.Equal(t, "ethereum", matched)
}

func TestMatchFirstKeywordWins(t *testing.T) {
	item := models.RawItem{Title: "Bitcoin and gold both rally"}

	matched, ok := Match(item, keywords("gold", "bitcoin"))
	assert.True(t, ok)
	assert.Equal(t, "gold", matched, "listing order decides the recorded keyword")
}

func TestMatchSubstringContainment(t *testing.T) {
	item := models.RawItem{Title: "Bitcoins everywhere"}

	_, ok := Match(item, keywords("bitcoin"))
	assert.True(t, ok, "containment, not whole-word matching")
}

func TestMatchNoHit(t *testing.T) {
	item := models.RawItem{Title: "Weather today", Summary: "sunny"}

	_, ok := Match(item, keywords("bitcoin"))
	assert.False(t, ok)
}

func TestMatchEmptyKeywordSet(t *testing.T) {
	item := models.RawItem{Title: "Anything at all"}

	_, ok := Match(item, nil)
	assert.False(t, ok, "empty watchlist matches nothing")
}

func TestMatchSkipsBlankKeyword(t *testing.T) {
	item := models.RawItem{Title: "Anything at all"}

	_, ok := Match(item, keywords("  "))
	assert.False(t, ok, "a blank keyword must not match every item")
}
