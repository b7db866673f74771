package render

import (
	"html/template"
	"strings"
	"testing"

	"sanket/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, fragment template.HTML) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(fragment)))
	require.NoError(t, err)
	return doc
}

func TestSentimentBarUsesRawPercentages(t *testing.T) {
	doc := parse(t, Sentiment(models.SentimentOf(60, 20, 20)))

	assert.Equal(t, "width: 60%", doc.Find(".segment.positive").AttrOr("style", ""))
	assert.Equal(t, "width: 20%", doc.Find(".segment.negative").AttrOr("style", ""))
	assert.Equal(t, "width: 20%", doc.Find(".segment.neutral").AttrOr("style", ""))
	assert.Equal(t, "60%", doc.Find(".segment.positive").Text())
}

func TestSentimentBarIsNotNormalised(t *testing.T) {
	doc := parse(t, Sentiment(models.SentimentOf(50, 40, 30)))
	assert.Equal(t, "width: 30%", doc.Find(".segment.neutral").AttrOr("style", ""))
}

func TestSentimentNoteRendersText(t *testing.T) {
	doc := parse(t, Sentiment(models.SentimentNote("<b>No data</b>")))

	assert.Equal(t, 0, doc.Find(".sentiment-bar").Length())
	assert.Equal(t, "<b>No data</b>", doc.Find(".sentiment-note").Text())
}

func TestImpactFiltersAtThreshold(t *testing.T) {
	fragment, visible := Impact(map[string]models.ImpactScore{
		"A": {Score: 25, Reason: "direct"},
		"B": {Score: 15},
		"C": {Score: 20},
	})
	require.True(t, visible)

	doc := parse(t, fragment)
	var categories []string
	doc.Find(".impact-item").Each(func(_ int, s *goquery.Selection) {
		categories = append(categories, s.AttrOr("data-category", ""))
	})
	assert.Equal(t, []string{"A"}, categories)
}

func TestImpactOrdersByScore(t *testing.T) {
	fragment, _ := Impact(map[string]models.ImpactScore{
		"Students": {Score: 40},
		"Farmers":  {Score: 90},
		"Traders":  {Score: 40},
	})
	doc := parse(t, fragment)
	var categories []string
	doc.Find(".impact-item").Each(func(_ int, s *goquery.Selection) {
		categories = append(categories, s.AttrOr("data-category", ""))
	})
	assert.Equal(t, []string{"Farmers", "Students", "Traders"}, categories)
}

func TestImpactHiddenWhenNothingQualifies(t *testing.T) {
	fragment, visible := Impact(map[string]models.ImpactScore{"B": {Score: 15}})
	assert.False(t, visible)
	assert.Empty(t, fragment)

	_, visible = Impact(nil)
	assert.False(t, visible)
}

func TestNews(t *testing.T) {
	_, visible := News(nil)
	assert.False(t, visible)

	fragment, visible := News([]models.NewsItem{{Title: "Passed", Link: "https://n/1", Source: "PIB"}})
	require.True(t, visible)
	doc := parse(t, fragment)
	assert.Equal(t, "https://n/1", doc.Find(".news-item a").AttrOr("href", ""))
	assert.Equal(t, "PIB", doc.Find(".news-source").Text())
}

func TestSchemeListEmptyState(t *testing.T) {
	doc := parse(t, SchemeList(nil))
	assert.Equal(t, NoSchemesMessage, doc.Find(".scheme-empty").Text())
}

func TestSchemeListCards(t *testing.T) {
	doc := parse(t, SchemeList([]models.Scheme{
		{SchemeName: "X", Summary: "s", Link: "l"},
		{SchemeName: "Y", Summary: "t", Eligibility: "Girls under 10"},
	}))

	cards := doc.Find(".scheme-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "X", cards.Eq(0).Find(".scheme-name").Text())
	assert.Equal(t, 0, cards.Eq(0).Find(".scheme-eligibility").Length())
	assert.Equal(t, "#", cards.Eq(1).Find(".scheme-link").AttrOr("href", ""))
	assert.Contains(t, cards.Eq(1).Find(".scheme-eligibility").Text(), "Girls under 10")
}

func TestHistoryListPreviewAndRestoreAction(t *testing.T) {
	long := "### Heading\n<p>" + strings.Repeat("word ", 60) + "</p>"
	doc := parse(t, HistoryList([]models.HistoryEntry{
		{ID: "h1", BillName: "Test Bill", Date: "2024-01-02", Summary: long},
	}))

	card := doc.Find(".history-card")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "Test Bill", card.Find(".history-title").Text())
	assert.Equal(t, "/history/h1/restore", card.Find("form").AttrOr("action", ""))

	preview := card.Find(".history-preview").Text()
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Equal(t, PreviewLength+3, len([]rune(preview)))
	assert.NotContains(t, preview, "<p>")
	assert.NotContains(t, preview, "###")
}

func TestPreviewShortSummaryIsNotTruncated(t *testing.T) {
	assert.Equal(t, "Short summary", Preview("**Short** summary"))
}

func TestSource(t *testing.T) {
	doc := parse(t, Source("https://prsindia.org/bill"))
	assert.Equal(t, "https://prsindia.org/bill", doc.Find("a").AttrOr("href", ""))

	assert.Equal(t, template.HTML("Information sourced from history."), Source(""))
}
