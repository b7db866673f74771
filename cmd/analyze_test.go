package cmd

import (
	"bytes"
	"testing"

	"sanket/models"

	"github.com/stretchr/testify/assert"
)

func TestPrintAnalysis(t *testing.T) {
	var out bytes.Buffer
	printAnalysis(&out, &models.AnalysisResult{
		Language:      models.LanguageEnglish,
		SummaryMarkup: "### Overview\nThe **finance** bill",
		SourceURL:     "https://prsindia.org/finance",
		Sentiment:     models.SentimentOf(60, 20, 20),
		ImpactScores: map[string]models.ImpactScore{
			"Farmers":  {Score: 70, Reason: "MSP"},
			"Students": {Score: 5},
		},
		News: []models.NewsItem{{Title: "Bill passed", Link: "https://news/1"}},
	})

	text := out.String()
	assert.Contains(t, text, "Summary (English)")
	assert.Contains(t, text, "Overview\nThe finance bill")
	assert.Contains(t, text, "Source: https://prsindia.org/finance")
	assert.Contains(t, text, "positive 60%, negative 20%, neutral 20%")
	assert.Contains(t, text, "Farmers")
	assert.NotContains(t, text, "Students")
	assert.Contains(t, text, "Bill passed (https://news/1)")
}

func TestPrintAnalysisSentimentNote(t *testing.T) {
	var out bytes.Buffer
	printAnalysis(&out, &models.AnalysisResult{
		Language:      models.LanguageHinglish,
		SummaryMarkup: "s",
		Sentiment:     models.SentimentNote("No tweets found"),
	})
	assert.Contains(t, out.String(), "Sentiment: No tweets found")
	assert.NotContains(t, out.String(), "Impact:")
}
