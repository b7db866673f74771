package orchestrator

import (
	"context"
	"testing"

	"sanket/models"
	"sanket/services/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzed(t *testing.T, gw *fakeGateway) *App {
	t.Helper()
	gw.analyze = func(_ context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
		return &models.AnalysisResult{BillName: req.BillName, Language: models.LanguageHinglish, BillText: "bill text", SummaryMarkup: "s"}, nil
	}
	app := newTestApp(gw, nil)
	require.NoError(t, app.Analyze(context.Background(), models.AnalyzeRequest{BillName: "X", Language: models.LanguageHinglish}))
	return app
}

func TestChatValidation(t *testing.T) {
	gw := &fakeGateway{}
	app := newTestApp(gw, nil)

	var validation *ValidationError
	require.ErrorAs(t, app.Chat(context.Background(), "what changes?"), &validation)
	assert.Equal(t, MsgNoAnalysis, app.Snapshot().ChatError)

	app = analyzed(t, gw)
	require.ErrorAs(t, app.Chat(context.Background(), "  "), &validation)
	assert.Equal(t, MsgEmptyQuestion, app.Snapshot().ChatError)
	assert.Zero(t, gw.Count("chat"))
}

func TestChatAppendsTranscript(t *testing.T) {
	gw := &fakeGateway{chat: func(billText, query, language string) (string, error) {
		assert.Equal(t, "bill text", billText)
		assert.Equal(t, "who benefits?", query)
		assert.Equal(t, models.LanguageHinglish, language)
		return "**Farmers** benefit", nil
	}}
	app := analyzed(t, gw)

	require.NoError(t, app.Chat(context.Background(), " who benefits? "))

	assert.Equal(t, []models.ChatTurn{
		{Author: models.AuthorUser, Text: "who benefits?"},
		{Author: models.AuthorAssistant, Text: "**Farmers** benefit"},
	}, app.Transcript())
	lines := app.Snapshot().Transcript
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[1].HTML), "<strong>Farmers</strong>")
	assertControlRestored(t, app.Snapshot().ChatControl, "Send")
}

func TestChatFailureKeepsQuestion(t *testing.T) {
	gw := &fakeGateway{chat: func(string, string, string) (string, error) {
		return "", &gateway.APIError{Op: "chat", Status: 500}
	}}
	app := analyzed(t, gw)

	require.Error(t, app.Chat(context.Background(), "why?"))
	assert.Equal(t, MsgChatFailed, app.Snapshot().ChatError)
	assert.Len(t, app.Transcript(), 1)
}

func TestChatAfterRestoreUsesSummaryText(t *testing.T) {
	gw := &fakeGateway{
		getHistory: func() ([]models.HistoryEntry, error) { return historyFixture, nil },
		chat: func(billText, _, language string) (string, error) {
			assert.Equal(t, "Overview\nKey points of the bill", billText)
			assert.Equal(t, models.LanguageEnglish, language)
			return "ok", nil
		},
	}
	app := newTestApp(gw, nil)
	signIn(t, app)
	require.NoError(t, app.RestoreHistory(context.Background(), "h1"))

	require.NoError(t, app.Chat(context.Background(), "summary?"))
}
