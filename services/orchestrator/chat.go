package orchestrator

import (
	"context"
	"strings"

	"sanket/models"
	"sanket/services/render"
)

// Chat asks a question about the bill currently shown. The backend is
// stateless: every turn sends the full bill text.
func (a *App) Chat(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	var billText, language string

	return a.run(ctx, request{
		name:    "chat",
		slot:    slotChat,
		control: func() *Control { return &a.page.ChatControl },
		validate: func() error {
			switch {
			case a.analysis == nil:
				a.page.ChatError = MsgNoAnalysis
				return &ValidationError{Message: MsgNoAnalysis}
			case query == "":
				a.page.ChatError = MsgEmptyQuestion
				return &ValidationError{Message: MsgEmptyQuestion}
			}
			return nil
		},
		prepare: func() {
			billText, language = chatContext(a.analysis)
			a.page.ChatError = ""
			a.appendTurn(models.ChatTurn{Author: models.AuthorUser, Text: query})
		},
		call: func(ctx context.Context) (func(), error) {
			answer, err := a.gateway.Chat(ctx, billText, query, language)
			if err != nil {
				return nil, err
			}
			return func() {
				a.appendTurn(models.ChatTurn{Author: models.AuthorAssistant, Text: answer})
			}, nil
		},
		fail: func(err error) {
			a.page.ChatError = message(err, MsgChatFailed)
		},
	})
}

// chatContext picks what the backend reads for a chat turn. A summary
// restored from history carries no bill text, so its plain-text summary is
// sent instead.
func chatContext(res *models.AnalysisResult) (billText, language string) {
	language = res.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	if res.BillText != "" {
		return res.BillText, language
	}
	return render.PlainText(res.SummaryMarkup), language
}

// appendTurn records a turn and its rendering. Caller holds a.mu.
func (a *App) appendTurn(turn models.ChatTurn) {
	a.transcript = append(a.transcript, turn)
	line := ChatLine{Author: turn.Author, Text: turn.Text}
	if turn.Author == models.AuthorAssistant {
		line.HTML = render.Summary(turn.Text)
	}
	a.page.Transcript = append(a.page.Transcript, line)
}
