package orchestrator

import (
	"context"
	"strings"

	"sanket/models"
	"sanket/services/render"

	"go.uber.org/zap"
)

// Analyze submits a bill by name, PDF or both. The results region stays
// hidden until a full result arrives. A signed-in visitor's history is
// refreshed afterwards.
func (a *App) Analyze(ctx context.Context, req models.AnalyzeRequest) error {
	req.BillName = strings.TrimSpace(req.BillName)
	if req.Language == "" {
		req.Language = models.LanguageEnglish
	}

	err := a.run(ctx, request{
		name:    "analyze",
		slot:    slotAnalysis,
		control: func() *Control { return &a.page.AnalyzeControl },
		validate: func() error {
			if req.BillName == "" && req.File == nil {
				a.page.AnalyzeError = MsgMissingBill
				return &ValidationError{Message: MsgMissingBill}
			}
			return nil
		},
		prepare: func() {
			a.page.AnalyzeError = ""
			a.page.ResultsVisible = false
		},
		call: func(ctx context.Context) (func(), error) {
			res, err := a.gateway.Analyze(ctx, req, a.optionalToken(ctx))
			if err != nil {
				return nil, err
			}
			return func() { a.showAnalysis(res, render.SummaryTitle(res.Language)) }, nil
		},
		fail: func(err error) {
			a.page.AnalyzeError = message(err, MsgAnalyzeFailed)
		},
	})
	if err != nil {
		return err
	}

	if !a.session.Current().Anonymous() {
		if err := a.LoadHistory(ctx); err != nil {
			a.logger.Debug("History refresh after analysis did not complete", zap.Error(err))
		}
	}
	return nil
}

// showAnalysis replaces the results region with res. Caller holds a.mu.
func (a *App) showAnalysis(res *models.AnalysisResult, title string) {
	a.analysis = res

	p := &a.page
	p.ResultsVisible = true
	p.SummaryTitle = title
	p.SummaryHTML = render.Summary(res.SummaryMarkup)
	p.SourceHTML = ""
	if res.SourceURL != "" {
		p.SourceHTML = render.Source(res.SourceURL)
	}
	p.SentimentHTML = render.Sentiment(res.Sentiment)
	p.ImpactHTML, p.ImpactVisible = render.Impact(res.ImpactScores)
	p.NewsHTML, p.NewsVisible = render.News(res.News)
}
