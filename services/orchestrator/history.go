package orchestrator

import (
	"context"

	"sanket/models"
	"sanket/services/render"
)

// LoadHistory refreshes the history list. Anonymous visitors get the
// signed-out text without a backend call.
func (a *App) LoadHistory(ctx context.Context) error {
	if a.session.Current().Anonymous() {
		a.mu.Lock()
		a.showHistorySignedOut()
		a.mu.Unlock()
		return nil
	}

	return a.run(ctx, request{
		name: "load-history",
		slot: slotHistory,
		call: func(ctx context.Context) (func(), error) {
			token, err := a.token(ctx)
			if err != nil {
				return nil, err
			}
			entries, err := a.gateway.GetHistory(ctx, token)
			if err != nil {
				return nil, err
			}
			return func() {
				a.page.HistoryHTML = render.HistoryList(entries)
				a.page.HistoryEmptyText = MsgHistoryEmpty
				a.page.HistoryEmptyVisible = len(entries) == 0
			}, nil
		},
		fail: func(err error) {
			a.page.HistoryHTML = ""
			a.page.HistoryEmptyText = MsgHistoryFailed
			a.page.HistoryEmptyVisible = true
		},
	})
}

// RestoreHistory re-fetches the history and shows the entry with the given
// id in the results region. It shares the analysis slot with Analyze, so the
// most recent of the two wins. An unknown id changes nothing.
func (a *App) RestoreHistory(ctx context.Context, id string) error {
	if a.session.Current().Anonymous() {
		return nil
	}

	return a.run(ctx, request{
		name: "restore-history",
		slot: slotAnalysis,
		call: func(ctx context.Context) (func(), error) {
			token, err := a.token(ctx)
			if err != nil {
				return nil, err
			}
			entries, err := a.gateway.GetHistory(ctx, token)
			if err != nil {
				return nil, err
			}
			entry, ok := models.FindHistoryEntry(entries, id)
			if !ok {
				a.logger.Info("History entry not found")
				return nil, nil
			}
			return func() { a.showHistoryEntry(entry) }, nil
		},
		fail: func(err error) {
			a.page.AnalyzeError = message(err, MsgRestoreFailed)
		},
	})
}

// showHistoryEntry shows a stored analysis. History keeps no impact scores
// or news, so those regions are hidden. Caller holds a.mu.
func (a *App) showHistoryEntry(entry models.HistoryEntry) {
	a.page.AnalyzeError = ""
	a.showAnalysis(&models.AnalysisResult{
		BillName:      entry.BillName,
		SummaryMarkup: entry.Summary,
		SourceURL:     entry.Source,
		Sentiment:     entry.Sentiment,
	}, render.HistoryTitle(entry.BillName))
	a.page.SourceHTML = render.Source(entry.Source)
}

// showHistorySignedOut clears the history list. Caller holds a.mu.
func (a *App) showHistorySignedOut() {
	a.page.HistoryHTML = ""
	a.page.HistoryEmptyText = MsgHistorySignedOut
	a.page.HistoryEmptyVisible = true
}
