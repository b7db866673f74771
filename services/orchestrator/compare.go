package orchestrator

import (
	"context"
	"strings"

	"sanket/models"
	"sanket/services/render"
)

// Compare asks the backend how a bill changed against an older version.
func (a *App) Compare(ctx context.Context, billName, olderYear, language string) error {
	billName = strings.TrimSpace(billName)
	olderYear = strings.TrimSpace(olderYear)
	if language == "" {
		language = models.LanguageEnglish
	}

	return a.run(ctx, request{
		name:    "compare",
		slot:    slotCompare,
		control: func() *Control { return &a.page.CompareControl },
		prepare: func() {
			a.page.CompareError = ""
			a.page.CompareVisible = false
		},
		call: func(ctx context.Context) (func(), error) {
			comparison, err := a.gateway.Compare(ctx, billName, olderYear, language)
			if err != nil {
				return nil, err
			}
			return func() {
				a.page.CompareHTML = render.Summary(comparison)
				a.page.CompareVisible = true
			}, nil
		},
		fail: func(err error) {
			a.page.CompareError = message(err, MsgCompareFailed)
		},
	})
}
