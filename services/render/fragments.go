package render

import (
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"sanket/models"
)

// ImpactThreshold is the score an impact category must exceed to be shown.
const ImpactThreshold = 20

// PreviewLength is the number of characters kept in a history preview.
const PreviewLength = 150

// NoSchemesMessage is the empty state of the scheme list.
const NoSchemesMessage = "No specific schemes found matching your exact profile from our sources. Try broadening your profile."

var fragments = template.Must(template.New("fragments").Parse(`
{{define "sentiment-bar"}}<div class="sentiment-bar">
<div class="segment positive" style="{{.Positive.Style}}">{{.Positive.Label}}%</div>
<div class="segment negative" style="{{.Negative.Style}}">{{.Negative.Label}}%</div>
<div class="segment neutral" style="{{.Neutral.Style}}">{{.Neutral.Label}}%</div>
</div>{{end}}
{{define "sentiment-note"}}<p class="sentiment-note">{{.}}</p>{{end}}
{{define "impact"}}<ul class="impact-list">{{range .}}
<li class="impact-item" data-category="{{.Category}}"><span class="impact-category">{{.Category}}</span> <span class="impact-score">{{.Score}}</span>{{if .Reason}} <span class="impact-reason">{{.Reason}}</span>{{end}}</li>{{end}}
</ul>{{end}}
{{define "news"}}<ul class="news-list">{{range .}}
<li class="news-item">{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>{{else}}{{.Title}}{{end}}{{if .Source}} <span class="news-source">{{.Source}}</span>{{end}}</li>{{end}}
</ul>{{end}}
{{define "schemes-empty"}}<p class="scheme-empty">{{.}}</p>{{end}}
{{define "schemes"}}{{range .}}<div class="scheme-card">
<h4 class="scheme-name">{{.SchemeName}}</h4>
<p class="scheme-summary">{{.Summary}}</p>{{if .Eligibility}}
<p class="scheme-eligibility"><strong>Eligibility:</strong> {{.Eligibility}}</p>{{end}}
<a class="scheme-link" href="{{.Link}}" target="_blank" rel="noopener">Learn More</a>
</div>
{{end}}{{end}}
{{define "history"}}{{range .}}<div class="history-card" data-id="{{.ID}}">
<h3 class="history-title">{{.BillName}}</h3>
<p class="history-date">{{.Date}}</p>
<p class="history-preview">{{.Preview}}</p>
<form method="post" action="/history/{{.ID}}/restore"><button type="submit" class="history-restore">View Again</button></form>
</div>
{{end}}{{end}}
{{define "source"}}{{if .}}Information sourced from: <a href="{{.}}" target="_blank" rel="noopener">{{.}}</a>{{else}}Information sourced from history.{{end}}{{end}}
`))

func execute(name string, data any) template.HTML {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return template.HTML(b.String())
}

type segment struct {
	Label string
	Style template.CSS
}

func newSegment(pct float64) segment {
	label := FormatScore(pct)
	return segment{Label: label, Style: template.CSS("width: " + label + "%")}
}

// Sentiment renders a distribution as a three-segment bar sized by the raw
// percentages, or a note as plain text.
func Sentiment(s models.Sentiment) template.HTML {
	if !s.HasDistribution() {
		return execute("sentiment-note", s.Note)
	}
	d := s.Distribution
	return execute("sentiment-bar", struct{ Positive, Negative, Neutral segment }{
		Positive: newSegment(d.Positive),
		Negative: newSegment(d.Negative),
		Neutral:  newSegment(d.Neutral),
	})
}

// ImpactEntry is one category that cleared ImpactThreshold.
type ImpactEntry struct {
	Category string
	Score    float64
	Reason   string
}

// SignificantImpacts keeps the categories scoring above ImpactThreshold,
// highest first, ties broken by name.
func SignificantImpacts(scores map[string]models.ImpactScore) []ImpactEntry {
	var entries []ImpactEntry
	for category, s := range scores {
		if s.Score <= ImpactThreshold {
			continue
		}
		entries = append(entries, ImpactEntry{Category: category, Score: s.Score, Reason: s.Reason})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}

type impactRow struct {
	Category string
	Score    string
	Reason   string
}

// Impact renders SignificantImpacts. visible is false when no category
// qualifies and the whole region should be hidden.
func Impact(scores map[string]models.ImpactScore) (fragment template.HTML, visible bool) {
	entries := SignificantImpacts(scores)
	if len(entries) == 0 {
		return "", false
	}
	rows := make([]impactRow, len(entries))
	for i, e := range entries {
		rows[i] = impactRow{Category: e.Category, Score: FormatScore(e.Score), Reason: e.Reason}
	}
	return execute("impact", rows), true
}

// FormatScore prints a score or percentage without trailing zeros.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// News renders related articles; visible is false for an empty list.
func News(items []models.NewsItem) (fragment template.HTML, visible bool) {
	if len(items) == 0 {
		return "", false
	}
	return execute("news", items), true
}

// SchemeList renders matched schemes or the empty-state message.
func SchemeList(schemes []models.Scheme) template.HTML {
	if len(schemes) == 0 {
		return execute("schemes-empty", NoSchemesMessage)
	}
	cards := make([]models.Scheme, len(schemes))
	for i, s := range schemes {
		if s.Link == "" {
			s.Link = "#"
		}
		cards[i] = s
	}
	return execute("schemes", cards)
}

type historyCard struct {
	ID       string
	BillName string
	Date     string
	Preview  string
}

// HistoryList renders one card per entry with a preview and a restore
// action keyed by the entry id.
func HistoryList(entries []models.HistoryEntry) template.HTML {
	if len(entries) == 0 {
		return ""
	}
	cards := make([]historyCard, len(entries))
	for i, e := range entries {
		cards[i] = historyCard{ID: e.ID, BillName: e.BillName, Date: e.Date, Preview: Preview(e.Summary)}
	}
	return execute("history", cards)
}

// Preview is the first PreviewLength characters of a summary with markup
// removed. An ellipsis marks truncation.
func Preview(summary string) string {
	text := strings.Join(strings.Fields(PlainText(summary)), " ")
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	return string([]rune(text)[:PreviewLength]) + "..."
}

// Source renders where a summary came from. An empty url means the summary
// was restored from history without a recorded source.
func Source(url string) template.HTML {
	return execute("source", url)
}

// SummaryTitle is the heading above a freshly analysed summary.
func SummaryTitle(language string) string {
	return fmt.Sprintf("Summary (%s)", language)
}

// HistoryTitle is the heading above a summary restored from history.
func HistoryTitle(billName string) string {
	return fmt.Sprintf("Summary (From History: %s)", billName)
}
