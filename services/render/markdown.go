package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const (
	headingMarker = "###"
	boldMarker    = "**"
	emptyBold     = boldMarker + boldMarker
)

var (
	summaryPolicyOnce sync.Once
	summaryPolicy     *bluemonday.Policy
)

// SummaryPolicy allows the tags Summary produces plus light formatting the
// backend may already emit. Everything else is stripped.
func SummaryPolicy() *bluemonday.Policy {
	summaryPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("h3", "strong", "b", "em", "i", "p", "br", "ul", "ol", "li")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^summary-heading$`)).OnElements("h3")
		summaryPolicy = p
	})
	return summaryPolicy
}

// Summary converts the markdown subset used by the backend into safe markup.
//
// A line whose first non-blank characters are "### " becomes an <h3>; the
// line ending is not required, so a heading on the last line still renders.
// "###" alone is dropped and "####" is not a heading. Within a line,
// "**text**" becomes <strong>; an unterminated "**" is kept literally and
// "****" renders nothing. Running Summary on its own output returns the
// output unchanged.
//
// Disallowed tags and empty bold spans are removed before lines are
// tokenised, so nothing that hides a "###" can disappear after the parse.
func Summary(markup string) template.HTML {
	markup = strings.ReplaceAll(markup, "\r\n", "\n")
	markup = SummaryPolicy().Sanitize(markup)
	for strings.Contains(markup, emptyBold) {
		markup = strings.ReplaceAll(markup, emptyBold, "")
	}
	lines := strings.Split(markup, "\n")

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if text, ok := headingText(line); ok {
			if text == "" {
				continue
			}
			b.WriteString(`<h3 class="summary-heading">`)
			b.WriteString(bold(text))
			b.WriteString("</h3>")
			continue
		}
		b.WriteString(bold(line))
	}
	return template.HTML(SummaryPolicy().Sanitize(b.String()))
}

func headingText(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == headingMarker {
		return "", true
	}
	if !strings.HasPrefix(trimmed, headingMarker+" ") {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(headingMarker):]), true
}

func bold(line string) string {
	var b strings.Builder
	for {
		start := strings.Index(line, boldMarker)
		if start < 0 {
			b.WriteString(line)
			return b.String()
		}
		rest := line[start+len(boldMarker):]
		end := strings.Index(rest, boldMarker)
		if end < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:start])
		if end > 0 {
			b.WriteString("<strong>")
			b.WriteString(rest[:end])
			b.WriteString("</strong>")
		}
		line = rest[end+len(boldMarker):]
	}
}

// PlainText strips tags and summary markers, leaving readable text.
func PlainText(markup string) string {
	text := html.UnescapeString(bluemonday.StrictPolicy().Sanitize(markup))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if heading, ok := headingText(line); ok {
			line = heading
		}
		lines[i] = strings.ReplaceAll(line, boldMarker, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
