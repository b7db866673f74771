package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"sanket/models"
)

// Notes used when a response carries no usable sentiment.
const (
	SentimentUnavailable        = "Sentiment data not available."
	HistorySentimentUnavailable = "Sentiment data not available for this entry."
)

type analyzeResponse struct {
	BillText     string                     `json:"bill_text"`
	Summary      *string                    `json:"summary"`
	SourceURL    string                     `json:"source_url"`
	Sentiment    json.RawMessage            `json:"sentiment"`
	ImpactScores map[string]json.RawMessage `json:"impact_scores"`
	News         []json.RawMessage          `json:"news"`
}

type historyEntry struct {
	ID        string          `json:"id"`
	BillName  string          `json:"billName"`
	Date      string          `json:"date"`
	Summary   string          `json:"summary"`
	Source    string          `json:"source"`
	Sentiment json.RawMessage `json:"sentiment"`
}

// decodeSentiment folds every sentiment shape the backend produces into one
// value: a {positive,negative,neutral} object, an object carrying "note" or
// "error", or a bare string (history entries store the note directly).
// unavailable is the note used when none of those is present.
func decodeSentiment(raw json.RawMessage, unavailable string) models.Sentiment {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.SentimentNote(unavailable)
	}

	var note string
	if err := json.Unmarshal(raw, &note); err == nil {
		if strings.TrimSpace(note) == "" {
			return models.SentimentNote(unavailable)
		}
		return models.SentimentNote(note)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.SentimentNote(unavailable)
	}
	for _, key := range []string{"note", "error"} {
		if text, ok := stringField(fields, key); ok && text != "" {
			return models.SentimentNote(text)
		}
	}

	positive, okP := numberField(fields, "positive")
	negative, okN := numberField(fields, "negative")
	neutral, okU := numberField(fields, "neutral")
	if !okP && !okN && !okU {
		return models.SentimentNote(unavailable)
	}
	return models.SentimentOf(positive, negative, neutral)
}

// decodeImpact accepts either {"score": n, "reason": "..."} or a bare number
// per category. Entries that are neither are dropped.
func decodeImpact(raw map[string]json.RawMessage) map[string]models.ImpactScore {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]models.ImpactScore, len(raw))
	for category, value := range raw {
		if score, ok := number(value); ok {
			out[category] = models.ImpactScore{Score: score}
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(value, &fields); err != nil {
			continue
		}
		score, ok := numberField(fields, "score")
		if !ok {
			continue
		}
		reason, _ := stringField(fields, "reason")
		out[category] = models.ImpactScore{Score: score, Reason: reason}
	}
	return out
}

// decodeNews accepts article objects (title plus link or url) and bare
// headline strings.
func decodeNews(raw []json.RawMessage) []models.NewsItem {
	var items []models.NewsItem
	for _, value := range raw {
		var headline string
		if err := json.Unmarshal(value, &headline); err == nil {
			if headline != "" {
				items = append(items, models.NewsItem{Title: headline})
			}
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(value, &fields); err != nil {
			continue
		}
		item := models.NewsItem{}
		item.Title, _ = stringField(fields, "title")
		if item.Link, _ = stringField(fields, "link"); item.Link == "" {
			item.Link, _ = stringField(fields, "url")
		}
		item.Source, _ = stringField(fields, "source")
		if item.Title == "" && item.Link == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

var errNoSchemes = errors.New("no schemes field")

// decodeSchemes normalises the find-schemes payload. "schemes" may be a JSON
// encoded string (optionally inside a markdown code fence) or an array; the
// body itself may also be the array.
func decodeSchemes(raw json.RawMessage) ([]models.Scheme, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return decodeSchemeArray(raw)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	value, ok := body["schemes"]
	if !ok {
		return nil, errNoSchemes
	}
	value = bytes.TrimSpace(value)

	var encoded string
	if err := json.Unmarshal(value, &encoded); err == nil {
		encoded = stripCodeFence(encoded)
		if encoded == "" {
			return []models.Scheme{}, nil
		}
		return decodeSchemes(json.RawMessage(encoded))
	}
	if bytes.Equal(value, []byte("null")) {
		return []models.Scheme{}, nil
	}
	return decodeSchemeArray(value)
}

func decodeSchemeArray(raw json.RawMessage) ([]models.Scheme, error) {
	schemes := []models.Scheme{}
	if err := json.Unmarshal(raw, &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	value, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false
	}
	return s, true
}

func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	value, ok := fields[key]
	if !ok {
		return 0, false
	}
	return number(value)
}

// number reads a JSON number or a numeric string.
func number(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
