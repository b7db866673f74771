package models

// Languages accepted by the analysis backend.
const (
	LanguageEnglish  = "English"
	LanguageHinglish = "Hinglish"
)

// SentimentDistribution holds the three raw percentages reported by the
// backend. They are not required to sum to 100.
type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Sentiment is either a distribution or a free-text note, never both.
type Sentiment struct {
	Distribution *SentimentDistribution `json:"distribution,omitempty"`
	Note         string                 `json:"note,omitempty"`
}

// SentimentNote builds the note variant.
func SentimentNote(note string) Sentiment {
	return Sentiment{Note: note}
}

// SentimentOf builds the distribution variant.
func SentimentOf(positive, negative, neutral float64) Sentiment {
	return Sentiment{Distribution: &SentimentDistribution{
		Positive: positive,
		Negative: negative,
		Neutral:  neutral,
	}}
}

// HasDistribution reports whether the structured variant is set.
func (s Sentiment) HasDistribution() bool {
	return s.Distribution != nil
}

// ImpactScore rates how strongly a bill affects one category.
type ImpactScore struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// NewsItem is a related news article.
type NewsItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source,omitempty"`
}

// AnalyzeRequest is the input of a bill analysis. At least one of BillName
// or File must be set; callers validate that before calling the backend.
type AnalyzeRequest struct {
	BillName string
	Language string
	File     *BillFile
}

// BillFile is an uploaded bill PDF.
type BillFile struct {
	Name    string
	Content []byte
}

// AnalysisResult is the outcome of one successful analysis. It lives only
// in memory until the next analysis replaces it.
type AnalysisResult struct {
	BillName      string                 `json:"billName"`
	Language      string                 `json:"language"`
	BillText      string                 `json:"billText"`
	SummaryMarkup string                 `json:"summary"`
	SourceURL     string                 `json:"sourceUrl,omitempty"`
	Sentiment     Sentiment              `json:"sentiment"`
	ImpactScores  map[string]ImpactScore `json:"impactScores,omitempty"`
	News          []NewsItem             `json:"news,omitempty"`
}
