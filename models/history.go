package models

// HistoryEntry is a stored analysis owned by the backend. ID is opaque and
// only used to look an entry up again.
type HistoryEntry struct {
	ID        string    `json:"id"`
	BillName  string    `json:"billName"`
	Date      string    `json:"date"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source,omitempty"`
	Sentiment Sentiment `json:"sentiment"`
}

// FindHistoryEntry returns the entry with the given id.
func FindHistoryEntry(entries []HistoryEntry, id string) (HistoryEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}
