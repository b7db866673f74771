package models

// Chat authors.
const (
	AuthorUser      = "user"
	AuthorAssistant = "assistant"
)

// ChatTurn is one message of the in-memory chat transcript.
type ChatTurn struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}
