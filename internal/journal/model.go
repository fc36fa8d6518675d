package journal

// PracticeMode tells whether a practice was run for oneself or with a client.
type PracticeMode string

const (
	ModeSelf PracticeMode = "self"
	ModePro  PracticeMode = "pro"
)

// SessionCard is a filled spread position, frozen at save time.
type SessionCard struct {
	PositionID string   `json:"positionId"`
	Label      string   `json:"label"`
	Question   string   `json:"question"`
	CardID     string   `json:"cardId"`
	ImageURL   string   `json:"imageUrl"`
	Keywords   []string `json:"keywords"`
	Note       string   `json:"note"`
}

// Session is a saved spread. Cards holds at most one entry per position and
// may be shorter than the spread.
type Session struct {
	ID            string        `json:"id"`
	CreatedAt     int64         `json:"createdAt"`
	Question      string        `json:"question"`
	Takeaway      string        `json:"takeaway"`
	DeckID        string        `json:"deckId"`
	DeckName      string        `json:"deckName"`
	SpreadID      string        `json:"spreadId"`
	SpreadName    string        `json:"spreadName"`
	PracticeID    string        `json:"practiceId,omitempty"`
	PracticeTitle string        `json:"practiceTitle,omitempty"`
	PracticeMode  PracticeMode  `json:"practiceMode,omitempty"`
	Cards         []SessionCard `json:"cards"`
}

// FreeCard is a single draw made outside any spread.
type FreeCard struct {
	ID        string   `json:"id"`
	CardID    string   `json:"cardId"`
	ImageURL  string   `json:"imageUrl"`
	Keywords  []string `json:"keywords"`
	Note      string   `json:"note"`
	CreatedAt int64    `json:"createdAt"`
}

// FreeCardInput is a FreeCard before the repository assigns id and time.
type FreeCardInput struct {
	CardID   string
	ImageURL string
	Keywords []string
	Note     string
}
