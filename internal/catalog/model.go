package catalog

// Card is an immutable deck member.
type Card struct {
	ID       string   `json:"id" yaml:"id"`
	ImageURL string   `json:"imageUrl" yaml:"imageUrl"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Deck is loaded from static content. CardCount is kept as published and is
// not reconciled with len(Cards); see CountMismatch.
type Deck struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	CardCount   int    `json:"cardCount"`
	Cards       []Card `json:"cards"`
	Description string `json:"description,omitempty"`
	IsPremium   bool   `json:"isPremium,omitempty"`
}

func (d Deck) CountMismatch() bool { return d.CardCount != len(d.Cards) }

// IndexItem is one entry of /decks/index.json.
type IndexItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	IsPremium   bool   `json:"isPremium"`
	File        string `json:"file"`
}

type Index struct {
	Decks []IndexItem `json:"decks"`
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type SpreadPosition struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Question string `json:"question" yaml:"question"`
}

// Spread positions are ordered; ids are unique within a spread.
type Spread struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Icon        string           `json:"icon" yaml:"icon"`
	Description string           `json:"description" yaml:"description"`
	Difficulty  Difficulty       `json:"difficulty" yaml:"difficulty"`
	Positions   []SpreadPosition `json:"positions" yaml:"positions"`
}

// Practice is a named preset bundling deck, spread and question.
type Practice struct {
	ID                  string   `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Emoji               string   `json:"emoji" yaml:"emoji"`
	DurationMin         int      `json:"durationMin" yaml:"durationMin"`
	Goal                string   `json:"goal" yaml:"goal"`
	Description         string   `json:"description" yaml:"description"`
	DefaultDeckID       string   `json:"defaultDeckId" yaml:"defaultDeckId"`
	AllowedDeckIDs      []string `json:"allowedDeckIds,omitempty" yaml:"allowedDeckIds"`
	RecommendedSpreadID string   `json:"recommendedSpreadId" yaml:"recommendedSpreadId"`
	DefaultQuestion     string   `json:"defaultQuestion" yaml:"defaultQuestion"`
	Steps               []string `json:"steps" yaml:"steps"`
	SelfPrompts         []string `json:"selfPrompts" yaml:"selfPrompts"`
	ProPrompts          []string `json:"proPrompts" yaml:"proPrompts"`
}
