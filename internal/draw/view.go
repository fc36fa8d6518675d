package draw

import "mak/internal/catalog"

// ViewerView is the client-facing state of an open viewer. The card is
// hidden while the viewer is face down.
type ViewerView struct {
	PositionID string        `json:"positionId"`
	Label      string        `json:"label"`
	Question   string        `json:"question"`
	Step       Step          `json:"step"`
	Flipped    bool          `json:"flipped"`
	Card       *catalog.Card `json:"card,omitempty"`
	Note       string        `json:"note"`
}

type BoardView struct {
	ID       string          `json:"id"`
	Free     bool            `json:"free"`
	DeckID   string          `json:"deckId"`
	Spread   catalog.Spread  `json:"spread"`
	Question string          `json:"question"`
	Cells    map[string]Cell `json:"cells"`
	Filled   int             `json:"filled"`
	Total    int             `json:"total"`
	CanSave  bool            `json:"canSave"`
	Complete bool            `json:"complete"`
	Viewer   *ViewerView     `json:"viewer,omitempty"`
}

func (v *Viewer) View() ViewerView {
	out := ViewerView{
		PositionID: v.position.ID,
		Label:      v.position.Label,
		Question:   v.position.Question,
		Step:       v.step,
		Flipped:    v.flipped,
		Note:       v.note,
	}
	if v.card != nil && v.flipped {
		c := *v.card
		out.Card = &c
	}
	return out
}

func (b *Board) View(id string) BoardView {
	out := BoardView{
		ID:       id,
		Free:     b.free,
		DeckID:   b.Deck.ID,
		Spread:   b.Spread,
		Question: b.Question,
		Cells:    b.Cells(),
		Filled:   b.Filled(),
		Total:    b.Total(),
		CanSave:  b.CanSave(),
		Complete: b.Complete(),
	}
	if b.viewer != nil {
		vv := b.viewer.View()
		out.Viewer = &vv
	}
	return out
}
