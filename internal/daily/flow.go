package daily

import (
	"errors"
	"strings"
	"unicode/utf16"
)

type Step string

const (
	StepIntro   Step = "intro"
	StepDraw    Step = "draw"
	StepAssoc   Step = "assoc"
	StepMicro   Step = "micro"
	StepSummary Step = "summary"
	StepDone    Step = "done"
)

var order = []Step{StepIntro, StepDraw, StepAssoc, StepMicro, StepSummary, StepDone}

var (
	ErrStepIncomplete = errors.New("current step is not complete")
	ErrFlowFinished   = errors.New("flow already finished")
)

// Answers holds the free-text fields filled along the flow.
type Answers struct {
	A1        string `json:"a1"`
	A2        string `json:"a2"`
	A3        string `json:"a3"`
	MicroStep string `json:"microStep"`
	Summary   string `json:"summary"`
}

// Flow is one run of the guided daily card exercise.
type Flow struct {
	DateISO string  `json:"dateISO"`
	DeckID  string  `json:"deckId"`
	Card    Card    `json:"card"`
	Step    Step    `json:"step"`
	Drawn   bool    `json:"drawn"`
	Answers Answers `json:"answers"`
	Saved   bool    `json:"saved"`
}

func NewFlow(dateISO, deckID string, card Card) *Flow {
	return &Flow{DateISO: dateISO, DeckID: deckID, Card: card, Step: StepIntro}
}

// Draw reveals the card. Only meaningful on the draw step.
func (f *Flow) Draw() error {
	if f.Step != StepDraw {
		return ErrStepIncomplete
	}
	f.Drawn = true
	return nil
}

// CanContinue reports whether the current step allows moving forward.
func (f *Flow) CanContinue() bool {
	a := f.Answers
	switch f.Step {
	case StepIntro:
		return true
	case StepDraw:
		return f.Drawn
	case StepAssoc:
		return !blank(a.A1) || !blank(a.A2) || !blank(a.A3)
	case StepMicro:
		return atLeast(a.MicroStep, 2)
	case StepSummary:
		return atLeast(a.Summary, 2)
	}
	return false
}

func (f *Flow) Next() error {
	if f.Step == StepDone {
		return ErrFlowFinished
	}
	if !f.CanContinue() {
		return ErrStepIncomplete
	}
	f.Step = order[f.index()+1]
	return nil
}

// Back steps one back without any check. It is a no-op on intro.
func (f *Flow) Back() {
	if i := f.index(); i > 0 {
		f.Step = order[i-1]
	}
}

func (f *Flow) index() int {
	for i, s := range order {
		if s == f.Step {
			return i
		}
	}
	return 0
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// atLeast measures length in UTF-16 code units, as the Mini App does.
func atLeast(s string, n int) bool {
	return len(utf16.Encode([]rune(strings.TrimSpace(s)))) >= n
}
