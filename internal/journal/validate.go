package journal

import (
	"encoding/json"
	"fmt"
	"strings"
)

type fieldKind string

const (
	kindString fieldKind = "string"
	kindNumber fieldKind = "number"
	kindArray  fieldKind = "array"
)

type fieldRule struct {
	name string
	kind fieldKind
}

var sessionRules = []fieldRule{
	{"id", kindString},
	{"createdAt", kindNumber},
	{"question", kindString},
	{"takeaway", kindString},
	{"deckId", kindString},
	{"deckName", kindString},
	{"spreadId", kindString},
	{"spreadName", kindString},
	{"cards", kindArray},
}

var freeCardRules = []fieldRule{
	{"id", kindString},
	{"cardId", kindString},
	{"imageUrl", kindString},
	{"keywords", kindArray},
	{"note", kindString},
	{"createdAt", kindNumber},
}

// FieldError names one field that failed the structural check.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// Result is the outcome of a structural check. The zero value is success.
type Result struct {
	Errors []FieldError
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(parts, "; "))
}

func ValidateSession(x any) Result { return check(x, sessionRules) }

func ValidateFreeCard(x any) Result { return check(x, freeCardRules) }

func IsValidSession(x any) bool { return ValidateSession(x).OK() }

func IsValidFreeCard(x any) bool { return ValidateFreeCard(x).OK() }

// FilterValidSessions keeps the well-formed sessions of a decoded JSON array.
// Anything that is not an array yields an empty slice.
func FilterValidSessions(list any) []Session {
	items, ok := list.([]any)
	if !ok {
		return []Session{}
	}
	out := make([]Session, 0, len(items))
	for _, it := range items {
		if !IsValidSession(it) {
			continue
		}
		out = append(out, sessionFromMap(it.(map[string]any)))
	}
	return out
}

func FilterValidFreeCards(list any) []FreeCard {
	items, ok := list.([]any)
	if !ok {
		return []FreeCard{}
	}
	out := make([]FreeCard, 0, len(items))
	for _, it := range items {
		if !IsValidFreeCard(it) {
			continue
		}
		out = append(out, freeCardFromMap(it.(map[string]any)))
	}
	return out
}

func check(x any, rules []fieldRule) Result {
	switch x.(type) {
	case Session, *Session, FreeCard, *FreeCard:
		x = toGeneric(x)
	}
	m, ok := x.(map[string]any)
	if !ok || m == nil {
		return Result{Errors: []FieldError{{Field: "$", Reason: "not an object"}}}
	}
	var res Result
	for _, r := range rules {
		v, present := m[r.name]
		if !present {
			res.Errors = append(res.Errors, FieldError{Field: r.name, Reason: "missing"})
			continue
		}
		if !hasKind(v, r.kind) {
			res.Errors = append(res.Errors, FieldError{Field: r.name, Reason: "expected " + string(r.kind)})
		}
	}
	return res
}

// toGeneric renders a typed record the way it is stored so both forms go
// through the same rules.
func toGeneric(x any) any {
	raw, err := json.Marshal(x)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func hasKind(v any, k fieldKind) bool {
	switch k {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindNumber:
		_, ok := toInt64(v)
		return ok
	case kindArray:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func str(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

func strs(m map[string]any, k string) []string {
	items, ok := m[k].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sessionFromMap(m map[string]any) Session {
	created, _ := toInt64(m["createdAt"])
	s := Session{
		ID:            str(m, "id"),
		CreatedAt:     created,
		Question:      str(m, "question"),
		Takeaway:      str(m, "takeaway"),
		DeckID:        str(m, "deckId"),
		DeckName:      str(m, "deckName"),
		SpreadID:      str(m, "spreadId"),
		SpreadName:    str(m, "spreadName"),
		PracticeID:    str(m, "practiceId"),
		PracticeTitle: str(m, "practiceTitle"),
		PracticeMode:  PracticeMode(str(m, "practiceMode")),
	}
	cards, _ := m["cards"].([]any)
	s.Cards = make([]SessionCard, 0, len(cards))
	for _, c := range cards {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		s.Cards = append(s.Cards, SessionCard{
			PositionID: str(cm, "positionId"),
			Label:      str(cm, "label"),
			Question:   str(cm, "question"),
			CardID:     str(cm, "cardId"),
			ImageURL:   str(cm, "imageUrl"),
			Keywords:   strs(cm, "keywords"),
			Note:       str(cm, "note"),
		})
	}
	return s
}

func freeCardFromMap(m map[string]any) FreeCard {
	created, _ := toInt64(m["createdAt"])
	return FreeCard{
		ID:        str(m, "id"),
		CardID:    str(m, "cardId"),
		ImageURL:  str(m, "imageUrl"),
		Keywords:  strs(m, "keywords"),
		Note:      str(m, "note"),
		CreatedAt: created,
	}
}
