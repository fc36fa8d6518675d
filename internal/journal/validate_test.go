package journal_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/journal"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const validSessionJSON = `{
	"id": "s1", "createdAt": 1700000000000, "question": "q", "takeaway": "t",
	"deckId": "base", "deckName": "🃏 Base", "spreadId": "three", "spreadName": "🔮 Three",
	"cards": [{"positionId": "p1", "label": "L", "question": "Q", "cardId": "c1",
	           "imageUrl": "/c1.png", "keywords": ["sun"], "note": "n"}]
}`

func TestValidateSession_Valid(t *testing.T) {
	res := journal.ValidateSession(decode(t, validSessionJSON))
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
}

func TestValidateSession_Malformed(t *testing.T) {
	cases := map[string]string{
		"not an object":     `"s1"`,
		"null":              `null`,
		"array":             `[]`,
		"missing fields":    `{"id":"x"}`,
		"createdAt string":  `{"id":"s","createdAt":"now","question":"","takeaway":"","deckId":"","deckName":"","spreadId":"","spreadName":"","cards":[]}`,
		"cards not array":   `{"id":"s","createdAt":1,"question":"","takeaway":"","deckId":"","deckName":"","spreadId":"","spreadName":"","cards":{}}`,
		"id number":         `{"id":1,"createdAt":1,"question":"","takeaway":"","deckId":"","deckName":"","spreadId":"","spreadName":"","cards":[]}`,
		"deckName missing":  `{"id":"s","createdAt":1,"question":"","takeaway":"","deckId":"","spreadId":"","spreadName":"","cards":[]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			v := decode(t, raw)
			assert.False(t, journal.IsValidSession(v))
			assert.False(t, journal.ValidateSession(v).OK())
			assert.ErrorIs(t, journal.ValidateSession(v).Err(), journal.ErrInvalidRecord)
		})
	}
}

func TestValidateSession_ReportsFields(t *testing.T) {
	res := journal.ValidateSession(decode(t, `{"id":"x","createdAt":"bad"}`))
	require.False(t, res.OK())

	fields := map[string]string{}
	for _, e := range res.Errors {
		fields[e.Field] = e.Reason
	}
	assert.Equal(t, "expected number", fields["createdAt"])
	assert.Equal(t, "missing", fields["cards"])
	assert.NotContains(t, fields, "id")
}

func TestFilterValidSessions_DropsInvalidWithoutFailing(t *testing.T) {
	list := decode(t, `[`+validSessionJSON+`, {"id":"x"}, 42, null, "str"]`)
	got := journal.FilterValidSessions(list)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, int64(1700000000000), got[0].CreatedAt)
	require.Len(t, got[0].Cards, 1)
	assert.Equal(t, []string{"sun"}, got[0].Cards[0].Keywords)
}

func TestFilterValidSessions_NonArray(t *testing.T) {
	assert.Empty(t, journal.FilterValidSessions(decode(t, `{"sessions":[]}`)))
	assert.Empty(t, journal.FilterValidSessions(nil))
}

func TestFilterValidSessions_NestedCardsNotValidated(t *testing.T) {
	raw := `[{"id":"s","createdAt":1,"question":"","takeaway":"","deckId":"","deckName":"","spreadId":"","spreadName":"","cards":[1, {"cardId":"c"}]}]`
	got := journal.FilterValidSessions(decode(t, raw))
	require.Len(t, got, 1)
	require.Len(t, got[0].Cards, 1)
	assert.Equal(t, "c", got[0].Cards[0].CardID)
}

func TestValidateFreeCard(t *testing.T) {
	valid := `{"id":"free-1","cardId":"c1","imageUrl":"/c1.png","keywords":[],"note":"","createdAt":5}`
	assert.True(t, journal.IsValidFreeCard(decode(t, valid)))
	assert.False(t, journal.IsValidFreeCard(decode(t, `{"id":"free-1","cardId":"c1"}`)))
	assert.False(t, journal.IsValidFreeCard(decode(t, `{"id":"free-1","cardId":"c1","imageUrl":"","keywords":"a","note":"","createdAt":5}`)))

	got := journal.FilterValidFreeCards(decode(t, `[`+valid+`, {}]`))
	require.Len(t, got, 1)
	assert.Equal(t, "free-1", got[0].ID)
}
