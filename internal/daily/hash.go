package daily

import "unicode/utf16"

// Hash is a 31-based polynomial hash over the UTF-16 code units of s,
// modulo 2^32. It must stay stable: entries already shown to users depend
// on it.
func Hash(s string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(u)
	}
	return h
}

// Index picks the card of the day for (dateISO, deckID) among size cards.
func Index(dateISO, deckID string, size int) int {
	if size <= 0 {
		return 0
	}
	return int(Hash(dateISO+":"+deckID) % uint32(size))
}
