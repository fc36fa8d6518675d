package journal

import "strings"

// Search returns sessions (most recent first) whose question, takeaway,
// card notes or keywords contain q, ignoring case. Blank q returns all.
func (r *Repository) Search(q string) []Session {
	q = strings.ToLower(strings.TrimSpace(q))
	all := r.Sessions()
	if q == "" {
		return all
	}
	out := make([]Session, 0, len(all))
	for _, s := range all {
		if matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s Session, q string) bool {
	if contains(s.Question, q) || contains(s.Takeaway, q) {
		return true
	}
	for _, c := range s.Cards {
		if contains(c.Note, q) || contains(c.Label, q) {
			return true
		}
		for _, k := range c.Keywords {
			if contains(k, q) {
				return true
			}
		}
	}
	return false
}

func contains(s, lowerQ string) bool {
	return strings.Contains(strings.ToLower(s), lowerQ)
}
