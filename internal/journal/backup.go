package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const BackupVersion = "2.0"

// Backup is the export document shape shared with the Mini App.
type Backup struct {
	Sessions   []Session  `json:"sessions"`
	FreeCards  []FreeCard `json:"freeCards"`
	ExportedAt int64      `json:"exportedAt"`
	Version    string     `json:"version"`
}

// ImportResult counts accepted records per collection. A zero count for a
// collection absent from the document means it was left untouched.
type ImportResult struct {
	Sessions  int `json:"sessions"`
	FreeCards int `json:"freeCards"`
}

// ExportJSON serialises both collections, most recent first.
func (r *Repository) ExportJSON() (string, error) {
	b, err := json.MarshalIndent(Backup{
		Sessions:   r.Sessions(),
		FreeCards:  r.FreeCards(),
		ExportedAt: r.now().UnixMilli(),
		Version:    BackupVersion,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return string(b), nil
}

// ImportJSON replaces each collection present in raw with its valid records.
// A failed write returns ErrNotStored along with the accepted counts.
func (r *Repository) ImportJSON(ctx context.Context, raw string) (ImportResult, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrImportParse, err)
	}
	data, ok := parsed.(map[string]any)
	if !ok {
		return ImportResult{}, ErrInvalidFormat
	}

	// A non-empty list with no valid record leaves the collection as it was.
	var res ImportResult
	stored := true
	if list, ok := data["sessions"].([]any); ok {
		valid := FilterValidSessions(list)
		if len(valid) > 0 || len(list) == 0 {
			stored = r.saveSessions(ctx, valid) && stored
		}
		res.Sessions = len(valid)
	}
	if list, ok := data["freeCards"].([]any); ok {
		valid := FilterValidFreeCards(list)
		if len(valid) > 0 || len(list) == 0 {
			stored = r.saveFreeCards(ctx, valid) && stored
		}
		res.FreeCards = len(valid)
	}
	if !stored {
		return res, fmt.Errorf("import: %w", ErrNotStored)
	}
	return res, nil
}

// BackupFileName is the download name for an export made at t.
func BackupFileName(t time.Time) string {
	return "mak-backup-" + t.Format("2006-01-02") + ".json"
}
