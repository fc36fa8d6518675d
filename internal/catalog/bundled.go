package catalog

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	bundledOnce sync.Once
	spreads     []Spread
	practices   []Practice
	bundledErr  error
)

func loadBundled() {
	raw, err := dataFS.ReadFile("data/spreads.yaml")
	if err != nil {
		bundledErr = fmt.Errorf("read spreads: %w", err)
		return
	}
	if spreads, bundledErr = ParseSpreads(raw); bundledErr != nil {
		return
	}

	raw, err = dataFS.ReadFile("data/practices.yaml")
	if err != nil {
		bundledErr = fmt.Errorf("read practices: %w", err)
		return
	}
	if err := yaml.Unmarshal(raw, &practices); err != nil {
		bundledErr = fmt.Errorf("%w: practices: %w", ErrBundledData, err)
	}
}

// Spreads returns the spreads bundled with the binary.
func Spreads() ([]Spread, error) {
	bundledOnce.Do(loadBundled)
	return spreads, bundledErr
}

// Practices returns the practice presets bundled with the binary.
func Practices() ([]Practice, error) {
	bundledOnce.Do(loadBundled)
	return practices, bundledErr
}

// ParseSpreads decodes a YAML list of spreads and checks difficulty values
// and position id uniqueness.
func ParseSpreads(raw []byte) ([]Spread, error) {
	var out []Spread
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: spreads: %w", ErrBundledData, err)
	}
	for _, s := range out {
		switch s.Difficulty {
		case Easy, Medium, Hard:
		default:
			return nil, fmt.Errorf("%w: spread %s: difficulty %q", ErrBundledData, s.ID, s.Difficulty)
		}
		if len(s.Positions) == 0 {
			return nil, fmt.Errorf("%w: spread %s has no positions", ErrBundledData, s.ID)
		}
		seen := map[string]struct{}{}
		for _, p := range s.Positions {
			if _, dup := seen[p.ID]; dup {
				return nil, fmt.Errorf("%w: spread %s: duplicate position %q", ErrBundledData, s.ID, p.ID)
			}
			seen[p.ID] = struct{}{}
		}
	}
	return out, nil
}
