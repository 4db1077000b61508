// Package export writes the per-run audit snapshots: the evidence payloads
// sent to the scorer and the raw aggregate scores that came back.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// EvidencePath names the review-evidence snapshot for a locality.
func EvidencePath(dir, locality string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_reviews.json", slug(locality)))
}

// ScoresPath names the timestamped raw-scores snapshot for a locality.
func ScoresPath(dir, locality string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("scored_hotels_%s_%s.json", slug(locality), now.Format("20060102_150405")))
}

func slug(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), string(filepath.Separator), "_")
}
