package differ

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"filetrail/internal/config"
)

// DiffResult holds the rendered diff and precomputed statistics for one
// content transition. The core stores these fields opaquely on the record.
type DiffResult struct {
	Diff         string
	OldHash      string
	NewHash      string
	LinesAdded   int
	LinesRemoved int
	IsIdentical  bool
}

// ContentDiffer renders line-based diffs between two content versions and
// computes the line statistics attached to change records.
type ContentDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	cfg    config.DiffConfig
	logger zerolog.Logger
}

// NewContentDiffer creates a differ from the diff configuration section.
func NewContentDiffer(cfg config.DiffConfig, logger zerolog.Logger) *ContentDiffer {
	return &ContentDiffer{
		dmp:    diffmatchpatch.New(),
		cfg:    cfg,
		logger: logger.With().Str("component", "ContentDiffer").Logger(),
	}
}

// Diff compares two content versions and returns the rendered diff together
// with line statistics and content hashes.
func (cd *ContentDiffer) Diff(oldContent, newContent string) *DiffResult {
	result := &DiffResult{
		OldHash: HashContent(oldContent),
		NewHash: HashContent(newContent),
	}

	if result.OldHash == result.NewHash {
		result.IsIdentical = true
		return result
	}

	if cd.exceedsSizeLimit(oldContent, newContent) {
		result.Diff = fmt.Sprintf(
			"content too large for detailed diff (limit: %dMB, old: %d bytes, new: %d bytes)",
			cd.cfg.MaxDiffFileSizeMB, len(oldContent), len(newContent))
		return result
	}

	diffs := cd.lineDiffs(oldContent, newContent)
	result.Diff = renderDiff(diffs)
	result.LinesAdded, result.LinesRemoved = countLines(diffs)
	return result
}

// lineDiffs computes a line-mode diff so that every segment is whole lines.
func (cd *ContentDiffer) lineDiffs(oldContent, newContent string) []diffmatchpatch.Diff {
	oldRunes, newRunes, lineArray := cd.dmp.DiffLinesToRunes(oldContent, newContent)
	diffs := cd.dmp.DiffMainRunes(oldRunes, newRunes, false)
	return cd.dmp.DiffCharsToLines(diffs, lineArray)
}

func (cd *ContentDiffer) exceedsSizeLimit(oldContent, newContent string) bool {
	if cd.cfg.MaxDiffFileSizeMB <= 0 {
		return false
	}
	limit := cd.cfg.MaxDiffFileSizeMB * 1024 * 1024
	return len(oldContent) > limit || len(newContent) > limit
}

// renderDiff produces a unified-diff-style text: one prefixed line per
// source line, "+" for insertions, "-" for deletions, " " for context.
func renderDiff(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// countLines counts inserted and deleted lines across all diff segments.
func countLines(diffs []diffmatchpatch.Diff) (added, removed int) {
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += len(splitLines(d.Text))
		case diffmatchpatch.DiffDelete:
			removed += len(splitLines(d.Text))
		}
	}
	return added, removed
}

// splitLines splits text into lines without a trailing empty element for a
// final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// HashContent returns the hex-encoded SHA-256 hash of content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
