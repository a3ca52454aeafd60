package history

import (
	"fmt"

	"filetrail/internal/models"
)

// RestoreResult holds the outcome of undoing a rollback: the file affected
// and the content to write back, i.e. the content that existed immediately
// before the rollback happened.
type RestoreResult struct {
	FilePath string
	Content  string
}

// Restore undoes the most recent rollback for a file. The record must be a
// rollback record that is still the latest for its file; otherwise the call
// fails with models.ErrNotRestorable (or models.ErrRecordNotFound when the
// ID does not exist, including a second restore of the same ID).
//
// Coverage is cleared before the rollback record is deleted so the shadowed
// records become active again. The caller writes the returned content back
// to the file.
func (c *Controller) Restore(rollbackID int64) (*RestoreResult, error) {
	record, err := c.store.GetByID(rollbackID)
	if err != nil {
		return nil, err
	}

	fileRecords, err := c.store.GetByFile(record.FilePath, 0)
	if err != nil {
		return nil, err
	}

	if !CanRestore(record, fileRecords) {
		return nil, fmt.Errorf("%w: record %d", models.ErrNotRestorable, rollbackID)
	}

	cleared, err := c.store.ClearCoveredByRollback(record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear coverage for rollback %d: %w", rollbackID, err)
	}

	if _, err := c.store.DeleteByID(record.ID); err != nil {
		return nil, fmt.Errorf("failed to delete rollback record %d: %w", rollbackID, err)
	}

	c.logger.Info().
		Int64("rollback_id", rollbackID).
		Str("file_path", record.FilePath).
		Int64("reactivated", cleared).
		Msg("Restored pre-rollback state")
	return &RestoreResult{FilePath: record.FilePath, Content: record.OldContent}, nil
}
