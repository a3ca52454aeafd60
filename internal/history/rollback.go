package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filetrail/internal/changestore"
	"filetrail/internal/models"
)

// RollbackPreview holds the outcome of the preview phase: the target record
// and the records that would become superseded by committing, newest first.
type RollbackPreview struct {
	Target     *models.ChangeRecord
	Superseded []*models.ChangeRecord
}

// BatchRollbackResult reports the outcome of one file's rollback within a
// batch action.
type BatchRollbackResult struct {
	TargetID int64
	FilePath string
	// Content is the value to write to the file on success.
	Content string
	Err     error
}

// PreviewRollback loads the target record and every record of its file with
// ID >= target ID (the records that would become superseded), newest first.
// No mutation happens; the caller presents the preview for confirmation.
func (c *Controller) PreviewRollback(targetID int64) (*RollbackPreview, error) {
	target, err := c.store.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	fileRecords, err := c.store.GetByFile(target.FilePath, 0)
	if err != nil {
		return nil, err
	}

	if !CanRollbackTo(target, fileRecords) {
		return nil, fmt.Errorf("%w: record %d", models.ErrStaleTarget, targetID)
	}

	// fileRecords is already ordered newest first.
	var superseded []*models.ChangeRecord
	for _, record := range fileRecords {
		if record.ID >= target.ID {
			superseded = append(superseded, record)
		}
	}

	return &RollbackPreview{Target: target, Superseded: superseded}, nil
}

// CommitRollback re-validates the confirmed target and performs the rollback:
// a new rollback record is inserted with the file's current on-disk content
// as old content and the target's new content as the restored value, then
// every record between target and rollback is marked covered. The returned
// string is the content the caller must write to the file; the write itself
// and watcher suppression are the caller's responsibility.
//
// Validation happens again at commit time because another edit or rollback
// may have landed between preview and commit; a target that no longer
// satisfies CanRollbackTo fails with models.ErrStaleTarget.
func (c *Controller) CommitRollback(targetID int64, currentContent string) (string, error) {
	return c.commitRollback(targetID, currentContent, nil)
}

func (c *Controller) commitRollback(targetID int64, currentContent string, batchID *string) (string, error) {
	target, err := c.store.GetByID(targetID)
	if err != nil {
		return "", err
	}

	fileRecords, err := c.store.GetByFile(target.FilePath, 0)
	if err != nil {
		return "", err
	}

	if !CanRollbackTo(target, fileRecords) {
		return "", fmt.Errorf("%w: record %d", models.ErrStaleTarget, targetID)
	}

	diffResult := c.differ.Diff(currentContent, target.NewContent)

	rollbackID, err := c.store.Insert(changestore.InsertParams{
		FilePath:      target.FilePath,
		OldContent:    currentContent,
		NewContent:    target.NewContent,
		Diff:          diffResult.Diff,
		ContentHash:   diffResult.NewHash,
		BatchID:       batchID,
		OperationType: models.OperationRollback,
		RollbackToID:  &target.ID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert rollback record for %s: %w", target.FilePath, err)
	}

	covered, err := c.store.MarkCoveredByRollback(target.FilePath, rollbackID, target.ID)
	if err != nil {
		return "", fmt.Errorf("failed to mark coverage for rollback %d: %w", rollbackID, err)
	}

	c.logger.Info().
		Int64("rollback_id", rollbackID).
		Int64("target_id", target.ID).
		Str("file_path", target.FilePath).
		Int64("covered", covered).
		Msg("Committed rollback")
	return target.NewContent, nil
}

// BatchRollback rolls back multiple files in one user action, sharing a
// single batch ID across all rollback records. Failure is per-file: one
// file's error does not abort or undo the others. currentContentByFile maps
// each target's file path to its current on-disk content.
func (c *Controller) BatchRollback(targetIDs []int64, currentContentByFile map[string]string) []BatchRollbackResult {
	batchID := uuid.NewString()

	results := make([]BatchRollbackResult, 0, len(targetIDs))
	for _, targetID := range targetIDs {
		results = append(results, c.rollbackOne(targetID, currentContentByFile, &batchID))
	}

	succeeded := 0
	for _, result := range results {
		if result.Err == nil {
			succeeded++
		}
	}
	c.logger.Info().
		Str("batch_id", batchID).
		Int("succeeded", succeeded).
		Int("failed", len(results)-succeeded).
		Msg("Batch rollback finished")
	return results
}

func (c *Controller) rollbackOne(targetID int64, currentContentByFile map[string]string, batchID *string) BatchRollbackResult {
	result := BatchRollbackResult{TargetID: targetID}

	target, err := c.store.GetByID(targetID)
	if err != nil {
		result.Err = err
		return result
	}
	result.FilePath = target.FilePath

	currentContent, ok := currentContentByFile[target.FilePath]
	if !ok {
		result.Err = fmt.Errorf("no current content supplied for %s", target.FilePath)
		return result
	}

	content, err := c.commitRollback(targetID, currentContent, batchID)
	if err != nil {
		result.Err = err
		c.logger.Warn().
			Err(err).
			Int64("target_id", targetID).
			Str("file_path", target.FilePath).
			Bool("stale", errors.Is(err, models.ErrStaleTarget)).
			Msg("Rollback failed for file in batch")
		return result
	}

	result.Content = content
	return result
}
