package history

import (
	"fmt"

	"github.com/rs/zerolog"

	"filetrail/internal/changestore"
	"filetrail/internal/differ"
	"filetrail/internal/models"
)

// Controller implements the edit-recording, rollback, and restore protocols
// on top of the change store. It holds no state of its own beyond its
// collaborators; every decision is derived from the store's current contents.
type Controller struct {
	store  *changestore.ChangeStore
	differ *differ.ContentDiffer
	logger zerolog.Logger
}

// NewController creates a history controller bound to an explicit store
// handle. No process-wide singleton is involved.
func NewController(store *changestore.ChangeStore, contentDiffer *differ.ContentDiffer, logger zerolog.Logger) *Controller {
	return &Controller{
		store:  store,
		differ: contentDiffer,
		logger: logger.With().Str("component", "HistoryController").Logger(),
	}
}

// RecordChange turns a debounced file-change event into a new edit record and
// returns its ID. Transitions whose content is unchanged are skipped and
// return 0.
func (c *Controller) RecordChange(event models.FileChangeEvent) (int64, error) {
	diffResult := c.differ.Diff(event.OldContent, event.NewContent)
	if diffResult.IsIdentical {
		c.logger.Debug().Str("file_path", event.FilePath).Msg("Skipping identical content transition")
		return 0, nil
	}

	id, err := c.store.Insert(changestore.InsertParams{
		FilePath:      event.FilePath,
		OldContent:    event.OldContent,
		NewContent:    event.NewContent,
		Diff:          diffResult.Diff,
		ContentHash:   diffResult.NewHash,
		LinesAdded:    diffResult.LinesAdded,
		LinesRemoved:  diffResult.LinesRemoved,
		BatchID:       event.BatchID,
		OperationType: models.OperationEdit,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record change for %s: %w", event.FilePath, err)
	}

	c.logger.Info().
		Int64("id", id).
		Str("file_path", event.FilePath).
		Int("lines_added", diffResult.LinesAdded).
		Int("lines_removed", diffResult.LinesRemoved).
		Msg("Recorded edit")
	return id, nil
}

// GetRecord returns the record with the given ID, or models.ErrRecordNotFound
// when it does not exist.
func (c *Controller) GetRecord(id int64) (*models.ChangeRecord, error) {
	return c.store.GetByID(id)
}

// ListRecent returns the most recent records across all files, newest first,
// annotated with derived status flags.
func (c *Controller) ListRecent(limit int) ([]models.AnnotatedRecord, error) {
	records, err := c.store.GetRecent(limit)
	if err != nil {
		return nil, err
	}
	return c.annotate(records)
}

// ListByFile returns the records for one file, newest first, annotated with
// derived status flags.
func (c *Controller) ListByFile(filePath string, limit int) ([]models.AnnotatedRecord, error) {
	records, err := c.store.GetByFile(filePath, limit)
	if err != nil {
		return nil, err
	}
	return c.annotate(records)
}

// annotate computes the four derived booleans for each record against its
// file's full history. Per-file lists are fetched once per call.
func (c *Controller) annotate(records []*models.ChangeRecord) ([]models.AnnotatedRecord, error) {
	fileHistories := make(map[string][]*models.ChangeRecord)

	annotated := make([]models.AnnotatedRecord, 0, len(records))
	for _, record := range records {
		fileRecords, ok := fileHistories[record.FilePath]
		if !ok {
			var err error
			fileRecords, err = c.store.GetByFile(record.FilePath, 0)
			if err != nil {
				return nil, err
			}
			fileHistories[record.FilePath] = fileRecords
		}
		annotated = append(annotated, models.AnnotatedRecord{
			ChangeRecord: *record,
			Status:       StatusOf(record, fileRecords),
		})
	}
	return annotated, nil
}
