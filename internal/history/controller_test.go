package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetrail/internal/changestore"
	"filetrail/internal/config"
	"filetrail/internal/differ"
	"filetrail/internal/models"
)

func newTestController(t *testing.T) (*Controller, *changestore.ChangeStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := changestore.NewChangeStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	contentDiffer := differ.NewContentDiffer(config.NewDefaultDiffConfig(), zerolog.Nop())
	return NewController(store, contentDiffer, zerolog.Nop()), store
}

func recordEdit(t *testing.T, c *Controller, filePath, oldContent, newContent string) int64 {
	t.Helper()
	id, err := c.RecordChange(models.FileChangeEvent{
		FilePath:   filePath,
		OldContent: oldContent,
		NewContent: newContent,
	})
	require.NoError(t, err)
	require.Positive(t, id)
	return id
}

func TestRecordChange_SkipsIdenticalContent(t *testing.T) {
	controller, store := newTestController(t)

	id, err := controller.RecordChange(models.FileChangeEvent{
		FilePath:   "a.ts",
		OldContent: "same",
		NewContent: "same",
	})
	require.NoError(t, err)
	assert.Zero(t, id)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordChange_StoresDiffAndStats(t *testing.T) {
	controller, store := newTestController(t)

	id := recordEdit(t, controller, "a.ts", "a\n", "a\nb\n")

	record, err := store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.OperationEdit, record.OperationType)
	assert.Equal(t, 1, record.LinesAdded)
	assert.Equal(t, 0, record.LinesRemoved)
	assert.Contains(t, record.Diff, "+b")
	assert.Equal(t, differ.HashContent("a\nb\n"), record.ContentHash)
}

// Scenario: two edits, rollback to the first, then restore. Mirrors the
// canonical two-record history walked forward and back.
func TestCommitRollback_CreatesRollbackRecordAndCoverage(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	id2 := recordEdit(t, controller, "a.ts", "xy", "xyz")

	content, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xy", content, "rollback restores the target's new content")

	records, err := store.GetByFile("a.ts", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	rollback := records[0]
	assert.Equal(t, models.OperationRollback, rollback.OperationType)
	require.NotNil(t, rollback.RollbackToID)
	assert.Equal(t, id1, *rollback.RollbackToID)
	assert.Equal(t, "xyz", rollback.OldContent)
	assert.Equal(t, "xy", rollback.NewContent)
	assert.Nil(t, rollback.BatchID)

	covered, err := store.GetByID(id2)
	require.NoError(t, err)
	require.NotNil(t, covered.CoveredByRollbackID)
	assert.Equal(t, rollback.ID, *covered.CoveredByRollbackID)

	target, err := store.GetByID(id1)
	require.NoError(t, err)
	assert.Nil(t, target.CoveredByRollbackID)
}

func TestRestore_RoundTrip(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	id2 := recordEdit(t, controller, "a.ts", "xy", "xyz")

	_, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)

	records, err := store.GetByFile("a.ts", 1)
	require.NoError(t, err)
	rollbackID := records[0].ID

	result, err := controller.Restore(rollbackID)
	require.NoError(t, err)
	assert.Equal(t, "a.ts", result.FilePath)
	assert.Equal(t, "xyz", result.Content, "restore returns the pre-rollback content")

	// The rollback record is gone and coverage is cleared.
	_, err = store.GetByID(rollbackID)
	assert.True(t, errors.Is(err, models.ErrRecordNotFound))

	reactivated, err := store.GetByID(id2)
	require.NoError(t, err)
	assert.Nil(t, reactivated.CoveredByRollbackID)

	// Full round-trip: status flags return to their pre-rollback values.
	fileRecords, err := store.GetByFile("a.ts", 0)
	require.NoError(t, err)
	target, err := store.GetByID(id1)
	require.NoError(t, err)
	assert.True(t, CanRollbackTo(target, fileRecords))
}

func TestRestore_NotReentrant(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	recordEdit(t, controller, "a.ts", "xy", "xyz")

	_, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)

	records, err := store.GetByFile("a.ts", 1)
	require.NoError(t, err)
	rollbackID := records[0].ID

	_, err = controller.Restore(rollbackID)
	require.NoError(t, err)

	_, err = controller.Restore(rollbackID)
	assert.True(t, errors.Is(err, models.ErrRecordNotFound))
}

func TestRestore_RejectsEditRecords(t *testing.T) {
	controller, _ := newTestController(t)

	id := recordEdit(t, controller, "a.ts", "x", "xy")

	_, err := controller.Restore(id)
	assert.True(t, errors.Is(err, models.ErrNotRestorable))
}

func TestRestore_RejectsSupersededRollback(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	recordEdit(t, controller, "a.ts", "xy", "xyz")

	_, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)

	records, err := store.GetByFile("a.ts", 1)
	require.NoError(t, err)
	rollbackID := records[0].ID

	// An edit after the rollback supersedes it.
	recordEdit(t, controller, "a.ts", "xy", "xyw")

	_, err = controller.Restore(rollbackID)
	assert.True(t, errors.Is(err, models.ErrNotRestorable))
}

func TestCommitRollback_StaleTarget(t *testing.T) {
	controller, _ := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	recordEdit(t, controller, "a.ts", "xy", "xyz")

	_, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)

	// Re-targeting a record that is already an active rollback target fails.
	_, err = controller.CommitRollback(id1, "xy")
	assert.True(t, errors.Is(err, models.ErrStaleTarget))
}

func TestCommitRollback_RejectsCoveredTarget(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	id2 := recordEdit(t, controller, "a.ts", "xy", "xyz")
	recordEdit(t, controller, "a.ts", "xyz", "xyzw")

	_, err := controller.CommitRollback(id1, "xyzw")
	require.NoError(t, err)

	// id2 is now covered by the rollback and cannot be a destination.
	covered, err := store.GetByID(id2)
	require.NoError(t, err)
	require.NotNil(t, covered.CoveredByRollbackID)

	_, err = controller.CommitRollback(id2, "xy")
	assert.True(t, errors.Is(err, models.ErrStaleTarget))
}

func TestCommitRollback_NotFound(t *testing.T) {
	controller, _ := newTestController(t)

	_, err := controller.CommitRollback(99, "anything")
	assert.True(t, errors.Is(err, models.ErrRecordNotFound))
}

func TestPreviewRollback_ListsSupersededNewestFirst(t *testing.T) {
	controller, _ := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	id2 := recordEdit(t, controller, "a.ts", "xy", "xyz")
	id3 := recordEdit(t, controller, "a.ts", "xyz", "xyzw")

	preview, err := controller.PreviewRollback(id2)
	require.NoError(t, err)
	assert.Equal(t, id2, preview.Target.ID)
	require.Len(t, preview.Superseded, 2)
	assert.Equal(t, id3, preview.Superseded[0].ID)
	assert.Equal(t, id2, preview.Superseded[1].ID)

	// Preview performs no mutation.
	record, err := controller.PreviewRollback(id1)
	require.NoError(t, err)
	assert.Len(t, record.Superseded, 3)
}

func TestBatchRollback_FailSoft(t *testing.T) {
	controller, store := newTestController(t)

	idA := recordEdit(t, controller, "fileA.ts", "a", "aa")
	recordEdit(t, controller, "fileA.ts", "aa", "aaa")

	idB := recordEdit(t, controller, "fileB.ts", "b", "bb")
	recordEdit(t, controller, "fileB.ts", "bb", "bbb")

	// Make fileB's target stale before the batch runs.
	_, err := controller.CommitRollback(idB, "bbb")
	require.NoError(t, err)

	results := controller.BatchRollback([]int64{idA, idB}, map[string]string{
		"fileA.ts": "aaa",
		"fileB.ts": "bb",
	})
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "fileA.ts", results[0].FilePath)
	assert.Equal(t, "aa", results[0].Content)

	assert.True(t, errors.Is(results[1].Err, models.ErrStaleTarget))
	assert.Equal(t, "fileB.ts", results[1].FilePath)

	// fileA's rollback committed despite fileB's failure, and both rollback
	// records of the batch action would share one batch ID.
	records, err := store.GetByFile("fileA.ts", 1)
	require.NoError(t, err)
	assert.Equal(t, models.OperationRollback, records[0].OperationType)
	require.NotNil(t, records[0].BatchID)

	batch, err := store.GetByBatch(*records[0].BatchID)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestBatchRollback_MissingCurrentContent(t *testing.T) {
	controller, _ := newTestController(t)

	idA := recordEdit(t, controller, "fileA.ts", "a", "aa")

	results := controller.BatchRollback([]int64{idA}, map[string]string{})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.NotErrorIs(t, results[0].Err, models.ErrRecordNotFound,
		"missing content is not a lookup failure, the record exists")
}

func TestListByFile_AnnotatesStatus(t *testing.T) {
	controller, _ := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "x", "xy")
	recordEdit(t, controller, "a.ts", "xy", "xyz")

	_, err := controller.CommitRollback(id1, "xyz")
	require.NoError(t, err)

	annotated, err := controller.ListByFile("a.ts", 0)
	require.NoError(t, err)
	require.Len(t, annotated, 3)

	// Newest first: the rollback record leads.
	assert.Equal(t, models.OperationRollback, annotated[0].OperationType)
	assert.True(t, annotated[0].Status.IsLatestForFile)
	assert.True(t, annotated[0].Status.CanRestore)
	assert.False(t, annotated[0].Status.CanRollbackTo)

	// The covered middle record.
	assert.True(t, annotated[1].IsCovered())
	assert.False(t, annotated[1].Status.CanRollbackTo)

	// The target.
	assert.Equal(t, id1, annotated[2].ID)
	assert.True(t, annotated[2].Status.IsRollbackTarget)
	assert.False(t, annotated[2].Status.CanRollbackTo)
}

func TestListRecent_SpansFiles(t *testing.T) {
	controller, _ := newTestController(t)

	recordEdit(t, controller, "a.ts", "", "a")
	recordEdit(t, controller, "b.ts", "", "b")

	annotated, err := controller.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, annotated, 2)
	assert.Equal(t, "b.ts", annotated[0].FilePath)
	assert.True(t, annotated[0].Status.IsLatestForFile)
	assert.True(t, annotated[1].Status.IsLatestForFile)
}

// Exactly one record per file is latest at any observation point, across a
// mixed sequence of edits, rollbacks, and restores.
func TestExactlyOneLatestPerFile(t *testing.T) {
	controller, store := newTestController(t)

	id1 := recordEdit(t, controller, "a.ts", "1", "2")
	recordEdit(t, controller, "a.ts", "2", "3")
	_, err := controller.CommitRollback(id1, "3")
	require.NoError(t, err)
	recordEdit(t, controller, "a.ts", "2", "4")

	fileRecords, err := store.GetByFile("a.ts", 0)
	require.NoError(t, err)

	latest := 0
	for _, record := range fileRecords {
		if IsLatestForFile(record, fileRecords) {
			latest++
		}
	}
	assert.Equal(t, 1, latest)
}
