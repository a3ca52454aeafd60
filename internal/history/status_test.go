package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"filetrail/internal/models"
)

func editRecord(id int64, filePath string) *models.ChangeRecord {
	return &models.ChangeRecord{
		ID:            id,
		FilePath:      filePath,
		OperationType: models.OperationEdit,
	}
}

func rollbackRecord(id int64, filePath string, targetID int64) *models.ChangeRecord {
	return &models.ChangeRecord{
		ID:            id,
		FilePath:      filePath,
		OperationType: models.OperationRollback,
		RollbackToID:  &targetID,
	}
}

func TestIsLatestForFile(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := editRecord(2, "a.go")
	fileRecords := []*models.ChangeRecord{r2, r1}

	assert.False(t, IsLatestForFile(r1, fileRecords))
	assert.True(t, IsLatestForFile(r2, fileRecords))
}

func TestIsLatestForFile_SingleRecord(t *testing.T) {
	r := editRecord(7, "a.go")
	assert.True(t, IsLatestForFile(r, []*models.ChangeRecord{r}))
}

func TestIsRollbackTarget(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := editRecord(2, "a.go")
	r3 := rollbackRecord(3, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r3, r2, r1}

	assert.True(t, IsRollbackTarget(r1, fileRecords))
	assert.False(t, IsRollbackTarget(r2, fileRecords))
	assert.False(t, IsRollbackTarget(r3, fileRecords))
}

func TestCanRestore(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := rollbackRecord(2, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r2, r1}

	assert.False(t, CanRestore(r1, fileRecords), "edit records are never restorable")
	assert.True(t, CanRestore(r2, fileRecords))

	// A later edit makes the rollback no longer latest, losing restorability.
	r3 := editRecord(3, "a.go")
	fileRecords = append([]*models.ChangeRecord{r3}, fileRecords...)
	assert.False(t, CanRestore(r2, fileRecords))
}

func TestCanRollbackTo(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := editRecord(2, "a.go")
	fileRecords := []*models.ChangeRecord{r2, r1}

	assert.True(t, CanRollbackTo(r1, fileRecords))
	assert.True(t, CanRollbackTo(r2, fileRecords))
}

func TestCanRollbackTo_ExcludesRollbackRecords(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := rollbackRecord(2, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r2, r1}

	assert.False(t, CanRollbackTo(r2, fileRecords))
}

func TestCanRollbackTo_ExcludesActiveTargets(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := rollbackRecord(2, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r2, r1}

	assert.False(t, CanRollbackTo(r1, fileRecords), "already the target of an existing rollback")
}

func TestCanRollbackTo_ExcludesCoveredRecords(t *testing.T) {
	coveredBy := int64(3)
	r1 := editRecord(1, "a.go")
	r2 := editRecord(2, "a.go")
	r2.CoveredByRollbackID = &coveredBy
	r3 := rollbackRecord(3, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r3, r2, r1}

	assert.False(t, CanRollbackTo(r2, fileRecords), "covered records are excluded as destinations")
}

func TestStatusOf(t *testing.T) {
	r1 := editRecord(1, "a.go")
	r2 := rollbackRecord(2, "a.go", 1)
	fileRecords := []*models.ChangeRecord{r2, r1}

	status1 := StatusOf(r1, fileRecords)
	assert.False(t, status1.IsLatestForFile)
	assert.True(t, status1.IsRollbackTarget)
	assert.False(t, status1.CanRestore)
	assert.False(t, status1.CanRollbackTo)

	status2 := StatusOf(r2, fileRecords)
	assert.True(t, status2.IsLatestForFile)
	assert.False(t, status2.IsRollbackTarget)
	assert.True(t, status2.CanRestore)
	assert.False(t, status2.CanRollbackTo)
}
