package history

import "filetrail/internal/models"

// Derived status is computed purely over a file's full record list so it can
// be tested without a store. fileRecords must contain every record for the
// file in question; order does not matter.

// IsLatestForFile reports whether r has the maximum ID among the file's
// records.
func IsLatestForFile(r *models.ChangeRecord, fileRecords []*models.ChangeRecord) bool {
	for _, other := range fileRecords {
		if other.ID > r.ID {
			return false
		}
	}
	return true
}

// IsRollbackTarget reports whether some rollback record in the file's history
// references r as its target.
func IsRollbackTarget(r *models.ChangeRecord, fileRecords []*models.ChangeRecord) bool {
	for _, other := range fileRecords {
		if other.IsRollback() && other.RollbackToID != nil && *other.RollbackToID == r.ID {
			return true
		}
	}
	return false
}

// CanRestore reports whether r is a rollback record that is still the latest
// record of its file. A rollback that was followed by another edit or
// rollback can no longer be cleanly undone.
func CanRestore(r *models.ChangeRecord, fileRecords []*models.ChangeRecord) bool {
	return r.IsRollback() && IsLatestForFile(r, fileRecords)
}

// CanRollbackTo reports whether r is a valid rollback destination: an active
// edit record that is not already the target of an existing rollback.
// Covered records stay visible for audit but are excluded as destinations.
func CanRollbackTo(r *models.ChangeRecord, fileRecords []*models.ChangeRecord) bool {
	if r.IsCovered() || r.IsRollback() {
		return false
	}
	return !IsRollbackTarget(r, fileRecords)
}

// StatusOf computes all four derived flags for r within its file's history.
func StatusOf(r *models.ChangeRecord, fileRecords []*models.ChangeRecord) models.RecordStatus {
	return models.RecordStatus{
		IsLatestForFile:  IsLatestForFile(r, fileRecords),
		IsRollbackTarget: IsRollbackTarget(r, fileRecords),
		CanRestore:       CanRestore(r, fileRecords),
		CanRollbackTo:    CanRollbackTo(r, fileRecords),
	}
}
