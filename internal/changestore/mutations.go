package changestore

import (
	"time"

	"filetrail/internal/models"
)

// InsertParams holds the fields for a new change record. ID and CreatedAt are
// assigned by the store.
type InsertParams struct {
	FilePath      string
	OldContent    string
	NewContent    string
	Diff          string
	ContentHash   string
	LinesAdded    int
	LinesRemoved  int
	BatchID       *string
	OperationType models.OperationType
	RollbackToID  *int64
}

// Insert appends a new change record and returns its assigned ID. The record
// is durable once Insert returns; nothing is buffered across restarts.
func (s *ChangeStore) Insert(params InsertParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.OperationType == "" {
		params.OperationType = models.OperationEdit
	}

	query := `INSERT INTO change_records
		(file_path, old_content, new_content, diff, content_hash,
		 lines_added, lines_removed, batch_id, operation_type, rollback_to_id,
		 covered_by_rollback_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)`

	result, err := s.db.Exec(query,
		params.FilePath, params.OldContent, params.NewContent, params.Diff,
		params.ContentHash, params.LinesAdded, params.LinesRemoved,
		nullableString(params.BatchID), string(params.OperationType),
		nullableInt64(params.RollbackToID), time.Now().UTC())
	if err != nil {
		return 0, storageError(err, "failed to insert change record")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageError(err, "failed to get last insert ID")
	}

	s.logger.Debug().
		Int64("id", id).
		Str("file_path", params.FilePath).
		Str("operation_type", string(params.OperationType)).
		Msg("Inserted change record")
	return id, nil
}

// MarkCoveredByRollback marks every active record of filePath inside the open
// interval (rollbackToID, rollbackID) as covered by rollbackID and returns
// the number of rows updated. Re-running with the same arguments affects 0
// rows.
func (s *ChangeStore) MarkCoveredByRollback(filePath string, rollbackID, rollbackToID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `UPDATE change_records
		SET covered_by_rollback_id = ?
		WHERE file_path = ? AND id > ? AND id < ? AND covered_by_rollback_id IS NULL`

	result, err := s.db.Exec(query, rollbackID, filePath, rollbackToID, rollbackID)
	if err != nil {
		return 0, storageError(err, "failed to mark records covered by rollback")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to count covered rows")
	}

	s.logger.Debug().
		Str("file_path", filePath).
		Int64("rollback_id", rollbackID).
		Int64("rollback_to_id", rollbackToID).
		Int64("covered", count).
		Msg("Marked records covered by rollback")
	return count, nil
}

// ClearCoveredByRollback reactivates every record covered by rollbackID and
// returns the number of rows updated.
func (s *ChangeStore) ClearCoveredByRollback(rollbackID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `UPDATE change_records
		SET covered_by_rollback_id = NULL
		WHERE covered_by_rollback_id = ?`

	result, err := s.db.Exec(query, rollbackID)
	if err != nil {
		return 0, storageError(err, "failed to clear rollback coverage")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to count cleared rows")
	}

	s.logger.Debug().
		Int64("rollback_id", rollbackID).
		Int64("cleared", count).
		Msg("Cleared rollback coverage")
	return count, nil
}

// DeleteByID removes the record with the given ID and reports whether a row
// was deleted.
func (s *ChangeStore) DeleteByID(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`DELETE FROM change_records WHERE id = ?`, id)
	if err != nil {
		return false, storageError(err, "failed to delete change record")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return false, storageError(err, "failed to count deleted rows")
	}
	return count > 0, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt64(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
