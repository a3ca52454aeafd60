package changestore

import (
	"database/sql"
	"errors"
	"fmt"

	"filetrail/internal/models"
)

const recordColumns = `id, file_path, old_content, new_content, diff, content_hash,
	lines_added, lines_removed, batch_id, operation_type, rollback_to_id,
	covered_by_rollback_id, created_at`

// GetByID returns the record with the given ID, or models.ErrRecordNotFound
// when no such record exists.
func (s *ChangeStore) GetByID(id int64) (*models.ChangeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM change_records WHERE id = ?`, recordColumns)
	record, err := scanRecord(s.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", models.ErrRecordNotFound, id)
		}
		return nil, storageError(err, "failed to query record by id")
	}
	return record, nil
}

// GetByFile returns the records for filePath ordered by ID descending, most
// recent first. A limit <= 0 returns the file's full history.
func (s *ChangeStore) GetByFile(filePath string, limit int) ([]*models.ChangeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM change_records WHERE file_path = ? ORDER BY id DESC`, recordColumns)
	args := []any{filePath}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRecords(query, args...)
}

// GetRecent returns the most recent records across all files, ordered by ID
// descending, capped at limit.
func (s *ChangeStore) GetRecent(limit int) ([]*models.ChangeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM change_records ORDER BY id DESC LIMIT ?`, recordColumns)
	return s.queryRecords(query, limit)
}

// GetByBatch returns the records sharing batchID, ordered by ID descending.
func (s *ChangeStore) GetByBatch(batchID string) ([]*models.ChangeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM change_records WHERE batch_id = ? ORDER BY id DESC`, recordColumns)
	return s.queryRecords(query, batchID)
}

// Count returns the total number of records in the store.
func (s *ChangeStore) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM change_records`).Scan(&count); err != nil {
		return 0, storageError(err, "failed to count records")
	}
	return count, nil
}

func (s *ChangeStore) queryRecords(query string, args ...any) ([]*models.ChangeRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query change records")
	}
	defer rows.Close()

	var records []*models.ChangeRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan change record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate change records")
	}
	return records, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ChangeRecord, error) {
	var record models.ChangeRecord
	var batchID sql.NullString
	var rollbackToID, coveredByRollbackID sql.NullInt64
	var operationType string

	err := row.Scan(
		&record.ID, &record.FilePath, &record.OldContent, &record.NewContent,
		&record.Diff, &record.ContentHash, &record.LinesAdded, &record.LinesRemoved,
		&batchID, &operationType, &rollbackToID, &coveredByRollbackID,
		&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	record.OperationType = models.OperationType(operationType)
	if batchID.Valid {
		record.BatchID = &batchID.String
	}
	if rollbackToID.Valid {
		record.RollbackToID = &rollbackToID.Int64
	}
	if coveredByRollbackID.Valid {
		record.CoveredByRollbackID = &coveredByRollbackID.Int64
	}
	return &record, nil
}
