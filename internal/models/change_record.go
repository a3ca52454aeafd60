package models

import "time"

// OperationType distinguishes how a change record was produced.
type OperationType string

const (
	// OperationEdit marks a record produced by an ordinary file save.
	OperationEdit OperationType = "edit"
	// OperationRollback marks a record produced by a rollback action.
	OperationRollback OperationType = "rollback"
)

// ChangeRecord is one logged content transition for one file. Records form a
// linear, append-only history per file, ordered by ID. Records are never
// mutated after insert except for CoveredByRollbackID, which toggles between
// nil and the ID of the rollback record that superseded it.
type ChangeRecord struct {
	ID                  int64         `json:"id"`
	FilePath            string        `json:"file_path"`
	OldContent          string        `json:"old_content"`
	NewContent          string        `json:"new_content"`
	Diff                string        `json:"diff,omitempty"`
	ContentHash         string        `json:"content_hash,omitempty"`
	LinesAdded          int           `json:"lines_added"`
	LinesRemoved        int           `json:"lines_removed"`
	BatchID             *string       `json:"batch_id,omitempty"`
	OperationType       OperationType `json:"operation_type"`
	RollbackToID        *int64        `json:"rollback_to_id,omitempty"`
	CoveredByRollbackID *int64        `json:"covered_by_rollback_id,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
}

// IsRollback reports whether the record was produced by a rollback action.
func (r *ChangeRecord) IsRollback() bool {
	return r.OperationType == OperationRollback
}

// IsCovered reports whether a later rollback superseded this record.
func (r *ChangeRecord) IsCovered() bool {
	return r.CoveredByRollbackID != nil
}

// RecordStatus holds the derived, UI-relevant flags for one record within its
// file's history. The flags are recomputed from the full per-file record list
// and never stored.
type RecordStatus struct {
	IsLatestForFile  bool `json:"is_latest_for_file"`
	IsRollbackTarget bool `json:"is_rollback_target"`
	CanRestore       bool `json:"can_restore"`
	CanRollbackTo    bool `json:"can_rollback_to"`
}

// AnnotatedRecord pairs a change record with its derived status for the
// presentation layer.
type AnnotatedRecord struct {
	ChangeRecord
	Status RecordStatus `json:"status"`
}
