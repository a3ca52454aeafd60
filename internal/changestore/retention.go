package changestore

import "time"

// PruneByAge deletes every record older than maxAgeDays and returns the
// number of rows deleted.
func (s *ChangeStore) PruneByAge(maxAgeDays int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	result, err := s.db.Exec(`DELETE FROM change_records WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune records by age")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to count pruned rows")
	}

	if count > 0 {
		s.logger.Info().
			Int("max_age_days", maxAgeDays).
			Int64("pruned", count).
			Msg("Pruned change records by age")
	}
	return count, nil
}

// PruneBySize retains the most recent maxRecords records by ID across the
// whole store and deletes the rest, returning the number of rows deleted.
func (s *ChangeStore) PruneBySize(maxRecords int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM change_records
		WHERE id NOT IN (SELECT id FROM change_records ORDER BY id DESC LIMIT ?)`
	result, err := s.db.Exec(query, maxRecords)
	if err != nil {
		return 0, storageError(err, "failed to prune records by size")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to count pruned rows")
	}

	if count > 0 {
		s.logger.Info().
			Int("max_records", maxRecords).
			Int64("pruned", count).
			Msg("Pruned change records by size")
	}
	return count, nil
}

// ClearAll deletes every record and returns the number of rows deleted.
func (s *ChangeStore) ClearAll() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`DELETE FROM change_records`)
	if err != nil {
		return 0, storageError(err, "failed to clear change records")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to count cleared rows")
	}

	s.logger.Info().Int64("cleared", count).Msg("Cleared all change records")
	return count, nil
}
