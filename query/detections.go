package query

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"phishsafe/entity"
)

type detectionRow struct {
	ID             int64  `db:"id"`
	CheckID        string `db:"check_id"`
	CheckedAt      string `db:"checked_at"`
	Recording      bool   `db:"recording"`
	MatchedProcess string `db:"matched_process"`
	Keyword        string `db:"keyword"`
	Policy         string `db:"policy"`
}

func (r detectionRow) record() (entity.DetectionRecord, error) {
	at, err := time.Parse(timeLayout, r.CheckedAt)
	if err != nil {
		return entity.DetectionRecord{}, fmt.Errorf("detection %d: bad checked_at: %w", r.ID, err)
	}
	return entity.DetectionRecord{
		ID:             r.ID,
		CheckID:        r.CheckID,
		CheckedAt:      at,
		Recording:      r.Recording,
		MatchedProcess: r.MatchedProcess,
		Keyword:        r.Keyword,
		Policy:         r.Policy,
	}, nil
}

// fixed width so that text ordering is chronological
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const detectionColumns = `id, check_id, checked_at, recording, matched_process, keyword, policy`

func (db *Database) SaveDetection(d entity.DetectionRecord) (int64, error) {
	res, err := db.Exec(`
        INSERT INTO detections
        (check_id, checked_at, recording, matched_process, keyword, policy)
        VALUES (?, ?, ?, ?, ?, ?)`,
		d.CheckID,
		d.CheckedAt.UTC().Format(timeLayout),
		d.Recording,
		d.MatchedProcess,
		d.Keyword,
		d.Policy,
	)
	if err != nil {
		return 0, fmt.Errorf("SaveDetection: %w", err)
	}
	return res.LastInsertId()
}

// GetDetections returns the most recent records first. limit <= 0 means no limit.
func (db *Database) GetDetections(limit int) ([]entity.DetectionRecord, error) {
	rows := []detectionRow{}
	q := `SELECT ` + detectionColumns + ` FROM detections ORDER BY checked_at DESC, id DESC`
	var err error
	if limit > 0 {
		err = db.Select(&rows, q+` LIMIT ?`, limit)
	} else {
		err = db.Select(&rows, q)
	}
	if err != nil {
		return nil, fmt.Errorf("GetDetections: %w", err)
	}
	out := make([]entity.DetectionRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, fmt.Errorf("GetDetections: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (db *Database) GetDetection(id int64) (entity.DetectionRecord, error) {
	var row detectionRow
	err := db.Get(&row, `SELECT `+detectionColumns+` FROM detections WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DetectionRecord{}, ErrNotFound
	}
	if err != nil {
		return entity.DetectionRecord{}, fmt.Errorf("GetDetection: %w", err)
	}
	rec, err := row.record()
	if err != nil {
		return entity.DetectionRecord{}, fmt.Errorf("GetDetection: %w", err)
	}
	return rec, nil
}

// DeleteDetections removes the given ids and reports which ones existed.
func (db *Database) DeleteDetections(ids []int64) (deleted, notFound []int64, err error) {
	deleted, notFound = []int64{}, []int64{}
	tx, err := db.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("DeleteDetections: %w", err)
	}
	for _, id := range ids {
		res, err := tx.Exec(`DELETE FROM detections WHERE id = ?`, id)
		if err != nil {
			tx.Rollback()
			return nil, nil, fmt.Errorf("DeleteDetections: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return nil, nil, fmt.Errorf("DeleteDetections: %w", err)
		}
		if n > 0 {
			deleted = append(deleted, id)
		} else {
			notFound = append(notFound, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("DeleteDetections: %w", err)
	}
	return deleted, notFound, nil
}

type DetectionStats struct {
	Total     int    `db:"total" json:"total"`
	Recording int    `db:"recording" json:"recording"`
	LastSeen  string `db:"last_seen" json:"last_seen"`
}

// GetDetectionStats counts all checks, positive checks, and the time of the
// latest positive one.
func (db *Database) GetDetectionStats() (DetectionStats, error) {
	var s DetectionStats
	err := db.Get(&s, `
	SELECT COUNT(*) AS total,
	       COALESCE(SUM(CASE WHEN recording THEN 1 ELSE 0 END), 0) AS recording,
	       COALESCE(MAX(CASE WHEN recording THEN checked_at END), '') AS last_seen
	FROM detections`)
	if err != nil {
		return DetectionStats{}, fmt.Errorf("GetDetectionStats: %w", err)
	}
	return s, nil
}
