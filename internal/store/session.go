package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one completed gesture volume control run.
type Session struct {
	ID         string
	StartedAt  time.Time
	StoppedAt  time.Time
	Frames     int
	HandFrames int
	MinLevel   float64
	MaxLevel   float64
	FinalLevel float64
	Endpoint   string
}

// SessionRepository provides access to recorded volume sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a completed session.
func (r *SessionRepository) Create(sess *Session) error {
	_, err := r.db.Exec(
		`INSERT INTO volume_sessions (id, started_at, stopped_at, frames, hand_frames, min_level, max_level, final_level, endpoint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.StoppedAt, sess.Frames, sess.HandFrames,
		sess.MinLevel, sess.MaxLevel, sess.FinalLevel, sess.Endpoint,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, started_at, stopped_at, frames, hand_frames, min_level, max_level, final_level, endpoint
		 FROM volume_sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &sess.StoppedAt, &sess.Frames, &sess.HandFrames,
		&sess.MinLevel, &sess.MaxLevel, &sess.FinalLevel, &sess.Endpoint)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// Recent retrieves the newest sessions, most recent first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, stopped_at, frames, hand_frames, min_level, max_level, final_level, endpoint
		 FROM volume_sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}

		err := rows.Scan(&sess.ID, &sess.StartedAt, &sess.StoppedAt, &sess.Frames, &sess.HandFrames,
			&sess.MinLevel, &sess.MaxLevel, &sess.FinalLevel, &sess.Endpoint)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
