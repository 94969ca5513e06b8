package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// CommandStatus records whether a dispatched command succeeded.
type CommandStatus string

const (
	// CommandStatusOK marks a command that completed normally.
	CommandStatusOK CommandStatus = "ok"
	// CommandStatusError marks a command that failed.
	CommandStatusError CommandStatus = "error"
)

// Command represents one dispatched assistant command.
type Command struct {
	ID        string
	Text      string
	Action    string
	Argument  string
	Status    CommandStatus
	Error     string
	CreatedAt time.Time
}

// CommandRepository provides access to the command history.
type CommandRepository struct {
	db *sql.DB
}

// Commands returns the command repository for this store.
func (s *Store) Commands() *CommandRepository {
	return &CommandRepository{db: s.db}
}

// Create inserts a new command record.
func (r *CommandRepository) Create(c *Command) error {
	c.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO commands (id, text, action, argument, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Text, c.Action, c.Argument, string(c.Status), c.Error, c.CreatedAt,
	)
	return err
}

// GetByID retrieves a command by its ID.
func (r *CommandRepository) GetByID(id string) (*Command, error) {
	c := &Command{}
	var status string

	err := r.db.QueryRow(
		`SELECT id, text, action, argument, status, error, created_at
		 FROM commands WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Text, &c.Action, &c.Argument, &status, &c.Error, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Status = CommandStatus(status)
	return c, nil
}

// Recent retrieves the newest commands, most recent first.
func (r *CommandRepository) Recent(limit int) ([]*Command, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, text, action, argument, status, error, created_at
		 FROM commands ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commands []*Command
	for rows.Next() {
		c := &Command{}
		var status string

		err := rows.Scan(&c.ID, &c.Text, &c.Action, &c.Argument, &status, &c.Error, &c.CreatedAt)
		if err != nil {
			return nil, err
		}

		c.Status = CommandStatus(status)
		commands = append(commands, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commands, nil
}
