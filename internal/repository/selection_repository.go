package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/program-selection/internal/model"
)

// SelectionRepo provides data access to the selections table.  Rows are only
// ever inserted and listed.
type SelectionRepo struct {
	db *sql.DB
}

// NewSelectionRepo returns a new SelectionRepo bound to the provided database.
func NewSelectionRepo(db *sql.DB) *SelectionRepo { return &SelectionRepo{db: db} }

// Create inserts a fully populated selection.  The caller generates the id
// and timestamp; the record is stored as given.
func (r *SelectionRepo) Create(ctx context.Context, s *model.Selection) error {
	const q = `INSERT INTO selections (id, program_id, program_name, selected_at, user_session)
	           VALUES (?, ?, ?, ?, ?)`
	var session sql.NullString
	if s.UserSession != nil {
		session = sql.NullString{String: *s.UserSession, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, q, s.ID, s.ProgramID, s.ProgramName, s.SelectedAt, session); err != nil {
		return fmt.Errorf("insert selection: %w", err)
	}
	return nil
}

// ListRecent returns every selection, most recent first.  Rows with equal
// timestamps are ordered by insertion, latest first.
func (r *SelectionRepo) ListRecent(ctx context.Context) ([]model.Selection, error) {
	const q = `SELECT id, program_id, program_name, selected_at, user_session
	           FROM selections ORDER BY selected_at DESC, seq DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()

	out := make([]model.Selection, 0)
	for rows.Next() {
		var (
			s       model.Selection
			session sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.ProgramName, &s.SelectedAt, &session); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		if session.Valid {
			v := session.String
			s.UserSession = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return out, nil
}
