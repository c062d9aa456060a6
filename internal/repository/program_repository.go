// Package repository contains data access logic separated from HTTP handlers.
// This file defines queries over the programs table: the ordered listing, the
// lookup by id and the batch replacement used by the catalog seeder.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/program-selection/internal/model"
)

// ProgramRepo encapsulates all database queries related to programs.  It
// depends on a sql.DB connection which should be configured elsewhere.
type ProgramRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewProgramRepo constructs a ProgramRepo with the provided DB handle.
func NewProgramRepo(db *sql.DB) *ProgramRepo {
	return &ProgramRepo{db: db}
}

// ListAll returns every program ordered by name.  The column uses a binary
// collation so the order is plain byte-wise lexicographic.  An empty catalog
// yields an empty, non-nil slice.
func (r *ProgramRepo) ListAll(ctx context.Context) ([]model.Program, error) {
	const q = `SELECT id, name, title, description, created_at
	           FROM programs ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	out := make([]model.Program, 0, 16)
	for rows.Next() {
		var p model.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return out, nil
}

// GetByID fetches a program by its exact id.  It returns ErrProgramNotFound
// if no row matches; there is no partial or case-insensitive fallback.
func (r *ProgramRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	const q = `SELECT id, name, title, description, created_at
	           FROM programs WHERE id = ?`
	var p model.Program
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Title, &p.Description, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("get program %s: %w", id, err)
	}
	return &p, nil
}

// ReplaceAll deletes every stored program and inserts the given batch in a
// single transaction.  Selections that referenced the previous batch are left
// in place and become orphaned.
func (r *ProgramRepo) ReplaceAll(ctx context.Context, programs []model.Program) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM programs`); err != nil {
		return fmt.Errorf("delete programs: %w", err)
	}
	if len(programs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(programs))
	args := make([]any, 0, len(programs)*5)
	for _, p := range programs {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
		args = append(args, p.ID, p.Name, p.Title, p.Description, p.CreatedAt)
	}
	q := "INSERT INTO programs (id, name, title, description, created_at) VALUES " +
		strings.Join(placeholders, ", ")
	if _, err = tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert programs: %w", err)
	}
	return nil
}
