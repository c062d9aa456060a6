package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements creating the two collections.  programs.name uses a binary
// collation so ORDER BY name is byte-wise (uppercase sorts first).
// Identifiers are VARBINARY so lookups match exactly: no case folding and
// no trailing-space padding.  Free-text columns from request bodies are
// TEXT because the API puts no length cap on them.
// selections.seq orders rows inserted within the same microsecond.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id          VARBINARY(36) NOT NULL,
		name        VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL,
		created_at  DATETIME(6)  NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS selections (
		seq          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		id           VARBINARY(36) NOT NULL,
		program_id   VARBINARY(36) NOT NULL,
		program_name TEXT          NOT NULL,
		selected_at  DATETIME(6)   NOT NULL,
		user_session TEXT          NULL,
		PRIMARY KEY (seq),
		UNIQUE KEY uq_selections_id (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the programs and selections tables when missing.
// Existing tables are left as they are.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
