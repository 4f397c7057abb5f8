package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// SQLiteAdapter is the local progress store used by the CLI and by
// PROGRESS_BACKEND=sqlite deployments.
type SQLiteAdapter struct {
	DB *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS completions (
	user_id TEXT NOT NULL,
	exercise_id TEXT NOT NULL,
	name TEXT NOT NULL,
	xp_gained INTEGER NOT NULL,
	completed_at INTEGER NOT NULL,
	day TEXT NOT NULL,
	PRIMARY KEY (user_id, exercise_id, day)
);
CREATE INDEX IF NOT EXISTS idx_completions_user_time ON completions(user_id, completed_at);

CREATE TABLE IF NOT EXISTS progress (
	user_id TEXT PRIMARY KEY,
	generation INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS executions (
	execution_id TEXT PRIMARY KEY,
	service TEXT NOT NULL,
	status INTEGER NOT NULL,
	timestamp INTEGER,
	start_time INTEGER,
	end_time INTEGER,
	user_id TEXT,
	trigger_type TEXT,
	inputs_json TEXT,
	outputs_json TEXT,
	error_message TEXT
);
`

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteAdapter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteAdapter{DB: db}, nil
}

func (a *SQLiteAdapter) Close() error {
	return a.DB.Close()
}

// --- Executions ---

func (a *SQLiteAdapter) SetExecution(ctx context.Context, r *types.ExecutionRecord) error {
	_, err := a.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO executions
			(execution_id, service, status, timestamp, start_time, end_time, user_id, trigger_type, inputs_json, outputs_json, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ExecutionID, r.Service, int32(r.Status),
		tsNanos(r.Timestamp), tsNanos(r.StartTime), tsNanos(r.EndTime),
		r.UserID, r.TriggerType, r.InputsJSON, r.OutputsJSON, r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert execution %s: %w", r.ExecutionID, err)
	}
	return nil
}

var executionColumns = map[string]bool{
	"status": true, "timestamp": true, "start_time": true, "end_time": true,
	"user_id": true, "trigger_type": true, "inputs_json": true,
	"outputs_json": true, "error_message": true,
}

// UpdateExecution applies a partial update. Unknown keys are rejected.
func (a *SQLiteAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if !executionColumns[k] {
			return fmt.Errorf("update execution %s: unknown field %q", id, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = k + " = ?"
		v := data[k]
		if t, ok := v.(time.Time); ok {
			v = t.UnixNano()
		}
		args = append(args, v)
	}
	args = append(args, id)

	query := "UPDATE executions SET " + strings.Join(sets, ", ") + " WHERE execution_id = ?"
	if _, err := a.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update execution %s: %w", id, err)
	}
	return nil
}

// --- Progress ---

func (a *SQLiteAdapter) GetProgress(ctx context.Context, userID string) (*progress.Snapshot, error) {
	snap := &progress.Snapshot{}

	err := a.DB.QueryRowContext(ctx, `SELECT generation FROM progress WHERE user_id = ?`, userID).Scan(&snap.Generation)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get generation for %s: %w", userID, err)
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT exercise_id, name, xp_gained, completed_at
		FROM completions WHERE user_id = ?
		ORDER BY completed_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list completions for %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c progress.CompletedExercise
		var nanos int64
		if err := rows.Scan(&c.ID, &c.Name, &c.XPGained, &nanos); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.CompletedAt = time.Unix(0, nanos).UTC()
		snap.Completions = append(snap.Completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list completions for %s: %w", userID, err)
	}
	return snap, nil
}

// AddCompletion stores c once per exercise and calendar day.
func (a *SQLiteAdapter) AddCompletion(ctx context.Context, userID string, day progress.Day, c progress.CompletedExercise) (bool, error) {
	res, err := a.DB.ExecContext(ctx, `
		INSERT OR IGNORE INTO completions (user_id, exercise_id, name, xp_gained, completed_at, day)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, c.ID, c.Name, c.XPGained, c.CompletedAt.UnixNano(), day.String())
	if err != nil {
		return false, fmt.Errorf("insert completion %s/%s: %w", userID, c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert completion %s/%s: %w", userID, c.ID, err)
	}
	return n == 1, nil
}

func (a *SQLiteAdapter) ResetProgress(ctx context.Context, userID string) (int64, error) {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM completions WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("delete completions for %s: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO progress (user_id, generation) VALUES (?, 1)
		ON CONFLICT(user_id) DO UPDATE SET generation = generation + 1`, userID); err != nil {
		return 0, fmt.Errorf("bump generation for %s: %w", userID, err)
	}

	var generation int64
	if err := tx.QueryRowContext(ctx, `SELECT generation FROM progress WHERE user_id = ?`, userID).Scan(&generation); err != nil {
		return 0, fmt.Errorf("read generation for %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reset: %w", err)
	}
	return generation, nil
}
