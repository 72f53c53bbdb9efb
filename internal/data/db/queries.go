package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q that runs on tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ToastHistory is a row of the toast_history table. Times are Unix nanoseconds.
type ToastHistory struct {
	ID         int64
	ToastID    string
	Kind       string
	Title      string
	Detail     string
	DurationMs int64
	Reason     string
	CreatedAt  int64
	RemovedAt  int64
}

type InsertToastHistoryParams struct {
	ToastID    string
	Kind       string
	Title      string
	Detail     string
	DurationMs int64
	Reason     string
	CreatedAt  int64
	RemovedAt  int64
}

const insertToastHistory = `
INSERT INTO toast_history (toast_id, kind, title, detail, duration_ms, reason, created_at, removed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

func (q *Queries) InsertToastHistory(ctx context.Context, arg InsertToastHistoryParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertToastHistory,
		arg.ToastID,
		arg.Kind,
		arg.Title,
		arg.Detail,
		arg.DurationMs,
		arg.Reason,
		arg.CreatedAt,
		arg.RemovedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listToastHistory = `
SELECT id, toast_id, kind, title, detail, duration_ms, reason, created_at, removed_at
FROM toast_history
ORDER BY removed_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListToastHistory(ctx context.Context, limit int64) ([]ToastHistory, error) {
	rows, err := q.db.QueryContext(ctx, listToastHistory, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ToastHistory
	for rows.Next() {
		var i ToastHistory
		if err := rows.Scan(
			&i.ID,
			&i.ToastID,
			&i.Kind,
			&i.Title,
			&i.Detail,
			&i.DurationMs,
			&i.Reason,
			&i.CreatedAt,
			&i.RemovedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countToastHistory = `SELECT COUNT(*) FROM toast_history`

func (q *Queries) CountToastHistory(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countToastHistory).Scan(&count)
	return count, err
}

const deleteAllToastHistory = `DELETE FROM toast_history`

func (q *Queries) DeleteAllToastHistory(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllToastHistory)
	return err
}

const deleteToastHistoryBefore = `DELETE FROM toast_history WHERE removed_at < ?`

func (q *Queries) DeleteToastHistoryBefore(ctx context.Context, before int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteToastHistoryBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
