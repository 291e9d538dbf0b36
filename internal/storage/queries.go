package storage

import (
	"context"
	"database/sql"
)

const choreColumns = `id, name, category, points, is_negative`

const logColumns = `id, chore_id, partner, log_date, points, mirror_status`

const listChores = `SELECT ` + choreColumns + ` FROM chores ORDER BY name, id`

func (q *Queries) ListChores(ctx context.Context) ([]Chore, error) {
	rows, err := q.db.QueryContext(ctx, listChores)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Chore
	for rows.Next() {
		var i Chore
		if err := rows.Scan(&i.ID, &i.Name, &i.Category, &i.Points, &i.IsNegative); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getChore = `SELECT ` + choreColumns + ` FROM chores WHERE id = ?`

func (q *Queries) GetChore(ctx context.Context, id string) (Chore, error) {
	row := q.db.QueryRowContext(ctx, getChore, id)
	var i Chore
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Points, &i.IsNegative)
	return i, err
}

const createChore = `INSERT INTO chores (id, name, category, points, is_negative)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + choreColumns

type CreateChoreParams struct {
	ID         string
	Name       string
	Category   string
	Points     int64
	IsNegative bool
}

func (q *Queries) CreateChore(ctx context.Context, arg CreateChoreParams) (Chore, error) {
	row := q.db.QueryRowContext(ctx, createChore,
		arg.ID,
		arg.Name,
		arg.Category,
		arg.Points,
		arg.IsNegative,
	)
	var i Chore
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Points, &i.IsNegative)
	return i, err
}

const updateChore = `UPDATE chores
SET name = ?, category = ?, points = ?, is_negative = ?
WHERE id = ?
RETURNING ` + choreColumns

type UpdateChoreParams struct {
	Name       string
	Category   string
	Points     int64
	IsNegative bool
	ID         string
}

func (q *Queries) UpdateChore(ctx context.Context, arg UpdateChoreParams) (Chore, error) {
	row := q.db.QueryRowContext(ctx, updateChore,
		arg.Name,
		arg.Category,
		arg.Points,
		arg.IsNegative,
		arg.ID,
	)
	var i Chore
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Points, &i.IsNegative)
	return i, err
}

const deleteChore = `DELETE FROM chores WHERE id = ?`

func (q *Queries) DeleteChore(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteChore, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Empty parameters disable their condition.
const listLogs = `SELECT ` + logColumns + ` FROM chore_logs
WHERE (? = '' OR log_date = ?)
  AND (? = '' OR partner = ?)
  AND (? = '' OR log_date >= ?)
ORDER BY log_date DESC, rowid DESC`

type ListLogsParams struct {
	LogDate string
	Partner string
	Since   string
}

func (q *Queries) ListLogs(ctx context.Context, arg ListLogsParams) ([]ChoreLog, error) {
	rows, err := q.db.QueryContext(ctx, listLogs,
		arg.LogDate, arg.LogDate,
		arg.Partner, arg.Partner,
		arg.Since, arg.Since,
	)
	if err != nil {
		return nil, err
	}
	return scanLogs(rows)
}

const getLog = `SELECT ` + logColumns + ` FROM chore_logs WHERE id = ?`

func (q *Queries) GetLog(ctx context.Context, id string) (ChoreLog, error) {
	row := q.db.QueryRowContext(ctx, getLog, id)
	var i ChoreLog
	err := row.Scan(&i.ID, &i.ChoreID, &i.Partner, &i.LogDate, &i.Points, &i.MirrorStatus)
	return i, err
}

const createLog = `INSERT INTO chore_logs (id, chore_id, partner, log_date, points)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + logColumns

type CreateLogParams struct {
	ID      string
	ChoreID string
	Partner string
	LogDate string
	Points  int64
}

func (q *Queries) CreateLog(ctx context.Context, arg CreateLogParams) (ChoreLog, error) {
	row := q.db.QueryRowContext(ctx, createLog,
		arg.ID,
		arg.ChoreID,
		arg.Partner,
		arg.LogDate,
		arg.Points,
	)
	var i ChoreLog
	err := row.Scan(&i.ID, &i.ChoreID, &i.Partner, &i.LogDate, &i.Points, &i.MirrorStatus)
	return i, err
}

const deleteLog = `DELETE FROM chore_logs WHERE id = ?`

func (q *Queries) DeleteLog(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLog, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPendingMirrorLogs = `SELECT ` + logColumns + ` FROM chore_logs
WHERE mirror_status = 'pending'
ORDER BY rowid
LIMIT ?`

func (q *Queries) GetPendingMirrorLogs(ctx context.Context, limit int64) ([]ChoreLog, error) {
	rows, err := q.db.QueryContext(ctx, getPendingMirrorLogs, limit)
	if err != nil {
		return nil, err
	}
	return scanLogs(rows)
}

const getLogDetail = `SELECT l.id, l.chore_id, l.partner, l.log_date, l.points,
       COALESCE(c.name, '') AS chore_name,
       COALESCE(c.category, '') AS category
FROM chore_logs l
LEFT JOIN chores c ON c.id = l.chore_id
WHERE l.id = ?`

type GetLogDetailRow struct {
	ID        string
	ChoreID   string
	Partner   string
	LogDate   string
	Points    int64
	ChoreName string
	Category  string
}

func (q *Queries) GetLogDetail(ctx context.Context, id string) (GetLogDetailRow, error) {
	row := q.db.QueryRowContext(ctx, getLogDetail, id)
	var i GetLogDetailRow
	err := row.Scan(&i.ID, &i.ChoreID, &i.Partner, &i.LogDate, &i.Points, &i.ChoreName, &i.Category)
	return i, err
}

const setLogMirrorStatus = `UPDATE chore_logs SET mirror_status = ? WHERE id = ?`

func (q *Queries) SetLogMirrorStatus(ctx context.Context, status, id string) error {
	_, err := q.db.ExecContext(ctx, setLogMirrorStatus, status, id)
	return err
}

func scanLogs(rows *sql.Rows) ([]ChoreLog, error) {
	defer rows.Close()
	var items []ChoreLog
	for rows.Next() {
		var i ChoreLog
		if err := rows.Scan(&i.ID, &i.ChoreID, &i.Partner, &i.LogDate, &i.Points, &i.MirrorStatus); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
