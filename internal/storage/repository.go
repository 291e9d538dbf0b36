package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"chores/internal/core"
	"chores/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListChores(ctx context.Context) ([]core.Chore, error) {
	rows, err := r.queries.ListChores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	out := make([]core.Chore, len(rows))
	for i, c := range rows {
		out[i] = toCoreChore(c)
	}
	return out, nil
}

func (r *SQLiteRepository) GetChore(ctx context.Context, id string) (core.Chore, error) {
	c, err := r.queries.GetChore(ctx, id)
	if err != nil {
		return core.Chore{}, notFound(err, "chore", id)
	}
	return toCoreChore(c), nil
}

func (r *SQLiteRepository) CreateChore(ctx context.Context, c core.Chore) (core.Chore, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Category = strings.TrimSpace(c.Category)
	if err := c.Validate(); err != nil {
		return core.Chore{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	created, err := r.queries.CreateChore(ctx, CreateChoreParams{
		ID:         c.ID,
		Name:       c.Name,
		Category:   c.Category,
		Points:     int64(c.Points),
		IsNegative: c.IsNegative,
	})
	if err != nil {
		return core.Chore{}, fmt.Errorf("create chore: %w", err)
	}

	slog.InfoContext(ctx, "Chore saved to SQLite",
		"id", created.ID,
		"name", created.Name,
		"points", created.Points,
		"negative", created.IsNegative)

	return toCoreChore(created), nil
}

// UpdateChore applies u inside a transaction. Logs already recorded keep
// the points they were created with.
func (r *SQLiteRepository) UpdateChore(ctx context.Context, id string, u core.ChoreUpdate) (core.Chore, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Chore{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	current, err := q.GetChore(ctx, id)
	if err != nil {
		return core.Chore{}, notFound(err, "chore", id)
	}
	next := u.Apply(toCoreChore(current))
	if err := next.Validate(); err != nil {
		return core.Chore{}, err
	}
	updated, err := q.UpdateChore(ctx, UpdateChoreParams{
		Name:       next.Name,
		Category:   next.Category,
		Points:     int64(next.Points),
		IsNegative: next.IsNegative,
		ID:         id,
	})
	if err != nil {
		return core.Chore{}, fmt.Errorf("update chore: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Chore{}, fmt.Errorf("commit: %w", err)
	}
	return toCoreChore(updated), nil
}

func (r *SQLiteRepository) DeleteChore(ctx context.Context, id string) error {
	n, err := r.queries.DeleteChore(ctx, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("chore %q: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Chore deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListLogs(ctx context.Context, f store.LogFilter) ([]core.ChoreLog, error) {
	rows, err := r.queries.ListLogs(ctx, ListLogsParams{
		LogDate: f.Date.String(),
		Partner: string(f.Partner),
		Since:   f.Since.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	out := make([]core.ChoreLog, 0, len(rows))
	for _, l := range rows {
		cl, err := toCoreLog(l)
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateLog(ctx context.Context, l core.ChoreLog) (core.ChoreLog, error) {
	if err := l.Validate(); err != nil {
		return core.ChoreLog{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	created, err := r.queries.CreateLog(ctx, CreateLogParams{
		ID:      l.ID,
		ChoreID: l.ChoreID,
		Partner: string(l.Partner),
		LogDate: l.Date.String(),
		Points:  int64(l.Points),
	})
	if err != nil {
		return core.ChoreLog{}, fmt.Errorf("create log: %w", err)
	}

	slog.InfoContext(ctx, "Chore log saved to SQLite",
		"id", created.ID,
		"chore_id", created.ChoreID,
		"partner", created.Partner,
		"date", created.LogDate,
		"points", created.Points)

	return toCoreLog(created)
}

func (r *SQLiteRepository) DeleteLog(ctx context.Context, id string) error {
	n, err := r.queries.DeleteLog(ctx, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("log %q: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Chore log deleted", "id", id)
	return nil
}

// GetPendingMirrorLogs returns up to limit logs not yet exported, oldest first.
func (r *SQLiteRepository) GetPendingMirrorLogs(ctx context.Context, limit int) ([]core.ChoreLog, error) {
	rows, err := r.queries.GetPendingMirrorLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending mirror logs: %w", err)
	}
	out := make([]core.ChoreLog, 0, len(rows))
	for _, l := range rows {
		cl, err := toCoreLog(l)
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, nil
}

// GetLogDetail joins a log with its chore. Name and category are empty when
// the chore has been deleted since.
func (r *SQLiteRepository) GetLogDetail(ctx context.Context, id string) (core.LogDetail, error) {
	row, err := r.queries.GetLogDetail(ctx, id)
	if err != nil {
		return core.LogDetail{}, notFound(err, "log", id)
	}
	l, err := toCoreLog(ChoreLog{
		ID:      row.ID,
		ChoreID: row.ChoreID,
		Partner: row.Partner,
		LogDate: row.LogDate,
		Points:  row.Points,
	})
	if err != nil {
		return core.LogDetail{}, err
	}
	return core.LogDetail{ChoreLog: l, ChoreName: row.ChoreName, Category: row.Category}, nil
}

// LogMirrorStatus returns one of MirrorPending, MirrorMirrored or MirrorError.
func (r *SQLiteRepository) LogMirrorStatus(ctx context.Context, id string) (string, error) {
	l, err := r.queries.GetLog(ctx, id)
	if err != nil {
		return "", notFound(err, "log", id)
	}
	return l.MirrorStatus, nil
}

// MarkLogMirrored marks a log as successfully exported
func (r *SQLiteRepository) MarkLogMirrored(ctx context.Context, id string) error {
	if err := r.queries.SetLogMirrorStatus(ctx, MirrorMirrored, id); err != nil {
		return fmt.Errorf("mark log mirrored: %w", err)
	}
	slog.InfoContext(ctx, "Chore log marked as mirrored", "id", id)
	return nil
}

// MarkLogMirrorError marks a log as having export errors
func (r *SQLiteRepository) MarkLogMirrorError(ctx context.Context, id string) error {
	if err := r.queries.SetLogMirrorStatus(ctx, MirrorError, id); err != nil {
		return fmt.Errorf("mark log mirror error: %w", err)
	}
	slog.WarnContext(ctx, "Chore log marked with mirror error", "id", id)
	return nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, id, core.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", kind, err)
}

func toCoreChore(c Chore) core.Chore {
	return core.Chore{
		ID:         c.ID,
		Name:       c.Name,
		Category:   c.Category,
		Points:     int(c.Points),
		IsNegative: c.IsNegative,
	}
}

func toCoreLog(l ChoreLog) (core.ChoreLog, error) {
	d, err := core.ParseDate(l.LogDate)
	if err != nil {
		return core.ChoreLog{}, fmt.Errorf("log %s has malformed date %q: %w", l.ID, l.LogDate, err)
	}
	return core.ChoreLog{
		ID:      l.ID,
		ChoreID: l.ChoreID,
		Partner: core.Partner(l.Partner),
		Date:    d,
		Points:  int(l.Points),
	}, nil
}
