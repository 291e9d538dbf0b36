// Package store defines the persistence ports the scoreboard depends on.
package store

import (
	"context"

	"chores/internal/core"
)

// Ports for outbound adapters.
type (
	ChoreReader interface {
		// ListChores returns the catalog ordered by name.
		ListChores(ctx context.Context) ([]core.Chore, error)
		GetChore(ctx context.Context, id string) (core.Chore, error)
	}

	ChoreWriter interface {
		CreateChore(ctx context.Context, c core.Chore) (core.Chore, error)
		UpdateChore(ctx context.Context, id string, u core.ChoreUpdate) (core.Chore, error)
		DeleteChore(ctx context.Context, id string) error
	}

	LogReader interface {
		// ListLogs returns the logs matching f, newest date first and, within
		// a day, most recently recorded first.
		ListLogs(ctx context.Context, f LogFilter) ([]core.ChoreLog, error)
	}

	// LogWriter persists logs. CreateLog assigns an ID when l.ID is empty.
	LogWriter interface {
		CreateLog(ctx context.Context, l core.ChoreLog) (core.ChoreLog, error)
		DeleteLog(ctx context.Context, id string) error
	}

	Store interface {
		ChoreReader
		ChoreWriter
		LogReader
		LogWriter
	}
)

// LogFilter narrows ListLogs. Zero-valued fields are ignored.
type LogFilter struct {
	Date    core.Date    // exact day
	Partner core.Partner // one partner only
	Since   core.Date    // on or after
}

// Match reports whether l passes every set field of f.
func (f LogFilter) Match(l core.ChoreLog) bool {
	day := core.DateOf(l.Date.Time)
	if !f.Date.IsZero() && !day.Equal(f.Date.Time) {
		return false
	}
	if f.Partner != "" && l.Partner != f.Partner {
		return false
	}
	if !f.Since.IsZero() && day.Before(f.Since.Time) {
		return false
	}
	return true
}
