package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"chores/internal/core"
	"chores/internal/score"
	"chores/internal/store"
)

// Scoreboard feeds stored chores and logs through the score package.
// "Today" is the current calendar day in the configured location.
type Scoreboard struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewScoreboard(st store.Store, loc *time.Location) *Scoreboard {
	if loc == nil {
		loc = time.UTC
	}
	return &Scoreboard{store: st, loc: loc, now: time.Now}
}

// WithClock replaces the time source; used to pin "today" in tests.
func (s *Scoreboard) WithClock(now func() time.Time) *Scoreboard {
	s.now = now
	return s
}

// Now returns the current instant in the scoreboard's location.
func (s *Scoreboard) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar day.
func (s *Scoreboard) Today() core.Date {
	return core.DateOf(s.Now())
}

// RecordChore logs choreID for partner on day (today when day is zero).
// Points are copied from the chore as it is at this moment.
func (s *Scoreboard) RecordChore(ctx context.Context, choreID string, partner core.Partner, day core.Date) (core.ChoreLog, error) {
	if !partner.IsValid() {
		return core.ChoreLog{}, core.ErrInvalidPartner
	}
	if day.IsZero() {
		day = s.Today()
	}
	catalog, err := s.store.ListChores(ctx)
	if err != nil {
		return core.ChoreLog{}, fmt.Errorf("load chores: %w", err)
	}
	l, err := score.RecordLog(catalog, choreID, partner, day)
	if err != nil {
		return core.ChoreLog{}, err
	}
	return s.store.CreateLog(ctx, l)
}

// DailyScore sums the logs of day (today when day is zero).
func (s *Scoreboard) DailyScore(ctx context.Context, day core.Date) (core.DailyScore, error) {
	if day.IsZero() {
		day = s.Today()
	}
	logs, err := s.store.ListLogs(ctx, store.LogFilter{Date: day})
	if err != nil {
		return core.DailyScore{}, fmt.Errorf("load logs: %w", err)
	}
	return score.Daily(logs, day), nil
}

func (s *Scoreboard) WeeklyScores(ctx context.Context, weeks int) ([]core.WeeklyScore, error) {
	ref := s.Now()
	logs, err := s.logsSince(ctx, core.Weekly, ref, weeks)
	if err != nil {
		return nil, err
	}
	return score.Weekly(logs, ref, weeks), nil
}

func (s *Scoreboard) MonthlyScores(ctx context.Context, months int) ([]core.MonthlyScore, error) {
	ref := s.Now()
	logs, err := s.logsSince(ctx, core.Monthly, ref, months)
	if err != nil {
		return nil, err
	}
	return score.Monthly(logs, ref, months), nil
}

// Series returns n buckets of granularity g ending with the current one.
func (s *Scoreboard) Series(ctx context.Context, g core.Granularity, n int) ([]core.PeriodScore, error) {
	ref := s.Now()
	logs, err := s.logsSince(ctx, g, ref, n)
	if err != nil {
		return nil, err
	}
	return score.Series(logs, g, ref, n)
}

func (s *Scoreboard) TotalScores(ctx context.Context) (core.TotalScores, error) {
	logs, err := s.store.ListLogs(ctx, store.LogFilter{})
	if err != nil {
		return core.TotalScores{}, fmt.Errorf("load logs: %w", err)
	}
	return score.Totals(logs), nil
}

// Overview computes every dashboard figure from a single load of the logs.
func (s *Scoreboard) Overview(ctx context.Context, weeks, months int) (core.Overview, error) {
	var (
		chores []core.Chore
		logs   []core.ChoreLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chores, err = s.store.ListChores(gctx)
		if err != nil {
			return fmt.Errorf("load chores: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		logs, err = s.store.ListLogs(gctx, store.LogFilter{})
		if err != nil {
			return fmt.Errorf("load logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Overview{}, err
	}

	ref := s.Now()
	totals := score.Totals(logs)
	return core.Overview{
		Today:   score.Daily(logs, core.DateOf(ref)),
		Weekly:  score.Weekly(logs, ref, weeks),
		Monthly: score.Monthly(logs, ref, months),
		Totals:  totals,
		Leader:  totals.Leader(),
		Chores:  chores,
	}, nil
}

func (s *Scoreboard) logsSince(ctx context.Context, g core.Granularity, ref time.Time, n int) ([]core.ChoreLog, error) {
	if n <= 0 {
		return nil, nil
	}
	since, err := score.EarliestStart(g, ref, n)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.ListLogs(ctx, store.LogFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	return logs, nil
}
