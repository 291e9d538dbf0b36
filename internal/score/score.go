package score

import (
	"fmt"
	"time"

	"chores/internal/core"
)

// Daily sums the logs recorded on exactly the given calendar day.
func Daily(logs []core.ChoreLog, day core.Date) core.DailyScore {
	target := core.DateOf(day.Time)
	p1, p2 := sumByPartner(logs, func(d core.Date) bool { return d.Equal(target.Time) })
	return core.DailyScore{
		Date:          target.String(),
		Partner1Score: p1,
		Partner2Score: p2,
	}
}

// Weekly returns the last n ISO weeks up to the one containing ref,
// oldest first. Weeks without logs are reported with zero scores.
func Weekly(logs []core.ChoreLog, ref time.Time, weeks int) []core.WeeklyScore {
	buckets := series(logs, WeekPeriod{}, core.DateOf(ref), weeks)
	out := make([]core.WeeklyScore, len(buckets))
	for i, b := range buckets {
		out[i] = core.WeeklyScore{
			WeekStarting:  b.Key,
			Partner1Score: b.Partner1Score,
			Partner2Score: b.Partner2Score,
		}
	}
	return out
}

// Monthly returns the last n calendar months up to the one containing ref,
// oldest first, keyed YYYY-MM.
func Monthly(logs []core.ChoreLog, ref time.Time, months int) []core.MonthlyScore {
	buckets := series(logs, MonthPeriod{}, core.DateOf(ref), months)
	out := make([]core.MonthlyScore, len(buckets))
	for i, b := range buckets {
		out[i] = core.MonthlyScore{
			Month:         b.Key,
			Partner1Score: b.Partner1Score,
			Partner2Score: b.Partner2Score,
		}
	}
	return out
}

// Series is the granularity-agnostic form of Weekly and Monthly.
func Series(logs []core.ChoreLog, g core.Granularity, ref time.Time, n int) ([]core.PeriodScore, error) {
	p, err := PeriodFor(g)
	if err != nil {
		return nil, err
	}
	return series(logs, p, core.DateOf(ref), n), nil
}

// Totals sums every log regardless of date.
func Totals(logs []core.ChoreLog) core.TotalScores {
	p1, p2 := sumByPartner(logs, func(core.Date) bool { return true })
	diff := p1 - p2
	if diff < 0 {
		diff = -diff
	}
	return core.TotalScores{Partner1: p1, Partner2: p2, Difference: diff}
}

// RecordLog builds a new log for choreID from the catalog. The sign of the
// points is taken from the chore as it is now; later catalog edits do not
// change the returned log. The ID is left empty for the store to assign.
func RecordLog(catalog []core.Chore, choreID string, partner core.Partner, day core.Date) (core.ChoreLog, error) {
	for _, c := range catalog {
		if c.ID != choreID {
			continue
		}
		return core.ChoreLog{
			ChoreID: choreID,
			Partner: partner,
			Date:    day,
			Points:  c.SignedPoints(),
		}, nil
	}
	return core.ChoreLog{}, fmt.Errorf("chore %q: %w", choreID, core.ErrNotFound)
}

// EarliestStart is the first day covered by an n-bucket series ending at ref.
// Stores use it to narrow the logs they load.
func EarliestStart(g core.Granularity, ref time.Time, n int) (core.Date, error) {
	p, err := PeriodFor(g)
	if err != nil {
		return core.Date{}, err
	}
	if n <= 0 {
		n = 1
	}
	return p.Back(core.DateOf(ref), n-1), nil
}

func series(logs []core.ChoreLog, p Period, day core.Date, n int) []core.PeriodScore {
	if n <= 0 {
		return []core.PeriodScore{}
	}
	out := make([]core.PeriodScore, n)
	for i := 0; i < n; i++ {
		start := p.Back(day, i)
		end := p.Next(start)
		p1, p2 := sumByPartner(logs, func(d core.Date) bool {
			return !d.Before(start.Time) && d.Before(end.Time)
		})
		// i counts backwards from the current bucket
		out[n-1-i] = core.PeriodScore{
			Key:           p.Key(start),
			Start:         start,
			Partner1Score: p1,
			Partner2Score: p2,
		}
	}
	return out
}

func sumByPartner(logs []core.ChoreLog, match func(core.Date) bool) (p1, p2 int) {
	for _, l := range logs {
		if !match(core.DateOf(l.Date.Time)) {
			continue
		}
		switch l.Partner {
		case core.Partner1:
			p1 += l.Points
		case core.Partner2:
			p2 += l.Points
		}
	}
	return p1, p2
}
