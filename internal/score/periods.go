// Package score turns chore logs into per-partner score summaries.
//
// This file implements the Strategy Pattern for aggregation buckets.
// Each granularity (day, ISO week, calendar month) has its own strategy that
// knows where a bucket starts, where the next one begins and how it is keyed.
package score

import (
	"fmt"
	"time"

	"chores/internal/core"
)

// Period is the strategy interface for one bucket granularity.
type Period interface {
	// Start returns the first day of the bucket containing d.
	Start(d core.Date) core.Date
	// Next returns the first day of the bucket following the one that starts at start.
	Next(start core.Date) core.Date
	// Back returns the start of the bucket n steps before the one containing d.
	Back(d core.Date, n int) core.Date
	// Key identifies the bucket starting at start.
	Key(start core.Date) string
}

// DayPeriod buckets by calendar day.
type DayPeriod struct{}

func (DayPeriod) Start(d core.Date) core.Date       { return d }
func (DayPeriod) Next(start core.Date) core.Date    { return start.AddDays(1) }
func (DayPeriod) Back(d core.Date, n int) core.Date { return d.AddDays(-n) }
func (DayPeriod) Key(start core.Date) string        { return start.String() }

// WeekPeriod buckets by ISO week; weeks start on Monday.
type WeekPeriod struct{}

// Start returns the Monday on or before d.
func (WeekPeriod) Start(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDays(-offset)
}

func (WeekPeriod) Next(start core.Date) core.Date { return start.AddDays(7) }

// Back returns the Monday of the week containing d minus 7*n days.
func (w WeekPeriod) Back(d core.Date, n int) core.Date {
	return w.Start(d.AddDays(-7 * n))
}

func (WeekPeriod) Key(start core.Date) string { return start.String() }

// MonthPeriod buckets by calendar month.
type MonthPeriod struct{}

func (MonthPeriod) Start(d core.Date) core.Date {
	return core.NewDate(d.Year(), int(d.Month()), 1)
}

func (MonthPeriod) Next(start core.Date) core.Date {
	return core.Date{Time: start.AddDate(0, 1, 0)}
}

// Back steps whole months from the first of d's month, so day-of-month
// overflow (e.g. March 31 minus one month) cannot skip a month.
func (MonthPeriod) Back(d core.Date, n int) core.Date {
	return core.Date{Time: time.Date(d.Year(), d.Month()-time.Month(n), 1, 0, 0, 0, 0, time.UTC)}
}

func (MonthPeriod) Key(start core.Date) string { return start.Format("2006-01") }

// periods maps granularities to their strategies.
var periods = map[core.Granularity]Period{
	core.Daily:   DayPeriod{},
	core.Weekly:  WeekPeriod{},
	core.Monthly: MonthPeriod{},
}

// PeriodFor returns the strategy for a granularity.
func PeriodFor(g core.Granularity) (Period, error) {
	p, ok := periods[g]
	if !ok {
		return nil, fmt.Errorf("unknown granularity: %q", g)
	}
	return p, nil
}
