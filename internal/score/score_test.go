package score

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chores/internal/core"
)

func logOn(partner core.Partner, points int, date string) core.ChoreLog {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.ChoreLog{ChoreID: "1", Partner: partner, Date: d, Points: points}
}

func TestDaily(t *testing.T) {
	logs := []core.ChoreLog{
		logOn(core.Partner1, 5, "2024-01-01"),
		logOn(core.Partner2, -2, "2024-01-01"),
		logOn(core.Partner1, 7, "2024-01-02"),
	}

	got := Daily(logs, core.NewDate(2024, 1, 1))
	assert.Equal(t, core.DailyScore{Date: "2024-01-01", Partner1Score: 5, Partner2Score: -2}, got)

	// Pure: a second call over the same input yields the same output.
	assert.Equal(t, got, Daily(logs, core.NewDate(2024, 1, 1)))

	empty := Daily(logs, core.NewDate(2024, 1, 3))
	assert.Equal(t, core.DailyScore{Date: "2024-01-03"}, empty)
}

func TestDailyComparesCalendarDays(t *testing.T) {
	// A log whose date carries a time of day still belongs to that day.
	l := core.ChoreLog{Partner: core.Partner1, Points: 3, Date: core.Date{Time: time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)}}
	got := Daily([]core.ChoreLog{l}, core.NewDate(2024, 1, 1))
	assert.Equal(t, 3, got.Partner1Score)
}

func TestWeekly(t *testing.T) {
	// 2024-01-17 is a Wednesday; its week starts Monday 2024-01-15.
	ref := time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)
	logs := []core.ChoreLog{
		logOn(core.Partner1, 5, "2024-01-01"),   // Monday, week 1
		logOn(core.Partner2, 3, "2024-01-07"),   // Sunday, still week 1
		logOn(core.Partner1, -2, "2024-01-08"),  // Monday, week 2
		logOn(core.Partner2, 8, "2024-01-17"),   // week 3
		logOn(core.Partner1, 100, "2023-12-31"), // Sunday before, outside range
		logOn(core.Partner1, 100, "2024-01-22"), // after ref week
	}

	got := Weekly(logs, ref, 3)
	want := []core.WeeklyScore{
		{WeekStarting: "2024-01-01", Partner1Score: 5, Partner2Score: 3},
		{WeekStarting: "2024-01-08", Partner1Score: -2, Partner2Score: 0},
		{WeekStarting: "2024-01-15", Partner1Score: 0, Partner2Score: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Weekly() mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyZeroFill(t *testing.T) {
	now := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	got := Weekly(nil, now, 4)
	require.Len(t, got, 4)
	for i, w := range got {
		assert.Zero(t, w.Partner1Score, "week %d", i)
		assert.Zero(t, w.Partner2Score, "week %d", i)
		if i > 0 {
			prev, _ := core.ParseDate(got[i-1].WeekStarting)
			cur, _ := core.ParseDate(w.WeekStarting)
			assert.Equal(t, prev.AddDays(7), cur, "weeks must ascend by 7 days")
		}
	}
	assert.Equal(t, "2024-05-13", got[3].WeekStarting)
}

func TestMonthly(t *testing.T) {
	ref := time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC)
	logs := []core.ChoreLog{
		logOn(core.Partner1, 5, "2024-01-31"),
		logOn(core.Partner2, 4, "2024-02-29"),
		logOn(core.Partner2, -1, "2024-02-01"),
		logOn(core.Partner1, 6, "2024-03-01"),
		logOn(core.Partner1, 50, "2023-12-31"),
	}

	got := Monthly(logs, ref, 3)
	want := []core.MonthlyScore{
		{Month: "2024-01", Partner1Score: 5},
		{Month: "2024-02", Partner2Score: 3},
		{Month: "2024-03", Partner1Score: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Monthly() mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthlyCrossesYearBoundary(t *testing.T) {
	got := Monthly(nil, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 4)
	keys := make([]string, len(got))
	for i, m := range got {
		keys[i] = m.Month
	}
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, keys)
}

func TestNonPositiveRangesYieldEmpty(t *testing.T) {
	logs := []core.ChoreLog{logOn(core.Partner1, 5, "2024-01-01")}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{0, -3} {
		w := Weekly(logs, now, n)
		require.NotNil(t, w)
		assert.Empty(t, w)

		m := Monthly(logs, now, n)
		require.NotNil(t, m)
		assert.Empty(t, m)
	}
}

func TestTotals(t *testing.T) {
	logs := []core.ChoreLog{
		logOn(core.Partner1, 5, "2020-06-01"),
		logOn(core.Partner1, -3, "2024-01-01"),
		logOn(core.Partner2, 8, "2024-01-01"),
		logOn(core.Partner2, 2, "2030-01-01"),
	}
	got := Totals(logs)
	assert.Equal(t, core.TotalScores{Partner1: 2, Partner2: 10, Difference: 8}, got)
	assert.Equal(t, core.Partner2, got.Leader())

	assert.Equal(t, core.TotalScores{}, Totals(nil))
}

func TestTotalsOrderIndependent(t *testing.T) {
	logs := []core.ChoreLog{
		logOn(core.Partner1, 5, "2024-01-01"),
		logOn(core.Partner2, -7, "2024-01-02"),
		logOn(core.Partner1, 3, "2024-01-03"),
		logOn(core.Partner2, 1, "2024-01-04"),
	}
	reversed := make([]core.ChoreLog, len(logs))
	for i, l := range logs {
		reversed[len(logs)-1-i] = l
	}
	got := Totals(logs)
	assert.Equal(t, got, Totals(reversed))
	assert.Equal(t, 14, got.Difference)
	assert.GreaterOrEqual(t, got.Difference, 0)
}

func TestAggregationDoesNotMutateInput(t *testing.T) {
	logs := []core.ChoreLog{logOn(core.Partner1, 5, "2024-01-01")}
	before := append([]core.ChoreLog(nil), logs...)
	now := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	Daily(logs, core.NewDate(2024, 1, 1))
	Weekly(logs, now, 2)
	Monthly(logs, now, 2)
	Totals(logs)

	assert.Equal(t, before, logs)
}

func TestRecordLogSign(t *testing.T) {
	catalog := []core.Chore{
		{ID: "pos", Name: "Laundry", Points: 5},
		{ID: "neg", Name: "Left dishes", Points: 5, IsNegative: true},
	}
	day := core.NewDate(2024, 1, 1)

	pos, err := RecordLog(catalog, "pos", core.Partner1, day)
	require.NoError(t, err)
	assert.Equal(t, 5, pos.Points)
	assert.Equal(t, "pos", pos.ChoreID)
	assert.Equal(t, core.Partner1, pos.Partner)
	assert.Empty(t, pos.ID)

	neg, err := RecordLog(catalog, "neg", core.Partner2, day)
	require.NoError(t, err)
	assert.Equal(t, -5, neg.Points)
}

func TestRecordLogSnapshot(t *testing.T) {
	catalog := []core.Chore{{ID: "1", Name: "Vacuuming", Points: 5}}
	l, err := RecordLog(catalog, "1", core.Partner1, core.NewDate(2024, 1, 1))
	require.NoError(t, err)

	catalog[0].Points = 50
	catalog[0].IsNegative = true

	assert.Equal(t, 5, l.Points)
	assert.Equal(t, 5, Totals([]core.ChoreLog{l}).Partner1)
}

func TestRecordLogNotFound(t *testing.T) {
	l, err := RecordLog(core.DefaultChores(), "missing", core.Partner1, core.NewDate(2024, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.Equal(t, core.ChoreLog{}, l)
}

func TestLogsOfDeletedChoresStillCount(t *testing.T) {
	// Aggregation never consults the catalog, so an orphaned log counts.
	orphan := core.ChoreLog{ChoreID: "deleted", Partner: core.Partner2, Date: core.NewDate(2024, 1, 1), Points: 4}
	assert.Equal(t, 4, Totals([]core.ChoreLog{orphan}).Partner2)
}

func TestSeries(t *testing.T) {
	logs := []core.ChoreLog{logOn(core.Partner1, 2, "2024-01-02"), logOn(core.Partner2, 1, "2024-01-03")}
	got, err := Series(logs, core.Daily, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	want := []core.PeriodScore{
		{Key: "2024-01-01", Start: core.NewDate(2024, 1, 1)},
		{Key: "2024-01-02", Start: core.NewDate(2024, 1, 2), Partner1Score: 2},
		{Key: "2024-01-03", Start: core.NewDate(2024, 1, 3), Partner2Score: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Series() mismatch (-want +got):\n%s", diff)
	}

	_, err = Series(logs, core.Granularity("fortnight"), time.Now(), 2)
	assert.Error(t, err)
}

func TestEarliestStart(t *testing.T) {
	ref := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	got, err := EarliestStart(core.Weekly, ref, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.String())

	got, err = EarliestStart(core.Monthly, ref, 6)
	require.NoError(t, err)
	assert.Equal(t, "2023-08-01", got.String())
}
