package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"chores/internal/core"
	applog "chores/internal/log"
)

// serveCached answers from the score cache or computes, caches and writes
// the JSON result. key must capture every input of compute, including the
// current day; the write generation is read before compute and prefixed here.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, compute func(context.Context) (any, error)) {
	key = strconv.FormatUint(s.scoreGen.Load(), 10) + "|" + key
	if body, ok := s.scoreCache.Get(key); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		writeJSONBytes(w, http.StatusOK, body)
		return
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	v, err := compute(r.Context())
	if err != nil {
		s.writeStoreError(w, r, applog.OpAggregate, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		s.writeStoreError(w, r, applog.OpAggregate, err)
		return
	}
	s.scoreCache.Set(key, body)
	writeJSONBytes(w, http.StatusOK, body)
}

func (s *Server) handleDailyScore(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if day.IsZero() {
		day = s.board.Today()
	}

	s.serveCached(w, r, "daily|"+day.String(), func(ctx context.Context) (any, error) {
		return s.board.DailyScore(ctx, day)
	})
}

func (s *Server) handleWeeklyScores(w http.ResponseWriter, r *http.Request) {
	weeks, err := parseCount(r, "weeks", s.opts.DefaultWeeks, maxWeeks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("weekly|%s|%d", s.board.Today(), weeks)
	s.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		scores, err := s.board.WeeklyScores(ctx, weeks)
		if scores == nil {
			scores = []core.WeeklyScore{}
		}
		return scores, err
	})
}

func (s *Server) handleMonthlyScores(w http.ResponseWriter, r *http.Request) {
	months, err := parseCount(r, "months", s.opts.DefaultMonths, maxMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("monthly|%s|%d", s.board.Today(), months)
	s.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		scores, err := s.board.MonthlyScores(ctx, months)
		if scores == nil {
			scores = []core.MonthlyScore{}
		}
		return scores, err
	})
}

func (s *Server) handleTotalScores(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "total", func(ctx context.Context) (any, error) {
		return s.board.TotalScores(ctx)
	})
}

// handleSeries serves ?granularity=day|week|month&n= buckets ending with the
// current one.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	g := core.Granularity(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("granularity"))))
	var def, max int
	switch g {
	case "", core.Weekly:
		g, def, max = core.Weekly, s.opts.DefaultWeeks, maxWeeks
	case core.Monthly:
		def, max = s.opts.DefaultMonths, maxMonths
	case core.Daily:
		def, max = 7, maxDays
	default:
		writeError(w, http.StatusBadRequest, "granularity must be day, week or month")
		return
	}
	n, err := parseCount(r, "n", def, max)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("series|%s|%s|%d", s.board.Today(), g, n)
	s.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		scores, err := s.board.Series(ctx, g, n)
		if scores == nil {
			scores = []core.PeriodScore{}
		}
		return scores, err
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	weeks, err := parseCount(r, "weeks", s.opts.DefaultWeeks, maxWeeks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	months, err := parseCount(r, "months", s.opts.DefaultMonths, maxMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("overview|%s|%d|%d", s.board.Today(), weeks, months)
	s.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		return s.board.Overview(ctx, weeks, months)
	})
}
