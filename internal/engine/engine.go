// Package engine computes read-only analytics over the session store for a
// caller-supplied date range. It never mutates the store; every query takes
// the range bounds as bind parameters.
package engine

import (
	"database/sql"
	"fmt"
	"time"

	"chatlytics/internal/model"
	"chatlytics/internal/store"
)

// Defaults for chart limits.
const (
	DefaultTopCategories = 8
	DefaultTopQuestions  = 10
	DefaultLabelMaxChars = 50
)

// Options tune the chart-data queries.
type Options struct {
	TopCategories int
	TopQuestions  int
	LabelMaxChars int
}

func (o Options) withDefaults() Options {
	if o.TopCategories <= 0 {
		o.TopCategories = DefaultTopCategories
	}
	if o.TopQuestions <= 0 {
		o.TopQuestions = DefaultTopQuestions
	}
	if o.LabelMaxChars <= 0 {
		o.LabelMaxChars = DefaultLabelMaxChars
	}
	return o
}

// Engine runs aggregation queries against a session store.
type Engine struct {
	db   *sql.DB
	opts Options
}

// New returns an engine reading from the given store.
func New(st *store.Store, opts Options) *Engine {
	return &Engine{db: st.DB(), opts: opts.withDefaults()}
}

// rangeBounds renders the inclusive range as RFC3339 UTC bind parameters.
// RFC3339 strings in UTC compare lexicographically in timestamp order.
func rangeBounds(r model.DateRange) (string, string) {
	return r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339)
}

// Metrics computes the scalar KPI summary for the range. Every aggregate
// defaults to zero when the range holds no sessions; only a query failure is
// an error.
func (e *Engine) Metrics(r model.DateRange) (model.Metrics, error) {
	lo, hi := rangeBounds(r)

	var m model.Metrics
	err := e.db.QueryRow(`SELECT
		COUNT(*),
		COUNT(DISTINCT user_ip),
		COALESCE(AVG(duration_secs) / 60.0, 0),
		COALESCE(AVG(avg_response_secs), 0),
		COALESCE(AVG(CASE WHEN escalated = 0 THEN 100.0 ELSE 0.0 END), 0),
		COALESCE(SUM(cost_eur_full) / COUNT(DISTINCT date(start_time)), 0)
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?`, lo, hi,
	).Scan(
		&m.TotalConversations,
		&m.UniqueUsers,
		&m.AvgConversationMins,
		&m.AvgResponseTimeSecs,
		&m.ResolvedPercent,
		&m.AvgDailyCostEUR,
	)
	if err != nil {
		return model.Metrics{}, fmt.Errorf("computing metrics: %w", err)
	}

	peak, err := e.peakUsageHour(lo, hi)
	if err != nil {
		return model.Metrics{}, err
	}
	m.PeakUsageTime = peak

	return m, nil
}

// peakUsageHour finds the hour-of-day bucket with the most sessions.
func (e *Engine) peakUsageHour(lo, hi string) (string, error) {
	var hour string
	err := e.db.QueryRow(`SELECT strftime('%H', start_time)
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?
		GROUP BY 1
		ORDER BY COUNT(*) DESC, 1 ASC
		LIMIT 1`, lo, hi,
	).Scan(&hour)
	if err == sql.ErrNoRows {
		return "N/A", nil
	}
	if err != nil {
		return "", fmt.Errorf("computing peak usage hour: %w", err)
	}
	return hour + ":00", nil
}

// CostTrend compares total cost between two ranges, typically consecutive
// days. PercentChange is zero when the previous period had no cost.
func (e *Engine) CostTrend(current, previous model.DateRange) (model.CostTrend, error) {
	curr, err := e.totalCost(current)
	if err != nil {
		return model.CostTrend{}, err
	}
	prev, err := e.totalCost(previous)
	if err != nil {
		return model.CostTrend{}, err
	}

	trend := model.CostTrend{Current: curr, Previous: prev, Delta: curr - prev}
	if prev != 0 {
		trend.PercentChange = (curr - prev) / prev * 100
	}
	return trend, nil
}

func (e *Engine) totalCost(r model.DateRange) (float64, error) {
	lo, hi := rangeBounds(r)
	var total float64
	err := e.db.QueryRow(`SELECT COALESCE(SUM(cost_eur_full), 0)
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?`, lo, hi,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("computing total cost: %w", err)
	}
	return total, nil
}
