package engine

import (
	"fmt"
	"html"
	"sort"
	"time"

	"chatlytics/internal/model"
)

// ChartData computes every chart-ready series for the range.
func (e *Engine) ChartData(r model.DateRange) (model.ChartData, error) {
	var cd model.ChartData
	var err error

	lo, hi := rangeBounds(r)

	if cd.Sentiment, err = e.groupedCounts(
		"SELECT sentiment, COUNT(*) FROM sessions WHERE start_time >= ? AND start_time <= ? GROUP BY sentiment ORDER BY COUNT(*) DESC",
		lo, hi,
	); err != nil {
		return model.ChartData{}, fmt.Errorf("sentiment distribution: %w", err)
	}

	if cd.Resolution, err = e.resolutionStatus(lo, hi); err != nil {
		return model.ChartData{}, err
	}

	if cd.Countries, err = e.groupedCounts(
		"SELECT country, COUNT(*) FROM sessions WHERE start_time >= ? AND start_time <= ? GROUP BY country ORDER BY COUNT(*) DESC",
		lo, hi,
	); err != nil {
		return model.ChartData{}, fmt.Errorf("sessions by country: %w", err)
	}

	if cd.Languages, err = e.groupedCounts(
		"SELECT language, COUNT(*) FROM sessions WHERE start_time >= ? AND start_time <= ? GROUP BY language ORDER BY COUNT(*) DESC",
		lo, hi,
	); err != nil {
		return model.ChartData{}, fmt.Errorf("sessions by language: %w", err)
	}

	if cd.TopCategories, err = e.groupedCounts(
		"SELECT category, COUNT(*) FROM sessions WHERE start_time >= ? AND start_time <= ? GROUP BY category ORDER BY COUNT(*) DESC LIMIT ?",
		lo, hi, e.opts.TopCategories,
	); err != nil {
		return model.ChartData{}, fmt.Errorf("top categories: %w", err)
	}
	e.sanitizeLabels(cd.TopCategories.Labels)

	if cd.TopQuestions, err = e.groupedCounts(
		`SELECT q.question, COUNT(*)
		 FROM questions q
		 JOIN sessions s ON s.session_id = q.session_id
		 WHERE s.start_time >= ? AND s.start_time <= ?
		 GROUP BY q.question ORDER BY COUNT(*) DESC LIMIT ?`,
		lo, hi, e.opts.TopQuestions,
	); err != nil {
		return model.ChartData{}, fmt.Errorf("top questions: %w", err)
	}
	e.sanitizeLabels(cd.TopQuestions.Labels)

	if cd.Daily, err = e.dailySeries(r, lo, hi); err != nil {
		return model.ChartData{}, err
	}

	if cd.DurationSecs, cd.MessagesPerSession, err = e.distributions(lo, hi); err != nil {
		return model.ChartData{}, err
	}

	return cd, nil
}

// groupedCounts runs a two-column (label, count) query into a SeriesPair.
func (e *Engine) groupedCounts(query string, args ...any) (model.SeriesPair, error) {
	rows, err := e.db.Query(query, args...)
	if err != nil {
		return model.SeriesPair{}, err
	}
	defer func() { _ = rows.Close() }()

	var pair model.SeriesPair
	for rows.Next() {
		var label string
		var count float64
		if err := rows.Scan(&label, &count); err != nil {
			return model.SeriesPair{}, err
		}
		pair.Labels = append(pair.Labels, label)
		pair.Values = append(pair.Values, count)
	}
	return pair, rows.Err()
}

// resolutionStatus buckets sessions into resolved / escalated / forwarded to
// HR. A session can appear in more than one bucket, matching how the
// counters are surfaced downstream.
func (e *Engine) resolutionStatus(lo, hi string) (model.SeriesPair, error) {
	var resolved, escalated, forwarded float64
	err := e.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN escalated = 0 AND forwarded_hr = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(escalated), 0),
		COALESCE(SUM(forwarded_hr), 0)
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?`, lo, hi,
	).Scan(&resolved, &escalated, &forwarded)
	if err != nil {
		return model.SeriesPair{}, fmt.Errorf("resolution status: %w", err)
	}

	return model.SeriesPair{
		Labels: []string{"Resolved", "Escalated", "Forwarded to HR"},
		Values: []float64{resolved, escalated, forwarded},
	}, nil
}

// dailySeries groups sessions by calendar day. Every day of the range is
// present in the output; days without sessions are zero-filled so charts
// show gaps as zeros.
func (e *Engine) dailySeries(r model.DateRange, lo, hi string) ([]model.DailyPoint, error) {
	rows, err := e.db.Query(`SELECT
		date(start_time),
		COUNT(*),
		COALESCE(AVG(avg_response_secs), 0),
		COALESCE(SUM(cost_eur_full), 0),
		COALESCE(SUM(messages_total), 0)
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?
		GROUP BY date(start_time)`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	dayMap := make(map[string]model.DailyPoint)
	for rows.Next() {
		var day string
		var p model.DailyPoint
		if err := rows.Scan(&day, &p.Conversations, &p.AvgResponseSecs, &p.CostEUR, &p.Messages); err != nil {
			return nil, fmt.Errorf("daily series: %w", err)
		}
		p.Date, _ = time.Parse("2006-01-02", day)
		dayMap[day] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}

	day := time.Date(r.Start.UTC().Year(), r.Start.UTC().Month(), r.Start.UTC().Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.UTC().Year(), r.End.UTC().Month(), r.End.UTC().Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(end) {
		key := day.Format("2006-01-02")
		if _, ok := dayMap[key]; !ok {
			dayMap[key] = model.DailyPoint{Date: day}
		}
		day = day.AddDate(0, 0, 1)
	}

	points := make([]model.DailyPoint, 0, len(dayMap))
	for _, p := range dayMap {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

// distributions returns per-session duration and message-count values for
// histogramming.
func (e *Engine) distributions(lo, hi string) (durations, messages []float64, err error) {
	rows, err := e.db.Query(`SELECT duration_secs, messages_total
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time`, lo, hi)
	if err != nil {
		return nil, nil, fmt.Errorf("distributions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var dur, msgs float64
		if err := rows.Scan(&dur, &msgs); err != nil {
			return nil, nil, fmt.Errorf("distributions: %w", err)
		}
		durations = append(durations, dur)
		messages = append(messages, msgs)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("distributions: %w", err)
	}
	return durations, messages, nil
}

// sanitizeLabels escapes and truncates user-generated free text in place so
// it is safe to surface in chart labels.
func (e *Engine) sanitizeLabels(labels []string) {
	for i, l := range labels {
		labels[i] = SanitizeLabel(l, e.opts.LabelMaxChars)
	}
}

// SanitizeLabel truncates free text to maxChars runes (with an ellipsis
// suffix) and HTML-escapes the result.
func SanitizeLabel(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) > maxChars {
		s = string(runes[:maxChars]) + "..."
	}
	return html.EscapeString(s)
}
