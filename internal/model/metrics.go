package model

import "time"

// DateRange is an inclusive [start, end] pair. It parameterizes every
// aggregation query and keys the query cache.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Key returns the canonical cache key for the range: both bounds in RFC3339
// UTC, joined by a pipe. Ranges are matched exactly, never by overlap.
func (r DateRange) Key() string {
	return r.Start.UTC().Format(time.RFC3339) + "|" + r.End.UTC().Format(time.RFC3339)
}

// Overlaps reports whether two inclusive ranges share any instant.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Metrics holds the scalar KPI summary for a date range. All numeric fields
// are zero, not null, when the range contains no sessions.
type Metrics struct {
	TotalConversations  int     `json:"total_conversations"`
	UniqueUsers         int     `json:"unique_users"`
	AvgConversationMins float64 `json:"avg_conversation_mins"`
	AvgResponseTimeSecs float64 `json:"avg_response_time_secs"`
	ResolvedPercent     float64 `json:"resolved_percent"`
	AvgDailyCostEUR     float64 `json:"avg_daily_cost_eur"`
	PeakUsageTime       string  `json:"peak_usage_time"` // "14:00" or "N/A"
}

// SeriesPair is a parallel label/value pair list, ready for charting.
type SeriesPair struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DailyPoint is one day of the time-series charts.
type DailyPoint struct {
	Date            time.Time `json:"date"`
	Conversations   int       `json:"conversations"`
	AvgResponseSecs float64   `json:"avg_response_secs"`
	CostEUR         float64   `json:"cost_eur"`
	Messages        int       `json:"messages"`
}

// ChartData holds every chart-ready series for a date range.
type ChartData struct {
	Sentiment     SeriesPair `json:"sentiment"`
	Resolution    SeriesPair `json:"resolution"`
	Countries     SeriesPair `json:"countries"`
	Languages     SeriesPair `json:"languages"`
	TopCategories SeriesPair `json:"top_categories"`
	TopQuestions  SeriesPair `json:"top_questions"`

	Daily []DailyPoint `json:"daily"`

	// Raw per-session values for histogramming.
	DurationSecs       []float64 `json:"duration_secs"`
	MessagesPerSession []float64 `json:"messages_per_session"`
}

// DatabaseStats summarizes the stored dataset.
type DatabaseStats struct {
	TotalSessions int       `json:"total_sessions"`
	OldestSession time.Time `json:"oldest_session"`
	NewestSession time.Time `json:"newest_session"`
}

// SkippedSession records one session dropped during bulk load.
type SkippedSession struct {
	Index     int    `json:"index"`
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// LoadReport is the result of a bulk load: how many sessions made it in and
// which were skipped, with reasons.
type LoadReport struct {
	InsertedCount int              `json:"inserted_count"`
	Skipped       []SkippedSession `json:"skipped,omitempty"`
}

// CostTrend compares total cost between two periods.
type CostTrend struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}
