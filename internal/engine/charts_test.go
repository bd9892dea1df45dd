package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlytics/internal/model"
)

func TestChartDataSentimentAndResolution(t *testing.T) {
	day := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)
	eng := newEngine(t, Options{},
		makeSession(day, func(s *model.Session) { s.Sentiment = model.SentimentPositive }),
		makeSession(day, func(s *model.Session) { s.Sentiment = model.SentimentPositive }),
		makeSession(day, func(s *model.Session) {
			s.Sentiment = model.SentimentNegative
			s.Escalated = true
		}),
		makeSession(day, func(s *model.Session) { s.ForwardedHR = true }),
	)

	cd, err := eng.ChartData(wholeDayRange(day, day))
	require.NoError(t, err)

	require.Len(t, cd.Sentiment.Labels, 3)
	counts := map[string]float64{}
	for i, label := range cd.Sentiment.Labels {
		counts[label] = cd.Sentiment.Values[i]
	}
	assert.Equal(t, 2.0, counts["positive"])
	assert.Equal(t, 1.0, counts["neutral"])
	assert.Equal(t, 1.0, counts["negative"])

	assert.Equal(t, []string{"Resolved", "Escalated", "Forwarded to HR"}, cd.Resolution.Labels)
	assert.Equal(t, []float64{2, 1, 1}, cd.Resolution.Values)
}

func TestChartDataTopCategoriesCapped(t *testing.T) {
	day := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)

	var sessions []model.Session
	for i := 0; i < 5; i++ {
		cat := string(rune('A' + i))
		sessions = append(sessions, makeSession(day, func(s *model.Session) {
			s.Category = "Category " + cat
		}))
	}
	// Make one category dominant so the ranking is deterministic.
	sessions = append(sessions,
		makeSession(day, func(s *model.Session) { s.Category = "Category A" }),
		makeSession(day, func(s *model.Session) { s.Category = "Category A" }),
	)

	eng := newEngine(t, Options{TopCategories: 3}, sessions...)

	cd, err := eng.ChartData(wholeDayRange(day, day))
	require.NoError(t, err)

	require.Len(t, cd.TopCategories.Labels, 3)
	assert.Equal(t, "Category A", cd.TopCategories.Labels[0])
	assert.Equal(t, 3.0, cd.TopCategories.Values[0])
}

func TestChartDataTopQuestionsEscapedAndCapped(t *testing.T) {
	day := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)
	eng := newEngine(t, Options{TopQuestions: 2},
		makeSession(day, func(s *model.Session) {
			s.Questions = []string{"<script>alert(1)</script>", "common question"}
		}),
		makeSession(day, func(s *model.Session) {
			s.Questions = []string{"common question", "rare question"}
		}),
		makeSession(day, func(s *model.Session) {
			s.Questions = []string{"common question"}
		}),
	)

	cd, err := eng.ChartData(wholeDayRange(day, day))
	require.NoError(t, err)

	require.Len(t, cd.TopQuestions.Labels, 2)
	assert.Equal(t, "common question", cd.TopQuestions.Labels[0])
	assert.Equal(t, 3.0, cd.TopQuestions.Values[0])
	for _, label := range cd.TopQuestions.Labels {
		assert.NotContains(t, label, "<script>")
	}
}

func TestChartDataDailyZeroFill(t *testing.T) {
	day10 := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	day12 := time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)
	eng := newEngine(t, Options{},
		makeSession(day10),
		makeSession(day10.Add(time.Hour)),
		makeSession(day12),
	)

	cd, err := eng.ChartData(wholeDayRange(day10, day10.AddDate(0, 0, 4)))
	require.NoError(t, err)

	require.Len(t, cd.Daily, 5, "every day of the range appears, gaps as zeros")

	byDay := map[string]model.DailyPoint{}
	for _, p := range cd.Daily {
		byDay[p.Date.Format("2006-01-02")] = p
	}
	assert.Equal(t, 2, byDay["2024-01-10"].Conversations)
	assert.Equal(t, 0, byDay["2024-01-11"].Conversations)
	assert.Equal(t, 1, byDay["2024-01-12"].Conversations)
	assert.Equal(t, 0, byDay["2024-01-13"].Conversations)
	assert.Equal(t, 0, byDay["2024-01-14"].Conversations)

	// Ascending order for chart axes.
	for i := 1; i < len(cd.Daily); i++ {
		assert.True(t, cd.Daily[i].Date.After(cd.Daily[i-1].Date))
	}
}

func TestChartDataDistributions(t *testing.T) {
	day := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)
	eng := newEngine(t, Options{},
		makeSession(day, func(s *model.Session) {
			s.ConversationDurationSeconds = 120
			s.Messages.Amount.Total = 4
		}),
		makeSession(day, func(s *model.Session) {
			s.ConversationDurationSeconds = 480
			s.Messages.Amount.Total = 11
		}),
	)

	cd, err := eng.ChartData(wholeDayRange(day, day))
	require.NoError(t, err)

	assert.ElementsMatch(t, []float64{120, 480}, cd.DurationSecs)
	assert.ElementsMatch(t, []float64{4, 11}, cd.MessagesPerSession)
}

func TestSanitizeLabel(t *testing.T) {
	cases := []struct {
		in       string
		maxChars int
		want     string
	}{
		{"plain", 50, "plain"},
		{"<b>bold</b>", 50, "&lt;b&gt;bold&lt;/b&gt;"},
		{"aaaaaaaaaaaa", 10, "aaaaaaaaaa..."},
		{"ümläut chars", 6, "ümläut..."},
	}

	for _, tc := range cases {
		if got := SanitizeLabel(tc.in, tc.maxChars); got != tc.want {
			t.Errorf("SanitizeLabel(%q, %d) = %q, want %q", tc.in, tc.maxChars, got, tc.want)
		}
	}
}
