package sample

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlytics/internal/model"
)

func fixedOpts() Options {
	return Options{
		Count:     40,
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		SpanDays:  14,
		Seed:      1234,
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a := Generate(fixedOpts())
	b := Generate(fixedOpts())
	assert.Equal(t, a, b)

	other := fixedOpts()
	other.Seed = 99
	assert.NotEqual(t, a, Generate(other))
}

func TestGenerateWellFormed(t *testing.T) {
	opts := fixedOpts()
	sessions := Generate(opts)
	require.Len(t, sessions, opts.Count)

	// Anything past the span plus one day of intra-day offset is out of range.
	latest := opts.StartDate.AddDate(0, 0, opts.SpanDays+1)

	seen := make(map[string]bool)
	for _, s := range sessions {
		_, err := uuid.Parse(s.SessionID)
		require.NoError(t, err)
		assert.False(t, seen[s.SessionID], "session ids must be unique")
		seen[s.SessionID] = true

		assert.False(t, s.EndTime.Before(s.StartTime))
		assert.False(t, s.StartTime.Before(opts.StartDate))
		assert.False(t, s.EndTime.After(latest))
		assert.Equal(t, int64(s.EndTime.Sub(s.StartTime).Seconds()), s.ConversationDurationSeconds)

		// Output is normalized like uploaded data.
		assert.True(t,
			strings.HasSuffix(s.User.IP, ".XXX.XXX") || s.User.IP == "anonymous",
			"ip %q not anonymized", s.User.IP)

		assert.Contains(t, []string{
			model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative,
		}, s.Sentiment)
		assert.LessOrEqual(t, s.Messages.Amount.User, s.Messages.Amount.Total)
		assert.NotEmpty(t, s.Transcript)
		assert.NotEmpty(t, s.Questions)
		assert.Contains(t, s.Messages.SourceURL, s.SessionID)

		if s.UserRating != nil {
			assert.GreaterOrEqual(t, *s.UserRating, 1.0)
			assert.LessOrEqual(t, *s.UserRating, 5.0)
		}
	}
}

func TestGenerateNoRating(t *testing.T) {
	opts := fixedOpts()
	opts.NoRating = true
	for _, s := range Generate(opts) {
		assert.Nil(t, s.UserRating)
	}
}

func TestGenerateEmpty(t *testing.T) {
	assert.Nil(t, Generate(Options{Count: 0}))
	assert.Nil(t, Generate(Options{Count: -3}))
}
