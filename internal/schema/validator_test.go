package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRaw returns a session object that passes validation, as a mutable map.
func validRaw() map[string]any {
	return map[string]any{
		"session_id": "6f1c1a5e-9d35-4c8f-8f05-2a9c3a3f71d2",
		"start_time": "2024-01-13T10:00:00Z",
		"end_time":   "2024-01-13T10:12:30Z",
		"user": map[string]any{
			"ip":       "192.168.1.100",
			"country":  "NL",
			"language": "en",
		},
		"sentiment":    "positive",
		"escalated":    false,
		"forwarded_hr": false,
		"category":     "Billing",
		"summary":      "User asked about invoices.",
		"user_rating":  4,
		"messages": map[string]any{
			"response_time": map[string]any{"avg": 12.5},
			"amount":        map[string]any{"user": 3, "total": 9},
			"tokens":        1234,
			"cost":          map[string]any{"eur": map[string]any{"cent": 123.0, "full": 1.23}},
			"source_url":    "https://chat.example.com/chat/abc",
		},
		"transcript": []any{
			map[string]any{
				"timestamp": "2024-01-13T10:00:05Z",
				"role":      "User",
				"content":   "How do I reset my password?",
			},
			map[string]any{
				"timestamp": "2024-01-13T10:00:20Z",
				"role":      "Assistant",
				"content":   "Use the reset link on the login page.",
			},
		},
		"questions": []any{"How do I reset my password?"},
	}
}

func marshalBatch(t *testing.T, rows ...map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	return data
}

func TestParseAndValidate_Valid(t *testing.T) {
	sessions, err := ParseAndValidate(marshalBatch(t, validRaw(), validRaw()))
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	s := sessions[0]
	assert.Equal(t, "6f1c1a5e-9d35-4c8f-8f05-2a9c3a3f71d2", s.SessionID)
	assert.Equal(t, "192.168.XXX.XXX", s.User.IP, "IP must be anonymized on ingest")
	assert.Equal(t, int64(750), s.ConversationDurationSeconds)
	require.NotNil(t, s.UserRating)
	assert.Equal(t, 4.0, *s.UserRating)
	assert.Len(t, s.Transcript, 2)
	assert.True(t, s.Resolved())
}

func TestParseAndValidate_OpaqueIPReplaced(t *testing.T) {
	row := validRaw()
	row["user"].(map[string]any)["ip"] = "session-token-9f2"

	sessions, err := ParseAndValidate(marshalBatch(t, row))
	require.NoError(t, err)
	assert.Equal(t, AnonymizedIP, sessions[0].User.IP)
}

func TestParseAndValidate_CollectsAllViolations(t *testing.T) {
	bad1 := validRaw()
	bad1["session_id"] = "not-a-uuid"
	bad1["sentiment"] = "angry"

	bad2 := validRaw()
	delete(bad2, "escalated")
	bad2["user"].(map[string]any)["ip"] = 42

	// A valid row in the middle must not be accepted either.
	_, err := ParseAndValidate(marshalBatch(t, bad1, validRaw(), bad2))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Contains(t, verr.Violations, "0.session_id")
	assert.Contains(t, verr.Violations, "0.sentiment")
	assert.Contains(t, verr.Violations, "2.escalated")
	assert.Contains(t, verr.Violations, "2.user.ip")

	// The message enumerates every violation path.
	for path := range verr.Violations {
		assert.Contains(t, verr.Error(), path)
	}
}

func TestParseAndValidate_FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
		path   string
	}{
		{"end before start", func(r map[string]any) {
			r["end_time"] = "2024-01-13T09:00:00Z"
		}, "0.end_time"},
		{"bad timestamp", func(r map[string]any) {
			r["start_time"] = "13/01/2024"
		}, "0.start_time"},
		{"rating out of range", func(r map[string]any) {
			r["user_rating"] = 6
		}, "0.user_rating"},
		{"user exceeds total", func(r map[string]any) {
			r["messages"].(map[string]any)["amount"] = map[string]any{"user": 10, "total": 3}
		}, "0.messages.amount.user"},
		{"negative response time", func(r map[string]any) {
			r["messages"].(map[string]any)["response_time"] = map[string]any{"avg": -1.0}
		}, "0.messages.response_time.avg"},
		{"relative source url", func(r map[string]any) {
			r["messages"].(map[string]any)["source_url"] = "/chat/abc"
		}, "0.messages.source_url"},
		{"bad transcript role", func(r map[string]any) {
			r["transcript"].([]any)[0].(map[string]any)["role"] = "System"
		}, "0.transcript.0.role"},
		{"non-string question", func(r map[string]any) {
			r["questions"] = []any{"fine", 7}
		}, "0.questions.1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRaw()
			tc.mutate(row)

			_, err := ParseAndValidate(marshalBatch(t, row))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Violations, tc.path,
				fmt.Sprintf("violations: %v", verr.Violations))
		})
	}
}

func TestParseAndValidate_NotAnArray(t *testing.T) {
	_, err := ParseAndValidate([]byte(`{"session_id": "x"}`))
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "malformed JSON is not a per-field validation error")
}
