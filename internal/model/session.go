// Package model defines domain types for chatlytics sessions and analytics.
package model

import "time"

// Sentiment values accepted on ingestion.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Transcript roles accepted on ingestion.
const (
	RoleUser      = "User"
	RoleAssistant = "Assistant"
)

// User holds the anonymized identity of the person behind a session.
type User struct {
	IP       string `json:"ip"`
	Country  string `json:"country"`
	Language string `json:"language"`
}

// ResponseTime holds response-time statistics for a session.
type ResponseTime struct {
	Avg float64 `json:"avg"`
}

// Amount holds message counts for a session.
type Amount struct {
	User  int `json:"user"`
	Total int `json:"total"`
}

// CostEUR holds the session cost in euros, as cents and as a full amount.
type CostEUR struct {
	Cent float64 `json:"cent"`
	Full float64 `json:"full"`
}

// Cost wraps the per-currency cost breakdown.
type Cost struct {
	EUR CostEUR `json:"eur"`
}

// Messages holds per-session message statistics.
type Messages struct {
	ResponseTime ResponseTime `json:"response_time"`
	Amount       Amount       `json:"amount"`
	Tokens       int64        `json:"tokens"`
	Cost         Cost         `json:"cost"`
	SourceURL    string       `json:"source_url"`
}

// TranscriptEntry is one message in a session transcript.
type TranscriptEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

// Session is one recorded chatbot conversation with metadata, transcript,
// and derived metrics.
type Session struct {
	SessionID   string            `json:"session_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	User        User              `json:"user"`
	Sentiment   string            `json:"sentiment"`
	Escalated   bool              `json:"escalated"`
	ForwardedHR bool              `json:"forwarded_hr"`
	Category    string            `json:"category"`
	Summary     string            `json:"summary"`
	UserRating  *float64          `json:"user_rating,omitempty"`
	Messages    Messages          `json:"messages"`
	Transcript  []TranscriptEntry `json:"transcript"`
	Questions   []string          `json:"questions"`

	// Derived at ingestion from end_time - start_time.
	ConversationDurationSeconds int64 `json:"-"`
}

// Resolved reports whether the session finished without being escalated or
// forwarded to HR.
func (s Session) Resolved() bool {
	return !s.Escalated && !s.ForwardedHR
}
