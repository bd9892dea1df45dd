// Package sample generates synthetic session datasets for demos and tests.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"chatlytics/internal/model"
	"chatlytics/internal/schema"
)

var categories = []string{
	"Technical Support",
	"Billing",
	"Account Management",
	"Product Information",
	"General Inquiry",
	"Feature Request",
	"Bug Report",
	"Onboarding",
	"Unrecognized / Other",
}

var questions = []string{
	"How do I reset my password?",
	"What are your pricing plans?",
	"How can I upgrade my account?",
	"I'm having trouble logging in",
	"Can you explain this feature?",
	"How do I export my data?",
	"Is there a mobile app available?",
	"How secure is my data?",
	"Can I integrate with other tools?",
	"What's included in the free plan?",
	"How do I cancel my subscription?",
	"Can I get a demo?",
	"What payment methods do you accept?",
	"How do I add team members?",
	"Is there an API available?",
}

var (
	countries  = []string{"NL", "DE", "FR", "GB", "US", "ES", "IT", "BE", "PL", "SE"}
	languages  = []string{"en", "nl", "de", "fr", "es", "it", "pl", "sv"}
	sentiments = []string{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative}
	vocab      = []string{
		"user", "clicked", "button", "saw", "error", "page", "loaded", "slowly",
		"feedback", "suggested", "feature", "broken", "flow", "needs", "work",
		"improved", "filter", "sort", "option", "lag", "issue", "fixed",
	}
)

// Options control dataset generation.
type Options struct {
	Count     int
	StartDate time.Time
	SpanDays  int
	Seed      int64 // 0 means time-based
	NoRating  bool
}

// Generate produces n synthetic sessions over the configured date span.
// Output is already normalized (anonymized IPs, derived durations), matching
// what the validator would emit for an equivalent uploaded dataset.
func Generate(opts Options) []model.Session {
	if opts.Count <= 0 {
		return nil
	}
	if opts.SpanDays <= 0 {
		opts.SpanDays = 365
	}
	if opts.StartDate.IsZero() {
		opts.StartDate = time.Now().UTC().AddDate(0, 0, -opts.SpanDays)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sessions := make([]model.Session, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		sessions = append(sessions, makeSession(rng, opts))
	}
	return sessions
}

func makeSession(rng *rand.Rand, opts Options) model.Session {
	sid := uuidFrom(rng)
	start := randTime(rng, opts.StartDate, opts.SpanDays)
	end := randTime(rng, opts.StartDate, opts.SpanDays)
	if end.Before(start) {
		start, end = end, start
	}

	userCount := 1 + rng.Intn(10)
	total := userCount + rng.Intn(11)

	s := model.Session{
		SessionID: sid,
		StartTime: start,
		EndTime:   end,
		User: model.User{
			IP:       fakeIPv4(rng),
			Country:  pick(rng, countries),
			Language: pick(rng, languages),
		},
		Sentiment:   pick(rng, sentiments),
		Escalated:   rng.Intn(2) == 0,
		ForwardedHR: rng.Intn(5) == 0,
		Category:    pick(rng, categories),
		Summary:     sentence(rng, 10) + " " + sentence(rng, 10),
		Messages: model.Messages{
			ResponseTime: model.ResponseTime{Avg: round2(rng.Float64() * 120)},
			Amount:       model.Amount{User: userCount, Total: total},
			Tokens:       int64(50 + rng.Intn(4951)),
			Cost: model.Cost{EUR: model.CostEUR{
				Cent: round2(rng.Float64() * 500),
				Full: round2(rng.Float64() * 5),
			}},
			SourceURL: fmt.Sprintf("https://chat.example.com/chat/%s", sid),
		},
		Transcript: makeTranscript(rng, opts),
		Questions:  pickQuestions(rng),
	}

	if !opts.NoRating && rng.Float64() < 0.8 {
		rating := float64(1 + rng.Intn(5))
		s.UserRating = &rating
	}

	schema.Normalize(&s)
	return s
}

func makeTranscript(rng *rand.Rand, opts Options) []model.TranscriptEntry {
	n := 3 + rng.Intn(6)
	entries := make([]model.TranscriptEntry, 0, n)
	for i := 0; i < n; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		entries = append(entries, model.TranscriptEntry{
			Timestamp: randTime(rng, opts.StartDate, opts.SpanDays),
			Role:      role,
			Content:   sentence(rng, 8+rng.Intn(9)),
		})
	}
	return entries
}

func pickQuestions(rng *rand.Rand) []string {
	n := 2 + rng.Intn(4)
	perm := rng.Perm(len(questions))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, questions[idx])
	}
	return out
}

func randTime(rng *rand.Rand, start time.Time, spanDays int) time.Time {
	offset := time.Duration(rng.Intn(spanDays+1))*24*time.Hour +
		time.Duration(rng.Intn(86_400))*time.Second
	return start.Add(offset).UTC()
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}

func sentence(rng *rand.Rand, words int) string {
	out := make([]byte, 0, words*8)
	for i := 0; i < words; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, pick(rng, vocab)...)
	}
	if len(out) > 0 {
		out[0] = out[0] - 'a' + 'A'
	}
	return string(append(out, '.'))
}

func fakeIPv4(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+rng.Intn(254), rng.Intn(256), rng.Intn(256), 1+rng.Intn(254))
}

// uuidFrom derives a deterministic UUID from the seeded rng so generated
// datasets are reproducible.
func uuidFrom(rng *rand.Rand) string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
