// Package schema validates and normalizes raw session records before they
// enter the store.
package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatlytics/internal/model"
)

// ValidationError carries every violation found across a submitted batch,
// keyed by "<index>.<field.path>". The whole batch is rejected; there is no
// partial acceptance.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Violations))
	for p := range e.Violations {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "session validation failed (%d problems):", len(e.Violations))
	for _, p := range paths {
		fmt.Fprintf(&b, "\n  %s: %s", p, e.Violations[p])
	}
	return b.String()
}

// validator accumulates violations while walking one batch.
type validator struct {
	violations map[string]string
}

func (v *validator) addf(path, format string, args ...any) {
	v.violations[path] = fmt.Sprintf(format, args...)
}

// ParseAndValidate decodes a JSON array of raw session objects, validates
// every row against the session shape, and returns normalized sessions.
// All violations across the whole array are collected into a single
// *ValidationError; one bad row fails the entire batch.
func ParseAndValidate(data []byte) ([]model.Session, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding session array: %w", err)
	}

	v := &validator{violations: make(map[string]string)}
	sessions := make([]model.Session, 0, len(rows))

	for i, row := range rows {
		var obj map[string]any
		if err := json.Unmarshal(row, &obj); err != nil {
			v.addf(fmt.Sprintf("%d", i), "not a JSON object")
			continue
		}
		v.validateRow(i, obj)
	}

	if len(v.violations) > 0 {
		return nil, &ValidationError{Violations: v.violations}
	}

	// Every row passed shape validation; the typed decode cannot surface new
	// problems beyond what was already checked.
	for i, row := range rows {
		var s model.Session
		if err := json.Unmarshal(row, &s); err != nil {
			return nil, fmt.Errorf("decoding session %d: %w", i, err)
		}
		Normalize(&s)
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (v *validator) validateRow(idx int, obj map[string]any) {
	p := func(field string) string { return fmt.Sprintf("%d.%s", idx, field) }

	if id, ok := requireString(v, p("session_id"), obj["session_id"]); ok {
		if _, err := uuid.Parse(id); err != nil {
			v.addf(p("session_id"), "not a valid UUID: %q", id)
		}
	}

	start, startOK := requireTimestamp(v, p("start_time"), obj["start_time"])
	end, endOK := requireTimestamp(v, p("end_time"), obj["end_time"])
	if startOK && endOK && end.Before(start) {
		v.addf(p("end_time"), "end_time precedes start_time")
	}

	v.validateUser(p("user"), obj["user"])
	v.validateSentiment(p("sentiment"), obj["sentiment"])
	requireBool(v, p("escalated"), obj["escalated"])
	requireBool(v, p("forwarded_hr"), obj["forwarded_hr"])
	requireString(v, p("category"), obj["category"])
	requireString(v, p("summary"), obj["summary"])

	if rating, present := obj["user_rating"]; present {
		if n, ok := requireNumber(v, p("user_rating"), rating); ok && (n < 1 || n > 5) {
			v.addf(p("user_rating"), "must be between 1 and 5, got %v", n)
		}
	}

	v.validateMessages(p("messages"), obj["messages"])
	v.validateTranscript(p("transcript"), obj["transcript"])
	v.validateQuestions(p("questions"), obj["questions"])
}

func (v *validator) validateUser(path string, raw any) {
	obj, ok := requireObject(v, path, raw)
	if !ok {
		return
	}
	requireString(v, path+".ip", obj["ip"])
	requireString(v, path+".country", obj["country"])
	requireString(v, path+".language", obj["language"])
}

func (v *validator) validateSentiment(path string, raw any) {
	s, ok := requireString(v, path, raw)
	if !ok {
		return
	}
	switch s {
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
	default:
		v.addf(path, "must be one of positive, neutral, negative; got %q", s)
	}
}

func (v *validator) validateMessages(path string, raw any) {
	obj, ok := requireObject(v, path, raw)
	if !ok {
		return
	}

	if rt, ok := requireObject(v, path+".response_time", obj["response_time"]); ok {
		if avg, ok := requireNumber(v, path+".response_time.avg", rt["avg"]); ok && avg < 0 {
			v.addf(path+".response_time.avg", "must be >= 0, got %v", avg)
		}
	}

	if amount, ok := requireObject(v, path+".amount", obj["amount"]); ok {
		user, userOK := requireInt(v, path+".amount.user", amount["user"])
		total, totalOK := requireInt(v, path+".amount.total", amount["total"])
		if userOK && totalOK && user > total {
			v.addf(path+".amount.user", "user count %d exceeds total %d", user, total)
		}
	}

	if tokens, ok := requireInt(v, path+".tokens", obj["tokens"]); ok && tokens < 0 {
		v.addf(path+".tokens", "must be >= 0, got %d", tokens)
	}

	if cost, ok := requireObject(v, path+".cost", obj["cost"]); ok {
		if eur, ok := requireObject(v, path+".cost.eur", cost["eur"]); ok {
			requireNumber(v, path+".cost.eur.cent", eur["cent"])
			requireNumber(v, path+".cost.eur.full", eur["full"])
		}
	}

	if u, ok := requireString(v, path+".source_url", obj["source_url"]); ok {
		parsed, err := url.Parse(u)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			v.addf(path+".source_url", "not an absolute URL: %q", u)
		}
	}
}

func (v *validator) validateTranscript(path string, raw any) {
	entries, ok := raw.([]any)
	if !ok {
		v.addf(path, "must be an array")
		return
	}
	for i, e := range entries {
		ep := fmt.Sprintf("%s.%d", path, i)
		obj, ok := requireObject(v, ep, e)
		if !ok {
			continue
		}
		requireTimestamp(v, ep+".timestamp", obj["timestamp"])
		if role, ok := requireString(v, ep+".role", obj["role"]); ok {
			if role != model.RoleUser && role != model.RoleAssistant {
				v.addf(ep+".role", "must be User or Assistant, got %q", role)
			}
		}
		requireString(v, ep+".content", obj["content"])
	}
}

func (v *validator) validateQuestions(path string, raw any) {
	qs, ok := raw.([]any)
	if !ok {
		v.addf(path, "must be an array of strings")
		return
	}
	for i, q := range qs {
		if _, ok := q.(string); !ok {
			v.addf(fmt.Sprintf("%s.%d", path, i), "must be a string")
		}
	}
}

func requireObject(v *validator, path string, raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf(path, "missing or not an object")
		return nil, false
	}
	return obj, true
}

func requireString(v *validator, path string, raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		v.addf(path, "missing or not a non-empty string")
		return "", false
	}
	return s, true
}

func requireBool(v *validator, path string, raw any) (bool, bool) {
	b, ok := raw.(bool)
	if !ok {
		v.addf(path, "missing or not a boolean")
		return false, false
	}
	return b, true
}

func requireNumber(v *validator, path string, raw any) (float64, bool) {
	n, ok := raw.(float64)
	if !ok {
		v.addf(path, "missing or not a number")
		return 0, false
	}
	return n, true
}

func requireInt(v *validator, path string, raw any) (int, bool) {
	n, ok := raw.(float64)
	if !ok || n != float64(int(n)) {
		v.addf(path, "missing or not an integer")
		return 0, false
	}
	return int(n), true
}

func requireTimestamp(v *validator, path string, raw any) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		v.addf(path, "missing or not a timestamp string")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		v.addf(path, "not an RFC3339 timestamp: %q", s)
		return time.Time{}, false
	}
	return t, true
}
