package engine

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"chatlytics/internal/model"
)

// csvHeader is the fixed export header. Column order is part of the export
// contract.
const csvHeader = "session_id,start_time,end_time,ip,country,language," +
	"messages_sent,sentiment,escalated,forwarded_hr,full_transcript," +
	"avg_response_time,tokens,tokens_eur,category,initial_msg,user_rating"

type csvRow struct {
	sessionID, startTime, endTime, ip, country, language string
	sentiment, category                                  string
	messagesTotal, escalated, forwardedHR                int
	avgResponse, costEUR                                 float64
	tokens                                               int64
	rating                                               sql.NullFloat64
}

// ExportCSV renders one row per session in the range as CSV text.
// A range with no sessions yields exactly the empty string, not a
// header-only file.
func (e *Engine) ExportCSV(r model.DateRange) (string, error) {
	lo, hi := rangeBounds(r)

	// The session rows are drained before the per-session transcript and
	// question lookups run; those need the connection back when the pool is
	// pinned to a single connection.
	sessions, err := e.csvRows(lo, hi)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, row := range sessions {
		transcript, err := e.transcriptText(row.sessionID)
		if err != nil {
			return "", err
		}
		initialMsg, err := e.initialQuestion(row.sessionID)
		if err != nil {
			return "", err
		}

		ratingStr := ""
		if row.rating.Valid {
			ratingStr = strconv.FormatFloat(row.rating.Float64, 'f', -1, 64)
		}

		fields := []string{
			row.sessionID, row.startTime, row.endTime, row.ip, row.country,
			row.language,
			strconv.Itoa(row.messagesTotal), row.sentiment,
			strconv.FormatBool(row.escalated != 0),
			strconv.FormatBool(row.forwardedHR != 0),
			transcript,
			strconv.FormatFloat(row.avgResponse, 'f', -1, 64),
			strconv.FormatInt(row.tokens, 10),
			strconv.FormatFloat(row.costEUR, 'f', -1, 64),
			row.category, initialMsg, ratingStr,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(f))
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func (e *Engine) csvRows(lo, hi string) ([]csvRow, error) {
	rows, err := e.db.Query(`SELECT
		session_id, start_time, end_time, user_ip, country, language,
		messages_total, sentiment, escalated, forwarded_hr,
		avg_response_secs, tokens, cost_eur_full, category, user_rating
		FROM sessions
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("exporting csv: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []csvRow
	for rows.Next() {
		var row csvRow
		err := rows.Scan(&row.sessionID, &row.startTime, &row.endTime, &row.ip,
			&row.country, &row.language, &row.messagesTotal, &row.sentiment,
			&row.escalated, &row.forwardedHR, &row.avgResponse, &row.tokens,
			&row.costEUR, &row.category, &row.rating)
		if err != nil {
			return nil, fmt.Errorf("exporting csv: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exporting csv: %w", err)
	}
	return out, nil
}

// transcriptText joins a session's transcript into "role: content" lines.
func (e *Engine) transcriptText(sessionID string) (string, error) {
	rows, err := e.db.Query(
		"SELECT role, content FROM messages WHERE session_id = ? ORDER BY seq",
		sessionID)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return "", fmt.Errorf("reading transcript: %w", err)
		}
		lines = append(lines, role+": "+content)
	}
	return strings.Join(lines, "\n"), rows.Err()
}

// initialQuestion returns the first recorded question for a session, if any.
func (e *Engine) initialQuestion(sessionID string) (string, error) {
	var q string
	err := e.db.QueryRow(
		"SELECT question FROM questions WHERE session_id = ? ORDER BY seq LIMIT 1",
		sessionID).Scan(&q)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading initial question: %w", err)
	}
	return q, nil
}

// escapeCSV applies RFC 4180 quoting: fields containing a comma, quote, or
// newline are wrapped in double quotes with internal quotes doubled.
func escapeCSV(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
