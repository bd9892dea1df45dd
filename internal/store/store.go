// Package store provides the embedded SQLite-backed session store.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // register sqlite driver

	"chatlytics/internal/model"
)

// Store holds the three related session tables and supports transactional
// bulk replace. It is the only owner of the relational projection.
type Store struct {
	db   *sql.DB
	path string
	log  *logrus.Logger
}

// Open opens or creates the store database at the given path and applies the
// schema idempotently.
func Open(dbPath string, log *logrus.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, path: dbPath, log: log}, nil
}

// OpenMemory opens an in-memory store. Multiple connections to :memory:
// would each see their own database, so the pool is pinned to one.
func OpenMemory(log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the handle for read-only aggregation queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the on-disk database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// BulkLoad replaces the entire dataset with the given sessions inside one
// transaction. Existing rows in messages, questions, and sessions are deleted
// in that dependency order before reinserting. A per-session insert failure
// is logged and recorded in the report but does not abort the transaction;
// only an engine-level failure (begin, the bulk deletes, commit) rolls the
// whole load back.
func (s *Store) BulkLoad(sessions []model.Session) (model.LoadReport, error) {
	var report model.LoadReport

	tx, err := s.db.Begin()
	if err != nil {
		return report, fmt.Errorf("beginning bulk load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"messages", "questions", "sessions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return report, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, sess := range sessions {
		if err := insertSession(tx, sess); err != nil {
			s.log.WithFields(logrus.Fields{
				"index":      i,
				"session_id": sess.SessionID,
			}).WithError(err).Warn("skipping session during bulk load")
			report.Skipped = append(report.Skipped, model.SkippedSession{
				Index:     i,
				SessionID: sess.SessionID,
				Reason:    err.Error(),
			})
			continue
		}
		report.InsertedCount++
	}

	if err := tx.Commit(); err != nil {
		return model.LoadReport{}, fmt.Errorf("committing bulk load: %w", err)
	}
	return report, nil
}

func insertSession(tx *sql.Tx, sess model.Session) error {
	var rating any
	if sess.UserRating != nil {
		rating = *sess.UserRating
	}

	_, err := tx.Exec(`INSERT INTO sessions
		(session_id, start_time, end_time, user_ip, country, language,
		 sentiment, escalated, forwarded_hr, category, summary, user_rating,
		 avg_response_secs, messages_user, messages_total, tokens,
		 cost_eur_cent, cost_eur_full, source_url, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.SessionID,
		sess.StartTime.UTC().Format(time.RFC3339),
		sess.EndTime.UTC().Format(time.RFC3339),
		sess.User.IP, sess.User.Country, sess.User.Language,
		sess.Sentiment, boolToInt(sess.Escalated), boolToInt(sess.ForwardedHR),
		sess.Category, sess.Summary, rating,
		sess.Messages.ResponseTime.Avg, sess.Messages.Amount.User,
		sess.Messages.Amount.Total, sess.Messages.Tokens,
		sess.Messages.Cost.EUR.Cent, sess.Messages.Cost.EUR.Full,
		sess.Messages.SourceURL, sess.ConversationDurationSeconds,
	)
	if err != nil {
		return err
	}

	for seq, entry := range sess.Transcript {
		_, err := tx.Exec(`INSERT INTO messages (session_id, seq, timestamp, role, content)
			VALUES (?, ?, ?, ?, ?)`,
			sess.SessionID, seq, entry.Timestamp.UTC().Format(time.RFC3339),
			entry.Role, entry.Content,
		)
		if err != nil {
			return fmt.Errorf("transcript entry %d: %w", seq, err)
		}
	}

	for seq, q := range sess.Questions {
		_, err := tx.Exec(`INSERT INTO questions (session_id, seq, question)
			VALUES (?, ?, ?)`,
			sess.SessionID, seq, q,
		)
		if err != nil {
			return fmt.Errorf("question %d: %w", seq, err)
		}
	}

	return nil
}

// Stats returns the total session count and the oldest/newest start times.
// An empty or failing store reports zero values rather than an error.
func (s *Store) Stats() model.DatabaseStats {
	var stats model.DatabaseStats
	var minStr, maxStr sql.NullString

	err := s.db.QueryRow(
		"SELECT COUNT(*), MIN(start_time), MAX(start_time) FROM sessions",
	).Scan(&stats.TotalSessions, &minStr, &maxStr)
	if err != nil {
		s.log.WithError(err).Warn("reading store stats")
		return model.DatabaseStats{}
	}

	if minStr.Valid {
		stats.OldestSession, _ = time.Parse(time.RFC3339, minStr.String)
	}
	if maxStr.Valid {
		stats.NewestSession, _ = time.Parse(time.RFC3339, maxStr.String)
	}
	return stats
}

// Clear deletes all rows from every table without destroying the store.
func (s *Store) Clear() error {
	for _, table := range []string{"messages", "questions", "sessions"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Checkpoint flushes the WAL into the main database file so the on-disk
// bytes are a complete snapshot. No-op for in-memory stores.
func (s *Store) Checkpoint() error {
	if s.path == "" {
		return nil
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing wal: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
