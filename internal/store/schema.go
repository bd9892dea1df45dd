package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id         TEXT PRIMARY KEY,
    start_time         TEXT NOT NULL,
    end_time           TEXT NOT NULL,
    user_ip            TEXT NOT NULL,
    country            TEXT NOT NULL,
    language           TEXT NOT NULL,
    sentiment          TEXT NOT NULL,
    escalated          INTEGER NOT NULL DEFAULT 0,
    forwarded_hr       INTEGER NOT NULL DEFAULT 0,
    category           TEXT NOT NULL,
    summary            TEXT,
    user_rating        REAL,
    avg_response_secs  REAL NOT NULL DEFAULT 0,
    messages_user      INTEGER NOT NULL DEFAULT 0,
    messages_total     INTEGER NOT NULL DEFAULT 0,
    tokens             INTEGER NOT NULL DEFAULT 0,
    cost_eur_cent      REAL NOT NULL DEFAULT 0,
    cost_eur_full      REAL NOT NULL DEFAULT 0,
    source_url         TEXT,
    duration_secs      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    session_id         TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    seq                INTEGER NOT NULL,
    timestamp          TEXT NOT NULL,
    role               TEXT NOT NULL,
    content            TEXT NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE TABLE IF NOT EXISTS questions (
    session_id         TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    seq                INTEGER NOT NULL,
    question           TEXT NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time);
CREATE INDEX IF NOT EXISTS idx_sessions_country ON sessions(country);
`
