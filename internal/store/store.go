// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/kanatype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for words, scores and keystroke aggregates.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer: saves from the UI run concurrently with reads.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL UNIQUE,
			reading TEXT NOT NULL,
			romaji TEXT NOT NULL,
			correct_count INTEGER NOT NULL DEFAULT 0,
			miss_count INTEGER NOT NULL DEFAULT 0,
			last_played_at TEXT,
			accuracy REAL NOT NULL DEFAULT 100,
			mastery_level INTEGER NOT NULL DEFAULT 0,
			next_review_at TEXT,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			kps REAL NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			correct_words INTEGER NOT NULL,
			missed_words INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			played_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_outcomes (
			id INTEGER PRIMARY KEY,
			word_id INTEGER NOT NULL,
			success INTEGER NOT NULL,
			played_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS key_stats (
			char TEXT PRIMARY KEY,
			total_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS key_confusions (
			char TEXT NOT NULL,
			actual TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (char, actual)
		);`,
		`CREATE TABLE IF NOT EXISTS transition_stats (
			from_char TEXT NOT NULL,
			to_char TEXT NOT NULL,
			total_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			PRIMARY KEY (from_char, to_char)
		);`,
		`CREATE TABLE IF NOT EXISTS transition_confusions (
			from_char TEXT NOT NULL,
			to_char TEXT NOT NULL,
			actual TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (from_char, to_char, actual)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_word_outcomes_word_id ON word_outcomes(word_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type wordRow struct {
	ID                 int64          `db:"id"`
	Text               string         `db:"text"`
	Reading            string         `db:"reading"`
	Romaji             string         `db:"romaji"`
	CorrectCount       int            `db:"correct_count"`
	MissCount          int            `db:"miss_count"`
	LastPlayedAt       sql.NullString `db:"last_played_at"`
	Accuracy           float64        `db:"accuracy"`
	MasteryLevel       int            `db:"mastery_level"`
	NextReviewAt       sql.NullString `db:"next_review_at"`
	ConsecutiveCorrect int            `db:"consecutive_correct"`
	CreatedAt          string         `db:"created_at"`
}

func (r wordRow) toWord() (model.Word, error) {
	lastPlayed, err := parseNullTime(r.LastPlayedAt)
	if err != nil {
		return model.Word{}, err
	}
	nextReview, err := parseNullTime(r.NextReviewAt)
	if err != nil {
		return model.Word{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return model.Word{}, err
	}
	return model.Word{
		ID:      r.ID,
		Text:    r.Text,
		Reading: r.Reading,
		Romaji:  r.Romaji,
		Stats: model.WordStats{
			CorrectCount:       r.CorrectCount,
			MissCount:          r.MissCount,
			LastPlayedAt:       lastPlayed,
			Accuracy:           r.Accuracy,
			MasteryLevel:       r.MasteryLevel,
			NextReviewAt:       nextReview,
			ConsecutiveCorrect: r.ConsecutiveCorrect,
		},
		CreatedAt: created,
	}, nil
}

// AddWord inserts a word, or updates the reading and romaji of an existing
// word with the same text. It returns the word ID.
func (s *Store) AddWord(ctx context.Context, word model.Word) (int64, error) {
	created := word.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO words (text, reading, romaji, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(text) DO UPDATE SET reading = excluded.reading, romaji = excluded.romaji
		 RETURNING id`,
		word.Text, word.Reading, word.Romaji, created.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListWords returns all words ordered by ID.
func (s *Store) ListWords(ctx context.Context) ([]model.Word, error) {
	var rows []wordRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM words ORDER BY id ASC`); err != nil {
		return nil, err
	}
	words := make([]model.Word, 0, len(rows))
	for _, row := range rows {
		word, err := row.toWord()
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", row.ID, err)
		}
		words = append(words, word)
	}
	return words, nil
}

// DeleteWord removes a word and its outcomes.
func (s *Store) DeleteWord(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)
	res, err := tx.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("word %d not found", id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM word_outcomes WHERE word_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveWordStats replaces the learning state of a word.
func (s *Store) SaveWordStats(ctx context.Context, id int64, st model.WordStats) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE words SET correct_count = ?, miss_count = ?, last_played_at = ?, accuracy = ?,
			mastery_level = ?, next_review_at = ?, consecutive_correct = ?
		 WHERE id = ?`,
		st.CorrectCount, st.MissCount, formatNullTime(st.LastPlayedAt), st.Accuracy,
		st.MasteryLevel, formatNullTime(st.NextReviewAt), st.ConsecutiveCorrect, id)
	return err
}

// AppendOutcome records how a word play ended.
func (s *Store) AppendOutcome(ctx context.Context, outcome model.WordOutcome) error {
	success := 0
	if outcome.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_outcomes (word_id, success, played_at) VALUES (?, ?, ?)`,
		outcome.WordID, success, outcome.PlayedAt.Format(time.RFC3339Nano))
	return err
}

type outcomeRow struct {
	WordID   int64  `db:"word_id"`
	Success  bool   `db:"success"`
	PlayedAt string `db:"played_at"`
}

// RecentOutcomes returns up to n outcomes, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, n int) ([]model.WordOutcome, error) {
	if n <= 0 {
		return nil, nil
	}
	var rows []outcomeRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT word_id, success, played_at FROM word_outcomes ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	out := make([]model.WordOutcome, 0, len(rows))
	for _, row := range rows {
		playedAt, err := time.Parse(time.RFC3339Nano, row.PlayedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, model.WordOutcome{WordID: row.WordID, Success: row.Success, PlayedAt: playedAt})
	}
	return out, nil
}

// AppendScore stores a completed session summary.
func (s *Store) AppendScore(ctx context.Context, score model.GameScoreRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (run_id, kps, total_keystrokes, accuracy, correct_words, missed_words, total_words, duration_ms, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		score.RunID, score.Kps, score.TotalKeystrokes, score.Accuracy, score.CorrectWords,
		score.MissedWords, score.TotalWords, score.DurationMs, score.PlayedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type scoreRow struct {
	ID              int64   `db:"id"`
	RunID           string  `db:"run_id"`
	Kps             float64 `db:"kps"`
	TotalKeystrokes int     `db:"total_keystrokes"`
	Accuracy        float64 `db:"accuracy"`
	CorrectWords    int     `db:"correct_words"`
	MissedWords     int     `db:"missed_words"`
	TotalWords      int     `db:"total_words"`
	DurationMs      int64   `db:"duration_ms"`
	PlayedAt        string  `db:"played_at"`
}

// ListRecentScores returns up to n scores, newest first. A non-positive n
// returns all scores.
func (s *Store) ListRecentScores(ctx context.Context, n int) ([]model.GameScoreRecord, error) {
	return s.selectScores(ctx, `SELECT * FROM scores ORDER BY id DESC LIMIT ?`, n)
}

// ListRecentTimedScores returns up to n scores with a positive kps and
// duration, newest first. A non-positive n returns all of them.
func (s *Store) ListRecentTimedScores(ctx context.Context, n int) ([]model.GameScoreRecord, error) {
	return s.selectScores(ctx,
		`SELECT * FROM scores WHERE kps > 0 AND duration_ms > 0 ORDER BY id DESC LIMIT ?`, n)
}

func (s *Store) selectScores(ctx context.Context, query string, n int) ([]model.GameScoreRecord, error) {
	limit := n
	if limit <= 0 {
		limit = -1
	}
	var rows []scoreRow
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}
	out := make([]model.GameScoreRecord, 0, len(rows))
	for _, row := range rows {
		playedAt, err := time.Parse(time.RFC3339Nano, row.PlayedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, model.GameScoreRecord{
			ID:              row.ID,
			RunID:           row.RunID,
			Kps:             row.Kps,
			TotalKeystrokes: row.TotalKeystrokes,
			Accuracy:        row.Accuracy,
			CorrectWords:    row.CorrectWords,
			MissedWords:     row.MissedWords,
			TotalWords:      row.TotalWords,
			DurationMs:      row.DurationMs,
			PlayedAt:        playedAt,
		})
	}
	return out, nil
}

type keyRow struct {
	Char         string `db:"char"`
	TotalCount   int    `db:"total_count"`
	ErrorCount   int    `db:"error_count"`
	LatencySumMs int64  `db:"latency_sum_ms"`
}

type transitionRow struct {
	FromChar     string `db:"from_char"`
	ToChar       string `db:"to_char"`
	TotalCount   int    `db:"total_count"`
	ErrorCount   int    `db:"error_count"`
	LatencySumMs int64  `db:"latency_sum_ms"`
}

type confusionRow struct {
	FromChar string `db:"from_char"`
	Char     string `db:"char"`
	Actual   string `db:"actual"`
	Count    int    `db:"count"`
}

// LoadKeyStats returns the aggregated key and transition statistics.
func (s *Store) LoadKeyStats(ctx context.Context) ([]model.KeyStats, []model.KeyTransitionStats, error) {
	var keyRows []keyRow
	if err := s.db.SelectContext(ctx, &keyRows, `SELECT * FROM key_stats ORDER BY char`); err != nil {
		return nil, nil, err
	}
	var keyConfusions []confusionRow
	if err := s.db.SelectContext(ctx, &keyConfusions,
		`SELECT '' AS from_char, char, actual, count FROM key_confusions`); err != nil {
		return nil, nil, err
	}
	keys := make([]model.KeyStats, 0, len(keyRows))
	keyIndex := make(map[string]int, len(keyRows))
	for _, row := range keyRows {
		keyIndex[row.Char] = len(keys)
		keys = append(keys, model.KeyStats{
			Key:          row.Char,
			TotalCount:   row.TotalCount,
			ErrorCount:   row.ErrorCount,
			LatencySumMs: row.LatencySumMs,
			ConfusedWith: map[string]int{},
		})
	}
	for _, c := range keyConfusions {
		if i, ok := keyIndex[c.Char]; ok {
			keys[i].ConfusedWith[c.Actual] = c.Count
		}
	}

	var trRows []transitionRow
	if err := s.db.SelectContext(ctx, &trRows, `SELECT * FROM transition_stats ORDER BY from_char, to_char`); err != nil {
		return nil, nil, err
	}
	var trConfusions []confusionRow
	if err := s.db.SelectContext(ctx, &trConfusions,
		`SELECT from_char, to_char AS char, actual, count FROM transition_confusions`); err != nil {
		return nil, nil, err
	}
	transitions := make([]model.KeyTransitionStats, 0, len(trRows))
	trIndex := make(map[model.Transition]int, len(trRows))
	for _, row := range trRows {
		tr := model.Transition{From: row.FromChar, To: row.ToChar}
		trIndex[tr] = len(transitions)
		transitions = append(transitions, model.KeyTransitionStats{
			Transition:   tr,
			TotalCount:   row.TotalCount,
			ErrorCount:   row.ErrorCount,
			LatencySumMs: row.LatencySumMs,
			ConfusedWith: map[string]int{},
		})
	}
	for _, c := range trConfusions {
		if i, ok := trIndex[model.Transition{From: c.FromChar, To: c.Char}]; ok {
			transitions[i].ConfusedWith[c.Actual] = c.Count
		}
	}
	return keys, transitions, nil
}

// SaveKeyStats replaces the stored aggregates with the given values.
func (s *Store) SaveKeyStats(ctx context.Context, keys []model.KeyStats, transitions []model.KeyTransitionStats) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	for _, stmt := range []string{
		`DELETE FROM key_stats`,
		`DELETE FROM key_confusions`,
		`DELETE FROM transition_stats`,
		`DELETE FROM transition_confusions`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, ks := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO key_stats (char, total_count, error_count, latency_sum_ms) VALUES (?, ?, ?, ?)`,
			ks.Key, ks.TotalCount, ks.ErrorCount, ks.LatencySumMs); err != nil {
			return err
		}
		for actual, count := range ks.ConfusedWith {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO key_confusions (char, actual, count) VALUES (?, ?, ?)`,
				ks.Key, actual, count); err != nil {
				return err
			}
		}
	}
	for _, ts := range transitions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transition_stats (from_char, to_char, total_count, error_count, latency_sum_ms) VALUES (?, ?, ?, ?, ?)`,
			ts.Transition.From, ts.Transition.To, ts.TotalCount, ts.ErrorCount, ts.LatencySumMs); err != nil {
			return err
		}
		for actual, count := range ts.ConfusedWith {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transition_confusions (from_char, to_char, actual, count) VALUES (?, ?, ?, ?)`,
				ts.Transition.From, ts.Transition.To, actual, count); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func rollback(tx *sqlx.Tx) {
	if rerr := tx.Rollback(); rerr != nil {
		// Best-effort rollback; fails with ErrTxDone after commit.
		_ = rerr
	}
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
