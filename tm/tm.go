// Package tm keeps translated messages in a SQLite translation memory so
// later merges can recycle translations that would otherwise be retyped.
package tm

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/acronis/go-gettext"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const schema = `
CREATE TABLE IF NOT EXISTS "message" (
    "lang" TEXT NOT NULL,
    "context" TEXT NOT NULL,
    "id" TEXT NOT NULL,
    "id_plural" TEXT NOT NULL,
    "str_json" TEXT NOT NULL,
    "updated_at" TIMESTAMP NOT NULL,
    UNIQUE ("lang", "context", "id")
);
CREATE INDEX IF NOT EXISTS "message_lang" ON "message" ("lang");
`

const upsertQuery = `
INSERT INTO message (lang, context, id, id_plural, str_json, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (lang, context, id) DO UPDATE SET
    id_plural = excluded.id_plural,
    str_json = excluded.str_json,
    updated_at = excluded.updated_at`

// DB is an open translation memory.
type DB struct {
	db *sqlx.DB
}

// Open opens a translation memory database, creating the file and the
// schema when absent. Pass ":memory:" for a throwaway instance.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open translation memory: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure translation memory: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create translation memory schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record upserts the fully translated messages of one language and reports
// how many rows were written. Untranslated and partially translated
// messages are skipped; an already remembered message is overwritten.
func (d *DB) Record(lang string, msgs []gettext.Message) (int, error) {
	lang = gettext.NormalizeLang(lang)
	if lang == "" {
		return 0, errors.New("record translations: language is required")
	}
	tx, err := d.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("record translations: %w", err)
	}
	now := time.Now().UTC()
	n := 0
	for i := range msgs {
		m := &msgs[i]
		if !m.IsTranslated() {
			continue
		}
		strJSON, err := json.Marshal(m.Str)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("record %q: %w", m.ID, err)
		}
		if _, err := tx.Exec(upsertQuery, lang, m.Context, m.ID, m.IDPlural, string(strJSON), now); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("record %q: %w", m.ID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record translations: %w", err)
	}
	return n, nil
}

// Suggest looks up the remembered translation of a message. The second
// result is false when the memory holds nothing for the key.
func (d *DB) Suggest(lang string, key gettext.MessageKey) (gettext.Message, bool, error) {
	var row struct {
		IDPlural string `db:"id_plural"`
		StrJSON  string `db:"str_json"`
	}
	err := d.db.Get(&row,
		`SELECT id_plural, str_json FROM message WHERE lang = ? AND context = ? AND id = ?`,
		gettext.NormalizeLang(lang), key.Context, key.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return gettext.Message{}, false, nil
	case err != nil:
		return gettext.Message{}, false, fmt.Errorf("suggest %q: %w", key.ID, err)
	}
	msg := gettext.Message{Context: key.Context, ID: key.ID, IDPlural: row.IDPlural}
	if err := json.Unmarshal([]byte(row.StrJSON), &msg.Str); err != nil {
		return gettext.Message{}, false, fmt.Errorf("suggest %q: %w", key.ID, err)
	}
	return msg, true, nil
}

// Stats counts the remembered messages, across all languages when lang is
// empty.
func (d *DB) Stats(lang string) (int, error) {
	var count int
	var err error
	if lang == "" {
		err = d.db.Get(&count, `SELECT COUNT(*) FROM message`)
	} else {
		err = d.db.Get(&count, `SELECT COUNT(*) FROM message WHERE lang = ?`, gettext.NormalizeLang(lang))
	}
	if err != nil {
		return 0, fmt.Errorf("translation memory stats: %w", err)
	}
	return count, nil
}

// Languages lists the languages the memory holds, sorted.
func (d *DB) Languages() ([]string, error) {
	var langs []string
	if err := d.db.Select(&langs, `SELECT DISTINCT lang FROM message ORDER BY lang`); err != nil {
		return nil, fmt.Errorf("translation memory languages: %w", err)
	}
	return langs, nil
}
