package learning

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/locator"

	_ "modernc.org/sqlite"
)

// persistentDB wraps the optional SQLite backing of a Store. The driver is
// modernc.org/sqlite, a pure Go implementation, so no CGo toolchain is
// needed on CI runners.
type persistentDB struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS learning_records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	element_id    TEXT NOT NULL,
	locator_type  TEXT NOT NULL,
	locator_value TEXT NOT NULL,
	text          TEXT NOT NULL DEFAULT '',
	tag           TEXT NOT NULL DEFAULT '',
	attributes    TEXT NOT NULL DEFAULT '{}',
	sibling_count INTEGER NOT NULL DEFAULT 0,
	position      INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL,
	recorded_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_learning_records_element
	ON learning_records(element_id);
`

// Persist attaches a SQLite database at path to the store: existing history
// is loaded (retraining if enough records accumulated) and every future
// outcome is appended. A store without persistence works identically, so
// callers may treat a failure here as a warning and continue in-memory.
func (s *Store) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create learning db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open learning db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate learning db: %w", err)
	}

	s.db = &persistentDB{db: db}
	if err := s.loadHistory(); err != nil {
		s.db = nil
		db.Close()
		return err
	}
	return nil
}

// Close releases the backing database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.db.Close()
	s.db = nil
	return err
}

// loadHistory replays persisted records into the in-memory history.
func (s *Store) loadHistory() error {
	rows, err := s.db.db.Query(`
		SELECT element_id, locator_type, locator_value, text, tag,
		       attributes, sibling_count, position, success, recorded_at
		FROM learning_records ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load learning history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			elementID, locType, locValue, text, tag, attrsJSON string
			siblings, position                                 int
			success                                            bool
			recordedAt                                         time.Time
		)
		if err := rows.Scan(&elementID, &locType, &locValue, &text, &tag,
			&attrsJSON, &siblings, &position, &success, &recordedAt); err != nil {
			return fmt.Errorf("failed to scan learning record: %w", err)
		}

		sig := Signature{
			LocatorType:  locator.Type(locType),
			LocatorValue: locValue,
			Text:         text,
			Tag:          tag,
			SiblingCount: siblings,
			Position:     position,
		}
		if attrsJSON != "" && attrsJSON != "{}" {
			// Corrupt attribute JSON degrades to an attribute-less signature.
			_ = json.Unmarshal([]byte(attrsJSON), &sig.Attributes)
		}

		feats, ferr := extractFeatures(sig)
		if ferr != nil {
			feats = nil
		}
		if _, ok := s.history[elementID]; !ok {
			s.order = append(s.order, elementID)
		}
		s.history[elementID] = append(s.history[elementID], Record{
			Signature: sig,
			Features:  feats,
			Success:   success,
			Timestamp: recordedAt,
		})
		s.total++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate learning history: %w", err)
	}

	if s.total >= s.batchSize {
		s.retrain()
	}
	return nil
}

// append writes one record; persistence failures never break resolution.
func (p *persistentDB) append(elementID string, rec Record) {
	attrsJSON := "{}"
	if len(rec.Signature.Attributes) > 0 {
		if data, err := json.Marshal(rec.Signature.Attributes); err == nil {
			attrsJSON = string(data)
		}
	}
	_, _ = p.db.Exec(`
		INSERT INTO learning_records
			(element_id, locator_type, locator_value, text, tag, attributes,
			 sibling_count, position, success, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		elementID,
		string(rec.Signature.LocatorType),
		rec.Signature.LocatorValue,
		rec.Signature.Text,
		rec.Signature.Tag,
		attrsJSON,
		rec.Signature.SiblingCount,
		rec.Signature.Position,
		rec.Success,
		rec.Timestamp,
	)
}
