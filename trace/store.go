// CLAUDE:SUMMARY SQLite-backed trace Recorder — synchronous atomic appends, newest-first listing.
package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/moncel/intake/dbopen"
	"github.com/moncel/intake/idgen"
)

// Schema for the trace_records table. Applied by Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS trace_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id TEXT NOT NULL UNIQUE,
	input_id TEXT NOT NULL,
	received_at INTEGER NOT NULL,
	format TEXT NOT NULL,
	intent TEXT NOT NULL,
	extraction TEXT NOT NULL,
	action TEXT NOT NULL,
	reason TEXT NOT NULL,
	target TEXT,
	dispatch_status TEXT NOT NULL,
	dispatch_detail TEXT,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trace_records_input ON trace_records(input_id);
CREATE INDEX IF NOT EXISTS idx_trace_records_recorded ON trace_records(recorded_at);
`

// Store persists trace records to SQLite. Appends are synchronous: the
// caller learns immediately whether the audit record made it to disk,
// which is the one failure the pipeline surfaces as fatal.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator sets a custom generator for record IDs.
func WithIDGenerator(gen idgen.Generator) StoreOption {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates a trace store backed by the given database.
func NewStore(db *sql.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:    db,
		newID: idgen.Prefixed("trc_", idgen.UUIDv7()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init creates the trace_records table and its indexes if they do not
// exist. The statements run in one transaction with busy retry, so a
// concurrently starting process sees either the full schema or none.
func (s *Store) Init() error {
	return dbopen.RunTx(context.Background(), s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(Schema)
		return err
	})
}

// Append inserts one record. It fills RecordID and RecordedAt when unset.
// SQLite serializes concurrent inserts, so each append is one atomic row.
func (s *Store) Append(ctx context.Context, rec *Record) error {
	if rec.RecordID == "" {
		rec.RecordID = s.newID()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	_, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO trace_records (
			record_id, input_id, received_at, format, intent, extraction,
			action, reason, target, dispatch_status, dispatch_detail, recorded_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RecordID, rec.InputID, rec.ReceivedAt.UnixMicro(),
		rec.Format, rec.Intent, rec.Extraction,
		rec.Action, rec.Reason, rec.Target,
		rec.DispatchStatus, rec.DispatchDetail, rec.RecordedAt.UnixMicro())
	if err != nil {
		return fmt.Errorf("trace: append %s: %w", rec.InputID, err)
	}
	return nil
}

// List returns up to limit records, newest first. A non-positive limit
// defaults to 100.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, input_id, received_at, format, intent, extraction,
			action, reason, COALESCE(target, ''),
			dispatch_status, COALESCE(dispatch_detail, ''), recorded_at
		FROM trace_records ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("trace: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var receivedUs, recordedUs int64
		if err := rows.Scan(&rec.RecordID, &rec.InputID, &receivedUs,
			&rec.Format, &rec.Intent, &rec.Extraction,
			&rec.Action, &rec.Reason, &rec.Target,
			&rec.DispatchStatus, &rec.DispatchDetail, &recordedUs); err != nil {
			return nil, fmt.Errorf("trace: scan: %w", err)
		}
		rec.ReceivedAt = time.UnixMicro(receivedUs).UTC()
		rec.RecordedAt = time.UnixMicro(recordedUs).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows: %w", err)
	}
	return records, nil
}

// Close is a no-op; the caller owns the *sql.DB.
func (s *Store) Close() error { return nil }
