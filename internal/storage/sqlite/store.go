// Package sqlite provides the SQLite-backed settlement storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/croftland/croftland/internal/platform/storage/sqlitemigrate"
	"github.com/croftland/croftland/internal/storage"
	"github.com/croftland/croftland/internal/storage/sqlite/migrations"
)

// Store persists session history and settlement results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendAction journals one acknowledged off-chain action.
func (s *Store) AppendAction(ctx context.Context, record storage.ActionRecord) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	at := record.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO session_actions (session_id, entity_id, kind, amount_usd, at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.SessionID, record.EntityID, record.Kind, record.AmountUSD, toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("insert session action: %w", err)
	}
	return nil
}

// PutSettlement stores one settlement attempt with its legs.
func (s *Store) PutSettlement(ctx context.Context, record storage.SettlementRecord) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement insert: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO settlements (session_id, action_count, savings_usd, settled_at)
		 VALUES (?, ?, ?, ?)`,
		record.SessionID, record.ActionCount, record.SavingsUSD, toMillis(record.SettledAt),
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert settlement: %w", err)
	}
	settlementID, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("settlement insert id: %w", err)
	}

	for position, leg := range record.Legs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settlement_legs (settlement_id, position, protocol, status, tx_hash, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			settlementID, position, leg.Protocol, leg.Status, leg.TxHash, leg.Error,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert settlement leg %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement insert: %w", err)
	}
	return nil
}

// ListSettlements returns the most recent settlements, newest first.
func (s *Store) ListSettlements(ctx context.Context, limit int) ([]storage.SettlementRecord, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, session_id, action_count, savings_usd, settled_at
		 FROM settlements ORDER BY settled_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query settlements: %w", err)
	}
	defer rows.Close()

	var records []storage.SettlementRecord
	var ids []int64
	for rows.Next() {
		var rowID, settledAt int64
		var record storage.SettlementRecord
		if err := rows.Scan(&rowID, &record.SessionID, &record.ActionCount, &record.SavingsUSD, &settledAt); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		record.SettledAt = fromMillis(settledAt)
		records = append(records, record)
		ids = append(ids, rowID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}

	for i, rowID := range ids {
		legs, err := s.legsFor(ctx, rowID)
		if err != nil {
			return nil, err
		}
		records[i].Legs = legs
	}
	return records, nil
}

func (s *Store) legsFor(ctx context.Context, settlementID int64) ([]storage.SettlementLeg, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT protocol, status, tx_hash, error
		 FROM settlement_legs WHERE settlement_id = ? ORDER BY position`, settlementID)
	if err != nil {
		return nil, fmt.Errorf("query settlement legs: %w", err)
	}
	defer rows.Close()

	var legs []storage.SettlementLeg
	for rows.Next() {
		var leg storage.SettlementLeg
		if err := rows.Scan(&leg.Protocol, &leg.Status, &leg.TxHash, &leg.Error); err != nil {
			return nil, fmt.Errorf("scan settlement leg: %w", err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement legs: %w", err)
	}
	return legs, nil
}

// AppendTelemetryEvent records one operational event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO telemetry_events (source, severity, message, timestamp)
		 VALUES (?, ?, ?, ?)`,
		event.Source, event.Severity, event.Message, toMillis(timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert telemetry event: %w", err)
	}
	return nil
}
