/*
Package sqlite provides a SQLite-backed receipt journal.

PURPOSE:
  Implements transaction.Archive so the server deployment can keep an
  audit copy of every receipt. The engine's invariants never depend on
  this journal; the core runs equally well on the in-memory archive.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements on the receipt tables
  - A duplicate receipt id fails the whole append

KEY TABLES:
  receipts:      One row per receipt (id, kind, total, employee, timing)
  receipt_lines: Ordered captured lines (position, barcode, qty, price)

WAL MODE:
  Opened with WAL so readers never block the single writer and crash
  recovery is cheap. Use ":memory:" for tests.

USAGE:
  journal, err := sqlite.New("./data/receipts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer journal.Close()

  orch := transaction.NewOrchestrator(inv, journal, logger)

SEE ALSO:
  - transaction/archive.go: Interface and in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/transaction"
)

// Store implements transaction.Archive on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the journal at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Receipts (append-only journal)
	CREATE TABLE IF NOT EXISTS receipts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		total TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		employee_role TEXT NOT NULL,
		original_receipt_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_receipts_kind
		ON receipts(kind);
	CREATE INDEX IF NOT EXISTS idx_receipts_created_at
		ON receipts(created_at);
	CREATE INDEX IF NOT EXISTS idx_receipts_original
		ON receipts(original_receipt_id) WHERE original_receipt_id IS NOT NULL;

	-- Captured lines, ordered by position within a receipt
	CREATE TABLE IF NOT EXISTS receipt_lines (
		receipt_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		barcode TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		PRIMARY KEY (receipt_id, position),
		FOREIGN KEY (receipt_id) REFERENCES receipts(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ARCHIVE IMPLEMENTATION
// =============================================================================

// Append journals a receipt and its lines atomically.
func (s *Store) Append(ctx context.Context, r *transaction.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	emp := r.ProcessedBy()
	var original sql.NullString
	if r.OriginalReceiptID() != "" {
		original = sql.NullString{String: r.OriginalReceiptID(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receipts (id, kind, total, employee_id, employee_name, employee_role, original_receipt_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID(), string(r.Kind()), r.Total().String(),
		emp.ID, emp.Name, string(emp.Role),
		original, r.CreatedAt().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return transaction.ErrDuplicateReceiptID
		}
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, line := range r.Lines() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO receipt_lines (receipt_id, position, barcode, name, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID(), i, line.Barcode(), line.Name(), line.Quantity(), line.UnitPrice().String())
		if err != nil {
			return fmt.Errorf("failed to insert receipt line: %w", err)
		}
	}

	return tx.Commit()
}

// Find rebuilds a receipt from the journal. Returns (nil, nil) when absent.
func (s *Store) Find(ctx context.Context, id string) (*transaction.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, total, employee_id, employee_name, employee_role, original_receipt_id, created_at
		FROM receipts WHERE id = ?`, id)

	var (
		receiptID, kind, totalStr string
		empID, empName, empRole   string
		original                  sql.NullString
		createdAtStr              string
	)
	if err := row.Scan(&receiptID, &kind, &totalStr, &empID, &empName, &empRole, &original, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt receipt total %q: %w", totalStr, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt receipt timestamp %q: %w", createdAtStr, err)
	}

	lines, err := s.loadLines(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	emp := employee.Employee{ID: empID, Name: empName, Role: employee.Role(empRole)}
	return transaction.RestoreReceipt(receiptID, createdAt, lines, total, emp,
		transaction.Kind(kind), original.String), nil
}

func (s *Store) loadLines(ctx context.Context, receiptID string) ([]transaction.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT barcode, name, quantity, unit_price
		FROM receipt_lines WHERE receipt_id = ? ORDER BY position`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt lines: %w", err)
	}
	defer rows.Close()

	var lines []transaction.LineItem
	for rows.Next() {
		var (
			barcode, name, priceStr string
			quantity                int
		)
		if err := rows.Scan(&barcode, &name, &quantity, &priceStr); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt line price %q: %w", priceStr, err)
		}
		lines = append(lines, transaction.RestoreLineItem(barcode, name, quantity, price))
	}
	return lines, rows.Err()
}

// Compile-time check that Store implements transaction.Archive.
var _ transaction.Archive = (*Store)(nil)
