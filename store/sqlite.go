// Package store persists the initial simulation snapshot in SQLite. The
// store is bootstrapped once from the seed files and afterwards serves as
// the durable source Reset reloads from: the live simulation never writes
// back, so the stored rows stay the pristine seed state.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/bookstore-sim/bookstore-sim/sim"
)

// ErrEmptySnapshot is returned when the store holds no inventory rows.
var ErrEmptySnapshot = errors.New("snapshot store holds no inventory")

const schema = `
CREATE TABLE IF NOT EXISTS inventory (
	isbn          TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	author        TEXT NOT NULL DEFAULT '',
	genre         TEXT NOT NULL DEFAULT '',
	price         REAL NOT NULL CHECK (price >= 0),
	quantity      INTEGER NOT NULL CHECK (quantity >= 0),
	low_threshold INTEGER NOT NULL CHECK (low_threshold >= 0)
);
CREATE TABLE IF NOT EXISTS customers (
	customer_id TEXT PRIMARY KEY,
	budget      REAL NOT NULL CHECK (budget >= 0)
);
CREATE TABLE IF NOT EXISTS employees (
	employee_id TEXT PRIMARY KEY
);
`

// SnapshotStore holds the seed snapshot in a SQLite database.
// It implements sim.SeedSource.
type SnapshotStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the snapshot database at path.
func Open(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot store schema: %w", err)
	}
	return &SnapshotStore{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Empty reports whether the store has been bootstrapped yet.
func (s *SnapshotStore) Empty() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		return false, fmt.Errorf("count inventory: %w", err)
	}
	return n == 0, nil
}

// Bootstrap replaces the stored snapshot with snap, transactionally.
func (s *SnapshotStore) Bootstrap(snap sim.SeedSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("bootstrap snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"inventory", "customers", "employees"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, item := range snap.Items {
		_, err := tx.Exec(
			`INSERT INTO inventory (isbn, title, author, genre, price, quantity, low_threshold)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ISBN, item.Title, item.Author, item.Genre, item.Price, item.Quantity, item.LowThreshold,
		)
		if err != nil {
			return fmt.Errorf("insert inventory %s: %w", item.ISBN, err)
		}
	}
	for _, c := range snap.Customers {
		if _, err := tx.Exec(`INSERT INTO customers (customer_id, budget) VALUES (?, ?)`, c.ID, c.Budget); err != nil {
			return fmt.Errorf("insert customer %s: %w", c.ID, err)
		}
	}
	for _, e := range snap.Employees {
		if _, err := tx.Exec(`INSERT INTO employees (employee_id) VALUES (?)`, e.ID); err != nil {
			return fmt.Errorf("insert employee %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"path":      s.path,
		"items":     len(snap.Items),
		"customers": len(snap.Customers),
	}).Info("snapshot store bootstrapped")
	return nil
}

// Load reads the stored snapshot. A store without inventory rows is
// considered corrupt/empty and fails the load.
func (s *SnapshotStore) Load() (sim.SeedSnapshot, error) {
	var snap sim.SeedSnapshot

	rows, err := s.db.Query(
		`SELECT isbn, title, author, genre, price, quantity, low_threshold
		 FROM inventory ORDER BY isbn`)
	if err != nil {
		return snap, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item sim.SeedItem
		if err := rows.Scan(&item.ISBN, &item.Title, &item.Author, &item.Genre,
			&item.Price, &item.Quantity, &item.LowThreshold); err != nil {
			return snap, fmt.Errorf("scan inventory row: %w", err)
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("read inventory rows: %w", err)
	}
	if len(snap.Items) == 0 {
		return snap, ErrEmptySnapshot
	}

	crows, err := s.db.Query(`SELECT customer_id, budget FROM customers ORDER BY customer_id`)
	if err != nil {
		return snap, fmt.Errorf("query customers: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c sim.SeedCustomer
		if err := crows.Scan(&c.ID, &c.Budget); err != nil {
			return snap, fmt.Errorf("scan customer row: %w", err)
		}
		snap.Customers = append(snap.Customers, c)
	}
	if err := crows.Err(); err != nil {
		return snap, fmt.Errorf("read customer rows: %w", err)
	}

	erows, err := s.db.Query(`SELECT employee_id FROM employees ORDER BY employee_id`)
	if err != nil {
		return snap, fmt.Errorf("query employees: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e sim.SeedEmployee
		if err := erows.Scan(&e.ID); err != nil {
			return snap, fmt.Errorf("scan employee row: %w", err)
		}
		snap.Employees = append(snap.Employees, e)
	}
	if err := erows.Err(); err != nil {
		return snap, fmt.Errorf("read employee rows: %w", err)
	}
	return snap, nil
}
