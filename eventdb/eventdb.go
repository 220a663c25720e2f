// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/ledger"
)

// EventDB stores committed transitions in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New opens an event db.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem creates a memory sqlite db.
func NewMem() (*EventDB, error) {
	db, err := New(":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: opens a distinct database
	db.db.SetMaxOpenConns(1)
	return db, nil
}

func nullableAddress(addr *ledger.Address) any {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}

func nullableAmount(v *uint256.Int) any {
	if v == nil {
		return nil
	}
	return v.Dec()
}

// Insert stores events in one transaction and assigns their IDs.
func (db *EventDB) Insert(ctx context.Context, events ...*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range events {
		res, err := tx.ExecContext(ctx, "INSERT INTO event(op, caller, counterparty, kind, amount, native, reward, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
			ev.Op,
			ev.Caller.Bytes(),
			nullableAddress(ev.Counterparty),
			ev.Kind,
			nullableAmount(ev.Amount),
			nullableAmount(ev.Native),
			nullableAmount(ev.Reward),
			ev.Time,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		ev.ID = uint64(id)
	}
	return tx.Commit()
}

// Filter returns events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const columns = "SELECT id, op, caller, counterparty, kind, amount, native, reward, time FROM event"
	if filter == nil {
		return db.query(ctx, columns+" ORDER BY id ASC")
	}
	var args []any
	stmt := columns + " WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	if filter.Staker != nil {
		args = append(args, filter.Staker.Bytes(), filter.Staker.Bytes())
		stmt += " AND (caller = ? OR counterparty = ?) "
	}
	if len(filter.Ops) > 0 {
		stmt += " AND op IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Ops)), ",") + ") "
		for _, op := range filter.Ops {
			args = append(args, op)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY id DESC "
	} else {
		stmt += " ORDER BY id ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// Count returns the number of recorded events.
func (db *EventDB) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func parseAmount(s sql.NullString) (*uint256.Int, error) {
	if !s.Valid {
		return nil, nil
	}
	return uint256.FromDecimal(s.String)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev                     Event
			caller, counterparty   []byte
			amount, native, reward sql.NullString
		)
		if err := rows.Scan(
			&ev.ID,
			&ev.Op,
			&caller,
			&counterparty,
			&ev.Kind,
			&amount,
			&native,
			&reward,
			&ev.Time,
		); err != nil {
			return nil, err
		}
		ev.Caller = ledger.BytesToAddress(caller)
		if len(counterparty) > 0 {
			cp := ledger.BytesToAddress(counterparty)
			ev.Counterparty = &cp
		}
		if ev.Amount, err = parseAmount(amount); err != nil {
			return nil, errors.Wrap(err, "decode amount")
		}
		if ev.Native, err = parseAmount(native); err != nil {
			return nil, errors.Wrap(err, "decode native")
		}
		if ev.Reward, err = parseAmount(reward); err != nil {
			return nil, errors.Wrap(err, "decode reward")
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path returns the db path.
func (db *EventDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

func (db *EventDB) Close() error {
	return db.db.Close()
}
