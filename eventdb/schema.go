// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	caller BLOB NOT NULL,
	counterparty BLOB,
	kind TEXT NOT NULL,
	amount TEXT,
	native TEXT,
	reward TEXT,
	time INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS prefix_event_caller ON event(caller);
CREATE INDEX IF NOT EXISTS prefix_event_counterparty ON event(counterparty);
CREATE INDEX IF NOT EXISTS prefix_event_time ON event(time);`
