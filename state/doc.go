// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state is the account store.
//
// A Stater owns the persistent records. Each transition works on a State,
// a private view whose writes are journaled and can be reverted to any
// checkpoint. Committing a State applies all surviving writes in one batch,
// provided no record the State touched was modified by another commit since
// the State was created. Otherwise the commit is rejected with ErrConflict
// and nothing is applied.
package state
