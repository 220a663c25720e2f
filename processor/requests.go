// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/state"
)

// ErrDuplicateRequest is returned when a request id was already executed.
var ErrDuplicateRequest = errors.New("duplicate request")

// requestsAddr holds the expiry of every executed request, keyed by request id.
var requestsAddr = ledger.DeriveAddress([]byte("processed-requests"))

func requestMarks(st *state.State) *storage.Mapping[ledger.Bytes32, uint64] {
	return storage.NewMapping[ledger.Bytes32, uint64](storage.NewContext(requestsAddr, st), ledger.Bytes32{})
}

// markRequest records id until expiry, failing if it is already recorded.
func markRequest(st *state.State, id ledger.Bytes32, expiry uint64) error {
	marks := requestMarks(st)
	seen, err := marks.Exists(id)
	if err != nil {
		return err
	}
	if seen {
		return ErrDuplicateRequest
	}
	return marks.Set(id, expiry)
}

// burnRequest records id on its own, so a reverted request cannot be replayed later.
func (p *Processor) burnRequest(tr *Transition) {
	st := p.stater.NewState()
	if err := markRequest(st, tr.RequestID, tr.Expiry); err != nil {
		if !errors.Is(err, ErrDuplicateRequest) {
			logger.Warn("failed to mark request", "id", tr.RequestID, "err", err)
		}
		return
	}
	if err := p.stater.Commit(st); err != nil {
		logger.Debug("failed to commit request mark", "id", tr.RequestID, "err", err)
	}
}

// RequestSeen reports whether id was executed and is still remembered.
func (p *Processor) RequestSeen(id ledger.Bytes32) (bool, error) {
	var seen bool
	err := p.Read(func(v *View) (err error) {
		seen, err = requestMarks(v.State).Exists(id)
		return
	})
	return seen, err
}

// PruneRequests forgets request ids that expired before now and returns how many were dropped.
// An expired request is rejected before execution, so its mark is no longer needed.
func (p *Processor) PruneRequests(now uint64) (int, error) {
	var expired []ledger.Bytes32
	if err := p.stater.IterateStorage(requestsAddr, func(slot ledger.Bytes32, raw []byte) bool {
		var expiry uint64
		if err := rlp.DecodeBytes(raw, &expiry); err == nil && expiry < now {
			expired = append(expired, slot)
		}
		return true
	}); err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	st := p.stater.NewState()
	for _, slot := range expired {
		st.SetRawStorage(requestsAddr, slot, nil)
	}
	if err := p.stater.Commit(st); err != nil {
		return 0, err
	}
	logger.Debug("pruned request marks", "count", len(expired))
	return len(expired), nil
}
