// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
)

type Stakers struct {
	proc *processor.Processor
}

func New(proc *processor.Processor) *Stakers {
	return &Stakers{proc}
}

func optAddress(addr *ledger.Address) *string {
	if addr == nil {
		return nil
	}
	s := addr.String()
	return &s
}

func (s *Stakers) getStaker(addr ledger.Address) (*Staker, error) {
	var st *Staker
	err := s.proc.Read(func(view *processor.View) (err error) {
		st, err = readStaker(view, addr)
		return
	})
	return st, err
}

func readStaker(view *processor.View, addr ledger.Address) (*Staker, error) {
	stk := view.Staking

	proto, err := stk.Protocol()
	if err != nil {
		return nil, err
	}
	if proto == nil {
		return nil, reverts.NotInitialized
	}
	rec, err := stk.Staker(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, reverts.NotRegistered
	}
	reward, err := stk.PendingReward(addr)
	if err != nil {
		return nil, err
	}

	out := &Staker{
		Address:       addr.String(),
		Registered:    rec.Registered,
		Staked:        rec.IsStaked(),
		StakedAmount:  rec.StakedAmount.Dec(),
		PendingReward: reward.Dec(),
		DepositAmount: rec.DepositAmount.Dec(),
		DelegatedTo:   optAddress(rec.DelegatedTo),
		DelegatedFrom: optAddress(rec.DelegatedFrom),
	}
	if rec.IsStaked() {
		out.StakeStartedAt = rec.StakeStartedAt
		out.UnlocksAt = rec.StakeStartedAt + proto.RoundTime
	}
	return out, nil
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	st, err := s.getStaker(addr)
	if err != nil {
		return utils.ProgramError(err)
	}
	return utils.WriteJSON(w, st)
}

func (s *Stakers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
}
