// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package protocol

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/processor"
)

var errRoundNotFound = errors.New("round not found")

type Protocol struct {
	proc *processor.Processor
}

func New(proc *processor.Processor) *Protocol {
	return &Protocol{proc}
}

func (p *Protocol) getInfo() (*Info, error) {
	var info *Info
	err := p.proc.Read(func(view *processor.View) (err error) {
		info, err = readInfo(view)
		return
	})
	return info, err
}

func readInfo(view *processor.View) (*Info, error) {
	stk := view.Staking

	proto, err := stk.Protocol()
	if err != nil {
		return nil, err
	}
	if proto == nil {
		return nil, reverts.NotInitialized
	}
	native, err := stk.TreasuryBalance()
	if err != nil {
		return nil, err
	}
	primary, err := stk.TokenBalance(pricing.Primary, stk.Address())
	if err != nil {
		return nil, err
	}
	secondary, err := stk.TokenBalance(pricing.Secondary, stk.Address())
	if err != nil {
		return nil, err
	}

	return &Info{
		Program:       stk.Address().String(),
		Owner:         proto.Owner.String(),
		RoundTime:     proto.RoundTime,
		RewardRateBps: proto.RewardRateBps,
		PrimaryMint:   proto.PrimaryMint.String(),
		SecondaryMint: proto.SecondaryMint.String(),
		ProofSigner:   proto.ProofSigner.String(),
		Treasury: Treasury{
			Native:    native.Dec(),
			Primary:   primary.Dec(),
			Secondary: secondary.Dec(),
		},
		Totals: Totals{
			PrimaryBought: proto.TotalPrimaryBought.Dec(),
			PrimarySold:   proto.TotalPrimarySold.Dec(),
			SecondarySold: proto.TotalSecondarySold.Dec(),
			RewardsIssued: proto.TotalRewardsIssued.Dec(),
		},
		Rounds: Rounds{
			Count:        proto.RoundsNum,
			LastDeadline: proto.LastRoundDeadline,
			Finished:     proto.FinalRoundStarted,
		},
	}, nil
}

func (p *Protocol) getRound(index uint64) (*Round, error) {
	var out *Round
	err := p.proc.Read(func(view *processor.View) error {
		r, err := view.Staking.Round(index)
		if err != nil {
			return err
		}
		if r == nil {
			return errRoundNotFound
		}
		out = &Round{
			Index:     r.Index,
			StartTime: r.StartTime,
			Deadline:  r.Deadline,
			Final:     r.IsFinal,
		}
		return nil
	})
	return out, err
}

func (p *Protocol) handleGetProtocol(w http.ResponseWriter, _ *http.Request) error {
	info, err := p.getInfo()
	if err != nil {
		return utils.ProgramError(err)
	}
	return utils.WriteJSON(w, info)
}

func (p *Protocol) handleGetRound(w http.ResponseWriter, req *http.Request) error {
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "index"))
	}
	r, err := p.getRound(index)
	if err != nil {
		if errors.Is(err, errRoundNotFound) {
			return utils.HTTPError(err, http.StatusNotFound)
		}
		return utils.ProgramError(err)
	}
	return utils.WriteJSON(w, r)
}

func (p *Protocol) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /protocol").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProtocol))
	sub.Path("/rounds/{index}").
		Methods(http.MethodGet).
		Name("GET /protocol/rounds/{index}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetRound))
}
