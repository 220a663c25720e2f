// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
)

// Balance holds the holdings of an address as decimal strings of base units.
// Token balances are zero until the protocol is initialized.
type Balance struct {
	Native    string `json:"native"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Balances struct {
	proc *processor.Processor
}

func New(proc *processor.Processor) *Balances {
	return &Balances{proc}
}

func (b *Balances) getBalance(addr ledger.Address) (*Balance, error) {
	var bal *Balance
	err := b.proc.Read(func(view *processor.View) (err error) {
		bal, err = readBalance(view, addr)
		return
	})
	return bal, err
}

func readBalance(view *processor.View, addr ledger.Address) (*Balance, error) {

	native, err := view.State.GetBalance(addr)
	if err != nil {
		return nil, err
	}
	out := &Balance{Native: native.Dec(), Primary: "0", Secondary: "0"}

	proto, err := view.Staking.Protocol()
	if err != nil {
		return nil, err
	}
	if proto == nil {
		return out, nil
	}
	for _, kind := range []pricing.Kind{pricing.Primary, pricing.Secondary} {
		bal, err := view.Staking.TokenBalance(kind, addr)
		if err != nil {
			return nil, err
		}
		if kind == pricing.Primary {
			out.Primary = bal.Dec()
		} else {
			out.Secondary = bal.Dec()
		}
	}
	return out, nil
}

func (b *Balances) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	bal, err := b.getBalance(addr)
	if err != nil {
		return utils.ProgramError(err)
	}
	return utils.WriteJSON(w, bal)
}

func (b *Balances) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBalance))
}
