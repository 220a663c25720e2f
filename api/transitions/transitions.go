// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transitions

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/proof"
)

const (
	// SignatureHeader carries the hex Ed25519 signature of the request body by the caller.
	SignatureHeader = "X-Signature"
	// MaxExpiry bounds how far in the future a request may expire, in seconds.
	MaxExpiry = 600

	maxBodySize = 64 * 1024
)

type Transitions struct {
	proc     *processor.Processor
	verifier proof.Verifier
	clock    clock.Clock
}

func New(proc *processor.Processor, verifier proof.Verifier, clk clock.Clock) *Transitions {
	return &Transitions{
		proc,
		verifier,
		clk,
	}
}

func (t *Transitions) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize+1))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body) > maxBodySize {
		return utils.HTTPError(errors.New("body too large"), http.StatusRequestEntityTooLarge)
	}
	sig, err := hexutil.Decode(req.Header.Get(SignatureHeader))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "signature"))
	}

	var r Request
	if err := utils.ParseJSON(bytes.NewReader(body), &r); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tr, err := r.transition()
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := tr.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	if !t.verifier.Verify(tr.Caller, proof.TransitionMessage(body), sig) {
		return utils.HTTPError(errors.New("signature does not match caller"), http.StatusUnauthorized)
	}

	now := t.clock.Now()
	if r.Expiry < now {
		return utils.Forbidden(errors.New("request expired"))
	}
	if r.Expiry > now+MaxExpiry {
		return utils.Forbidden(fmt.Errorf("expiry more than %d seconds ahead", MaxExpiry))
	}
	// a signed body executes at most once; the mark outlives the expiry window
	tr.RequestID = ledger.Blake2b(body)
	tr.Expiry = r.Expiry

	receipt, err := t.proc.Execute(req.Context(), tr)
	if err != nil {
		// every rejection of a submitted transition is a 403, missing records included
		if errors.Is(err, processor.ErrAirdropDisabled) ||
			errors.Is(err, processor.ErrDuplicateRequest) ||
			reverts.IsRevertErr(err) {
			return utils.Forbidden(err)
		}
		return utils.ProgramError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transitions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transitions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSubmit))
}
