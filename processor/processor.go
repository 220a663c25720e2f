// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package processor applies transitions atomically: each runs against a
// private state view that is committed only when the operation succeeds.
package processor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin"
	"github.com/fctrlabs/fstake/builtin/staking"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/token"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/log"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

var (
	logger = log.WithContext("pkg", "processor")

	ErrAirdropDisabled = errors.New("airdrop disabled")
)

// EventWriter persists receipts of committed transitions.
type EventWriter interface {
	Insert(ctx context.Context, events ...*eventdb.Event) error
}

type Options struct {
	// AllowAirdrop enables OpAirdrop, which credits native units out of thin air.
	AllowAirdrop bool
}

// Processor applies transitions to the account store.
type Processor struct {
	stater   *state.Stater
	verifier proof.Verifier
	clock    clock.Clock
	events   EventWriter
	opts     Options

	eventFeed event.Feed
	scope     event.SubscriptionScope
}

// New creates a processor. events may be nil.
func New(stater *state.Stater, verifier proof.Verifier, clk clock.Clock, events EventWriter, opts Options) *Processor {
	return &Processor{
		stater:   stater,
		verifier: verifier,
		clock:    clk,
		events:   events,
		opts:     opts,
	}
}

// View is a read only snapshot of the program state.
type View struct {
	Staking *staking.Staking
	Token   *token.Token
	State   *state.State
}

// View returns a snapshot of the latest committed state. Reading a record
// committed after the snapshot was taken fails with state.ErrConflict; use
// Read for multi-record reads.
func (p *Processor) View() *View {
	return p.newView(p.stater.NewState())
}

func (p *Processor) newView(st *state.State) *View {
	return &View{
		Staking: builtin.Staking.WithState(st, p.verifier, p.clock),
		Token:   builtin.Token.WithState(st),
		State:   st,
	}
}

// Read calls fn with a view no commit can change while fn runs.
// fn must not execute transitions.
func (p *Processor) Read(fn func(v *View) error) error {
	return p.stater.View(func(st *state.State) error {
		return fn(p.newView(st))
	})
}

// Execute applies tr. Protocol rejections are reverts errors; a lost race
// with a concurrent transition returns state.ErrConflict. Either way nothing
// is written, except that a rejected transition carrying a RequestID is
// remembered so it cannot be replayed.
func (p *Processor) Execute(ctx context.Context, tr *Transition) (*Receipt, error) {
	start := time.Now()
	op := string(tr.Op)
	defer func() {
		metricTransitionDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	if err := tr.Validate(); err != nil {
		metricTransitions().AddWithLabel(1, map[string]string{"op": op, "result": "invalid"})
		return nil, err
	}

	now := p.clock.Now()
	st := p.stater.NewState()
	if !tr.RequestID.IsZero() {
		if err := markRequest(st, tr.RequestID, tr.Expiry); err != nil {
			result := "error"
			switch {
			case errors.Is(err, ErrDuplicateRequest):
				result = "duplicate"
			case errors.Is(err, state.ErrConflict):
				result = "conflict"
			}
			metricTransitions().AddWithLabel(1, map[string]string{"op": op, "result": result})
			return nil, err
		}
	}
	checkpoint := st.NewCheckpoint()
	stk := builtin.Staking.WithState(st, p.verifier, clock.Fixed(now))

	receipt, err := p.apply(st, stk, tr)
	if err != nil {
		st.RevertTo(checkpoint)
		rejected := reverts.IsRevertErr(err) || errors.Is(err, ErrAirdropDisabled)
		if rejected && !tr.RequestID.IsZero() {
			p.burnRequest(tr)
		}
		result := "error"
		switch {
		case reverts.IsRevertErr(err):
			result = "revert"
			logger.Debug("transition reverted", "op", op, "caller", tr.Caller, "reason", reverts.Reason(err))
		case rejected:
			result = "revert"
			logger.Debug("transition rejected", "op", op, "caller", tr.Caller, "err", err)
		case errors.Is(err, state.ErrConflict):
			result = "conflict"
			logger.Debug("transition conflicted", "op", op, "caller", tr.Caller)
		default:
			logger.Warn("transition failed", "op", op, "caller", tr.Caller, "err", err)
		}
		metricTransitions().AddWithLabel(1, map[string]string{"op": op, "result": result})
		return nil, err
	}
	receipt.Time = now

	if err := p.stater.Commit(st); err != nil {
		result := "error"
		if errors.Is(err, state.ErrConflict) {
			result = "conflict"
		}
		metricTransitions().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Debug("commit failed", "op", op, "caller", tr.Caller, "err", err)
		return nil, err
	}
	metricTransitions().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})

	if treasury, err := stk.TreasuryBalance(); err == nil {
		setTreasuryGauge(treasury)
	}
	ev := receipt.event()
	if p.events != nil {
		if err := p.events.Insert(ctx, ev); err != nil {
			// the transition is committed; a missing event only degrades history
			logger.Warn("failed to record event", "op", op, "err", err)
		}
	}
	p.eventFeed.Send(ev)
	return receipt, nil
}

// SubscribeEvents delivers the event of every committed transition to ch.
// Execute blocks until each subscriber has received, so consumers must drain ch promptly.
func (p *Processor) SubscribeEvents(ch chan *eventdb.Event) event.Subscription {
	return p.scope.Track(p.eventFeed.Subscribe(ch))
}

// Close ends all event subscriptions.
func (p *Processor) Close() {
	p.scope.Close()
}

func (p *Processor) apply(st *state.State, stk *staking.Staking, tr *Transition) (*Receipt, error) {
	r := &Receipt{Op: tr.Op, Caller: tr.Caller}
	var err error

	switch tr.Op {
	case OpInitialize:
		err = p.initialize(st, stk, tr)
	case OpFund:
		r.Native = tr.Amount
		err = stk.Fund(tr.Caller, tr.Amount)
	case OpRegister:
		err = stk.Register(tr.Caller, tr.Proof)
	case OpBuy:
		r.Kind, r.Amount = tr.Kind, tr.Amount
		r.Native, err = stk.Buy(tr.Caller, tr.Kind, tr.Amount)
	case OpSell:
		r.Kind, r.Amount = tr.Kind, tr.Amount
		r.Native, err = stk.Sell(tr.Caller, tr.Kind, tr.Amount)
	case OpStake:
		r.Amount, err = stk.Stake(tr.Caller)
	case OpUnstake:
		r.Amount, r.Reward, err = stk.Unstake(tr.Caller)
	case OpEntrust:
		counterparty := tr.Counterparty
		r.Counterparty = &counterparty
		err = stk.Entrust(tr.Caller, tr.Counterparty)
	case OpDemandBack:
		counterparty := tr.Counterparty
		r.Counterparty = &counterparty
		err = stk.DemandBack(tr.Caller, tr.Counterparty)
	case OpStartRound:
		r.Round, err = stk.StartRound(tr.Caller, tr.Final)
	case OpAirdrop:
		if !p.opts.AllowAirdrop {
			return nil, ErrAirdropDisabled
		}
		r.Native = tr.Amount
		err = st.AddBalance(tr.Caller, tr.Amount)
	default:
		return nil, errors.Wrapf(ErrUnknownOp, "%q", tr.Op)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// initialize creates the two protocol mints when missing and initializes the program with them.
func (p *Processor) initialize(st *state.State, stk *staking.Staking, tr *Transition) error {
	tk := builtin.Token.WithState(st)
	mints := []struct {
		addr     ledger.Address
		decimals uint8
	}{
		{builtin.Staking.PrimaryMint(), ledger.PrimaryDecimals},
		{builtin.Staking.SecondaryMint(), ledger.SecondaryDecimals},
	}
	for _, m := range mints {
		existing, err := tk.GetMint(m.addr)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := tk.InitializeMint(m.addr, m.decimals, builtin.Staking.Address); err != nil {
				return err
			}
		}
	}
	return stk.Initialize(tr.Caller, staking.InitParams{
		RoundTime:     tr.RoundTime,
		PrimaryMint:   builtin.Staking.PrimaryMint(),
		SecondaryMint: builtin.Staking.SecondaryMint(),
		ProofSigner:   tr.ProofSigner,
		RewardRateBps: tr.RewardRateBps,
	})
}

// Balance returns the committed native balance of addr.
func (p *Processor) Balance(addr ledger.Address) (*uint256.Int, error) {
	var bal *uint256.Int
	err := p.Read(func(v *View) (err error) {
		bal, err = v.State.GetBalance(addr)
		return
	})
	return bal, err
}
