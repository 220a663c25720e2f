// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnet wires an in-memory processor with an initialized protocol
// for tests of the outer layers.
package testnet

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/builtin"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
	"github.com/fctrlabs/fstake/test/datagen"
)

const (
	StartTime uint64 = 1_700_000_000
	RoundTime uint64 = 86400
)

// Net is a single node staking network backed by memory stores.
type Net struct {
	t      *testing.T
	Proc   *processor.Processor
	Clock  *clock.Mock
	Events *eventdb.EventDB
	Owner  *proof.PrivateKey
	Signer *proof.PrivateKey
}

// New returns a net with the protocol initialized by Owner and proofs signed by Signer.
func New(t *testing.T) *Net {
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	n := &Net{
		t:      t,
		Clock:  clock.NewMock(StartTime),
		Events: events,
		Owner:  datagen.RandKey(),
		Signer: datagen.RandKey(),
	}
	n.Proc = processor.New(state.NewStater(kv.NewMem(), 1024), proof.Ed25519{}, n.Clock, events, processor.Options{AllowAirdrop: true})
	t.Cleanup(n.Proc.Close)
	n.Exec(&processor.Transition{
		Op:          processor.OpInitialize,
		Caller:      n.Owner.Address(),
		RoundTime:   RoundTime,
		ProofSigner: n.Signer.Address(),
	})
	return n
}

// Exec applies tr and fails the test on error.
func (n *Net) Exec(tr *processor.Transition) *processor.Receipt {
	r, err := n.Proc.Execute(context.Background(), tr)
	require.NoError(n.t, err, "op %v", tr.Op)
	return r
}

// NewStaker returns the key of a registered staker credited with native units.
func (n *Net) NewStaker(native uint64) *proof.PrivateKey {
	key := datagen.RandKey()
	addr := key.Address()
	if native > 0 {
		n.Exec(&processor.Transition{Op: processor.OpAirdrop, Caller: addr, Amount: uint256.NewInt(native)})
	}
	n.Exec(&processor.Transition{
		Op:     processor.OpRegister,
		Caller: addr,
		Proof:  n.Signer.SignRegistration(builtin.Staking.Address, addr),
	})
	return key
}

// Fund credits the owner and moves the amount into the treasury.
func (n *Net) Fund(native uint64) {
	amount := uint256.NewInt(native)
	n.Exec(&processor.Transition{Op: processor.OpAirdrop, Caller: n.Owner.Address(), Amount: amount})
	n.Exec(&processor.Transition{Op: processor.OpFund, Caller: n.Owner.Address(), Amount: amount})
}
