// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/globalstate"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/staking/stakers"
	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/builtin/token"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/log"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

var (
	logger = log.WithContext("pkg", "staking")

	// MinTradeAmount is the largest amount of token base units a trade rejects.
	MinTradeAmount = uint256.NewInt(10)
	// DefaultRewardRateBps is the yearly reward rate, in basis points, used when none is configured.
	DefaultRewardRateBps uint64 = 1000
)

func SetLogger(l log.Logger) {
	logger = l
}

// InitParams are the one-time protocol parameters.
type InitParams struct {
	RoundTime     uint64
	PrimaryMint   ledger.Address
	SecondaryMint ledger.Address
	ProofSigner   ledger.Address
	RewardRateBps uint64 // zero selects DefaultRewardRateBps
}

// Staking implements the staking program. A Staking is bound to one state
// view and is built per transition.
type Staking struct {
	addr     ledger.Address
	state    *state.State
	token    *token.Token
	verifier proof.Verifier
	clock    clock.Clock

	globalStateService *globalstate.Service
	stakerService      *stakers.Service
}

// New create a new instance.
func New(addr ledger.Address, state *state.State, tk *token.Token, verifier proof.Verifier, clk clock.Clock) *Staking {
	sctx := storage.NewContext(addr, state)
	return &Staking{
		addr:     addr,
		state:    state,
		token:    tk,
		verifier: verifier,
		clock:    clk,

		globalStateService: globalstate.New(sctx),
		stakerService:      stakers.New(sctx),
	}
}

//
// Getters - no state change
//

// Address returns the program address, which owns the treasury.
func (s *Staking) Address() ledger.Address {
	return s.addr
}

// Protocol returns the protocol record, or nil before initialization.
func (s *Staking) Protocol() (*globalstate.Protocol, error) {
	return s.globalStateService.Get()
}

// Staker returns the record of addr, or nil if addr never registered.
func (s *Staking) Staker(addr ledger.Address) (*stakers.Staker, error) {
	return s.stakerService.Get(addr)
}

// TreasuryBalance returns the native units held by the program.
func (s *Staking) TreasuryBalance() (*uint256.Int, error) {
	return s.state.GetBalance(s.addr)
}

// TokenBalance returns the units of the kind token held by owner.
func (s *Staking) TokenBalance(kind pricing.Kind, owner ledger.Address) (*uint256.Int, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	mint, err := mintOf(p, kind)
	if err != nil {
		return nil, err
	}
	return s.token.BalanceOf(mint, owner)
}

// PendingReward returns the reward addr would receive if it unstaked now.
func (s *Staking) PendingReward(addr ledger.Address) (*uint256.Int, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	st, err := s.stakerService.GetRegistered(addr)
	if err != nil {
		return nil, err
	}
	if !st.IsStaked() {
		return new(uint256.Int), nil
	}
	return Reward(st.StakedAmount, st.Elapsed(s.clock.Now()), p.RewardRateBps), nil
}

//
// Operations
//

// Initialize creates the protocol record; the caller becomes the owner.
func (s *Staking) Initialize(caller ledger.Address, params InitParams) error {
	existing, err := s.globalStateService.Get()
	if err != nil {
		return err
	}
	if existing != nil {
		return reverts.AlreadyInitialized
	}
	if params.PrimaryMint == params.SecondaryMint {
		return reverts.InvalidMint
	}
	if err := s.checkMint(params.PrimaryMint, ledger.PrimaryDecimals); err != nil {
		return err
	}
	if err := s.checkMint(params.SecondaryMint, ledger.SecondaryDecimals); err != nil {
		return err
	}
	rate := params.RewardRateBps
	if rate == 0 {
		rate = DefaultRewardRateBps
	}

	if err := s.globalStateService.Initialize(&globalstate.Protocol{
		Owner:                    caller,
		RoundTime:                params.RoundTime,
		RewardRateBps:            rate,
		PrimaryMint:              params.PrimaryMint,
		SecondaryMint:            params.SecondaryMint,
		ProofSigner:              params.ProofSigner,
		TreasuryPrimaryAccount:   token.AccountAddress(params.PrimaryMint, s.addr),
		TreasurySecondaryAccount: token.AccountAddress(params.SecondaryMint, s.addr),
	}); err != nil {
		return err
	}
	logger.Info("protocol initialized", "owner", caller, "roundTime", params.RoundTime, "rewardRateBps", rate)
	return nil
}

// checkMint requires mint to exist, carry decimals and be mintable by the program only.
func (s *Staking) checkMint(mint ledger.Address, decimals uint8) error {
	m, err := s.token.GetMint(mint)
	if err != nil {
		return errors.Wrap(err, "failed to get mint")
	}
	if m == nil || m.Decimals != decimals || m.Authority != s.addr {
		return reverts.InvalidMint
	}
	return nil
}

// Fund moves native units from the owner into the treasury.
func (s *Staking) Fund(caller ledger.Address, amount *uint256.Int) error {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return err
	}
	if caller != p.Owner {
		return reverts.Unauthorized
	}
	ok, err := s.state.Transfer(caller, s.addr, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.InsufficientFunds
	}
	logger.Debug("treasury funded", "amount", amount)
	return nil
}

// Register admits caller after checking the proof signed by the proof signer.
func (s *Staking) Register(caller ledger.Address, sig []byte) error {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return err
	}
	if !s.verifier.Verify(p.ProofSigner, proof.RegistrationMessage(s.addr, caller), sig) {
		return reverts.Unauthorized
	}
	if _, err := s.stakerService.Register(caller); err != nil {
		return err
	}
	logger.Debug("staker registered", "staker", caller)
	return nil
}

func mintOf(p *globalstate.Protocol, kind pricing.Kind) (ledger.Address, error) {
	switch kind {
	case pricing.Primary:
		return p.PrimaryMint, nil
	case pricing.Secondary:
		return p.SecondaryMint, nil
	}
	return ledger.Address{}, reverts.InvalidToken
}

// deliver hands amount of mint from the treasury to owner, minting what the treasury lacks.
func (s *Staking) deliver(mint, owner ledger.Address, amount *uint256.Int) error {
	held, err := s.token.BalanceOf(mint, s.addr)
	if err != nil {
		return err
	}
	fromTreasury := amount
	if held.Lt(amount) {
		fromTreasury = held
	}
	if !fromTreasury.IsZero() {
		if _, err := s.token.Transfer(mint, s.addr, owner, fromTreasury); err != nil {
			return err
		}
	}
	shortfall := new(uint256.Int).Sub(amount, fromTreasury)
	if shortfall.IsZero() {
		return nil
	}
	return s.token.MintTo(mint, s.addr, owner, shortfall)
}
