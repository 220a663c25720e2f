// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a protocol rejection. A transition failing with an ErrRevert
// leaves every record unchanged.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Is reports whether target is the same rejection kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.message == e.message
}

var (
	Unauthorized         = New("unauthorized")
	AlreadyRegistered    = New("already registered")
	NotRegistered        = New("not registered")
	InsufficientFunds    = New("insufficient funds")
	InsufficientTreasury = New("insufficient treasury")
	NothingToStake       = New("nothing to stake")
	AlreadyStaked        = New("already staked")
	NotStaked            = New("not staked")
	RoundNotElapsed      = New("round not elapsed")
	InvalidDepositDiff   = New("invalid deposit diff")
	InvalidCounterparty  = New("invalid counterparty")
	AlreadyEntrusted     = New("already entrusted")
	NotEntrusted         = New("not entrusted")
	NotInitialized       = New("not initialized")
	AlreadyInitialized   = New("already initialized")
	TooFewAmount         = New("too few amount")
	InvalidMint          = New("invalid mint")
	InvalidToken         = New("invalid token")
	PrevRoundNotFinished = New("previous round is not finished")
	ScheduleFinished     = New("final round already started")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Reason returns the rejection message carried by err, or "" if err is not a revert.
func Reason(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.message
	}
	return ""
}
