// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/state"
)

// ProgramError maps an error of the staking program to its http error.
// Missing records are 404, other rejections 403 and lost races 409.
func ProgramError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reverts.NotInitialized), errors.Is(err, reverts.NotRegistered):
		return NotFound(err)
	case reverts.IsRevertErr(err):
		return Forbidden(err)
	case errors.Is(err, state.ErrConflict):
		return Conflict(errors.New("concurrent update, retry"))
	}
	return err
}
