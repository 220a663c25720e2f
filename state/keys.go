// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/fctrlabs/fstake/ledger"

// key prefixes of records in the kv store
const (
	accountPrefix = 'a'
	storagePrefix = 's'
)

func accountKey(addr ledger.Address) string {
	b := make([]byte, 0, 1+ledger.AddressLength)
	b = append(b, accountPrefix)
	b = append(b, addr[:]...)
	return string(b)
}

func storageKey(addr ledger.Address, key ledger.Bytes32) string {
	b := make([]byte, 0, 1+ledger.AddressLength+32)
	b = append(b, storagePrefix)
	b = append(b, addr[:]...)
	b = append(b, key[:]...)
	return string(b)
}

// StoragePrefix returns the kv prefix of all storage slots of addr.
func StoragePrefix(addr ledger.Address) []byte {
	return append([]byte{storagePrefix}, addr[:]...)
}
