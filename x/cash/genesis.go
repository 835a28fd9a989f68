package cash

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// GenesisWallet declares the initial balance of an address.
type GenesisWallet struct {
	Address remit.Address
	Balance int64
}

// FromGenesis issues the initial balance of every declared wallet. Declaring
// the same address twice is an error.
func FromGenesis(db remit.KVStore, ctrl Controller, wallets []GenesisWallet) error {
	seen := make(map[string]struct{}, len(wallets))
	for i, w := range wallets {
		if err := w.Address.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		if w.Balance < 0 {
			return errors.Wrapf(errors.ErrAmount, "wallet %d: negative balance", i)
		}
		if _, ok := seen[string(w.Address)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "wallet %d: %s", i, w.Address)
		}
		seen[string(w.Address)] = struct{}{}
		if err := ctrl.IssueCoins(db, w.Address, w.Balance); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
	}
	return nil
}
