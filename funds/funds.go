package funds

import (
	"math/big"
	"sync"

	"market/common/types"
	"market/log"
	"market/model"
)

// Store persists balances so credits survive a restart
type Store interface {
	SaveBalance(balance *model.Balance) error
	LoadBalances() ([]*model.Balance, error)
}

// Ledger withdrawable balance per account. Settlement credits a recipient
// here instead of pushing funds, so a sale never depends on the recipient
// being able to receive, the recipient pulls with Withdraw.
type Ledger struct {
	mu       sync.RWMutex
	store    Store
	balances map[types.Address]*big.Int
}

// New creates the fund ledger, reloading balances from the store.
// A nil store keeps the ledger purely in memory.
func New(store Store) (*Ledger, error) {
	f := &Ledger{
		store:    store,
		balances: make(map[types.Address]*big.Int),
	}
	if store == nil {
		return f, nil
	}
	balances, err := store.LoadBalances()
	if err != nil {
		return nil, err
	}
	for _, balance := range balances {
		amount, ok := new(big.Int).SetString(balance.Amount, 0)
		if !ok || amount.Sign() < 0 {
			log.Warnf("skipping stored balance of %v, bad amount %v", balance.Address, balance.Amount)
			continue
		}
		f.balances[balance.Address] = amount
	}
	return f, nil
}

// Credit adds amount to the account's withdrawable balance. The in-memory
// balance is authoritative, a failed persist only costs durability and is
// logged for the operator.
func (f *Ledger) Credit(addr types.Address, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	balance := f.balances[addr]
	if balance == nil {
		balance = new(big.Int)
		f.balances[addr] = balance
	}
	balance.Add(balance, amount)
	f.persist(addr, balance)
}

// BalanceOf the account's current withdrawable balance
func (f *Ledger) BalanceOf(addr types.Address) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	balance := f.balances[addr]
	if balance == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// Withdraw zeroes the account's balance and returns the amount that was
// available, the actual transfer happens in the caller's transaction context
func (f *Ledger) Withdraw(addr types.Address) *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance := f.balances[addr]
	if balance == nil || balance.Sign() == 0 {
		return new(big.Int)
	}
	amount := new(big.Int).Set(balance)
	balance.SetInt64(0)
	f.persist(addr, balance)
	return amount
}

// persist the caller holds the write lock
func (f *Ledger) persist(addr types.Address, balance *big.Int) {
	if f.store == nil {
		return
	}
	err := f.store.SaveBalance(&model.Balance{Address: addr, Amount: balance.Text(10)})
	if err != nil {
		log.Errorf("failed to persist balance of %v: %v", addr, err)
	}
}
