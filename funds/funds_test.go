package funds

import (
	"math/big"
	"sync"
	"testing"

	"market/common/types"
	"market/model"
)

const account = types.Address("0x0000000000000000000000000000000000000001")

func TestCreditAndWithdraw(t *testing.T) {
	f, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.BalanceOf(account).Sign() != 0 {
		t.Fatal("fresh account has a balance")
	}

	f.Credit(account, big.NewInt(100))
	f.Credit(account, big.NewInt(50))
	if got := f.BalanceOf(account); got.Int64() != 150 {
		t.Fatalf("balance = %v, want 150", got)
	}

	// credits of nothing are ignored
	f.Credit(account, nil)
	f.Credit(account, big.NewInt(0))
	if got := f.BalanceOf(account); got.Int64() != 150 {
		t.Fatalf("balance = %v, want 150", got)
	}

	if got := f.Withdraw(account); got.Int64() != 150 {
		t.Fatalf("withdrawn = %v, want 150", got)
	}
	if f.BalanceOf(account).Sign() != 0 {
		t.Fatal("withdraw did not zero the balance")
	}
	if got := f.Withdraw(account); got.Sign() != 0 {
		t.Fatalf("second withdraw = %v, want 0", got)
	}
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	f, _ := New(nil)
	f.Credit(account, big.NewInt(100))
	f.BalanceOf(account).SetInt64(0)
	if got := f.BalanceOf(account); got.Int64() != 100 {
		t.Fatalf("balance mutated to %v", got)
	}
}

func TestConcurrentCredits(t *testing.T) {
	f, _ := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Credit(account, big.NewInt(1))
		}()
	}
	wg.Wait()
	if got := f.BalanceOf(account); got.Int64() != 50 {
		t.Fatalf("balance = %v, want 50", got)
	}
}

// memStore in-memory balance store for tests
type memStore struct {
	mu       sync.Mutex
	balances map[types.Address]string
}

func (s *memStore) SaveBalance(balance *model.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances == nil {
		s.balances = make(map[types.Address]string)
	}
	s.balances[balance.Address] = balance.Amount
	return nil
}

func (s *memStore) LoadBalances() ([]*model.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balances := make([]*model.Balance, 0, len(s.balances))
	for addr, amount := range s.balances {
		balances = append(balances, &model.Balance{Address: addr, Amount: amount})
	}
	return balances, nil
}

func TestReloadFromStore(t *testing.T) {
	store := &memStore{}
	f, err := New(store)
	if err != nil {
		t.Fatal(err)
	}
	f.Credit(account, big.NewInt(100))

	reloaded, err := New(store)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.BalanceOf(account); got.Int64() != 100 {
		t.Fatalf("reloaded balance = %v, want 100", got)
	}
}
