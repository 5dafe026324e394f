package account

import "sync"

// Account holds the running balance. The balance is only ever mutated by
// Credit when a position settles; reads are safe from any goroutine.
type Account struct {
	mu             sync.RWMutex
	balance        float64
	aggressiveness int
}

func New(startingBalance float64, aggressiveness int) *Account {
	return &Account{
		balance:        startingBalance,
		aggressiveness: aggressiveness,
	}
}

// Credit adds a settlement to the balance. There is no debit path and no
// overdraft check.
func (a *Account) Credit(amount float64) {
	a.mu.Lock()
	a.balance += amount
	a.mu.Unlock()
}

func (a *Account) Balance() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

func (a *Account) Aggressiveness() int {
	return a.aggressiveness
}
