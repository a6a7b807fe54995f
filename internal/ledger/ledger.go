package ledger

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrMintMismatch      = errors.New("account mint mismatch")
)

// Mint is a token unit. Fungible mints carry a running supply; unique mints
// are single-issue (decimals 0, supply capped at 1).
type Mint struct {
	Address   Address
	Decimals  uint8
	Authority Address
	Supply    uint64
	Unique    bool
}

// Account holds a balance of exactly one mint for one owner.
type Account struct {
	Address Address
	Mint    Address
	Owner   Address
	Balance uint64
}

// Environment is the ledger execution environment: it stores mints and
// balance accounts and applies each primitive atomically. The mutex is the
// environment's transaction serializer; callers hold no locks of their own.
type Environment struct {
	mu       sync.Mutex
	mints    map[Address]*Mint
	accounts map[Address]*Account
}

func NewEnvironment() *Environment {
	return &Environment{
		mints:    make(map[Address]*Mint),
		accounts: make(map[Address]*Account),
	}
}

func (e *Environment) CreateMint(addr Address, decimals uint8, authority Address, unique bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.mints[addr]; ok {
		return fmt.Errorf("%w: mint %s", ErrAccountExists, addr)
	}
	e.mints[addr] = &Mint{Address: addr, Decimals: decimals, Authority: authority, Unique: unique}
	return nil
}

func (e *Environment) CreateAccount(addr, mint, owner Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.mints[mint]; !ok {
		return fmt.Errorf("%w: mint %s", ErrAccountNotFound, mint)
	}
	if _, ok := e.accounts[addr]; ok {
		return fmt.Errorf("%w: account %s", ErrAccountExists, addr)
	}
	e.accounts[addr] = &Account{Address: addr, Mint: mint, Owner: owner}
	return nil
}

// MintTo issues amount new units of mint into dest. The caller must prove
// control of the mint authority.
func (e *Environment) MintTo(mint, dest Address, by Authorizer, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.mints[mint]
	if !ok {
		return fmt.Errorf("%w: mint %s", ErrAccountNotFound, mint)
	}
	acct, ok := e.accounts[dest]
	if !ok {
		return fmt.Errorf("%w: account %s", ErrAccountNotFound, dest)
	}
	if acct.Mint != mint {
		return fmt.Errorf("%w: account %s holds %s", ErrMintMismatch, dest, acct.Mint)
	}
	if !by.Authorizes(m.Authority) {
		return fmt.Errorf("%w: mint authority %s not proven", ErrUnauthorized, m.Authority)
	}
	if m.Supply > math.MaxUint64-amount {
		return fmt.Errorf("%w: mint supply", ErrOverflow)
	}
	if acct.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance of %s", ErrOverflow, dest)
	}
	if m.Unique && m.Supply+amount > 1 {
		return fmt.Errorf("%w: unique mint %s", ErrOverflow, mint)
	}
	m.Supply += amount
	acct.Balance += amount
	return nil
}

// Burn destroys amount units held by from. The caller must prove control of
// the account owner.
func (e *Environment) Burn(from Address, by Authorizer, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct, ok := e.accounts[from]
	if !ok {
		return fmt.Errorf("%w: account %s", ErrAccountNotFound, from)
	}
	if !by.Authorizes(acct.Owner) {
		return fmt.Errorf("%w: owner %s not proven", ErrUnauthorized, acct.Owner)
	}
	if acct.Balance < amount {
		return fmt.Errorf("%w: balance %d, burn %d", ErrInsufficientFunds, acct.Balance, amount)
	}
	m := e.mints[acct.Mint]
	acct.Balance -= amount
	m.Supply -= amount
	return nil
}

// Transfer moves amount units between two accounts of the same mint. The
// caller must prove control of the source account owner.
func (e *Environment) Transfer(from, to Address, by Authorizer, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, ok := e.accounts[from]
	if !ok {
		return fmt.Errorf("%w: account %s", ErrAccountNotFound, from)
	}
	dst, ok := e.accounts[to]
	if !ok {
		return fmt.Errorf("%w: account %s", ErrAccountNotFound, to)
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: %s vs %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if !by.Authorizes(src.Owner) {
		return fmt.Errorf("%w: owner %s not proven", ErrUnauthorized, src.Owner)
	}
	if src.Balance < amount {
		return fmt.Errorf("%w: balance %d, transfer %d", ErrInsufficientFunds, src.Balance, amount)
	}
	if dst.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance of %s", ErrOverflow, to)
	}
	src.Balance -= amount
	dst.Balance += amount
	return nil
}

func (e *Environment) Balance(addr Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct, ok := e.accounts[addr]
	if !ok {
		return 0, fmt.Errorf("%w: account %s", ErrAccountNotFound, addr)
	}
	return acct.Balance, nil
}

func (e *Environment) Supply(mint Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.mints[mint]
	if !ok {
		return 0, fmt.Errorf("%w: mint %s", ErrAccountNotFound, mint)
	}
	return m.Supply, nil
}

func (e *Environment) Owner(addr Address) (Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct, ok := e.accounts[addr]
	if !ok {
		return Address{}, fmt.Errorf("%w: account %s", ErrAccountNotFound, addr)
	}
	return acct.Owner, nil
}

func (e *Environment) HasAccount(addr Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.accounts[addr]
	return ok
}
