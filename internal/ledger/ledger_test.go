package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMint(t *testing.T, env *Environment) (Address, Proof) {
	t.Helper()
	mint, _ := Derive("mint", []byte("test"))
	authAddr, authProof := Derive("mint_authority", mint[:])
	if err := env.CreateMint(mint, 9, authAddr, false); err != nil {
		t.Fatalf("Failed to create mint: %v", err)
	}
	return mint, authProof
}

func TestMintToAndBalance(t *testing.T) {
	env := NewEnvironment()
	mint, auth := newTestMint(t, env)

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))

	assert.NoError(t, env.MintTo(mint, acct, auth, 1000))

	bal, err := env.Balance(acct)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)

	supply, err := env.Supply(mint)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), supply)
}

func TestMintToRequiresAuthority(t *testing.T) {
	env := NewEnvironment()
	mint, _ := newTestMint(t, env)

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))

	err := env.MintTo(mint, acct, SignersOf(owner), 1000)
	assert.ErrorIs(t, err, ErrUnauthorized)

	bal, _ := env.Balance(acct)
	assert.Zero(t, bal, "Failed mint should leave the balance untouched")
}

func TestBurn(t *testing.T) {
	env := NewEnvironment()
	mint, auth := newTestMint(t, env)

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))
	assert.NoError(t, env.MintTo(mint, acct, auth, 500))

	assert.NoError(t, env.Burn(acct, SignersOf(owner), 200))

	bal, _ := env.Balance(acct)
	assert.Equal(t, uint64(300), bal)
	supply, _ := env.Supply(mint)
	assert.Equal(t, uint64(300), supply, "Burn should reduce supply too")

	err := env.Burn(acct, SignersOf(owner), 301)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	stranger, _ := NewKeypair()
	err = env.Burn(acct, SignersOf(stranger), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTransfer(t *testing.T) {
	env := NewEnvironment()
	mint, auth := newTestMint(t, env)

	alice, _ := NewKeypair()
	bob, _ := NewKeypair()
	aAcct, _ := Derive("token_account", mint[:], alice.Public)
	bAcct, _ := Derive("token_account", mint[:], bob.Public)
	assert.NoError(t, env.CreateAccount(aAcct, mint, alice.Address()))
	assert.NoError(t, env.CreateAccount(bAcct, mint, bob.Address()))
	assert.NoError(t, env.MintTo(mint, aAcct, auth, 100))

	assert.NoError(t, env.Transfer(aAcct, bAcct, SignersOf(alice), 60))

	aBal, _ := env.Balance(aAcct)
	bBal, _ := env.Balance(bAcct)
	assert.Equal(t, uint64(40), aBal)
	assert.Equal(t, uint64(60), bBal)

	err := env.Transfer(aAcct, bAcct, SignersOf(bob), 1)
	assert.ErrorIs(t, err, ErrUnauthorized, "Only the source owner may move funds")

	err = env.Transfer(aAcct, bAcct, SignersOf(alice), 41)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTransferMintMismatch(t *testing.T) {
	env := NewEnvironment()
	mintA, authA := newTestMint(t, env)
	mintB, _ := Derive("mint", []byte("other"))
	authAddrB, _ := Derive("mint_authority", mintB[:])
	assert.NoError(t, env.CreateMint(mintB, 9, authAddrB, false))

	owner, _ := NewKeypair()
	aAcct, _ := Derive("token_account", mintA[:], owner.Public)
	bAcct, _ := Derive("token_account", mintB[:], owner.Public)
	assert.NoError(t, env.CreateAccount(aAcct, mintA, owner.Address()))
	assert.NoError(t, env.CreateAccount(bAcct, mintB, owner.Address()))
	assert.NoError(t, env.MintTo(mintA, aAcct, authA, 10))

	err := env.Transfer(aAcct, bAcct, SignersOf(owner), 10)
	assert.ErrorIs(t, err, ErrMintMismatch)
}

func TestUniqueMintCapsSupplyAtOne(t *testing.T) {
	env := NewEnvironment()
	mint, _ := Derive("weapon_mint", []byte("nonce"))
	authAddr, auth := Derive("mint_authority")
	assert.NoError(t, env.CreateMint(mint, 0, authAddr, true))

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))

	assert.NoError(t, env.MintTo(mint, acct, auth, 1))
	err := env.MintTo(mint, acct, auth, 1)
	assert.ErrorIs(t, err, ErrOverflow, "Second unit of a unique mint should fail")
}

func TestMintToSupplyOverflow(t *testing.T) {
	env := NewEnvironment()
	mint, auth := newTestMint(t, env)

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))
	assert.NoError(t, env.MintTo(mint, acct, auth, math.MaxUint64))

	err := env.MintTo(mint, acct, auth, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCreateDuplicates(t *testing.T) {
	env := NewEnvironment()
	mint, _ := newTestMint(t, env)

	authAddr, _ := Derive("mint_authority", mint[:])
	err := env.CreateMint(mint, 9, authAddr, false)
	assert.ErrorIs(t, err, ErrAccountExists)

	owner, _ := NewKeypair()
	acct, _ := Derive("token_account", mint[:], owner.Public)
	assert.NoError(t, env.CreateAccount(acct, mint, owner.Address()))
	err = env.CreateAccount(acct, mint, owner.Address())
	assert.ErrorIs(t, err, ErrAccountExists)

	missingMint, _ := Derive("mint", []byte("missing"))
	err = env.CreateAccount(Address{1}, missingMint, owner.Address())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
