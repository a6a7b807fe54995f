package arena

import (
	"fmt"
	"math"
	"time"

	"arena/internal/ledger"

	"go.uber.org/zap"
)

// EarnReason tags why tokens were minted to a player. Recorded for
// observability only; it never changes the amount.
type EarnReason string

const (
	EarnRoundSurvival EarnReason = "round_survival"
	EarnZombieKill    EarnReason = "zombie_kill"
	EarnHeadshot      EarnReason = "headshot"
	EarnAssist        EarnReason = "assist"
	EarnRevive        EarnReason = "revive"
	EarnChallenge     EarnReason = "challenge"
)

func (r EarnReason) Valid() bool {
	switch r {
	case EarnRoundSurvival, EarnZombieKill, EarnHeadshot, EarnAssist, EarnRevive, EarnChallenge:
		return true
	}
	return false
}

// EconomyState is the governance record of the reward token: who
// administers it, which mint it binds to, and how much supply has been
// destroyed over the deployment's lifetime.
type EconomyState struct {
	Address     ledger.Address
	Admin       ledger.Address
	Mint        ledger.Address
	TotalBurned uint64
	CreatedAt   time.Time

	mintAuthority ledger.Proof
}

// InitializeEconomy creates the reward token and its governance record. The
// minting authority is a sub-account derived from the mint identifier, so no
// private key can ever sign as it. No tokens are pre-minted here.
func (c *Core) InitializeEconomy(by ledger.Authorizer, admin ledger.Address, initialSupply uint64, decimals uint8) (EconomyState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.economy != nil {
		return EconomyState{}, fmt.Errorf("%w: economy already initialized", ErrAlreadyExists)
	}
	if !by.Authorizes(admin) {
		return EconomyState{}, fmt.Errorf("%w: administrator signature required", ErrUnauthorized)
	}

	mint, _ := ledger.Derive(seedMint, admin[:])
	authAddr, authProof := ledger.Derive(seedMintAuthority, mint[:])
	tokenData, _ := ledger.Derive(seedTokenData, mint[:])

	if err := c.env.CreateMint(mint, decimals, authAddr, false); err != nil {
		return EconomyState{}, fmt.Errorf("failed to create reward mint: %w", err)
	}

	c.economy = &EconomyState{
		Address:       tokenData,
		Admin:         admin,
		Mint:          mint,
		CreatedAt:     c.now(),
		mintAuthority: authProof,
	}

	// The administrator's own token account, so IssueTokens has a default
	// destination from the start.
	if _, err := c.ensureTokenAccount(admin); err != nil {
		c.economy = nil
		return EconomyState{}, fmt.Errorf("failed to create admin token account: %w", err)
	}

	c.log.Info("economy initialized",
		zap.String("admin", admin.String()),
		zap.String("mint", mint.String()),
		zap.Uint64("initial_supply", initialSupply))
	c.publish(SubjectEconomyInitialized, EconomyInitializedEvent{
		EventID:       eventID(),
		Admin:         admin.String(),
		Mint:          mint.String(),
		InitialSupply: initialSupply,
		Decimals:      decimals,
	})
	return *c.economy, nil
}

// Economy returns a snapshot of the governance record.
func (c *Core) Economy() (EconomyState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.economy == nil {
		return EconomyState{}, false
	}
	return *c.economy, true
}

// IssueTokens mints amount units to the recipient's balance. Administrator
// signature required; this is the governance path, not the reward path.
func (c *Core) IssueTokens(by ledger.Authorizer, caller, recipient ledger.Address, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	eco, err := c.requireEconomy()
	if err != nil {
		return err
	}
	if caller != eco.Admin || !by.Authorizes(caller) {
		return fmt.Errorf("%w: caller is not the economy administrator", ErrUnauthorized)
	}
	acct, err := c.ensureTokenAccount(recipient)
	if err != nil {
		return err
	}
	if err := c.env.MintTo(eco.Mint, acct, eco.mintAuthority, amount); err != nil {
		return fmt.Errorf("issue failed: %w", err)
	}
	return nil
}

// BurnForPerk destroys amount units from the caller's own balance and
// activates the perk on the caller's record, as one transaction. Perk
// eligibility is validated before the burn so a rejected activation never
// destroys supply.
func (c *Core) BurnForPerk(by ledger.Authorizer, player ledger.Address, amount uint64, perk Perk) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	eco, err := c.requireEconomy()
	if err != nil {
		return err
	}
	if !by.Authorizes(player) {
		return fmt.Errorf("%w: player signature required", ErrUnauthorized)
	}
	if !perk.Valid() {
		return fmt.Errorf("%w: unknown perk %q", ErrInvalidArgument, perk)
	}
	recAddr, _ := ledger.Derive(seedPlayerState, player[:])
	rec, ok := c.players[recAddr]
	if !ok {
		return fmt.Errorf("%w: player record for %s", ErrNotFound, player)
	}
	if err := rec.canActivate(perk); err != nil {
		return err
	}
	if eco.TotalBurned > math.MaxUint64-amount {
		return fmt.Errorf("%w: cumulative burned counter", ErrOverflow)
	}

	acct, err := c.ensureTokenAccount(player)
	if err != nil {
		return err
	}
	if err := c.env.Burn(acct, by, amount); err != nil {
		return fmt.Errorf("burn failed: %w", err)
	}

	c.economy.TotalBurned += amount
	rec.ActivePerks = append(rec.ActivePerks, perk)

	c.publish(SubjectTokensBurned, TokensBurnedEvent{
		EventID: eventID(),
		Player:  player.String(),
		Amount:  amount,
		Perk:    perk,
		At:      c.now(),
	})
	return nil
}

// EarnTokens mints amount units to the player under the delegated minting
// authority. This is the reward path: the player signs, no administrator is
// involved.
func (c *Core) EarnTokens(by ledger.Authorizer, player ledger.Address, amount uint64, reason EarnReason) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	eco, err := c.requireEconomy()
	if err != nil {
		return err
	}
	if !by.Authorizes(player) {
		return fmt.Errorf("%w: player signature required", ErrUnauthorized)
	}
	if !reason.Valid() {
		return fmt.Errorf("%w: unknown earn reason %q", ErrInvalidArgument, reason)
	}
	recAddr, _ := ledger.Derive(seedPlayerState, player[:])
	rec, ok := c.players[recAddr]
	if !ok {
		return fmt.Errorf("%w: player record for %s", ErrNotFound, player)
	}
	if rec.TokensEarned > math.MaxUint64-amount {
		return fmt.Errorf("%w: lifetime earned counter", ErrOverflow)
	}

	acct, err := c.ensureTokenAccount(player)
	if err != nil {
		return err
	}
	if err := c.env.MintTo(eco.Mint, acct, eco.mintAuthority, amount); err != nil {
		return fmt.Errorf("earn mint failed: %w", err)
	}

	rec.TokensEarned += amount

	c.publish(SubjectTokensEarned, TokensEarnedEvent{
		EventID: eventID(),
		Player:  player.String(),
		Amount:  amount,
		Reason:  reason,
		At:      c.now(),
	})
	return nil
}
