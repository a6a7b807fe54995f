package arena

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"arena/internal/ledger"
)

// Seed labels for every derived sub-account. A record's identity is always
// recomputable from these plus public identifiers, never from a stored
// secret.
const (
	seedMint            = "mint"
	seedTokenData       = "token_data"
	seedMintAuthority   = "mint_authority"
	seedTokenAccount    = "token_account"
	seedPlayerState     = "player_state"
	seedWeaponMint      = "weapon_mint"
	seedWeapon          = "weapon"
	seedTournament      = "tournament"
	seedTournamentEntry = "tournament_entry"
	seedPrizePool       = "prize_pool"
	seedGuild           = "guild"
	seedGuildTreasury   = "guild_treasury"
)

// Core is the economy and progression state machine. Every exported method
// is one transaction: it checks authorization and preconditions against the
// declared records, then either applies every state change or none.
//
// The mutex serializes submissions the way the ledger environment serializes
// transactions touching the same records; operations themselves are
// synchronous total functions with no partial application.
type Core struct {
	mu     sync.Mutex
	env    *ledger.Environment
	events Events
	log    *zap.Logger
	now    func() time.Time

	upgradeCost uint64

	economy     *EconomyState
	players     map[ledger.Address]*PlayerRecord
	weapons     map[ledger.Address]*WeaponRecord
	tournaments map[ledger.Address]*Tournament
	entries     map[ledger.Address]*TournamentEntry
	guilds      map[ledger.Address]*Guild
}

// NewCore wires the state machine to its ledger environment. events may be
// nil to disable publication; log may be nil.
func NewCore(env *ledger.Environment, events Events, log *zap.Logger) *Core {
	if log == nil {
		log = zap.NewNop()
	}
	return &Core{
		env:         env,
		events:      events,
		log:         log,
		now:         time.Now,
		upgradeCost: UpgradeCost,
		players:     make(map[ledger.Address]*PlayerRecord),
		weapons:     make(map[ledger.Address]*WeaponRecord),
		tournaments: make(map[ledger.Address]*Tournament),
		entries:     make(map[ledger.Address]*TournamentEntry),
		guilds:      make(map[ledger.Address]*Guild),
	}
}

// SetClock replaces the wall clock, for tests.
func (c *Core) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetUpgradeCost overrides the weapon upgrade burn cost (config-driven).
func (c *Core) SetUpgradeCost(cost uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cost > 0 {
		c.upgradeCost = cost
	}
}

func (c *Core) requireEconomy() (*EconomyState, error) {
	if c.economy == nil {
		return nil, fmt.Errorf("%w: economy not initialized", ErrInvalidState)
	}
	return c.economy, nil
}

// TokenAccountAddress is the deterministic reward-token account for an
// owner, the associated-account convention of the ledger environment.
func (c *Core) TokenAccountAddress(owner ledger.Address) (ledger.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	eco, err := c.requireEconomy()
	if err != nil {
		return ledger.Address{}, err
	}
	addr, _ := ledger.Derive(seedTokenAccount, eco.Mint[:], owner[:])
	return addr, nil
}

// ensureTokenAccount creates the owner's reward-token account if it does not
// exist yet. Called with c.mu held.
func (c *Core) ensureTokenAccount(owner ledger.Address) (ledger.Address, error) {
	eco, err := c.requireEconomy()
	if err != nil {
		return ledger.Address{}, err
	}
	addr, _ := ledger.Derive(seedTokenAccount, eco.Mint[:], owner[:])
	if c.env.HasAccount(addr) {
		return addr, nil
	}
	if err := c.env.CreateAccount(addr, eco.Mint, owner); err != nil {
		return ledger.Address{}, err
	}
	return addr, nil
}

// Balance reads the owner's reward-token balance. Missing accounts read as
// zero.
func (c *Core) Balance(owner ledger.Address) (uint64, error) {
	addr, err := c.TokenAccountAddress(owner)
	if err != nil {
		return 0, err
	}
	bal, err := c.env.Balance(addr)
	if err != nil {
		return 0, nil
	}
	return bal, nil
}
