package arena

import (
	"fmt"
	"time"

	"arena/internal/ledger"
)

// Perk is a player-activated modifier. Activation has a hard cap; there is
// no expiry or removal path, perks are permanent unlocks.
type Perk string

const (
	PerkJuggernog   Perk = "juggernog"
	PerkSpeedCola   Perk = "speed_cola"
	PerkDoubleTap   Perk = "double_tap"
	PerkQuickRevive Perk = "quick_revive"
	PerkStaminUp    Perk = "stamin_up"
	PerkPHDFlopper  Perk = "phd_flopper"
	PerkDeadshot    Perk = "deadshot"
	PerkMuleKick    Perk = "mule_kick"
)

func (p Perk) Valid() bool {
	switch p {
	case PerkJuggernog, PerkSpeedCola, PerkDoubleTap, PerkQuickRevive,
		PerkStaminUp, PerkPHDFlopper, PerkDeadshot, PerkMuleKick:
		return true
	}
	return false
}

const MaxActivePerks = 4

// PlayerRecord is the lifetime progression record for one player.
type PlayerRecord struct {
	Address      ledger.Address
	Player       ledger.Address
	TotalKills   uint64
	HighestRound uint32
	TokensEarned uint64
	ActivePerks  []Perk
	CreatedAt    time.Time
}

func (r *PlayerRecord) canActivate(perk Perk) error {
	if len(r.ActivePerks) >= MaxActivePerks {
		return fmt.Errorf("%w: maximum of %d active perks", ErrLimitExceeded, MaxActivePerks)
	}
	for _, p := range r.ActivePerks {
		if p == perk {
			return fmt.Errorf("%w: perk %q already active", ErrDuplicate, perk)
		}
	}
	return nil
}

// ActivatePerk appends the perk, enforcing the cap and the no-duplicates
// rule.
func (r *PlayerRecord) ActivatePerk(perk Perk) error {
	if err := r.canActivate(perk); err != nil {
		return err
	}
	r.ActivePerks = append(r.ActivePerks, perk)
	return nil
}

func (r *PlayerRecord) snapshot() PlayerRecord {
	out := *r
	out.ActivePerks = append([]Perk(nil), r.ActivePerks...)
	return out
}

// CreatePlayerRecord creates a zeroed progression record for the player.
func (c *Core) CreatePlayerRecord(by ledger.Authorizer, player ledger.Address) (PlayerRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !by.Authorizes(player) {
		return PlayerRecord{}, fmt.Errorf("%w: player signature required", ErrUnauthorized)
	}
	addr, _ := ledger.Derive(seedPlayerState, player[:])
	if _, ok := c.players[addr]; ok {
		return PlayerRecord{}, fmt.Errorf("%w: player record for %s", ErrAlreadyExists, player)
	}
	rec := &PlayerRecord{
		Address:   addr,
		Player:    player,
		CreatedAt: c.now(),
	}
	c.players[addr] = rec
	return rec.snapshot(), nil
}

// Player returns a snapshot of the player's record.
func (c *Core) Player(player ledger.Address) (PlayerRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr, _ := ledger.Derive(seedPlayerState, player[:])
	rec, ok := c.players[addr]
	if !ok {
		return PlayerRecord{}, false
	}
	return rec.snapshot(), true
}
