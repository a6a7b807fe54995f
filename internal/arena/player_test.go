package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arena/internal/ledger"
)

func TestCreatePlayerRecord(t *testing.T) {
	c, _ := newTestCore(t)
	kp, _ := ledger.NewKeypair()

	rec, err := c.CreatePlayerRecord(ledger.SignersOf(kp), kp.Address())
	assert.NoError(t, err)
	assert.Equal(t, kp.Address(), rec.Player)
	assert.Zero(t, rec.TotalKills)
	assert.Zero(t, rec.HighestRound)
	assert.Zero(t, rec.TokensEarned)
	assert.Empty(t, rec.ActivePerks)
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = c.CreatePlayerRecord(ledger.SignersOf(kp), kp.Address())
	assert.ErrorIs(t, err, ErrAlreadyExists)

	again, ok := c.Player(kp.Address())
	assert.True(t, ok)
	assert.Equal(t, rec.CreatedAt, again.CreatedAt, "Duplicate create should not reset the record")
}

func TestCreatePlayerRecordRequiresSignature(t *testing.T) {
	c, _ := newTestCore(t)
	kp, _ := ledger.NewKeypair()
	stranger, _ := ledger.NewKeypair()

	_, err := c.CreatePlayerRecord(ledger.SignersOf(stranger), kp.Address())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestActivePerkCap(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, 10_000)

	for _, p := range []Perk{PerkJuggernog, PerkSpeedCola, PerkDoubleTap, PerkQuickRevive} {
		assert.NoError(t, c.BurnForPerk(ledger.SignersOf(player), player.Address(), 100, p))
	}

	// The cap applies to any fifth perk, not just repeats.
	err := c.BurnForPerk(ledger.SignersOf(player), player.Address(), 100, PerkStaminUp)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	rec, _ := c.Player(player.Address())
	assert.Len(t, rec.ActivePerks, MaxActivePerks)

	bal, _ := c.Balance(player.Address())
	assert.Equal(t, uint64(10_000-4*100), bal, "Capped activation should not burn")
}

func TestActivatePerkDirect(t *testing.T) {
	rec := &PlayerRecord{}

	assert.NoError(t, rec.ActivatePerk(PerkDeadshot))
	assert.ErrorIs(t, rec.ActivatePerk(PerkDeadshot), ErrDuplicate)

	for _, p := range []Perk{PerkMuleKick, PerkPHDFlopper, PerkStaminUp} {
		assert.NoError(t, rec.ActivatePerk(p))
	}
	assert.ErrorIs(t, rec.ActivatePerk(PerkJuggernog), ErrLimitExceeded)
}

func TestPlayerSnapshotIsolated(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, 1000)

	assert.NoError(t, c.BurnForPerk(ledger.SignersOf(player), player.Address(), 100, PerkJuggernog))

	snap, _ := c.Player(player.Address())
	snap.ActivePerks[0] = PerkMuleKick

	fresh, _ := c.Player(player.Address())
	assert.Equal(t, []Perk{PerkJuggernog}, fresh.ActivePerks, "Snapshots should not alias internal state")
}
