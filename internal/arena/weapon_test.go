package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arena/internal/ledger"
)

func TestWeaponDamageTable(t *testing.T) {
	cases := []struct {
		weapon WeaponType
		rarity Rarity
		want   uint32
	}{
		{WeaponAK47, RarityCommon, 150},
		{WeaponAK47, RarityUncommon, 180},
		{WeaponMP5, RarityRare, 157},
		{WeaponRaygun, RarityEpic, 3000},
		{WeaponWunderWaffe, RarityLegendary, 12500},
		{WeaponThundergun, RarityMythic, 30000},
	}
	for _, tc := range cases {
		got, err := WeaponDamage(tc.weapon, tc.rarity)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "damage for %s/%s", tc.weapon, tc.rarity)
	}

	_, err := WeaponDamage(WeaponType("crossbow"), RarityCommon)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = WeaponDamage(WeaponAK47, Rarity("cursed"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMintWeapon(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, 0)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponGalil, RarityRare)
	assert.NoError(t, err)
	assert.Equal(t, player.Address(), rec.Owner)
	assert.Equal(t, uint8(1), rec.Level)
	assert.Equal(t, uint32(217), rec.Damage) // 145 * 1.5, truncated
	assert.False(t, rec.Upgraded)
	assert.False(t, rec.Mint.IsZero())

	got, ok := c.Weapon(rec.Address)
	assert.True(t, ok)
	assert.Equal(t, rec.Mint, got.Mint)
}

func TestMintWeaponDistinctIdentities(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, 0)

	r1, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponAK47, RarityCommon)
	assert.NoError(t, err)
	r2, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponAK47, RarityCommon)
	assert.NoError(t, err)
	assert.NotEqual(t, r1.Mint, r2.Mint, "Every mint should create a fresh identity")
	assert.NotEqual(t, r1.Address, r2.Address)
}

func TestMintWeaponRequiresSignature(t *testing.T) {
	c, _ := newTestCore(t)
	player, _ := ledger.NewKeypair()
	stranger, _ := ledger.NewKeypair()

	_, err := c.MintWeapon(ledger.SignersOf(stranger), player.Address(), WeaponAK47, RarityCommon)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpgradeWeapon(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, UpgradeCost+100)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponOlympia, RarityEpic)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1000), rec.Damage)

	up, err := c.UpgradeWeapon(ledger.SignersOf(player), player.Address(), rec.Address)
	assert.NoError(t, err)
	assert.Equal(t, uint32(2000), up.Damage)
	assert.Equal(t, uint8(2), up.Level)
	assert.True(t, up.Upgraded)

	bal, _ := c.Balance(player.Address())
	assert.Equal(t, uint64(100), bal, "Upgrade should burn the fixed cost")

	_, err = c.UpgradeWeapon(ledger.SignersOf(player), player.Address(), rec.Address)
	assert.ErrorIs(t, err, ErrInvalidState, "Upgrade is one-way, once per weapon")
}

func TestUpgradeWeaponInsufficientFundsLeavesWeaponUnchanged(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, UpgradeCost-1)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponAK47, RarityCommon)
	assert.NoError(t, err)

	_, err = c.UpgradeWeapon(ledger.SignersOf(player), player.Address(), rec.Address)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	got, _ := c.Weapon(rec.Address)
	assert.Equal(t, rec.Damage, got.Damage)
	assert.Equal(t, uint8(1), got.Level)
	assert.False(t, got.Upgraded)

	bal, _ := c.Balance(player.Address())
	assert.Equal(t, UpgradeCost-1, bal)
}

func TestUpgradeWeaponOwnership(t *testing.T) {
	c, _ := newTestCore(t)
	owner := newTestPlayer(t, c, UpgradeCost)
	other := newTestPlayer(t, c, UpgradeCost)

	rec, err := c.MintWeapon(ledger.SignersOf(owner), owner.Address(), WeaponAK47, RarityCommon)
	assert.NoError(t, err)

	_, err = c.UpgradeWeapon(ledger.SignersOf(other), other.Address(), rec.Address)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpgradeWeaponConfiguredCost(t *testing.T) {
	c, _ := newTestCore(t)
	c.SetUpgradeCost(250)
	player := newTestPlayer(t, c, 250)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponAK47, RarityCommon)
	assert.NoError(t, err)

	_, err = c.UpgradeWeapon(ledger.SignersOf(player), player.Address(), rec.Address)
	assert.NoError(t, err)

	bal, _ := c.Balance(player.Address())
	assert.Zero(t, bal)
}

func TestRecordWeaponKills(t *testing.T) {
	c, _ := newTestCore(t)
	player := newTestPlayer(t, c, 0)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponMP40, RarityCommon)
	assert.NoError(t, err)

	assert.NoError(t, c.RecordWeaponKills(ledger.SignersOf(player), rec.Address, 17))
	assert.NoError(t, c.RecordWeaponKills(ledger.SignersOf(player), rec.Address, 3))

	got, _ := c.Weapon(rec.Address)
	assert.Equal(t, uint64(20), got.Kills)

	p, _ := c.Player(player.Address())
	assert.Equal(t, uint64(20), p.TotalKills, "Weapon kills should roll into the lifetime total")

	stranger, _ := ledger.NewKeypair()
	err = c.RecordWeaponKills(ledger.SignersOf(stranger), rec.Address, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
