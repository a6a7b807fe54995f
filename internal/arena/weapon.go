package arena

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"arena/internal/ledger"
)

type WeaponType string

const (
	WeaponAK47        WeaponType = "ak47"
	WeaponM16         WeaponType = "m16"
	WeaponGalil       WeaponType = "galil"
	WeaponFAMAS       WeaponType = "famas"
	WeaponMP40        WeaponType = "mp40"
	WeaponAK74u       WeaponType = "ak74u"
	WeaponMP5         WeaponType = "mp5"
	WeaponOlympia     WeaponType = "olympia"
	WeaponSPAS12      WeaponType = "spas12"
	WeaponL96A1       WeaponType = "l96a1"
	WeaponDragunov    WeaponType = "dragunov"
	WeaponRaygun      WeaponType = "raygun"
	WeaponThundergun  WeaponType = "thundergun"
	WeaponWunderWaffe WeaponType = "wunderwaffe"
)

// baseDamage is fixed per weapon type; a weapon's damage derives from it at
// mint time and changes only through the single upgrade.
var baseDamage = map[WeaponType]uint32{
	WeaponAK47:        150,
	WeaponM16:         140,
	WeaponGalil:       145,
	WeaponFAMAS:       135,
	WeaponMP40:        100,
	WeaponAK74u:       110,
	WeaponMP5:         105,
	WeaponOlympia:     500,
	WeaponSPAS12:      450,
	WeaponL96A1:       1000,
	WeaponDragunov:    900,
	WeaponRaygun:      1500,
	WeaponThundergun:  10000,
	WeaponWunderWaffe: 5000,
}

var weaponDisplayName = map[WeaponType]string{
	WeaponAK47:        "AK-47",
	WeaponM16:         "M16",
	WeaponGalil:       "Galil",
	WeaponFAMAS:       "FAMAS",
	WeaponMP40:        "MP40",
	WeaponAK74u:       "AK-74u",
	WeaponMP5:         "MP5",
	WeaponOlympia:     "Olympia",
	WeaponSPAS12:      "SPAS-12",
	WeaponL96A1:       "L96A1",
	WeaponDragunov:    "Dragunov",
	WeaponRaygun:      "Ray Gun",
	WeaponThundergun:  "Thundergun",
	WeaponWunderWaffe: "Wunderwaffe DG-2",
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// rarityMultiplier is strictly increasing across the six tiers.
var rarityMultiplier = map[Rarity]float32{
	RarityCommon:    1.0,
	RarityUncommon:  1.2,
	RarityRare:      1.5,
	RarityEpic:      2.0,
	RarityLegendary: 2.5,
	RarityMythic:    3.0,
}

var rarityDisplayName = map[Rarity]string{
	RarityCommon:    "Common",
	RarityUncommon:  "Uncommon",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
	RarityMythic:    "Mythic",
}

// BaseDamage exposes the fixed table for verification.
func BaseDamage(t WeaponType) (uint32, bool) {
	d, ok := baseDamage[t]
	return d, ok
}

// RarityMultiplier exposes the fixed table for verification.
func RarityMultiplier(r Rarity) (float32, bool) {
	m, ok := rarityMultiplier[r]
	return m, ok
}

// WeaponDamage is the mint-time damage formula: base multiplied by the
// rarity tier, truncated to an integer.
func WeaponDamage(t WeaponType, r Rarity) (uint32, error) {
	base, ok := baseDamage[t]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weapon type %q", ErrInvalidArgument, t)
	}
	mult, ok := rarityMultiplier[r]
	if !ok {
		return 0, fmt.Errorf("%w: unknown rarity %q", ErrInvalidArgument, r)
	}
	return uint32(float32(base) * mult), nil
}

// UpgradeCost is the fixed token burn for the one-way weapon upgrade.
const UpgradeCost uint64 = 5000

const (
	weaponSymbol     = "ZAP-WPN"
	weaponRoyaltyBps = 250
	weaponURIFormat  = "https://api.zombiearena.io/weapon/%s/%s.json"
)

// WeaponRecord is a uniquely minted, owned weapon with derived combat
// statistics.
type WeaponRecord struct {
	Address   ledger.Address
	Mint      ledger.Address
	Type      WeaponType
	Rarity    Rarity
	Level     uint8
	Damage    uint32
	Kills     uint64
	Upgraded  bool
	Owner     ledger.Address
	CreatedAt time.Time
}

// MintWeapon creates a new weapon identity, mints exactly one non-fungible
// unit to the player under the delegated authority, and requests the
// off-ledger metadata descriptor.
func (c *Core) MintWeapon(by ledger.Authorizer, player ledger.Address, weaponType WeaponType, rarity Rarity) (WeaponRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !by.Authorizes(player) {
		return WeaponRecord{}, fmt.Errorf("%w: player signature required", ErrUnauthorized)
	}
	damage, err := WeaponDamage(weaponType, rarity)
	if err != nil {
		return WeaponRecord{}, err
	}

	nonce := uuid.New()
	mintAddr, _ := ledger.Derive(seedWeaponMint, nonce[:])
	authAddr, authProof := ledger.Derive(seedMintAuthority)
	dataAddr, _ := ledger.Derive(seedWeapon, mintAddr[:])
	holdAddr, _ := ledger.Derive(seedTokenAccount, mintAddr[:], player[:])

	if err := c.env.CreateMint(mintAddr, 0, authAddr, true); err != nil {
		return WeaponRecord{}, fmt.Errorf("failed to create weapon mint: %w", err)
	}
	if err := c.env.CreateAccount(holdAddr, mintAddr, player); err != nil {
		return WeaponRecord{}, fmt.Errorf("failed to create weapon account: %w", err)
	}
	if err := c.env.MintTo(mintAddr, holdAddr, authProof, 1); err != nil {
		return WeaponRecord{}, fmt.Errorf("failed to mint weapon unit: %w", err)
	}

	rec := &WeaponRecord{
		Address:   dataAddr,
		Mint:      mintAddr,
		Type:      weaponType,
		Rarity:    rarity,
		Level:     1,
		Damage:    damage,
		Owner:     player,
		CreatedAt: c.now(),
	}
	c.weapons[dataAddr] = rec

	c.publish(SubjectWeaponDescriptor, WeaponDescriptorRequest{
		EventID:              eventID(),
		Mint:                 mintAddr.String(),
		Name:                 fmt.Sprintf("%s %s", rarityDisplayName[rarity], weaponDisplayName[weaponType]),
		Symbol:               weaponSymbol,
		URI:                  fmt.Sprintf(weaponURIFormat, strings.ToLower(weaponDisplayName[weaponType]), mintAddr),
		SellerFeeBasisPoints: weaponRoyaltyBps,
	})
	return *rec, nil
}

// Weapon returns a snapshot of the weapon record.
func (c *Core) Weapon(addr ledger.Address) (WeaponRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.weapons[addr]
	if !ok {
		return WeaponRecord{}, false
	}
	return *rec, true
}

// RecordWeaponKills adds kills to the weapon's counter and to the owner's
// lifetime total.
func (c *Core) RecordWeaponKills(by ledger.Authorizer, weapon ledger.Address, kills uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.weapons[weapon]
	if !ok {
		return fmt.Errorf("%w: weapon %s", ErrNotFound, weapon)
	}
	if !by.Authorizes(rec.Owner) {
		return fmt.Errorf("%w: weapon owner signature required", ErrUnauthorized)
	}
	if rec.Kills > math.MaxUint64-kills {
		return fmt.Errorf("%w: weapon kill counter", ErrOverflow)
	}
	playerAddr, _ := ledger.Derive(seedPlayerState, rec.Owner[:])
	player, hasRecord := c.players[playerAddr]
	if hasRecord && player.TotalKills > math.MaxUint64-kills {
		return fmt.Errorf("%w: lifetime kill counter", ErrOverflow)
	}

	rec.Kills += kills
	if hasRecord {
		player.TotalKills += kills
	}
	return nil
}

// UpgradeWeapon burns the fixed upgrade cost from the owner's balance,
// doubles the weapon's damage and bumps its level, exactly once per weapon.
// If the burn fails no weapon state changes.
func (c *Core) UpgradeWeapon(by ledger.Authorizer, player, weapon ledger.Address) (WeaponRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.requireEconomy(); err != nil {
		return WeaponRecord{}, err
	}
	rec, ok := c.weapons[weapon]
	if !ok {
		return WeaponRecord{}, fmt.Errorf("%w: weapon %s", ErrNotFound, weapon)
	}
	if rec.Owner != player || !by.Authorizes(player) {
		return WeaponRecord{}, fmt.Errorf("%w: caller does not own weapon", ErrUnauthorized)
	}
	if rec.Upgraded {
		return WeaponRecord{}, fmt.Errorf("%w: weapon already upgraded", ErrInvalidState)
	}
	if rec.Damage > math.MaxUint32/2 {
		return WeaponRecord{}, fmt.Errorf("%w: weapon damage", ErrOverflow)
	}
	if rec.Level == math.MaxUint8 {
		return WeaponRecord{}, fmt.Errorf("%w: weapon level", ErrOverflow)
	}

	acct, err := c.ensureTokenAccount(player)
	if err != nil {
		return WeaponRecord{}, err
	}
	if err := c.env.Burn(acct, by, c.upgradeCost); err != nil {
		return WeaponRecord{}, fmt.Errorf("upgrade burn failed: %w", err)
	}

	rec.Upgraded = true
	rec.Damage *= 2
	rec.Level++
	return *rec, nil
}
