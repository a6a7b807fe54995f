package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"arena/internal/arena"
	"arena/internal/ledger"
)

func TestPlayerRow(t *testing.T) {
	kp, err := ledger.NewKeypair()
	if err != nil {
		t.Fatalf("Failed to generate keypair: %v", err)
	}
	state, _ := ledger.Derive("player_state", kp.Public)
	rec := arena.PlayerRecord{
		Address:      state,
		Player:       kp.Address(),
		TotalKills:   42,
		HighestRound: 7,
		TokensEarned: 900,
		ActivePerks:  []arena.Perk{arena.PerkJuggernog, arena.PerkSpeedCola},
		CreatedAt:    time.Now(),
	}

	row := PlayerRow(rec)
	assert.Equal(t, state.String(), row.Address)
	assert.Equal(t, uint64(42), row.TotalKills)
	assert.Equal(t, uint32(7), row.HighestRound)
	assert.Equal(t, uint64(900), row.TokensEarned)
	assert.Equal(t, "juggernog,speed_cola", row.ActivePerks)
}

func TestWeaponRow(t *testing.T) {
	owner, _ := ledger.NewKeypair()
	data, _ := ledger.Derive("weapon", []byte("d"))
	mint, _ := ledger.Derive("weapon_mint", []byte("m"))
	rec := arena.WeaponRecord{
		Address:  data,
		Mint:     mint,
		Type:     arena.WeaponRaygun,
		Rarity:   arena.RarityLegendary,
		Level:    2,
		Damage:   7500,
		Kills:    13,
		Upgraded: true,
		Owner:    owner.Address(),
	}

	row := WeaponRow(rec)
	assert.Equal(t, data.String(), row.Address)
	assert.Equal(t, mint.String(), row.Mint)
	assert.Equal(t, "raygun", row.Type)
	assert.Equal(t, "legendary", row.Rarity)
	assert.Equal(t, uint8(2), row.Level)
	assert.Equal(t, uint32(7500), row.Damage)
	assert.True(t, row.Upgraded)
}

func TestTournamentAndEntryRows(t *testing.T) {
	organizer, _ := ledger.NewKeypair()
	player, _ := ledger.NewKeypair()
	addr, _ := ledger.Derive("tournament", organizer.Public)
	entryAddr, _ := ledger.Derive("tournament_entry", addr[:], player.Public)

	tr := TournamentRow(arena.Tournament{
		Address:        addr,
		Organizer:      organizer.Address(),
		EntryFee:       500,
		MaxPlayers:     16,
		CurrentPlayers: 3,
		PrizePool:      1500,
		Status:         arena.TournamentActive,
	})
	assert.Equal(t, addr.String(), tr.Address)
	assert.Equal(t, "active", tr.Status)
	assert.Equal(t, uint64(1500), tr.PrizePool)

	er := EntryRow(arena.TournamentEntry{
		Address:      entryAddr,
		Player:       player.Address(),
		Tournament:   addr,
		HighestRound: 9,
		TotalKills:   120,
	})
	assert.Equal(t, entryAddr.String(), er.Address)
	assert.Equal(t, addr.String(), er.Tournament)
	assert.Equal(t, uint32(9), er.HighestRound)
}

func TestGuildRow(t *testing.T) {
	leader, _ := ledger.NewKeypair()
	addr, _ := ledger.Derive("guild", []byte("Night Watch"))
	treasury, _ := ledger.Derive("guild_treasury", addr[:])

	row := GuildRow(arena.Guild{
		Address:     addr,
		Name:        "Night Watch",
		Description: "We hold the line.",
		Leader:      leader.Address(),
		MemberCount: 4,
		Treasury:    treasury,
	})
	assert.Equal(t, "Night Watch", row.Name)
	assert.Equal(t, leader.Address().String(), row.Leader)
	assert.Equal(t, uint32(4), row.MemberCount)
	assert.Equal(t, treasury.String(), row.Treasury)
}
