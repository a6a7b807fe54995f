package db

import (
	"strings"

	"arena/internal/arena"
	"arena/internal/db/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mirror writes committed core records into the read model. Mutating the
// mirror never feeds back into the core.

func PlayerRow(rec arena.PlayerRecord) models.Player {
	perks := make([]string, len(rec.ActivePerks))
	for i, p := range rec.ActivePerks {
		perks[i] = string(p)
	}
	return models.Player{
		Address:      rec.Address.String(),
		TotalKills:   rec.TotalKills,
		HighestRound: rec.HighestRound,
		TokensEarned: rec.TokensEarned,
		ActivePerks:  strings.Join(perks, ","),
		CreatedAt:    rec.CreatedAt,
	}
}

func SavePlayer(db *gorm.DB, rec arena.PlayerRecord) error {
	row := PlayerRow(rec)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_kills", "highest_round", "tokens_earned", "active_perks"}),
	}).Create(&row).Error
}

func WeaponRow(rec arena.WeaponRecord) models.Weapon {
	return models.Weapon{
		Address:   rec.Address.String(),
		Mint:      rec.Mint.String(),
		Owner:     rec.Owner.String(),
		Type:      string(rec.Type),
		Rarity:    string(rec.Rarity),
		Level:     rec.Level,
		Damage:    rec.Damage,
		Kills:     rec.Kills,
		Upgraded:  rec.Upgraded,
		CreatedAt: rec.CreatedAt,
	}
}

func SaveWeapon(db *gorm.DB, rec arena.WeaponRecord) error {
	row := WeaponRow(rec)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "damage", "kills", "upgraded", "owner"}),
	}).Create(&row).Error
}

func TournamentRow(t arena.Tournament) models.Tournament {
	return models.Tournament{
		Address:        t.Address.String(),
		Organizer:      t.Organizer.String(),
		EntryFee:       t.EntryFee,
		MaxPlayers:     t.MaxPlayers,
		CurrentPlayers: t.CurrentPlayers,
		PrizePool:      t.PrizePool,
		Status:         string(t.Status),
		StartTime:      t.StartTime,
		EndTime:        t.EndTime,
	}
}

func SaveTournament(db *gorm.DB, t arena.Tournament) error {
	row := TournamentRow(t)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_players", "prize_pool", "status"}),
	}).Create(&row).Error
}

func EntryRow(e arena.TournamentEntry) models.TournamentEntry {
	return models.TournamentEntry{
		Address:      e.Address.String(),
		Tournament:   e.Tournament.String(),
		Player:       e.Player.String(),
		HighestRound: e.HighestRound,
		TotalKills:   e.TotalKills,
		JoinedAt:     e.JoinedAt,
	}
}

func SaveEntry(db *gorm.DB, e arena.TournamentEntry) error {
	row := EntryRow(e)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"highest_round", "total_kills"}),
	}).Create(&row).Error
}

func GuildRow(g arena.Guild) models.Guild {
	return models.Guild{
		Address:       g.Address.String(),
		Name:          g.Name,
		Description:   g.Description,
		Leader:        g.Leader.String(),
		MemberCount:   g.MemberCount,
		TotalEarnings: g.TotalEarnings,
		Treasury:      g.Treasury.String(),
		CreatedAt:     g.CreatedAt,
	}
}

func SaveGuild(db *gorm.DB, g arena.Guild) error {
	row := GuildRow(g)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"member_count", "total_earnings"}),
	}).Create(&row).Error
}

// RecordBurn appends one row per perk burn; the audit trail is append-only.
func RecordBurn(db *gorm.DB, player arena.PlayerRecord, amount uint64, perk arena.Perk) error {
	row := models.BurnRecord{
		Player: player.Player.String(),
		Amount: amount,
		Perk:   string(perk),
	}
	return db.Create(&row).Error
}
