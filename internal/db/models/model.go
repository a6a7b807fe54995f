package models

import (
	"time"
)

// Read-model mirrors of committed core records. The core's in-memory state
// is authoritative; these rows back queries and leaderboards only.

type Player struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Address      string    `gorm:"size:64;not null;uniqueIndex"`
	TotalKills   uint64    `gorm:"not null;default:0"`
	HighestRound uint32    `gorm:"not null;default:0"`
	TokensEarned uint64    `gorm:"not null;default:0"`
	ActivePerks  string    `gorm:"size:200"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Weapon struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Address   string    `gorm:"size:64;not null;uniqueIndex"`
	Mint      string    `gorm:"size:64;not null;uniqueIndex"`
	Owner     string    `gorm:"size:64;not null;index"`
	Type      string    `gorm:"size:32;not null"`
	Rarity    string    `gorm:"size:16;not null"`
	Level     uint8     `gorm:"not null"`
	Damage    uint32    `gorm:"not null"`
	Kills     uint64    `gorm:"not null;default:0"`
	Upgraded  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Tournament struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Address        string    `gorm:"size:64;not null;uniqueIndex"`
	Organizer      string    `gorm:"size:64;not null;index"`
	EntryFee       uint64    `gorm:"not null"`
	MaxPlayers     uint32    `gorm:"not null"`
	CurrentPlayers uint32    `gorm:"not null;default:0"`
	PrizePool      uint64    `gorm:"not null;default:0"`
	Status         string    `gorm:"size:16;not null"`
	StartTime      time.Time `gorm:"not null"`
	EndTime        time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

type TournamentEntry struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Address      string     `gorm:"size:64;not null;uniqueIndex"`
	Tournament   string     `gorm:"size:64;not null;index"`
	Player       string     `gorm:"size:64;not null;index"`
	HighestRound uint32     `gorm:"not null;default:0"`
	TotalKills   uint64     `gorm:"not null;default:0"`
	JoinedAt     time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

type Guild struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	Address       string    `gorm:"size:64;not null;uniqueIndex"`
	Name          string    `gorm:"size:32;not null;uniqueIndex"`
	Description   string    `gorm:"size:200"`
	Leader        string    `gorm:"size:64;not null"`
	MemberCount   uint32    `gorm:"not null;default:1"`
	TotalEarnings uint64    `gorm:"not null;default:0"`
	Treasury      string    `gorm:"size:64;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

type BurnRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Player    string    `gorm:"size:64;not null;index"`
	Amount    uint64    `gorm:"not null"`
	Perk      string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
