package arena

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arena/internal/ledger"
)

// Events is the outbound stream the core publishes to. JetStream satisfies
// it in production; nil disables publication entirely.
type Events interface {
	Publish(subject string, v any) error
}

const (
	SubjectEconomyInitialized = "arena.economy.initialized"
	SubjectTokensEarned       = "arena.economy.earned"
	SubjectTokensBurned       = "arena.economy.burned"
	SubjectWeaponDescriptor   = "arena.catalog.weapon"
)

func SubjectTournament(t ledger.Address) string {
	return fmt.Sprintf("arena.tournament.%s", t)
}

type EconomyInitializedEvent struct {
	EventID       string `json:"event_id"`
	Admin         string `json:"admin"`
	Mint          string `json:"mint"`
	InitialSupply uint64 `json:"initial_supply"`
	Decimals      uint8  `json:"decimals"`
}

type TokensEarnedEvent struct {
	EventID string     `json:"event_id"`
	Player  string     `json:"player"`
	Amount  uint64     `json:"amount"`
	Reason  EarnReason `json:"reason"`
	At      time.Time  `json:"at"`
}

type TokensBurnedEvent struct {
	EventID string    `json:"event_id"`
	Player  string    `json:"player"`
	Amount  uint64    `json:"amount"`
	Perk    Perk      `json:"perk"`
	At      time.Time `json:"at"`
}

// WeaponDescriptorRequest asks the external metadata catalog to create the
// off-ledger descriptor for a freshly minted weapon. Fire and forget.
type WeaponDescriptorRequest struct {
	EventID              string `json:"event_id"`
	Mint                 string `json:"mint"`
	Name                 string `json:"name"`
	Symbol               string `json:"symbol"`
	URI                  string `json:"uri"`
	SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points"`
}

type TournamentStatusEvent struct {
	EventID    string           `json:"event_id"`
	Tournament string           `json:"tournament"`
	Status     TournamentStatus `json:"status"`
	PrizePool  uint64           `json:"prize_pool"`
	Players    uint32           `json:"players"`
	At         time.Time        `json:"at"`
}

// publish is best-effort: a dead event stream never fails a committed
// transaction.
func (c *Core) publish(subject string, v any) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(subject, v); err != nil {
		c.log.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func eventID() string {
	return uuid.NewString()
}
