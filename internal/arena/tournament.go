package arena

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"arena/internal/ledger"
)

// TournamentStatus moves one way: Open → Active → Ended → Distributed.
type TournamentStatus string

const (
	TournamentOpen        TournamentStatus = "open"
	TournamentActive      TournamentStatus = "active"
	TournamentEnded       TournamentStatus = "ended"
	TournamentDistributed TournamentStatus = "distributed"
)

// Prize shares in percent, applied with integer division. The second and
// third shares and any rounding remainder stay in the pool account after
// distribution; only the first-place share moves today.
const (
	firstPlacePct  = 50
	secondPlacePct = 30
	thirdPlacePct  = 20
)

type Tournament struct {
	Address        ledger.Address
	Organizer      ledger.Address
	EntryFee       uint64
	MaxPlayers     uint32
	CurrentPlayers uint32
	PrizePool      uint64
	PoolAccount    ledger.Address
	Status         TournamentStatus
	StartTime      time.Time
	EndTime        time.Time

	// proof spends the pool account: the tournament authorizes its own
	// fund movements without an organizer key present.
	proof ledger.Proof
}

type TournamentEntry struct {
	Address      ledger.Address
	Player       ledger.Address
	Tournament   ledger.Address
	HighestRound uint32
	TotalKills   uint64
	JoinedAt     time.Time
}

// CreateTournament opens a tournament and its pooled prize account. The
// pool's spending authority is the tournament's own derived identity.
func (c *Core) CreateTournament(by ledger.Authorizer, organizer ledger.Address, entryFee uint64, maxPlayers uint32, endTime time.Time) (Tournament, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	eco, err := c.requireEconomy()
	if err != nil {
		return Tournament{}, err
	}
	if !by.Authorizes(organizer) {
		return Tournament{}, fmt.Errorf("%w: organizer signature required", ErrUnauthorized)
	}
	if maxPlayers == 0 {
		return Tournament{}, fmt.Errorf("%w: max players must be positive", ErrInvalidArgument)
	}

	start := c.now()
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(start.Unix()))
	addr, proof := ledger.Derive(seedTournament, organizer[:], ts[:])
	if _, ok := c.tournaments[addr]; ok {
		return Tournament{}, fmt.Errorf("%w: tournament %s", ErrAlreadyExists, addr)
	}
	pool, _ := ledger.Derive(seedPrizePool, addr[:])
	if err := c.env.CreateAccount(pool, eco.Mint, addr); err != nil {
		return Tournament{}, fmt.Errorf("failed to create prize pool: %w", err)
	}

	t := &Tournament{
		Address:     addr,
		Organizer:   organizer,
		EntryFee:    entryFee,
		MaxPlayers:  maxPlayers,
		PoolAccount: pool,
		Status:      TournamentOpen,
		StartTime:   start,
		EndTime:     endTime,
		proof:       proof,
	}
	c.tournaments[addr] = t

	c.publishTournament(t)
	return *t, nil
}

// Tournament returns a snapshot.
func (c *Core) Tournament(addr ledger.Address) (Tournament, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[addr]
	if !ok {
		return Tournament{}, false
	}
	return *t, true
}

// JoinTournament transfers the entry fee into the pool and creates the
// player's entry. One entry per (tournament, player), enforced by the
// entry's derived identity.
func (c *Core) JoinTournament(by ledger.Authorizer, player, tournament ledger.Address) (TournamentEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return TournamentEntry{}, fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	if t.Status != TournamentOpen {
		return TournamentEntry{}, fmt.Errorf("%w: tournament is %s, not open", ErrInvalidState, t.Status)
	}
	if t.CurrentPlayers >= t.MaxPlayers {
		return TournamentEntry{}, fmt.Errorf("%w: tournament full (%d players)", ErrLimitExceeded, t.MaxPlayers)
	}
	entryAddr, _ := ledger.Derive(seedTournamentEntry, tournament[:], player[:])
	if _, ok := c.entries[entryAddr]; ok {
		return TournamentEntry{}, fmt.Errorf("%w: player already entered", ErrDuplicate)
	}
	if !by.Authorizes(player) {
		return TournamentEntry{}, fmt.Errorf("%w: player signature required", ErrUnauthorized)
	}
	if t.PrizePool > math.MaxUint64-t.EntryFee {
		return TournamentEntry{}, fmt.Errorf("%w: prize pool", ErrOverflow)
	}

	acct, err := c.ensureTokenAccount(player)
	if err != nil {
		return TournamentEntry{}, err
	}
	if err := c.env.Transfer(acct, t.PoolAccount, by, t.EntryFee); err != nil {
		return TournamentEntry{}, fmt.Errorf("entry fee transfer failed: %w", err)
	}

	t.CurrentPlayers++
	t.PrizePool += t.EntryFee
	entry := &TournamentEntry{
		Address:    entryAddr,
		Player:     player,
		Tournament: tournament,
		JoinedAt:   c.now(),
	}
	c.entries[entryAddr] = entry

	c.publishTournament(t)
	return *entry, nil
}

// UpdateScore records the entrant's progress while the tournament runs.
// Only the entrant's own signature may move their score.
func (c *Core) UpdateScore(by ledger.Authorizer, player, tournament ledger.Address, round uint32, kills uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	if t.Status != TournamentActive {
		return fmt.Errorf("%w: tournament is %s, not active", ErrInvalidState, t.Status)
	}
	entryAddr, _ := ledger.Derive(seedTournamentEntry, tournament[:], player[:])
	entry, ok := c.entries[entryAddr]
	if !ok {
		return fmt.Errorf("%w: entry for %s", ErrNotFound, player)
	}
	if entry.Player != player || !by.Authorizes(player) {
		return fmt.Errorf("%w: entrant signature required", ErrUnauthorized)
	}
	if entry.TotalKills > math.MaxUint64-kills {
		return fmt.Errorf("%w: kill counter", ErrOverflow)
	}

	if round > entry.HighestRound {
		entry.HighestRound = round
	}
	entry.TotalKills += kills
	return nil
}

// StartTournament moves Open → Active. The organizer or the tournament's
// own derived authority (the lifecycle closer) may drive it.
func (c *Core) StartTournament(by ledger.Authorizer, tournament ledger.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	if err := authorizeLifecycle(by, t); err != nil {
		return err
	}
	if t.Status != TournamentOpen {
		return fmt.Errorf("%w: tournament is %s, not open", ErrInvalidState, t.Status)
	}
	t.Status = TournamentActive
	c.publishTournament(t)
	return nil
}

// EndTournament moves Open or Active → Ended. Same authorities as
// StartTournament.
func (c *Core) EndTournament(by ledger.Authorizer, tournament ledger.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	if err := authorizeLifecycle(by, t); err != nil {
		return err
	}
	if t.Status != TournamentOpen && t.Status != TournamentActive {
		return fmt.Errorf("%w: tournament is %s", ErrInvalidState, t.Status)
	}
	t.Status = TournamentEnded
	c.publishTournament(t)
	return nil
}

// TournamentAuthority returns the tournament's own derivation proof, the
// secret-free credential the scheduled lifecycle closer acts with.
func (c *Core) TournamentAuthority(tournament ledger.Address) (ledger.Proof, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return ledger.Proof{}, fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	return t.proof, nil
}

func authorizeLifecycle(by ledger.Authorizer, t *Tournament) error {
	if by.Authorizes(t.Organizer) || by.Authorizes(t.Address) {
		return nil
	}
	return fmt.Errorf("%w: organizer or tournament authority required", ErrUnauthorized)
}

// DistributePrizes pays the first-place share (50%, integer division) from
// the pool to the designated winner under the tournament's own spending
// authority and closes the tournament. The remaining shares stay pooled
// until ranked distribution exists.
func (c *Core) DistributePrizes(by ledger.Authorizer, organizer, tournament, winner ledger.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tournaments[tournament]
	if !ok {
		return fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	if t.Status != TournamentEnded {
		return fmt.Errorf("%w: tournament is %s, not ended", ErrInvalidState, t.Status)
	}
	if organizer != t.Organizer || !by.Authorizes(organizer) {
		return fmt.Errorf("%w: organizer signature required", ErrUnauthorized)
	}
	if t.PrizePool > math.MaxUint64/firstPlacePct {
		return fmt.Errorf("%w: prize computation", ErrOverflow)
	}
	firstPlace := t.PrizePool * firstPlacePct / 100

	winnerAcct, err := c.ensureTokenAccount(winner)
	if err != nil {
		return err
	}
	if err := c.env.Transfer(t.PoolAccount, winnerAcct, t.proof, firstPlace); err != nil {
		return fmt.Errorf("prize transfer failed: %w", err)
	}

	t.Status = TournamentDistributed
	c.publishTournament(t)
	return nil
}

// Standings orders entries by highest round, then kills, then join time.
// Input for a future ranked distribution; DistributePrizes does not consume
// it.
func (c *Core) Standings(tournament ledger.Address) ([]TournamentEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tournaments[tournament]; !ok {
		return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournament)
	}
	var out []TournamentEntry
	for _, e := range c.entries {
		if e.Tournament == tournament {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HighestRound != out[j].HighestRound {
			return out[i].HighestRound > out[j].HighestRound
		}
		if out[i].TotalKills != out[j].TotalKills {
			return out[i].TotalKills > out[j].TotalKills
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (c *Core) publishTournament(t *Tournament) {
	c.publish(SubjectTournament(t.Address), TournamentStatusEvent{
		EventID:    eventID(),
		Tournament: t.Address.String(),
		Status:     t.Status,
		PrizePool:  t.PrizePool,
		Players:    t.CurrentPlayers,
		At:         c.now(),
	})
}
