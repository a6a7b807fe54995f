package arena

import (
	"fmt"
	"time"

	"arena/internal/ledger"
)

const (
	MaxGuildNameLen        = 32
	MaxGuildDescriptionLen = 200
)

// Guild is a named collective with a pooled treasury. Name uniqueness comes
// from the guild's identity being derived from the name itself.
type Guild struct {
	Address       ledger.Address
	Name          string
	Description   string
	Leader        ledger.Address
	MemberCount   uint32
	TotalEarnings uint64
	Treasury      ledger.Address
	CreatedAt     time.Time
}

// CreateGuild creates the guild and its treasury account. The treasury's
// spending authority is the guild's own derived identity.
func (c *Core) CreateGuild(by ledger.Authorizer, leader ledger.Address, name, description string) (Guild, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	eco, err := c.requireEconomy()
	if err != nil {
		return Guild{}, err
	}
	if !by.Authorizes(leader) {
		return Guild{}, fmt.Errorf("%w: leader signature required", ErrUnauthorized)
	}
	if name == "" {
		return Guild{}, fmt.Errorf("%w: guild name required", ErrInvalidArgument)
	}
	if len(name) > MaxGuildNameLen {
		return Guild{}, fmt.Errorf("%w: guild name over %d characters", ErrLimitExceeded, MaxGuildNameLen)
	}
	if len(description) > MaxGuildDescriptionLen {
		return Guild{}, fmt.Errorf("%w: guild description over %d characters", ErrLimitExceeded, MaxGuildDescriptionLen)
	}
	addr, _ := ledger.Derive(seedGuild, []byte(name))
	if _, ok := c.guilds[addr]; ok {
		return Guild{}, fmt.Errorf("%w: guild name %q taken", ErrDuplicate, name)
	}
	treasury, _ := ledger.Derive(seedGuildTreasury, addr[:])
	if err := c.env.CreateAccount(treasury, eco.Mint, addr); err != nil {
		return Guild{}, fmt.Errorf("failed to create guild treasury: %w", err)
	}

	g := &Guild{
		Address:     addr,
		Name:        name,
		Description: description,
		Leader:      leader,
		MemberCount: 1,
		Treasury:    treasury,
		CreatedAt:   c.now(),
	}
	c.guilds[addr] = g
	return *g, nil
}

// Guild looks a guild up by name.
func (c *Core) Guild(name string) (Guild, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr, _ := ledger.Derive(seedGuild, []byte(name))
	g, ok := c.guilds[addr]
	if !ok {
		return Guild{}, false
	}
	return *g, true
}
