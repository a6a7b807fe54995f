package temporal

import (
	"context"
	"errors"
	"fmt"
	"log"

	"arena/internal/arena"
	"arena/internal/db"
	"arena/internal/ledger"
)

// StartTournamentActivity moves the tournament to Active under its own
// derived authority; no organizer key is present when the schedule fires.
func StartTournamentActivity(ctx context.Context, tournament string) error {
	c := GetCore()
	addr, err := ledger.ParseAddress(tournament)
	if err != nil {
		return fmt.Errorf("bad tournament address: %w", err)
	}
	proof, err := c.TournamentAuthority(addr)
	if err != nil {
		return err
	}
	if err := c.StartTournament(proof, addr); err != nil {
		// A tournament the organizer already started is not a failure of
		// the schedule.
		if errors.Is(err, arena.ErrInvalidState) {
			log.Printf("Tournament %s already past open, skipping start", tournament)
			return nil
		}
		return err
	}
	mirrorTournament(c, addr)
	return nil
}

// EndTournamentActivity moves the tournament to Ended at its scheduled end
// time.
func EndTournamentActivity(ctx context.Context, tournament string) error {
	c := GetCore()
	addr, err := ledger.ParseAddress(tournament)
	if err != nil {
		return fmt.Errorf("bad tournament address: %w", err)
	}
	proof, err := c.TournamentAuthority(addr)
	if err != nil {
		return err
	}
	if err := c.EndTournament(proof, addr); err != nil {
		if errors.Is(err, arena.ErrInvalidState) {
			log.Printf("Tournament %s already closed, skipping end", tournament)
			return nil
		}
		return err
	}
	mirrorTournament(c, addr)
	return nil
}

func mirrorTournament(c *arena.Core, addr ledger.Address) {
	gdb := GetDB()
	if gdb == nil {
		return
	}
	t, ok := c.Tournament(addr)
	if !ok {
		return
	}
	if err := db.SaveTournament(gdb, t); err != nil {
		log.Printf("Error mirroring tournament %s: %v", addr, err)
	}
}
