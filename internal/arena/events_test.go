package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"arena/internal/ledger"
)

type capturedEvent struct {
	subject string
	payload any
}

type captureStream struct {
	events []capturedEvent
	err    error
}

func (s *captureStream) Publish(subject string, v any) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, capturedEvent{subject: subject, payload: v})
	return nil
}

func (s *captureStream) bySubject(subject string) []capturedEvent {
	var out []capturedEvent
	for _, e := range s.events {
		if e.subject == subject {
			out = append(out, e)
		}
	}
	return out
}

func newCapturedCore(t *testing.T) (*Core, *captureStream, *ledger.Keypair) {
	t.Helper()
	admin, err := ledger.NewKeypair()
	if err != nil {
		t.Fatalf("Failed to generate admin keypair: %v", err)
	}
	stream := &captureStream{}
	c := NewCore(ledger.NewEnvironment(), stream, nil)
	if _, err := c.InitializeEconomy(ledger.SignersOf(admin), admin.Address(), 0, 9); err != nil {
		t.Fatalf("Failed to initialize economy: %v", err)
	}
	return c, stream, admin
}

func TestEconomyEventsPublished(t *testing.T) {
	c, stream, _ := newCapturedCore(t)
	assert.Len(t, stream.bySubject(SubjectEconomyInitialized), 1)

	player := newTestPlayer(t, c, 0)
	assert.NoError(t, c.EarnTokens(ledger.SignersOf(player), player.Address(), 100, EarnHeadshot))

	earned := stream.bySubject(SubjectTokensEarned)
	if assert.Len(t, earned, 1) {
		ev, ok := earned[0].payload.(TokensEarnedEvent)
		assert.True(t, ok)
		assert.Equal(t, player.Address().String(), ev.Player)
		assert.Equal(t, uint64(100), ev.Amount)
		assert.Equal(t, EarnHeadshot, ev.Reason)
		assert.NotEmpty(t, ev.EventID)
	}

	assert.NoError(t, c.BurnForPerk(ledger.SignersOf(player), player.Address(), 40, PerkDoubleTap))
	burned := stream.bySubject(SubjectTokensBurned)
	if assert.Len(t, burned, 1) {
		ev := burned[0].payload.(TokensBurnedEvent)
		assert.Equal(t, uint64(40), ev.Amount)
		assert.Equal(t, PerkDoubleTap, ev.Perk)
	}
}

func TestWeaponDescriptorRequested(t *testing.T) {
	c, stream, _ := newCapturedCore(t)
	player := newTestPlayer(t, c, 0)

	rec, err := c.MintWeapon(ledger.SignersOf(player), player.Address(), WeaponRaygun, RarityMythic)
	assert.NoError(t, err)

	reqs := stream.bySubject(SubjectWeaponDescriptor)
	if assert.Len(t, reqs, 1) {
		req := reqs[0].payload.(WeaponDescriptorRequest)
		assert.Equal(t, rec.Mint.String(), req.Mint)
		assert.Equal(t, "Mythic Ray Gun", req.Name)
		assert.Equal(t, "ZAP-WPN", req.Symbol)
		assert.Equal(t, "https://api.zombiearena.io/weapon/ray gun/"+rec.Mint.String()+".json", req.URI)
		assert.Equal(t, uint16(250), req.SellerFeeBasisPoints)
	}
}

func TestTournamentEventsFollowLifecycle(t *testing.T) {
	c, stream, _ := newCapturedCore(t)
	tour, organizer := newTestTournament(t, c, 0, 4)
	subject := SubjectTournament(tour.Address)

	assert.NoError(t, c.StartTournament(ledger.SignersOf(organizer), tour.Address))
	assert.NoError(t, c.EndTournament(ledger.SignersOf(organizer), tour.Address))

	events := stream.bySubject(subject)
	if assert.Len(t, events, 3) {
		statuses := make([]TournamentStatus, len(events))
		for i, e := range events {
			statuses[i] = e.payload.(TournamentStatusEvent).Status
		}
		assert.Equal(t, []TournamentStatus{TournamentOpen, TournamentActive, TournamentEnded}, statuses)
	}
}

func TestDeadStreamNeverFailsTransactions(t *testing.T) {
	admin, _ := ledger.NewKeypair()
	stream := &captureStream{err: errors.New("stream down")}
	c := NewCore(ledger.NewEnvironment(), stream, nil)

	_, err := c.InitializeEconomy(ledger.SignersOf(admin), admin.Address(), 0, 9)
	assert.NoError(t, err, "Publish failures are best-effort")

	_, ok := c.Economy()
	assert.True(t, ok)
}
