package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"arena/internal/arena"
	"arena/internal/db"
	"arena/internal/ledger"
	temporal "arena/internal/workflow"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Every mutating endpoint takes a signed submission: the payload is the
// operation's JSON parameters and the signatures prove the identities the
// operation acts for.

func decodeSubmission(r *http.Request, params any) (ledger.Signers, error) {
	var sub ledger.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("%w: malformed submission: %v", arena.ErrInvalidArgument, err)
	}
	signers, err := sub.Verify()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sub.Payload, params); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", arena.ErrInvalidArgument, err)
	}
	return signers, nil
}

func parseAddr(s string) (ledger.Address, error) {
	addr, err := ledger.ParseAddress(s)
	if err != nil {
		return ledger.Address{}, err
	}
	return addr, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrBadSignature):
		return http.StatusUnauthorized
	case errors.Is(err, arena.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, arena.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, arena.ErrAlreadyExists), errors.Is(err, arena.ErrDuplicate),
		errors.Is(err, arena.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, arena.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, arena.ErrLimitExceeded), errors.Is(err, arena.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, arena.ErrInvalidArgument), errors.Is(err, ledger.ErrInvalidAddress):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// --- economy ---

func (s *Server) handleInitializeEconomy(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Admin         string `json:"admin"`
		InitialSupply uint64 `json:"initial_supply"`
		Decimals      uint8  `json:"decimals"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	admin, err := parseAddr(params.Admin)
	if err != nil {
		s.writeError(w, err)
		return
	}
	eco, err := s.core.InitializeEconomy(signers, admin, params.InitialSupply, params.Decimals)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, economyView(eco))
}

func (s *Server) handleGetEconomy(w http.ResponseWriter, r *http.Request) {
	eco, ok := s.core.Economy()
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, economyView(eco))
}

func economyView(eco arena.EconomyState) map[string]any {
	return map[string]any{
		"address":      eco.Address.String(),
		"admin":        eco.Admin.String(),
		"mint":         eco.Mint.String(),
		"total_burned": eco.TotalBurned,
		"created_at":   eco.CreatedAt,
	}
}

func (s *Server) handleIssueTokens(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Caller    string `json:"caller"`
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	recipient, err := parseAddr(params.Recipient)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.IssueTokens(signers, caller, recipient, params.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "issued"})
}

func (s *Server) handleEarnTokens(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Player string `json:"player"`
		Amount uint64 `json:"amount"`
		Reason string `json:"reason"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.EarnTokens(signers, player, params.Amount, arena.EarnReason(params.Reason)); err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorPlayer(r, player)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "earned"})
}

func (s *Server) handleBurnForPerk(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Player string `json:"player"`
		Amount uint64 `json:"amount"`
		Perk   string `json:"perk"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.BurnForPerk(signers, player, params.Amount, arena.Perk(params.Perk)); err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorPlayer(r, player)
	if gdb, ok := s.cfg.DBFromContext(r.Context()); ok {
		if rec, ok := s.core.Player(player); ok {
			if err := db.RecordBurn(gdb, rec, params.Amount, arena.Perk(params.Perk)); err != nil {
				s.log.Warn("burn record failed", zap.Error(err))
			}
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "burned"})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	owner, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	bal, err := s.core.Balance(owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"balance": bal})
}

// --- players ---

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Player string `json:"player"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.core.CreatePlayerRecord(signers, player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorPlayer(r, player)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, ok := s.core.Player(player)
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleTopPlayers reads the gorm mirror, not the core.
func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	gdb, ok := s.cfg.DBFromContext(r.Context())
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	var rows []struct {
		Address      string `json:"address"`
		TotalKills   uint64 `json:"total_kills"`
		TokensEarned uint64 `json:"tokens_earned"`
	}
	if err := gdb.Table("players").
		Select("address, total_kills, tokens_earned").
		Order("tokens_earned DESC").
		Limit(20).
		Scan(&rows).Error; err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

// --- weapons ---

func (s *Server) handleMintWeapon(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Player     string `json:"player"`
		WeaponType string `json:"weapon_type"`
		Rarity     string `json:"rarity"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.core.MintWeapon(signers, player, arena.WeaponType(params.WeaponType), arena.Rarity(params.Rarity))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorWeapon(r, rec)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetWeapon(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, ok := s.core.Weapon(addr)
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpgradeWeapon(w http.ResponseWriter, r *http.Request) {
	weapon, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct {
		Player string `json:"player"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.core.UpgradeWeapon(signers, player, weapon)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorWeapon(r, rec)
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecordKills(w http.ResponseWriter, r *http.Request) {
	weapon, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct {
		Kills uint64 `json:"kills"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.RecordWeaponKills(signers, weapon, params.Kills); err != nil {
		s.writeError(w, err)
		return
	}
	if rec, ok := s.core.Weapon(weapon); ok {
		s.mirrorWeapon(r, rec)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// --- tournaments ---

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Organizer  string    `json:"organizer"`
		EntryFee   uint64    `json:"entry_fee"`
		MaxPlayers uint32    `json:"max_players"`
		EndTime    time.Time `json:"end_time"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	organizer, err := parseAddr(params.Organizer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	t, err := s.core.CreateTournament(signers, organizer, params.EntryFee, params.MaxPlayers, params.EndTime)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorTournament(r, t)
	if s.temporal != nil {
		if err := temporal.ScheduleLifecycle(r.Context(), s.temporal, s.cfg.Temporal.TaskQueue, t); err != nil {
			s.log.Warn("lifecycle scheduling failed",
				zap.String("tournament", t.Address.String()), zap.Error(err))
		}
	}
	s.writeJSON(w, http.StatusCreated, tournamentView(t))
}

func tournamentView(t arena.Tournament) map[string]any {
	return map[string]any{
		"address":         t.Address.String(),
		"organizer":       t.Organizer.String(),
		"entry_fee":       t.EntryFee,
		"max_players":     t.MaxPlayers,
		"current_players": t.CurrentPlayers,
		"prize_pool":      t.PrizePool,
		"pool_account":    t.PoolAccount.String(),
		"status":          t.Status,
		"start_time":      t.StartTime,
		"end_time":        t.EndTime,
	}
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	t, ok := s.core.Tournament(addr)
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, tournamentView(t))
}

func (s *Server) handleJoinTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct {
		Player string `json:"player"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, err := s.core.JoinTournament(signers, player, tournament)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mirrorEntry(r, entry)
	if t, ok := s.core.Tournament(tournament); ok {
		s.mirrorTournament(r, t)
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	tournament, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct {
		Player string `json:"player"`
		Round  uint32 `json:"round"`
		Kills  uint64 `json:"kills"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	player, err := parseAddr(params.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.UpdateScore(signers, player, tournament, params.Round, params.Kills); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "scored"})
}

func (s *Server) handleStartTournament(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.core.StartTournament)
}

func (s *Server) handleEndTournament(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.core.EndTournament)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, op func(ledger.Authorizer, ledger.Address) error) {
	tournament, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct{}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := op(signers, tournament); err != nil {
		s.writeError(w, err)
		return
	}
	if t, ok := s.core.Tournament(tournament); ok {
		s.mirrorTournament(r, t)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDistributePrizes(w http.ResponseWriter, r *http.Request) {
	tournament, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	var params struct {
		Organizer string `json:"organizer"`
		Winner    string `json:"winner"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	organizer, err := parseAddr(params.Organizer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	winner, err := parseAddr(params.Winner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.core.DistributePrizes(signers, organizer, tournament, winner); err != nil {
		s.writeError(w, err)
		return
	}
	if t, ok := s.core.Tournament(tournament); ok {
		s.mirrorTournament(r, t)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "distributed"})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	tournament, err := parseAddr(mux.Vars(r)["addr"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	standings, err := s.core.Standings(tournament)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, standings)
}

// --- guilds ---

func (s *Server) handleCreateGuild(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Leader      string `json:"leader"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	signers, err := decodeSubmission(r, &params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	leader, err := parseAddr(params.Leader)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.core.CreateGuild(signers, leader, params.Name, params.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if gdb, ok := s.cfg.DBFromContext(r.Context()); ok {
		if err := db.SaveGuild(gdb, g); err != nil {
			s.log.Warn("guild mirror failed", zap.Error(err))
		}
	}
	s.writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGuild(w http.ResponseWriter, r *http.Request) {
	g, ok := s.core.Guild(mux.Vars(r)["name"])
	if !ok {
		s.writeError(w, arena.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// --- mirror helpers ---

func (s *Server) mirrorPlayer(r *http.Request, player ledger.Address) {
	gdb, ok := s.cfg.DBFromContext(r.Context())
	if !ok {
		return
	}
	rec, ok := s.core.Player(player)
	if !ok {
		return
	}
	if err := db.SavePlayer(gdb, rec); err != nil {
		s.log.Warn("player mirror failed", zap.Error(err))
	}
}

func (s *Server) mirrorWeapon(r *http.Request, rec arena.WeaponRecord) {
	gdb, ok := s.cfg.DBFromContext(r.Context())
	if !ok {
		return
	}
	if err := db.SaveWeapon(gdb, rec); err != nil {
		s.log.Warn("weapon mirror failed", zap.Error(err))
	}
}

func (s *Server) mirrorTournament(r *http.Request, t arena.Tournament) {
	gdb, ok := s.cfg.DBFromContext(r.Context())
	if !ok {
		return
	}
	if err := db.SaveTournament(gdb, t); err != nil {
		s.log.Warn("tournament mirror failed", zap.Error(err))
	}
}

func (s *Server) mirrorEntry(r *http.Request, e arena.TournamentEntry) {
	gdb, ok := s.cfg.DBFromContext(r.Context())
	if !ok {
		return
	}
	if err := db.SaveEntry(gdb, e); err != nil {
		s.log.Warn("entry mirror failed", zap.Error(err))
	}
}
