package server

import (
	"net/http"

	"arena/config"
	"arena/internal/arena"

	"github.com/gorilla/mux"
	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server is the HTTP surface for submitting signed operations. It owns no
// state: every mutation goes through the core, every query reads either the
// core or the gorm mirror.
type Server struct {
	cfg      *config.Config
	core     *arena.Core
	temporal client.Client
	js       nats.JetStreamContext
	db       *gorm.DB
	log      *zap.Logger
}

func New(cfg *config.Config, core *arena.Core, tc client.Client, js nats.JetStreamContext, gdb *gorm.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, core: core, temporal: tc, js: js, db: gdb, log: log}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withResources)

	r.HandleFunc("/economy", s.handleInitializeEconomy).Methods(http.MethodPost)
	r.HandleFunc("/economy", s.handleGetEconomy).Methods(http.MethodGet)
	r.HandleFunc("/economy/issue", s.handleIssueTokens).Methods(http.MethodPost)
	r.HandleFunc("/economy/earn", s.handleEarnTokens).Methods(http.MethodPost)
	r.HandleFunc("/economy/burn-for-perk", s.handleBurnForPerk).Methods(http.MethodPost)
	r.HandleFunc("/balances/{addr}", s.handleGetBalance).Methods(http.MethodGet)

	r.HandleFunc("/players", s.handleCreatePlayer).Methods(http.MethodPost)
	r.HandleFunc("/players/top", s.handleTopPlayers).Methods(http.MethodGet)
	r.HandleFunc("/players/{addr}", s.handleGetPlayer).Methods(http.MethodGet)

	r.HandleFunc("/weapons", s.handleMintWeapon).Methods(http.MethodPost)
	r.HandleFunc("/weapons/{addr}", s.handleGetWeapon).Methods(http.MethodGet)
	r.HandleFunc("/weapons/{addr}/upgrade", s.handleUpgradeWeapon).Methods(http.MethodPost)
	r.HandleFunc("/weapons/{addr}/kills", s.handleRecordKills).Methods(http.MethodPost)

	r.HandleFunc("/tournaments", s.handleCreateTournament).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}", s.handleGetTournament).Methods(http.MethodGet)
	r.HandleFunc("/tournaments/{addr}/join", s.handleJoinTournament).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}/score", s.handleUpdateScore).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}/start", s.handleStartTournament).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}/end", s.handleEndTournament).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}/distribute", s.handleDistributePrizes).Methods(http.MethodPost)
	r.HandleFunc("/tournaments/{addr}/standings", s.handleStandings).Methods(http.MethodGet)

	r.HandleFunc("/guilds", s.handleCreateGuild).Methods(http.MethodPost)
	r.HandleFunc("/guilds/{name}", s.handleGetGuild).Methods(http.MethodGet)

	return r
}

// withResources stashes the JetStream and mirror handles on the request
// context for handlers that read them.
func (s *Server) withResources(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.js != nil {
			ctx = s.cfg.WithJetStream(ctx, s.js)
		}
		if s.db != nil {
			ctx = s.cfg.WithDB(ctx, s.db)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func StartServer(s *Server) error {
	port := ":" + s.cfg.Server.Port
	s.log.Info("server listening", zap.String("port", port))
	return http.ListenAndServe(port, s.Router())
}
