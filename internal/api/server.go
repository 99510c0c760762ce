package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"holdco/internal/config"
	"holdco/internal/game"
	"holdco/internal/store"
)

type contextKey string

const playerContextKey contextKey = "player"

type PlayerContext struct {
	Player string
}

type Server struct {
	cfg    config.APIConfig
	log    *slog.Logger
	engine *game.Engine
	store  *store.Store
	mux    *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, engine *game.Engine, st *store.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		engine: engine,
		store:  st,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/games", s.handleCreateGame)
		r.Get("/games", s.handleListGames)
		r.Get("/games/{id}", s.handleGetGame)
		r.Get("/games/{id}/analytics", s.handleGameAnalytics)
		r.Post("/games/{id}/actions", s.handleApplyAction)

		r.Post("/challenges", s.handleCreateChallenge)
		r.Get("/challenges/{id}", s.handleGetChallenge)
		r.Post("/challenges/{id}/runs", s.handleSubmitRun)
		r.Get("/challenges/{id}/leaderboard", s.handleLeaderboard)

		r.Post("/sync/replay", s.handleSyncReplay)
	})
}

// authMiddleware checks the shared API token and reads the player handle
// from X-Player. Per-player accounts are out of scope; the token gates the
// deployment, the header partitions saves.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.APIToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		player := strings.TrimSpace(r.Header.Get("X-Player"))
		if player == "" {
			writeError(w, http.StatusUnauthorized, "missing X-Player header")
			return
		}
		ctx := context.WithValue(r.Context(), playerContextKey, PlayerContext{Player: player})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFromContext(ctx context.Context) (PlayerContext, error) {
	v := ctx.Value(playerContextKey)
	pc, ok := v.(PlayerContext)
	if !ok || pc.Player == "" {
		return PlayerContext{}, errors.New("missing auth context")
	}
	return pc, nil
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Mode string  `json:"mode"`
		Seed *uint32 `json:"seed,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.Mode) == "" {
		in.Mode = s.cfg.DefaultMode
	}
	seed := randomSeed()
	if in.Seed != nil {
		seed = *in.Seed
	}
	st, err := s.engine.NewGame(uuid.NewString(), in.Mode, seed)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.CreateGame(r.Context(), pc.Player, st); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("game created", "game_id", st.ID, "player", pc.Player, "mode", st.Mode, "seed", st.Seed)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := s.store.ListGames(r.Context(), pc.Player, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.store.GetGame(r.Context(), pc.Player, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleGameAnalytics(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.store.GetGame(r.Context(), pc.Player, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.Analyze(st))
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var act game.Action
	if err := decodeJSON(r, &act); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := s.store.GetGame(r.Context(), pc.Player, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := s.engine.Apply(st, act)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.SaveGame(r.Context(), pc.Player, st); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"state":  st,
	})
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Name string  `json:"name"`
		Mode string  `json:"mode"`
		Seed *uint32 `json:"seed,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if strings.TrimSpace(in.Mode) == "" {
		in.Mode = s.cfg.DefaultMode
	}
	if _, ok := s.engine.Tables().Mode(in.Mode); !ok {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}
	c := store.Challenge{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Mode:      in.Mode,
		Seed:      randomSeed(),
		CreatedBy: pc.Player,
	}
	if in.Seed != nil {
		c.Seed = *in.Seed
	}
	if err := s.store.CreateChallenge(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetChallenge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleSubmitRun replays the submitted action log against the challenge
// seed. The run only lands if the replay reaches a terminal state, so every
// leaderboard row is a verified finished game.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	c, err := s.store.GetChallenge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var in struct {
		Actions []game.Action `json:"actions"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := s.engine.Simulate(c.Mode, c.Seed, in.Actions)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !st.Over() {
		writeError(w, http.StatusBadRequest, "run did not finish the game")
		return
	}
	score := s.engine.Score(st)
	run := store.ChallengeRun{
		ID:          uuid.NewString(),
		ChallengeID: c.ID,
		Player:      pc.Player,
		FEVMicros:   s.engine.LeaderboardFEV(st),
		ScoreTotal:  score.Total,
		Grade:       score.Grade,
	}
	rawActions, err := json.Marshal(in.Actions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.SubmitRun(r.Context(), run, rawActions); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("challenge run submitted",
		"challenge_id", c.ID, "player", pc.Player, "fev_micros", run.FEVMicros, "grade", run.Grade)
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.store.Leaderboard(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}

// handleSyncReplay drains a client's offline queue: each command targets a
// game and carries one action. Rejected actions report per-command instead
// of failing the batch, matching local play where a rejection costs nothing.
func (s *Server) handleSyncReplay(w http.ResponseWriter, r *http.Request) {
	pc, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Commands []struct {
			GameID string      `json:"game_id"`
			Action game.Action `json:"action"`
		} `json:"commands"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]map[string]any, 0, len(in.Commands))
	for _, cmd := range in.Commands {
		st, err := s.store.GetGame(r.Context(), pc.Player, cmd.GameID)
		if err != nil {
			results = append(results, map[string]any{"game_id": cmd.GameID, "ok": false, "error": err.Error()})
			continue
		}
		res, err := s.engine.Apply(st, cmd.Action)
		if err != nil {
			results = append(results, map[string]any{"game_id": cmd.GameID, "ok": false, "error": err.Error()})
			continue
		}
		if err := s.store.SaveGame(r.Context(), pc.Player, st); err != nil {
			results = append(results, map[string]any{"game_id": cmd.GameID, "ok": false, "error": err.Error()})
			continue
		}
		results = append(results, map[string]any{"game_id": cmd.GameID, "ok": res.OK, "result": res})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, game.ErrUnknownDeal),
		errors.Is(err, game.ErrUnknownBusiness):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrIneligible), errors.Is(err, game.ErrInsufficientCash),
		errors.Is(err, game.ErrInvalidTarget), errors.Is(err, game.ErrOwnershipFloor),
		errors.Is(err, game.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrSchemaVersion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func randomSeed() uint32 {
	return mathrand.Uint32()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
