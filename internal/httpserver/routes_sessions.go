// internal/httpserver/routes_sessions.go
//
// HTTP routes for playing a session.
//   - POST   /sessions                               → start a session, returns its token
//   - GET    /sessions/{id}                          → snapshot
//   - PUT    /sessions/{id}/questions/{index}/guess  → set the guess (rgb | hsb | hex)
//   - POST   /sessions/{id}/questions/{index}/commit → lock in the guess, reveal the answer
//   - POST   /sessions/{id}/advance                  → move to the next unanswered question
//   - GET    /sessions/{id}/aggregates               → averages for the results screen
//   - DELETE /sessions/{id}                          → discard
//
// Everything under /sessions/{id} requires the bearer token issued at creation.
// A "seed" on creation makes the question order reproducible.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
	"github.com/robalobadob/colorguess/internal/service"
	"github.com/robalobadob/colorguess/internal/shuffle"
)

var errGuessShape = errors.New("exactly one of rgb, hsb or hex is required")

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireSessionToken)
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDiscard)
			r.Put("/questions/{index}/guess", s.handleGuess)
			r.Post("/questions/{index}/commit", s.handleCommit)
			r.Post("/advance", s.handleAdvance)
			r.Get("/aggregates", s.handleAggregates)
		})
	})
}

// -----------------------------------------------------------------------------
// POST /sessions

type createReq struct {
	Tier     string `json:"tier"`
	PlusMode bool   `json:"plusMode"`
	Seed     string `json:"seed,omitempty"`
}

type createRes struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Session   game.Snapshot `json:"session"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	tier, err := catalog.ParseTier(req.Tier)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var opts []service.CreateOption
	if req.Seed != "" {
		opts = append(opts, service.WithShuffle(shuffle.Seeded(s.opts.ShuffleSalt, req.Seed)))
	}

	snap, err := s.svc.CreateSession(r.Context(), tier, req.PlusMode, opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	tok, exp, err := s.tokens.sign(snap.ID)
	if err != nil {
		_ = s.svc.Discard(r.Context(), snap.ID)
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createRes{SessionID: snap.ID, Token: tok, ExpiresAt: exp, Session: snap})
}

// -----------------------------------------------------------------------------
// GET / DELETE /sessions/{id}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// PUT /sessions/{id}/questions/{index}/guess

// guessReq carries a color in exactly one representation.
type guessReq struct {
	RGB *color.RGB `json:"rgb,omitempty"`
	HSB *color.HSB `json:"hsb,omitempty"`
	Hex string     `json:"hex,omitempty"`
}

func (g guessReq) color() (color.RGB, error) {
	n := 0
	if g.RGB != nil {
		n++
	}
	if g.HSB != nil {
		n++
	}
	if g.Hex != "" {
		n++
	}
	if n != 1 {
		return color.RGB{}, errGuessShape
	}
	switch {
	case g.RGB != nil:
		return *g.RGB, nil
	case g.HSB != nil:
		if err := g.HSB.Validate(); err != nil {
			return color.RGB{}, err
		}
		return g.HSB.RGB(), nil
	default:
		return color.ParseHex(g.Hex)
	}
}

type guessRes struct {
	Index int       `json:"index"`
	Guess color.RGB `json:"guess"`
	Hex   string    `json:"hex"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, err := req.color()
	if errors.Is(err, errGuessShape) {
		writeError(w, http.StatusBadRequest, "bad_guess")
		return
	}
	if err == nil {
		err = s.svc.SubmitGuess(r.Context(), chi.URLParam(r, "id"), idx, c)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Index: idx, Guess: c, Hex: c.Hex()})
}

// -----------------------------------------------------------------------------
// POST /sessions/{id}/questions/{index}/commit

type commitRes struct {
	Scores   game.Scores       `json:"scores"`
	Question game.QuestionView `json:"question"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	sc, err := s.svc.CommitAnswer(r.Context(), id, idx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	snap, err := s.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commitRes{Scores: sc, Question: snap.Questions[idx]})
}

// -----------------------------------------------------------------------------
// POST /sessions/{id}/advance

type advanceRes struct {
	Next      *int `json:"next"` // null once the session is complete
	Completed bool `json:"completed"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	next, ok, err := s.svc.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := advanceRes{Completed: !ok}
	if ok {
		res.Next = &next
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// GET /sessions/{id}/aggregates

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := s.svc.Aggregates(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// indexParam parses {index}; on failure it writes 400 and returns false.
func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_index")
		return 0, false
	}
	return idx, true
}
