// internal/httpserver/server.go
//
// HTTP server wiring for the color guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/tiers", "/metrics".
//   - Session endpoints: mounted under /sessions (routes_sessions.go).
//   - Mapping service errors onto status codes and {"error":"<code>"} bodies.
//
// Notes:
//   - Each session is guarded by its own bearer token (token.go); there are
//     no user accounts.
//   - Session routes are rate limited per client IP (ratelimit.go).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
	"github.com/robalobadob/colorguess/internal/service"
	"github.com/robalobadob/colorguess/internal/store"
)

// TierCounter reports how many entries each tier holds.
// *catalog.Catalog satisfies it.
type TierCounter interface {
	Stats() map[catalog.Tier]int
}

// Options configure the HTTP layer.
type Options struct {
	ClientOrigin   string
	SessionSecret  string
	SessionTTL     time.Duration
	ShuffleSalt    string
	RateLimitRPS   float64
	RateLimitBurst int
	Gatherer       prometheus.Gatherer // nil = no /metrics route
	Now            func() time.Time    // nil = time.Now
}

// Server bundles the router and the session service.
type Server struct {
	r      *chi.Mux
	svc    *service.Service
	tiers  TierCounter
	tokens *tokens
	opts   Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *service.Service, tiers TierCounter, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		r:      chi.NewRouter(),
		svc:    svc,
		tiers:  tiers,
		tokens: &tokens{secret: []byte(opts.SessionSecret), ttl: opts.SessionTTL, now: opts.Now},
		opts:   opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "colorguess",
			"endpoints": []string{"/health", "/tiers", "/metrics", "POST /sessions", "/sessions/{id}/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/tiers", s.handleTiers)
	if opts.Gatherer != nil {
		s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	limiter := newIPLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)
	s.mountSessions(s.r.With(rateLimit(limiter)))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// tierRes is one row of GET /tiers.
type tierRes struct {
	catalog.TierInfo
	GaugeHex string `json:"gaugeHex"`
	Entries  int    `json:"entries"`
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	counts := s.tiers.Stats()
	infos := catalog.TierInfos()
	out := make([]tierRes, 0, len(infos))
	for _, info := range infos {
		out = append(out, tierRes{TierInfo: info, GaugeHex: info.GaugeColor.Hex(), Entries: counts[info.Tier]})
	}
	writeJSON(w, http.StatusOK, out)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single browser origin to call the API.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		ev := log.Info()
		if ww.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// errorStatus maps a service error onto an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, game.ErrQuestionNotFound):
		return http.StatusNotFound, "question_not_found"
	case errors.Is(err, game.ErrQuestionAnswered):
		return http.StatusConflict, "question_answered"
	case errors.Is(err, game.ErrSessionComplete):
		return http.StatusConflict, "session_complete"
	case errors.Is(err, color.ErrChannelOutOfRange), errors.Is(err, color.ErrInvalidHex):
		return http.StatusBadRequest, "invalid_color"
	case errors.Is(err, catalog.ErrUnknownTier):
		return http.StatusBadRequest, "unknown_tier"
	case errors.Is(err, game.ErrNoQuestions):
		return http.StatusBadRequest, "no_questions"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError logs unexpected failures and writes the mapped error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("reqId", chimw.GetReqID(r.Context())).Msg("request failed")
	}
	writeError(w, status, code)
}
