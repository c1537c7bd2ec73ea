// Package api serves the resonance engine over HTTP.
// GET endpoints are read-only observation; POST endpoints run engine
// operations. Pinch, collapse, categorize, orchestrate and firewall are rate
// limited per client IP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/cigol/internal/bands"
	"github.com/talgya/cigol/internal/catalog"
	"github.com/talgya/cigol/internal/conscience"
	"github.com/talgya/cigol/internal/entropy"
	"github.com/talgya/cigol/internal/firewall"
	"github.com/talgya/cigol/internal/journal"
	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/omega"
	"github.com/talgya/cigol/internal/pulse"
	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// maxBody caps request bodies. Pinch packets are the largest payloads.
const maxBody = 1 << 20

// Server serves the engine over HTTP.
type Server struct {
	Engine     *resonance.Engine
	Palace     *bands.Palace
	Catalog    *catalog.Catalog
	Conscience *conscience.Conscience
	Journal    *journal.Journal // Optional; /api/v1/events is empty without it

	Orchestrator *bands.Orchestrator
	Core         *pulse.Core
	Firewall     *firewall.Firewall

	Port        int
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
	// TrustedProxies may set X-Forwarded-For. Other peers are limited by
	// their own address.
	TrustedProxies []netip.Prefix

	// Keys issues one-time pinch keys. Defaults to entropy.OneTimeKey.
	Keys func() string

	started time.Time
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if s.Keys == nil {
		s.Keys = entropy.OneTimeKey
	}
	rate, window := s.RateLimit, s.RateWindow
	if rate <= 0 {
		rate = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	limiter := NewRateLimiter(rate, window)
	limit := func(h http.HandlerFunc) http.HandlerFunc {
		return RateLimitMiddleware(limiter, IPResolver{Trusted: s.TrustedProxies}, h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/handshake", s.handleHandshake)

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	mux.HandleFunc("/api/v1/smash", s.handleSmash)
	mux.HandleFunc("/api/v1/collapse", limit(s.handleCollapse))
	mux.HandleFunc("/api/v1/pinch", limit(s.handlePinch))
	mux.HandleFunc("/api/v1/key", s.handleKey)
	mux.HandleFunc("/api/v1/categorize", limit(s.handleCategorize))
	mux.HandleFunc("/api/v1/prompt", s.handlePrompt)
	mux.HandleFunc("/api/v1/orchestrate", limit(s.handleOrchestrate))
	mux.HandleFunc("/api/v1/discovery", s.handleDiscovery)
	mux.HandleFunc("/api/v1/firewall", limit(s.handleFirewall))

	return requestID(newOriginSet(s.CORSOrigins).wrap(mux))
}

// Serve listens on Port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr, "nodes", s.Engine.Lattice().Len(), "journal", s.Journal != nil)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("HTTP API stopped")
	return nil
}

// devOrigins are local frontend dev servers, always allowed.
var devOrigins = []string{"http://localhost:5173", "http://localhost:4173", "http://localhost:3000"}

// originSet is the set of origins granted CORS access.
type originSet map[string]struct{}

func newOriginSet(extra []string) originSet {
	set := make(originSet, len(devOrigins)+len(extra))
	for _, o := range append(slices.Clone(devOrigins), extra...) {
		if o = strings.TrimSpace(o); o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

// wrap answers preflight requests and tags allowed origins on the rest.
func (set originSet) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := set[origin]; ok {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID tags every response with an X-Request-ID, reusing the caller's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		slog.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// decodePost enforces POST and decodes the JSON body into v. It writes the
// error response itself and reports whether the handler should continue.
func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHandshake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	slog.Info("handshake", "mode", req.Mode)
	writeJSON(w, map[string]string{
		"status":      "synchronized",
		"active_mode": req.Mode,
		"message":     "Bridge established.",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lat := s.Engine.Lattice()
	status := map[string]any{
		"name":    "CIGOL",
		"nodes":   lat.Len(),
		"lattice": lat.Params(),
		"origin":  lat.Origin(),
		"kernel":  s.Engine.Kernel(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	}
	if s.Palace != nil {
		status["palace"] = s.Palace.Counts()
	}
	if s.Orchestrator != nil {
		status["relics"] = s.Orchestrator.Counts()
	}
	if s.Core != nil {
		status["global_state"] = s.Core.State().String()
	}
	if s.Journal != nil {
		if counts, err := s.Journal.Counts(); err == nil {
			status["events"] = counts
		}
	}
	writeJSON(w, status)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if s.Journal == nil {
		writeJSON(w, []journal.Entry{})
		return
	}
	entries, err := s.Journal.Recent(limit)
	if err != nil {
		slog.Error("read events", "error", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

type smashResponse struct {
	resonance.Match
	Slot     int     `json:"slot"`
	Distance float64 `json:"distance"` // From the origin node
}

// handleSmash runs a sequence smash on a nucleotide sequence, or on the
// SHA-256 signature of arbitrary data when no sequence is given.
func (s *Server) handleSmash(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sequence string `json:"sequence"`
		Data     string `json:"data"`
	}
	if !decodePost(w, r, &req) {
		return
	}

	var m resonance.Match
	var slot int
	if req.Data != "" && req.Sequence == "" {
		m = s.Engine.SmashBytes([]byte(req.Data))
		slot = s.Engine.IndexLookup(signature.OfString(req.Data))
	} else {
		m = s.Engine.SequenceSmash(req.Sequence)
		slot = s.Engine.Slot(req.Sequence)
	}
	if m.Index < 0 {
		http.Error(w, "no resonant node", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, smashResponse{
		Match:    m,
		Slot:     slot,
		Distance: m.Node.Distance(s.Engine.Lattice().Origin()),
	})
}

// handleCollapse reduces explicit points, or the unfolded bytes of data, to a
// vector stream.
func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points []lattice.Point `json:"points"`
		Data   *string         `json:"data"`
	}
	if !decodePost(w, r, &req) {
		return
	}

	points := req.Points
	if req.Data != nil {
		points = lattice.UnfoldBytes([]byte(*req.Data))
	}

	stream, err := s.Engine.Collapse(r.Context(), points)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resonance.ErrNonFinitePoint) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, map[string]any{
		"stream":       stream,
		"precision":    resonance.Full.String(),
		"input_points": len(points),
		"output_bytes": resonance.Full.Size(len(stream)),
	})
}

// handlePinch runs the keyed pinch protocol. Without a key a one-time key is
// issued and returned, since the stream cannot be reproduced without it.
func (s *Server) handlePinch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Packet string `json:"packet"`
		Key    string `json:"key"`
	}
	if !decodePost(w, r, &req) {
		return
	}

	key, issued := req.Key, false
	if key == "" {
		key, issued = s.Keys(), true
	}

	stream, meta, err := s.Engine.PinchProtocol(r.Context(), []byte(req.Packet), key)
	if err != nil {
		slog.Error("pinch failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"stream":   stream,
		"metadata": meta,
	}
	if issued {
		resp["one_time_key"] = key
	}
	writeJSON(w, resp)
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, map[string]string{"key": omega.DeriveKey(req.Identity, req.Password)})
}

// handleCategorize files data in the palace. Bridged Science items are
// turned into a product manifest when a catalog is configured.
func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data      string  `json:"data"`
		Stability float64 `json:"stability"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	if s.Palace == nil {
		http.Error(w, "palace not configured", http.StatusServiceUnavailable)
		return
	}

	placement := s.Palace.Categorize(req.Data, req.Stability)
	resp := map[string]any{"placement": placement}
	if placement.Bridged && s.Catalog != nil {
		manifest, err := s.Catalog.Process(req.Data, req.Stability)
		if err != nil {
			slog.Warn("bridge without manifest", "error", err)
		} else {
			resp["manifest"] = manifest
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User   string `json:"user"`
		Prompt string `json:"prompt"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	if s.Conscience == nil {
		http.Error(w, "conscience not configured", http.StatusServiceUnavailable)
		return
	}
	if req.User == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}

	v := s.Conscience.Process(req.User, req.Prompt)
	if v.Outcome != conscience.OutcomeAccepted {
		slog.Warn("prompt rejected", "user", req.User, "outcome", v.Outcome, "strikes", v.Strikes)
	}
	writeJSON(w, v)
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sources []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		} `json:"sources"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	if s.Orchestrator == nil {
		http.Error(w, "orchestrator not configured", http.StatusServiceUnavailable)
		return
	}

	sources := make([]bands.Source, len(req.Sources))
	for i, src := range req.Sources {
		sources[i] = bands.Source{Name: src.Name, Content: src.Content}
	}
	writeJSON(w, map[string]any{
		"relics": s.Orchestrator.Siphon(sources),
		"counts": s.Orchestrator.Counts(),
	})
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data string `json:"data"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	if s.Core == nil {
		http.Error(w, "core not configured", http.StatusServiceUnavailable)
		return
	}

	sig := s.Core.ProcessDiscovery(req.Data)
	writeJSON(w, map[string]any{
		"signature":    sig.String(),
		"sectors":      pulse.Sectors,
		"synchronized": s.Core.Synchronized(),
	})
}

func (s *Server) handleFirewall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	if s.Firewall == nil {
		http.Error(w, "firewall not configured", http.StatusServiceUnavailable)
		return
	}

	if !s.Firewall.CheckAccess(req.Key) {
		slog.Warn("firewall access denied")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		if err := json.NewEncoder(w).Encode(map[string]any{"access": false, "sensory": firewall.ActiveSensory()}); err != nil {
			slog.Warn("write response", "error", err)
		}
		return
	}
	writeJSON(w, map[string]any{"access": true, "masked": s.Firewall.Mask()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Warn("write response", "error", err)
	}
}
