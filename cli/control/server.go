package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rssdigest/domain"
)

var ErrAlreadyRunning = errors.New("already running")

// TryListen tries to bind the control address. If it's already in use, we assume an instance is running.
func TryListen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return ln, nil
}

// ArticlesResponse is the body of GET /articles.
type ArticlesResponse struct {
	BuiltAt  time.Time        `json:"built_at"`
	Count    int              `json:"count"`
	Articles []domain.Article `json:"articles"`
}

type Server struct {
	digest  domain.Digest
	logger  *slog.Logger
	metrics http.Handler
}

func NewServer(digest domain.Digest, logger *slog.Logger) *Server {
	return &Server{digest: digest, logger: logger, metrics: promhttp.Handler()}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/set-interval":
		s.handleSetInterval(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/set-workers":
		s.handleSetWorkers(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/articles":
		s.handleArticles(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/metrics":
		s.metrics.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSetInterval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Duration string `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	d, err := time.ParseDuration(req.Duration)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid duration: %v", err), http.StatusBadRequest)
		return
	}
	if d <= 0 {
		http.Error(w, "interval must be > 0", http.StatusBadRequest)
		return
	}

	old := s.digest.CurrentInterval()
	s.digest.SetInterval(d)
	s.logger.Info("interval changed", "old", old, "new", d)
	writeJSON(w, map[string]any{"ok": true, "old": old.String(), "new": d.String()})
}

func (s *Server) handleSetWorkers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Workers int `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	old := s.digest.CurrentWorkers()
	if err := s.digest.Resize(req.Workers); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("workers changed", "old", old, "new", req.Workers)
	writeJSON(w, map[string]any{"ok": true, "old": old, "new": req.Workers})
}

// handleArticles serves the latest digest. ?limit=N caps the list; ?category=X filters it.
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	category := r.URL.Query().Get("category")

	articles, builtAt := s.digest.Latest()
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	writeJSON(w, ArticlesResponse{BuiltAt: builtAt, Count: len(out), Articles: out})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
