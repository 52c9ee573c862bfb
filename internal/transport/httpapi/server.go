// Package httpapi exposes the track store and catalog aggregator as a small
// JSON API for the static showcase frontend.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/f90studio/showcase-backend/internal/domain/catalog"
	"github.com/f90studio/showcase-backend/internal/domain/tracks"
	"github.com/f90studio/showcase-backend/internal/version"
)

// Aggregator is the slice of the catalog aggregator the API needs.
type Aggregator interface {
	GetAllContent(ctx context.Context) ([]tracks.Track, error)
	GetChannelInfo(ctx context.Context) *catalog.ChannelInfo
	ClearCache()
	Stats() catalog.CacheStats
}

// Server wires the HTTP handlers.
type Server struct {
	store *tracks.Store
	agg   Aggregator
	mux   *http.ServeMux
}

// NewServer creates the API server over a track store and aggregator.
func NewServer(store *tracks.Store, agg Aggregator) *Server {
	s := &Server{
		store: store,
		agg:   agg,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/version", s.handleVersion)
	s.mux.HandleFunc("/api/v1/tracks", s.handleTracks)
	s.mux.HandleFunc("/api/v1/playlists", s.handlePlaylists)
	s.mux.HandleFunc("/api/v1/playlist", s.handlePlaylistTracks)
	s.mux.HandleFunc("/api/v1/state", s.handleState)
	s.mux.HandleFunc("/api/v1/favorite", s.handleFavorite)
	s.mux.HandleFunc("/api/v1/rating", s.handleRating)
	s.mux.HandleFunc("/api/v1/comments", s.handleComments)
	s.mux.HandleFunc("/api/v1/sync", s.handleSync)
	s.mux.HandleFunc("/api/v1/channel", s.handleChannel)
	s.mux.HandleFunc("/api/v1/cache", s.handleCache)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo())
}

// handleTracks serves the current track list, optionally filtered by
// ?query= and ordered by ?sort= (newest, oldest, title, rating).
func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result := s.store.Search(r.URL.Query().Get("query"))
	if sortKey := r.URL.Query().Get("sort"); sortKey != "" {
		result = tracks.SortTracks(result, tracks.SortKey(sortKey))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tracks": result,
		"total":  len(result),
	})
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": s.store.Playlists()})
}

func (s *Server) handlePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"tracks": s.store.PlaylistTracks(id),
	})
}

// handleState serves the persisted user state so the frontend can
// reconstruct favorite/rating badges on render.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"favorites": s.store.Favorites(),
		"ratings":   s.store.Ratings(),
	})
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	changed, err := s.store.ToggleFavorite(req.ID)
	if err != nil {
		log.Error().Err(err).Str("id", req.ID).Msg("Favorite not persisted")
		writeError(w, http.StatusInternalServerError, "favorite not saved")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        req.ID,
		"favorited": s.store.IsFavorite(req.ID),
		"changed":   changed,
	})
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID     string  `json:"id"`
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	changed, err := s.store.SetRating(req.ID, req.Rating)
	if err != nil {
		log.Error().Err(err).Str("id", req.ID).Msg("Rating not persisted")
		writeError(w, http.StatusInternalServerError, "rating not saved")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      req.ID,
		"rating":  s.store.RatingFor(req.ID),
		"changed": changed,
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id parameter required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       id,
			"comments": s.store.CommentsFor(id),
		})
	case http.MethodPost:
		var req struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			writeError(w, http.StatusBadRequest, "id required")
			return
		}

		comment, err := s.store.AddComment(req.ID, req.Text)
		if err != nil {
			log.Error().Err(err).Str("id", req.ID).Msg("Comment not persisted")
			writeError(w, http.StatusInternalServerError, "comment not saved")
			return
		}
		if comment == nil {
			writeError(w, http.StatusBadRequest, "unknown track or empty comment")
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSync is the manual refresh: it clears the aggregator cache, re-runs
// the aggregation pipeline, and merges the result into the store. A pass
// already in flight yields 409.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.agg.ClearCache()
	remote, err := s.agg.GetAllContent(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "sync already in progress")
			return
		}
		log.Error().Err(err).Msg("Sync failed")
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	s.store.Merge(remote)
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks":    len(s.store.Tracks()),
		"playlists": len(s.store.Playlists()),
	})
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	info := s.agg.GetChannelInfo(r.Context())
	if info == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.agg.Stats())
}
