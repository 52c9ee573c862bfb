// Package main is the entry point for the F90 showcase backend.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/f90studio/showcase-backend/internal/domain/catalog"
	"github.com/f90studio/showcase-backend/internal/domain/tracks"
	"github.com/f90studio/showcase-backend/internal/infra/state"
	"github.com/f90studio/showcase-backend/internal/infra/youtube"
	"github.com/f90studio/showcase-backend/internal/transport/httpapi"
	"github.com/f90studio/showcase-backend/internal/version"
)

func main() {
	// Command line flags
	port := flag.String("port", "3000", "HTTP server port")
	apiKey := flag.String("api-key", os.Getenv("YOUTUBE_API_KEY"), "YouTube Data API key")
	channelID := flag.String("channel-id", "", "YouTube channel ID (optional; playlist-only when empty)")
	playlists := flag.String("playlists", strings.Join(catalog.DefaultCollections, ","), "Comma-separated playlist IDs, in priority order")
	dbPath := flag.String("db", state.DefaultDBPath, "Path to the user state database")
	staticDir := flag.String("static", "", "Directory to serve the showcase site from (optional)")
	enrich := flag.Bool("enrich", true, "Fill durations and play counts from the statistics endpoint")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	versionInfo := version.GetInfo()
	log.Info().Msgf("%s", versionInfo.String())
	log.Info().
		Str("port", *port).
		Str("channel_id", *channelID).
		Bool("api_key_set", *apiKey != "").
		Bool("enrich", *enrich).
		Msg("Configuration")

	if *apiKey == "" {
		log.Warn().Msg("No API key configured - the catalog will serve fallback data only")
	}

	// User state persistence; fall back to in-memory when the database
	// cannot be opened so the site still works (state just won't survive
	// restarts).
	var stateStore tracks.StateStore
	db := state.NewStore(*dbPath)
	if err := db.Open(); err != nil {
		log.Warn().Err(err).Msg("State database unavailable, using in-memory state")
		stateStore = state.NewMemory()
	} else {
		defer db.Close()
		stateStore = db
	}

	store := tracks.NewStore(stateStore)

	// Catalog aggregation pipeline
	client := youtube.NewClient(*apiKey)
	agg := catalog.NewAggregator(client,
		catalog.WithCollections(splitList(*playlists)),
		catalog.WithChannelID(*channelID),
		catalog.WithDetailEnrichment(*enrich),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot load at startup, like the original page bootstrap; the store
	// serves its local fallback set until this completes.
	go func() {
		remote, err := agg.GetAllContent(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Initial catalog load failed")
			return
		}
		store.Merge(remote)
	}()

	// HTTP server
	api := httpapi.NewServer(store, agg)
	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api)
	mux.Handle("/health", api)

	if *staticDir != "" {
		log.Info().Str("dir", *staticDir).Msg("Serving static files")
		fs := http.FileServer(http.Dir(*staticDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *staticDir + r.URL.Path
			if r.URL.Path == "/" {
				path = *staticDir + "/index.html"
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *staticDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
	}

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", ":"+*port).Msg("HTTP server listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	log.Info().Msg("Server stopped")
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
