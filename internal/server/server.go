// Package server provides HTTP server initialization and lifecycle
// management for the Grand Line sensor backend.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Its-Zach/grandline/internal/config"
	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/internal/voice"
	"github.com/Its-Zach/grandline/web/handlers"
)

// dbGetter is satisfied by stores that expose their database handle. Only
// the sqlite store is consulted; device settings persist in its settings
// table.
type dbGetter interface {
	GetDB() *sql.DB
}

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server. It returns the actual
// address being listened on (useful for testing with port 0) and the
// WebSocketHub broadcasting stored readings, or an error if the listen
// address is unavailable.
//
// The server shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, store storage.ReadingStore) (string, *handlers.WebSocketHub, error) {
	mux := http.NewServeMux()

	// Rate limiter shared across all routes (10 req/sec, burst of 20)
	rateLimiter := handlers.NewRateLimiter(10.0, 20)

	readingHandlers := handlers.NewReadingHandlers(store, cfg)
	statsHandler := handlers.NewStatsHandler(store, cfg)

	// Device settings persist through the sqlite settings table; the
	// placeholder syntax is sqlite's, so other engines stay in-memory.
	var db *sql.DB
	if dbStore, ok := store.(dbGetter); ok && cfg.Storage.StorageEngine == "sqlite" {
		db = dbStore.GetDB()
	}
	deviceHandler := handlers.NewDeviceHandler(cfg, db)

	var wsHub *handlers.WebSocketHub
	if cfg.Features.EnableWebSocket {
		wsHub = handlers.NewWebSocketHub([]string{
			fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			fmt.Sprintf("localhost:%d", cfg.Server.Port),
		})
		go wsHub.Run()
		readingHandlers.SetHub(wsHub)
	}

	// API routes (require auth in production mode)
	apiMux := http.NewServeMux()

	if cfg.Features.EnableREST {
		apiMux.HandleFunc("/addReading", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				readingHandlers.AddReading(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/readings", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				readingHandlers.ListReadings(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/latestReading", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				readingHandlers.GetLatestReading(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/updateReading/{id}", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				readingHandlers.UpdateReading(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/deleteReading/{id}", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				readingHandlers.DeleteReading(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/islands", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				readingHandlers.ListIslands(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/characters", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				readingHandlers.ListCharacters(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				statsHandler.GetStats(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
		apiMux.HandleFunc("/device", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				deviceHandler.GetDevice(w, r)
			case http.MethodPut:
				deviceHandler.PutDevice(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
	}

	if cfg.Features.EnableVoice {
		voiceHandler := handlers.NewVoiceHandler(voice.NewDispatcher(store, cfg.Voice.InvocationName))
		apiMux.HandleFunc("/voice", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				voiceHandler.HandleWebhook(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
	}

	// Health endpoint - no auth required, used by devices and monitoring
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"grandline"}`))
	})

	// WebSocket endpoint (no auth required - origin validation handles security)
	if wsHub != nil {
		mux.Handle("/ws", wsHub)
	}

	// Everything else goes through auth
	authed := handlers.RequireAuth(apiMux, cfg)
	for _, route := range []string{
		"/addReading",
		"/readings",
		"/latestReading",
		"/updateReading/",
		"/deleteReading/",
		"/islands",
		"/characters",
		"/stats",
		"/device",
		"/voice",
	} {
		mux.Handle(route, authed)
	}

	// Wrap the whole server with request IDs, rate limiting, then security headers
	handler := handlers.RequestIDMiddleware(mux)
	handler = handlers.RateLimitMiddleware(handler, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	// Create server with security timeouts
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("server: serve error: %v", err)
		}
	}()

	// Graceful shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown error: %v", err)
		}
		if wsHub != nil {
			wsHub.Stop()
		}
	}()

	return actualAddr, wsHub, nil
}
