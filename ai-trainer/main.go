package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type arenaConfig struct {
	BackendURL     string
	APIAddr        string
	PollInterval   time.Duration
	GameTimeout    time.Duration
	Strategies     []string
	BoardSize      int
	Adjacency      string
	OpeningPlies   int
	Rounds         int
	EloK           float64
	InitialElo     float64
	AutoStart      bool
	LogLevel       string
	BackendTimeout time.Duration
}

func loadArenaConfig() arenaConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg := arenaConfig{
		BackendURL:     GetEnv("BACKEND_URL", "http://backend:8080"),
		APIAddr:        GetEnv("ARENA_API_ADDR", ":8090"),
		PollInterval:   time.Duration(GetEnvAsInt("POLL_INTERVAL_MS", 500)) * time.Millisecond,
		GameTimeout:    time.Duration(GetEnvAsInt("ARENA_GAME_TIMEOUT_SEC", 180)) * time.Second,
		Strategies:     splitList(GetEnv("ARENA_STRATEGIES", "")),
		BoardSize:      GetEnvAsInt("ARENA_BOARD_SIZE", 5),
		Adjacency:      GetEnv("ARENA_ADJACENCY", "free"),
		OpeningPlies:   GetEnvAsInt("ARENA_OPENING_PLIES", 2),
		Rounds:         GetEnvAsInt("ARENA_ROUNDS", 0),
		EloK:           GetEnvAsFloat("ARENA_ELO_K", 20),
		InitialElo:     GetEnvAsFloat("ARENA_INITIAL_ELO", 1500),
		AutoStart:      GetEnvAsBool("ARENA_AUTOSTART", false),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		BackendTimeout: 10 * time.Second,
	}
	if cfg.EloK <= 0 {
		cfg.EloK = 20
	}
	if cfg.OpeningPlies < 0 {
		cfg.OpeningPlies = 0
	}
	return cfg
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	cfg := loadArenaConfig()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	a := newArena(cfg, newBackendClient(cfg.BackendURL, cfg.BackendTimeout))
	log.Info().Str("backend", cfg.BackendURL).Str("addr", cfg.APIAddr).Int("board", cfg.BoardSize).Msg("arena service started")

	server := &http.Server{Addr: cfg.APIAddr, Handler: a.router(), ReadHeaderTimeout: 5 * time.Second}
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		_ = a.stop("shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.AutoStart {
		if err := a.start(); err != nil {
			log.Error().Err(err).Msg("autostart failed")
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("arena stopped")
	}
	log.Info().Msg("arena service stopped")
}

type arenaStatus struct {
	Running      bool        `json:"running"`
	Phase        string      `json:"phase"`
	Message      string      `json:"message"`
	StartedAt    string      `json:"started_at"`
	UpdatedAt    string      `json:"updated_at"`
	Round        int         `json:"round"`
	GamesPlayed  int         `json:"games_played"`
	CurrentMatch *matchInfo  `json:"current_match,omitempty"`
	Standings    []standing  `json:"standings,omitempty"`
	LastResult   *matchEntry `json:"last_result,omitempty"`
}

type arena struct {
	cfg     arenaConfig
	backend *backendClient

	statusMu sync.RWMutex
	status   arenaStatus
	jobMu    sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

func newArena(cfg arenaConfig, backend *backendClient) *arena {
	now := time.Now().UTC().Format(time.RFC3339)
	return &arena{
		cfg:     cfg,
		backend: backend,
		status: arenaStatus{
			Phase:     "idle",
			Message:   "service ready",
			StartedAt: now,
			UpdatedAt: now,
		},
	}
}

func (a *arena) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/api/arena/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": a.getStatus().Running})
	})
	r.Get("/api/arena/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	r.Post("/api/arena/start", func(w http.ResponseWriter, r *http.Request) {
		if err := a.start(); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	r.Post("/api/arena/stop", func(w http.ResponseWriter, r *http.Request) {
		if err := a.stop("requested via api"); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	return r
}

func (a *arena) getStatus() arenaStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	status := a.status
	status.Standings = append([]standing(nil), a.status.Standings...)
	return status
}

func (a *arena) updateStatus(mutator func(*arenaStatus)) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	mutator(&a.status)
	a.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func (a *arena) start() error {
	a.jobMu.Lock()
	defer a.jobMu.Unlock()
	if a.cancel != nil {
		return fmt.Errorf("arena already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	a.updateStatus(func(s *arenaStatus) {
		s.Running = true
		s.Phase = "starting"
		s.Message = "waiting for backend"
		s.Round = 0
		s.GamesPlayed = 0
	})
	go func() {
		defer close(done)
		err := a.backend.waitReady(ctx, 60*time.Second)
		if err == nil {
			err = a.run(ctx)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("arena run failed")
			a.updateStatus(func(s *arenaStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		}
		a.updateStatus(func(s *arenaStatus) {
			s.Running = false
			s.CurrentMatch = nil
			if s.Phase != "error" {
				s.Phase = "idle"
				s.Message = "service ready"
			}
		})
		a.jobMu.Lock()
		a.cancel = nil
		a.done = nil
		a.jobMu.Unlock()
	}()
	return nil
}

func (a *arena) stop(reason string) error {
	a.jobMu.Lock()
	cancel := a.cancel
	done := a.done
	a.jobMu.Unlock()
	if cancel == nil {
		return fmt.Errorf("no running arena")
	}
	log.Info().Str("reason", reason).Msg("stopping arena")
	cancel()
	if done != nil {
		<-done
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
