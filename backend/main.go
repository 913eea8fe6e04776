package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, cfgErr := LoadConfig(DefaultConfig())
	setupLogging(cfg.LogLevel, cfg.LogPretty)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("invalid environment config, using defaults")
	}
	configStore.Update(cfg)
	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("backend stopped")
	}
}

func run(cfg Config) error {
	registry := DefaultStrategyRegistry()
	if _, err := registry.Get(cfg.AiDefaultStrategy); err != nil {
		return err
	}
	var worker *SearchWorker
	if cfg.AiWorkerEnabled {
		worker = NewSearchWorker(registry)
		defer worker.Close()
	}

	settings := DefaultGameSettings()
	settings.Size = UniformSize(cfg.BoardSize)
	settings.BlackStrategy = cfg.AiDefaultStrategy
	settings.WhiteStrategy = cfg.AiDefaultStrategy
	controller := NewGameController(settings, registry, worker)
	hub := NewHub()
	feed := NewCandidateHub()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(controller, hub, feed),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		feed.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		runTickLoop(ctx, controller, hub, feed, time.Duration(cfg.TickIntervalMs)*time.Millisecond)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Strs("strategies", registry.IDs()).Bool("worker", worker != nil).Msg("backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Err(context.Cause(ctx)).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			return server.Close()
		}
		return nil
	})
	return g.Wait()
}

func runTickLoop(ctx context.Context, controller *GameController, hub *Hub, feed *CandidateHub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if controller.Tick() {
				publishMove(controller, hub, feed)
			}
		}
	}
}

func publishMove(controller *GameController, hub *Hub, feed *CandidateHub) {
	if entry, ok := controller.LatestHistoryEntry(); ok {
		hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	hub.PublishStatus(controllerStatus(controller))
	if feed.HasClients() {
		feed.Publish(candidatesFromController(controller))
	}
}

func newRouter(controller *GameController, hub *Hub, feed *CandidateHub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/strategies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controller.Registry().List())
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings, err := settingsFromDTO(payload.Settings, controller.Settings(), controller.Registry())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.PublishReset(resetFromController(controller))
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset(controller.Settings())
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.PublishReset(resetFromController(controller))
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			if err := payload.Config.Validate(); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			configStore.Update(*payload.Config)
		}
		if payload.Settings != nil {
			settings, err := settingsFromDTO(*payload.Settings, controller.Settings(), controller.Registry())
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			controller.UpdateSettings(settings, false)
		}
		hub.PublishSettings(settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		})
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(payload.toMove())
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		publishMove(controller, hub, feed)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/valid-moves", func(w http.ResponseWriter, r *http.Request) {
		includeForbidden, _ := strconv.ParseBool(r.URL.Query().Get("include_forbidden"))
		state := controller.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"moves": GetValidMoves(state, controller.Rules(), includeForbidden),
		})
	})

	r.Get("/api/prohibited", func(w http.ResponseWriter, r *http.Request) {
		move, ok := moveFromQuery(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x, y, z and w are required"})
			return
		}
		state := controller.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"move":       move,
			"prohibited": controller.Rules().IsProhibitedMove(state, move),
		})
	})

	r.Get("/api/adjacent", func(w http.ResponseWriter, r *http.Request) {
		move, ok := moveFromQuery(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x, y, z and w are required"})
			return
		}
		state := controller.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"move":     move,
			"adjacent": controller.Rules().HasAdjacentStone(state.Board, move),
		})
	})

	r.Post("/api/best-move", func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if req.Snapshot.Cells == nil {
			req.Snapshot = SnapshotFromState(controller.State(), controller.Rules())
		}
		if req.ID == uuid.Nil {
			req.ID = uuid.New()
		}
		resp, err := RequestBestMove(controller.Worker(), controller.Registry(), req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		out := bestMoveResponse{ID: resp.ID.String(), Depth: resp.Depth, ElapsedMs: float64(resp.Elapsed.Microseconds()) / 1000}
		if resp.HasMove {
			move := resp.Move
			out.Move = &move
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	r.Get("/ws/candidates", func(w http.ResponseWriter, r *http.Request) {
		serveCandidateWS(feed, controller, w, r)
	})
	return r
}

func moveFromQuery(r *http.Request) (Move, bool) {
	var coords [4]int
	for i, key := range [4]string{"x", "y", "z", "w"} {
		value, err := strconv.Atoi(r.URL.Query().Get(key))
		if err != nil {
			return Move{}, false
		}
		coords[i] = value
	}
	return NewMove(coords[0], coords[1], coords[2], coords[3]), true
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket write stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "click":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err == nil {
				controller.OnCellClicked(move.toMove())
			}
		}
	}
}
