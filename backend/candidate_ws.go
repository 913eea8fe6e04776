package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type candidateCell struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Z     int     `json:"z"`
	W     int     `json:"w"`
	Score float64 `json:"score"`
}

// candidatePayload previews what the engine would consider next: the
// ordered candidate cells for the side to move.
type candidatePayload struct {
	NextPlayer int              `json:"next_player,omitempty"`
	MoveCount  int              `json:"move_count"`
	Candidates []candidateCell  `json:"candidates,omitempty"`
	LastMove   *historyEntryDTO `json:"last_move,omitempty"`
	Final      bool             `json:"final,omitempty"`
}

type CandidateClient struct {
	hub  *CandidateHub
	send chan []byte
}

type CandidateHub struct {
	mu        sync.Mutex
	clients   map[*CandidateClient]struct{}
	broadcast chan candidatePayload
}

func NewCandidateHub() *CandidateHub {
	return &CandidateHub{
		clients:   make(map[*CandidateClient]struct{}),
		broadcast: make(chan candidatePayload, 32),
	}
}

func (h *CandidateHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			msg := wsMessage{Type: "candidates", Payload: mustMarshal(payload)}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

func (h *CandidateHub) Register(c *CandidateClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *CandidateHub) Publish(payload candidatePayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *CandidateHub) Unregister(c *CandidateClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *CandidateHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *CandidateClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveCandidateWS(hub *CandidateHub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("candidate websocket upgrade failed")
		return
	}
	client := &CandidateClient{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)
	client.sendJSON(wsMessage{Type: "candidates", Payload: mustMarshal(candidatesFromController(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("candidate websocket write stopped")
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

func candidatesFromController(controller *GameController) candidatePayload {
	payload := candidatesForState(controller.State(), controller.Rules(), GetConfig().CandidateLimits())
	if entry, ok := controller.LatestHistoryEntry(); ok {
		last := historyEntryToDTO(entry)
		payload.LastMove = &last
	}
	return payload
}

// candidatesForState scores the candidate cells the search would open with.
// Before the first stone that is the centre alone.
func candidatesForState(state GameState, rules Rules, limits CandidateLimits) candidatePayload {
	payload := candidatePayload{MoveCount: state.MoveCount}
	if state.IsDecided() {
		payload.Final = true
		return payload
	}
	payload.NextPlayer = playerToInt(state.ToMove)
	moves := GetCandidateMoves(state, rules, limits)
	if state.MoveCount == 0 {
		moves = []Move{state.Board.Center()}
	}
	payload.Candidates = make([]candidateCell, 0, len(moves))
	for _, m := range moves {
		payload.Candidates = append(payload.Candidates, candidateCell{
			X: m.X, Y: m.Y, Z: m.Z, W: m.W,
			Score: MoveScore(state.Board, m, state.ToMove),
		})
	}
	return payload
}
