package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
	W int `json:"w"`
}

type stone struct {
	cell
	Player int `json:"player"`
}

type statusResponse struct {
	Status     string  `json:"status"`
	Winner     int     `json:"winner"`
	NextPlayer int     `json:"next_player"`
	MoveCount  int     `json:"move_count"`
	Stones     []stone `json:"stones"`
}

type strategyInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type backendClient struct {
	client  *http.Client
	baseURL string
}

func newBackendClient(baseURL string, timeout time.Duration) *backendClient {
	return &backendClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (b *backendClient) waitReady(ctx context.Context, limit time.Duration) error {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if err := b.getJSON("/api/ping", nil); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("backend not ready after %s", limit)
}

func (b *backendClient) strategies() ([]strategyInfo, error) {
	var out []strategyInfo
	err := b.getJSON("/api/strategies", &out)
	return out, err
}

func (b *backendClient) status() (statusResponse, error) {
	var out statusResponse
	err := b.getJSON("/api/status", &out)
	return out, err
}

func (b *backendClient) validMoves() ([]cell, error) {
	var out struct {
		Moves []cell `json:"moves"`
	}
	err := b.getJSON("/api/valid-moves", &out)
	return out.Moves, err
}

// startOpening resets the backend into a human_vs_human game so the arena
// can place opening stones itself.
func (b *backendClient) startOpening(size int, adjacency string) error {
	return b.postJSON("/api/start", map[string]any{
		"settings": map[string]any{
			"mode":      "human_vs_human",
			"size":      map[string]int{"x": size, "y": size, "z": size, "w": size},
			"adjacency": adjacency,
		},
	}, nil)
}

func (b *backendClient) play(c cell) error {
	return b.postJSON("/api/move", c, nil)
}

// seatEngines hands both colours to the given strategies without resetting
// the board.
func (b *backendClient) seatEngines(black, white string) error {
	return b.postJSON("/api/settings", map[string]any{
		"settings": map[string]any{
			"mode":           "ai_vs_ai",
			"black_strategy": black,
			"white_strategy": white,
		},
	}, nil)
}

func (b *backendClient) stopGame() error {
	return b.postJSON("/api/stop", map[string]any{}, nil)
}

func (b *backendClient) getJSON(path string, out any) error {
	resp, err := b.client.Get(b.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *backendClient) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := b.client.Post(b.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
