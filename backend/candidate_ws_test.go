package main

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesForState(t *testing.T) {
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)

	opening := candidatesForState(state, rules, DefaultCandidateLimits())
	require.Len(t, opening.Candidates, 1)
	assert.Equal(t, 2, opening.Candidates[0].X)
	assert.Equal(t, 1, opening.NextPlayer)

	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 2)))
	after := candidatesForState(state, rules, CandidateLimits{Radius: 1, Limit: 5})
	require.Len(t, after.Candidates, 5)
	assert.Equal(t, 2, after.NextPlayer)
	for i := 1; i < len(after.Candidates); i++ {
		assert.LessOrEqual(t, after.Candidates[i].Score, after.Candidates[i-1].Score)
	}

	state.Status = StatusBlackWon
	final := candidatesForState(state, rules, DefaultCandidateLimits())
	assert.True(t, final.Final)
	assert.Empty(t, final.Candidates)
}

func readCandidates(t *testing.T, conn *websocket.Conn) candidatePayload {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg wsMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	require.Equal(t, "candidates", msg.Type)
	var payload candidatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload
}

func TestCandidateFeedStreamsAfterMoves(t *testing.T) {
	settings := humanVsHuman(5)
	controller := NewGameController(settings, DefaultStrategyRegistry(), nil)
	controller.StartGame(settings)
	hub := NewHub()
	feed := NewCandidateHub()
	done := make(chan struct{})
	defer close(done)
	go feed.Run(done)

	server := httptest.NewServer(newRouter(controller, hub, feed))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/candidates"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readCandidates(t, conn)
	assert.Equal(t, 0, first.MoveCount)
	require.Len(t, first.Candidates, 1)

	require.Eventually(t, feed.HasClients, waitFor, pollEvery)
	applied, _ := controller.ApplyHumanMove(NewMove(2, 2, 2, 2))
	require.True(t, applied)
	publishMove(controller, hub, feed)

	next := readCandidates(t, conn)
	assert.Equal(t, 1, next.MoveCount)
	assert.Equal(t, 2, next.NextPlayer)
	require.NotNil(t, next.LastMove)
	assert.Equal(t, 1, next.LastMove.Player)
	assert.NotEmpty(t, next.Candidates)
}
