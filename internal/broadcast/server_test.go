package broadcast

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tablestakes/internal/game"
)

func testSnapshot() game.TableState {
	return game.TableState{
		HandNum: 3,
		Phase:   "flop",
		Pot:     275,
		Board:   []string{"9♠", "J♦", "4♣"},
		Seats: []game.SeatState{
			{Index: 0, Name: "You", Human: true, Chips: 900, HoleCards: []string{"A♠", "K♠"}},
			{Index: 1, Name: "AI 1", Chips: 950, HoleCards: []string{"??", "??"}},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer("unused", testSnapshot, log.New(io.Discard))
	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestSpectatorReceivesInitialState(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	frame := readFrame(t, conn)
	assert.Equal(t, game.EventType("state"), frame.Type)
	assert.Equal(t, 275, frame.State.Pot)
	assert.Equal(t, "flop", frame.State.Phase)
}

func TestEventsFanOutToAllSpectators(t *testing.T) {
	s, ts := newTestServer(t)
	conn1 := dial(t, ts)
	conn2 := dial(t, ts)
	readFrame(t, conn1)
	readFrame(t, conn2)

	require.Eventually(t, func() bool { return s.ClientCount() == 2 },
		5*time.Second, 10*time.Millisecond)

	s.OnEvent(game.HandStartEvent{HandNum: 3})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		frame := readFrame(t, conn)
		assert.Equal(t, game.EventTypeHandStart, frame.Type)
		assert.Equal(t, 3, frame.State.HandNum)
	}
}

func TestMaskedCardsSurviveSerialization(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	frame := readFrame(t, conn)
	require.Len(t, frame.State.Seats, 2)
	assert.Equal(t, []string{"A♠", "K♠"}, frame.State.Seats[0].HoleCards)
	assert.Equal(t, []string{"??", "??"}, frame.State.Seats[1].HoleCards)
	// Raw cards are never part of the wire format.
	assert.Nil(t, frame.State.Seats[0].Hole)
	assert.Nil(t, frame.State.Community)
}

func TestDisconnectedSpectatorIsDropped(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	readFrame(t, conn)

	require.Eventually(t, func() bool { return s.ClientCount() == 1 },
		5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.ClientCount() == 0 },
		5*time.Second, 10*time.Millisecond)
}
