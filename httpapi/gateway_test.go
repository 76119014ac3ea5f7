package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialWs(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, eventName string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Event: eventName, Data: raw}))
}

func readFrame(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var envelope Envelope
	require.NoError(t, conn.ReadJSON(&envelope))
	return envelope
}

func TestGateway_ChatMessage_EchoedToSubscriber(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	charette := createCharette(t, engine, "Durham session")
	conn := dialWs(t, server)

	sendFrame(t, conn, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, conn, "chat-message", gin.H{
		"charetteId": charette.ID,
		"message":    "hello everyone",
		"userName":   "Ann",
	})

	frame := readFrame(t, conn)
	req.Equal("chat-message", frame.Event)

	var msg MessageDTO
	req.NoError(json.Unmarshal(frame.Data, &msg))
	req.Equal("hello everyone", msg.Text)
	req.Equal("Ann", msg.UserName)
	req.Equal("main", msg.RoomID)
}

func TestGateway_NextPhase_Broadcast(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	charette := createCharette(t, engine, "Durham session")
	conn := dialWs(t, server)

	sendFrame(t, conn, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, conn, "next-phase", gin.H{"charetteId": charette.ID})

	frame := readFrame(t, conn)
	req.Equal("phase-changed", frame.Event)

	var data struct {
		CharetteID   string `json:"charetteId"`
		CurrentPhase int    `json:"currentPhase"`
	}
	req.NoError(json.Unmarshal(frame.Data, &data))
	req.Equal(charette.ID, data.CharetteID)
	req.Equal(1, data.CurrentPhase)
}

func TestGateway_BreakoutRoom_ScopedDelivery(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	charette := createCharette(t, engine, "Durham session")

	insider := dialWs(t, server)
	outsider := dialWs(t, server)
	// Each connection confirms its own subscription with a phase
	// announcement before anything room-scoped happens
	sendFrame(t, insider, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, insider, "next-phase", gin.H{"charetteId": charette.ID})
	req.Equal("phase-changed", readFrame(t, insider).Event)

	sendFrame(t, outsider, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, outsider, "next-phase", gin.H{"charetteId": charette.ID})
	req.Equal("phase-changed", readFrame(t, outsider).Event)
	req.Equal("phase-changed", readFrame(t, insider).Event)

	// Given three rooms and one member inside room-1
	sendFrame(t, insider, "create-breakout-rooms", gin.H{"charetteId": charette.ID, "roomCount": 3})
	req.Equal("breakout-rooms-created", readFrame(t, insider).Event)
	req.Equal("breakout-rooms-created", readFrame(t, outsider).Event)

	sendFrame(t, insider, "join-breakout-room", gin.H{
		"charetteId": charette.ID, "roomId": "room-1", "userName": "Ann",
	})
	req.Equal("room-updated", readFrame(t, insider).Event)
	req.Equal("room-updated", readFrame(t, outsider).Event)

	// When chatting inside the room
	sendFrame(t, insider, "chat-message", gin.H{
		"charetteId": charette.ID,
		"message":    "just for us",
		"userName":   "Ann",
		"roomId":     "room-1",
	})

	// Then the room member receives it
	frame := readFrame(t, insider)
	req.Equal("chat-message", frame.Event)

	// And the outsider does not
	req.NoError(outsider.SetReadDeadline(time.Now().Add(300 * time.Millisecond)))
	var stray Envelope
	err := outsider.ReadJSON(&stray)
	req.Error(err)
}

func TestGateway_InvalidPayload_ErrorFrame_ConnectionStaysOpen(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	charette := createCharette(t, engine, "Durham session")
	conn := dialWs(t, server)

	// Missing charetteId fails validation
	sendFrame(t, conn, "join-charette", gin.H{})
	frame := readFrame(t, conn)
	req.Equal("error", frame.Event)

	// The connection is still usable afterwards
	sendFrame(t, conn, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, conn, "next-phase", gin.H{"charetteId": charette.ID})
	req.Equal("phase-changed", readFrame(t, conn).Event)
}

func TestGateway_UnknownEvent_ErrorFrame(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	conn := dialWs(t, server)
	sendFrame(t, conn, "no-such-event", gin.H{})

	frame := readFrame(t, conn)
	req.Equal("error", frame.Event)
	req.Contains(string(frame.Data), "unknown event")
}

func TestGateway_ErrorFrames_RaceBroadcasts_SingleWriter(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	charette := createCharette(t, engine, "Durham session")

	receiver := dialWs(t, server)
	sendFrame(t, receiver, "join-charette", gin.H{"charetteId": charette.ID})
	sendFrame(t, receiver, "next-phase", gin.H{"charetteId": charette.ID})
	req.Equal("phase-changed", readFrame(t, receiver).Event)

	driver := dialWs(t, server)

	// Invalid frames from the receiver race broadcasts triggered by the
	// driver; both end up as writes on the receiver's connection
	badFrame, err := json.Marshal(gin.H{})
	req.NoError(err)
	phaseFrame, err := json.Marshal(gin.H{"charetteId": charette.ID})
	req.NoError(err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = receiver.WriteJSON(Envelope{Event: "join-charette", Data: badFrame})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = driver.WriteJSON(Envelope{Event: "next-phase", Data: phaseFrame})
		}
	}()
	wg.Wait()

	// Then the connection survived: a room creation is still answered,
	// whatever backlog of error and phase frames precedes it
	sendFrame(t, receiver, "create-breakout-rooms", gin.H{"charetteId": charette.ID, "roomCount": 1})

	sawError := false
	deadline := time.Now().Add(5 * time.Second)
	for {
		req.True(time.Now().Before(deadline), "connection did not answer after concurrent traffic")
		frame := readFrame(t, receiver)
		if frame.Event == "error" {
			sawError = true
			continue
		}
		if frame.Event == "breakout-rooms-created" {
			break
		}
	}
	req.True(sawError)
}

func TestGateway_NonWebsocketRequest_Rejected(t *testing.T) {
	req := require.New(t)
	engine, _ := newServerUnderTest(t)

	rec := doJSON(t, engine, http.MethodGet, "/ws", nil)

	req.Equal(http.StatusBadRequest, rec.Code)
}
