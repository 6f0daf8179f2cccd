package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"codesync/internal/app/session"
)

func newTestClient(t *testing.T, conn *websocket.Conn) (*Client, *Registry) {
	t.Helper()

	registry := NewRegistry()
	hub := session.NewHub(registry)
	client := NewClient("s1", conn, hub, registry)
	registry.add(client)
	return client, registry
}

func TestEnqueueAfterCloseAllDropsMessage(t *testing.T) {
	client, registry := newTestClient(t, nil)

	registry.CloseAll()

	// a ReadPump can still dispatch while shutdown runs; late deliveries
	// must degrade to a drop, never a send on a closed channel
	if client.enqueue(envelope{Event: session.EventUserLeft}) {
		t.Fatalf("enqueue after shutdown must report a drop")
	}

	// the registry no longer routes to the closed client either
	registry.Emit("s1", session.EventUserLeft, session.Payload{})

	if registry.Len() != 0 {
		t.Fatalf("expected empty registry after shutdown, got %d", registry.Len())
	}
}

func TestEnqueueRacingCloseSendDoesNotPanic(t *testing.T) {
	client, _ := newTestClient(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.enqueue(envelope{Event: session.EventUpdateFile})
		}()
	}
	client.closeSend()
	wg.Wait()

	if !client.closed {
		t.Fatalf("expected client marked closed")
	}
}

func TestCloseSendIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t, nil)

	client.closeSend()
	client.closeSend()

	if _, ok := <-client.send; ok {
		t.Fatalf("expected send channel closed and drained")
	}
}

func TestCloseSendWakesWritePump(t *testing.T) {
	upgrader := websocket.Upgrader{}
	clients := make(chan *Client, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client, _ := newTestClient(t, conn)
		clients <- client
		client.WritePump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	client := <-clients
	client.closeSend()

	// the writer must notice immediately and send a close frame, well
	// before its next heartbeat tick
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected close frame after closeSend")
	}
}
