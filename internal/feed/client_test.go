package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_ReceivesOperationsAndAnswersPing(t *testing.T) {
	pong := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(Message{Type: TypePing}); err != nil {
			return
		}
		var reply Message
		if err := conn.ReadJSON(&reply); err != nil {
			return
		}
		if reply.Type == TypePong {
			pong <- struct{}{}
		}

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"operation","payload":{"number":"4711","keyword":"B 3",
			"resources":[{"name":"FL ANS 1/44-1 LF 20"}]}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"operation","payload":"garbage"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"unknown"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"operation","payload":{"number":"4712"}}`))

		// keep the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	var connected atomic.Bool
	client := NewClient(Config{
		URL:    wsURL(srv),
		Logger: log.Discard(),
		OnStatus: func(up bool, err error) {
			if up {
				connected.Store(true)
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	ops := make(chan *operation.Operation, 4)
	result := make(chan error, 1)
	go func() {
		result <- client.Run(ctx, func(op *operation.Operation) { ops <- op })
	}()

	select {
	case <-pong:
	case <-time.After(5 * time.Second):
		t.Fatal("no pong received")
	}

	var numbers []string
	for len(numbers) < 2 {
		select {
		case op := <-ops:
			numbers = append(numbers, op.Number)
		case <-time.After(5 * time.Second):
			t.Fatalf("operations received: %v", numbers)
		}
	}
	if numbers[0] != "4711" || numbers[1] != "4712" {
		t.Errorf("numbers = %v", numbers)
	}
	if !connected.Load() {
		t.Error("status callback not called")
	}

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if client.Connected() {
		t.Error("client should be disconnected after Run returns")
	}
}

func TestClient_Reconnects(t *testing.T) {
	var connections atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := connections.Add(1)
		conn.WriteJSON(map[string]interface{}{
			"type":    TypeOperation,
			"payload": map[string]string{"number": string(rune('0' + n))},
		})
		conn.Close()
	}))
	defer srv.Close()

	client := NewClient(Config{
		URL:               wsURL(srv),
		ReconnectInterval: 10 * time.Millisecond,
		Logger:            log.Discard(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ops := make(chan *operation.Operation, 8)
	go client.Run(ctx, func(op *operation.Operation) { ops <- op })

	for i := 0; i < 2; i++ {
		select {
		case <-ops:
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d operations, want 2", i)
		}
	}
	if connections.Load() < 2 {
		t.Errorf("connections = %d, want reconnect", connections.Load())
	}
}

func TestClient_NilHandler(t *testing.T) {
	client := NewClient(Config{URL: "ws://127.0.0.1:1", Logger: log.Discard()})
	if err := client.Run(context.Background(), nil); err == nil {
		t.Error("Run(nil) should fail")
	}
}

func TestClient_CancelWhileDisconnected(t *testing.T) {
	client := NewClient(Config{
		URL:               "ws://127.0.0.1:1/ws",
		ReconnectInterval: time.Hour,
		HandshakeTimeout:  time.Second,
		Logger:            log.Discard(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- client.Run(ctx, func(*operation.Operation) {}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not honour cancellation")
	}
}
