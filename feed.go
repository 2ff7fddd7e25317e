package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// feed pushes per-query trace messages to connected debug clients. The
// stream is informational only; dropping a slow subscriber never affects
// query handling.
type feed struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	upgrader    websocket.Upgrader
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newFeed() *feed {
	return &feed{
		subscribers: make(map[string]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (f *feed) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	sub := &subscriber{conn: conn}
	f.mu.Lock()
	f.subscribers[id] = sub
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.drop(id)
			return
		}
	}
}

func (f *feed) drop(id string) {
	f.mu.Lock()
	sub, ok := f.subscribers[id]
	if ok {
		delete(f.subscribers, id)
	}
	f.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (f *feed) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal feed message: %v", err)
		return
	}

	f.mu.Lock()
	subs := make(map[string]*subscriber, len(f.subscribers))
	for id, sub := range f.subscribers {
		subs[id] = sub
	}
	f.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			log.Printf("failed to send trace to %s: %v", id, err)
			f.drop(id)
		}
	}
}

func (f *feed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
