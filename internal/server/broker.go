package server

import (
	"sync"
)

// Broker is an in-process pub/sub for spectator event streams, keyed by game
// code. Payloads are the same serialized snapshots the game actors broadcast
// to their WebSocket destinations.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives snapshots for the given game.
func (b *Broker) Subscribe(code string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan []byte]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(code string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Publish fans a snapshot out to every subscriber of the given game.
func (b *Broker) Publish(code string, snapshot []byte) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- snapshot:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
