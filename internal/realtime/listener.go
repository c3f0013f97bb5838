package realtime

import (
	"log"
	"time"

	"adria/internal/repository"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener subscribes to the slot_changes NOTIFY channel and relays every
// payload to the hub. Reconnection is handled by pq.Listener; after a
// reconnect clients are expected to refetch, since notifications sent while
// disconnected are lost.
type Listener struct {
	hub *Hub
	pl  *pq.Listener
}

func NewListener(dsn string, hub *Hub) *Listener {
	pl := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("Realtime listener event %v: %v", ev, err)
			}
		})
	return &Listener{hub: hub, pl: pl}
}

func (l *Listener) Run() {
	if err := l.pl.Listen(repository.SlotChangesChannel); err != nil {
		log.Printf("Error subscribing to %s: %v", repository.SlotChangesChannel, err)
		return
	}
	log.Printf("Realtime listener subscribed to %s", repository.SlotChangesChannel)

	for {
		select {
		case n, ok := <-l.pl.Notify:
			if !ok {
				return
			}
			if n == nil {
				// Reconnect marker; clients refetch on their own.
				continue
			}
			l.hub.Broadcast([]byte(n.Extra))
		case <-time.After(pingInterval):
			go func() {
				if err := l.pl.Ping(); err != nil {
					log.Printf("Realtime listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *Listener) Close() error {
	return l.pl.Close()
}
