package websockets

import (
	"sync"
	"time"

	"waugzee/internal/events"
)

// Hub tracks every open admin telemetry connection. There is no per-client
// auth state here — the JWT check happens once, at the HTTP upgrade, in
// internal/handlers/middleware; once a client reaches the hub it is
// considered trusted for the lifetime of the connection.
type Hub struct {
	broadcast  chan events.Event
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			func() {
				defer func() {
					if r := recover(); r != nil {
						_ = r
					}
				}()
				close(client.send)
			}()
			m.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	log.Info("Client registered", "clientID", client.ID, "totalClients", len(m.hub.clients))
}

func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	delete(m.hub.clients, client.ID)

	log.Info("Client unregistered", "clientID", client.ID, "totalClients", len(m.hub.clients))
}

func (h *Hub) broadcastEvent(event events.Event, m *Manager) {
	log := m.log.Function("broadcastEvent")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	sentCount := 0
	for clientID, client := range h.clients {
		select {
		case client.send <- event:
			sentCount++
		default:
			go func(c *Client, cID string, e events.Event) {
				select {
				case c.send <- e:
				case <-time.After(5 * time.Second):
					_ = log.Error("Client too slow, disconnecting", "clientID", cID)
					m.hub.unregister <- c
				}
			}(client, clientID, event)
		}
	}

	log.Info("Broadcast complete", "eventID", event.ID, "sentTo", sentCount, "totalClients", len(h.clients))
}
