package websockets

import (
	"time"
	"waugzee/config"
	"waugzee/internal/events"
	"waugzee/internal/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 1024 * 1024 // 1 MB
	SEND_CHANNEL_SIZE = 64
)

// Client is one open admin telemetry connection. Authentication already
// happened at the HTTP upgrade (internal/handlers/middleware's JWT check);
// the client here is pure broadcast fan-out, never routed per-user.
type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan events.Event
}

// Manager owns the hub and relays every job-queue/worker telemetry event
// published on events.BROADCAST_CHANNEL out to connected clients. Grounded
// on the teacher's websocket Manager, stripped of the OIDC auth handshake
// and the per-user routing the discogs sync flow needed — this surface is
// admin-only and has no concept of per-user state.
type Manager struct {
	hub      *Hub
	config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus, config config.Config) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan events.Event),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		config:   config,
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)
	go manager.subscribeToEventBus()

	return manager, nil
}

// HandleWebSocket upgrades a connection the caller has already authorized
// (the /ws route's JWT middleware runs before fiber hands off to this
// handler) and streams every broadcast event until the client disconnects.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")
	clientID := uuid.New().String()

	client := &Client{
		ID:         clientID,
		Connection: c,
		Manager:    m,
		send:       make(chan events.Event, SEND_CHANNEL_SIZE),
	}

	log.Info("Client connected", "clientID", clientID)
	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", clientID)
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) BroadcastEvent(event events.Event) {
	log := m.log.Function("BroadcastEvent")

	select {
	case m.hub.broadcast <- event:
		log.Info("Event sent to broadcast channel", "eventID", event.ID)
	default:
		log.Warn("Broadcast channel is full, dropping event", "eventID", event.ID)
	}
}

// readPump only exists to detect disconnects and answer pings; admin
// telemetry clients never send application messages upstream.
func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		if _, _, err := c.Connection.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("unexpected close error", err, "clientID", c.ID)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(event); err != nil {
				log.Er("websocket write error", err, "clientID", c.ID, "eventID", event.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) subscribeToEventBus() {
	log := m.log.Function("subscribeToEventBus")
	log.Info("Starting broadcast event subscription")

	if err := m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		m.hub.mutex.RLock()
		defer m.hub.mutex.RUnlock()

		sent := 0
		for _, client := range m.hub.clients {
			select {
			case client.send <- event:
				sent++
			default:
				log.Warn("client send channel full, dropping event", "clientID", client.ID)
			}
		}

		return nil
	}); err != nil {
		log.Er("failed to subscribe to broadcast events", err)
	}
}
