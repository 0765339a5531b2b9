package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/models"
	"ritmo-backend/internal/services"
)

const (
	MessageBalanceUpdate  = "BALANCE_UPDATE"
	MessageProgressUpdate = "PROGRESS_UPDATE"
	MessageLevelUp        = "LEVEL_UP"
	MessagePing           = "PING"
	MessagePong           = "PONG"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type   string      `json:"type"`
	UserID string      `json:"userId,omitempty"`
	Data   interface{} `json:"data"`
}

type Client struct {
	UserID string

	conn *websocket.Conn
	mu   sync.Mutex
}

// write serialises writers: gorilla connections allow one at a time.
func (c *Client) write(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// WebSocketHub fans ledger events out to the connections of the affected
// user. It implements services.Broadcaster.
type WebSocketHub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	log        logging.Logger
}

var _ services.Broadcaster = (*WebSocketHub)(nil)

func NewWebSocketHub(log logging.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		done:       make(chan struct{}),
		log:        log.With("component", "websocket"),
	}
}

// Run owns the client registry until ctx is cancelled, then closes every
// connection.
func (hub *WebSocketHub) Run(ctx context.Context) {
	defer close(hub.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range hub.clients {
				for client := range conns {
					client.conn.Close()
				}
			}
			return

		case client := <-hub.register:
			if hub.clients[client.UserID] == nil {
				hub.clients[client.UserID] = make(map[*Client]struct{})
			}
			hub.clients[client.UserID][client] = struct{}{}
			hub.log.Debug(ctx, "client registered", "user_id", client.UserID)

		case client := <-hub.unregister:
			if conns, ok := hub.clients[client.UserID]; ok {
				delete(conns, client)
				if len(conns) == 0 {
					delete(hub.clients, client.UserID)
				}
				hub.log.Debug(ctx, "client unregistered", "user_id", client.UserID)
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(ctx, message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(ctx context.Context, message *Message) {
	for client := range hub.clients[message.UserID] {
		if err := client.write(message); err != nil {
			hub.log.Warn(ctx, "failed to push message", "user_id", message.UserID, "type", message.Type, "error", err)
		}
	}
}

func (hub *WebSocketHub) BroadcastBalance(userID string, gems int64) {
	hub.send(&Message{
		Type:   MessageBalanceUpdate,
		UserID: userID,
		Data:   gin.H{"gems": gems},
	})
}

func (hub *WebSocketHub) BroadcastProgress(userID string, progress models.Progress, leveledUp bool) {
	hub.send(&Message{
		Type:   MessageProgressUpdate,
		UserID: userID,
		Data:   progress,
	})
	if leveledUp {
		hub.send(&Message{
			Type:   MessageLevelUp,
			UserID: userID,
			Data:   gin.H{"level": progress.Level},
		})
	}
}

// send never blocks the ledger: when the queue is full the event is dropped.
func (hub *WebSocketHub) send(msg *Message) {
	select {
	case hub.broadcast <- msg:
	default:
		hub.log.Warn(context.Background(), "broadcast queue full, dropping message", "user_id", msg.UserID, "type", msg.Type)
	}
}

func (hub *WebSocketHub) add(client *Client) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

func (hub *WebSocketHub) remove(client *Client) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

type WebSocketHandler struct {
	hub   *WebSocketHub
	users *services.UserService
	log   logging.Logger
}

func NewWebSocketHandler(hub *WebSocketHub, users *services.UserService, log logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:   hub,
		users: users,
		log:   log.With("component", "websocket"),
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn(ctx, "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	client := &Client{UserID: userID, conn: conn}
	if !h.hub.add(client) {
		return
	}
	defer h.hub.remove(client)

	h.sendSnapshot(ctx, client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn(ctx, "websocket error", "user_id", userID, "error", err)
			}
			return
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case MessagePing:
		_ = client.write(&Message{
			Type: MessagePong,
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	}
}

// sendSnapshot pushes the current balance and progress right after connect.
func (h *WebSocketHandler) sendSnapshot(ctx context.Context, client *Client) {
	user, err := h.users.Get(ctx, client.UserID)
	if err != nil {
		h.log.Warn(ctx, "failed to load user for websocket", "user_id", client.UserID, "error", err)
		return
	}

	_ = client.write(&Message{
		Type:   MessageBalanceUpdate,
		UserID: user.UserID,
		Data:   gin.H{"gems": user.Gems},
	})
	_ = client.write(&Message{
		Type:   MessageProgressUpdate,
		UserID: user.UserID,
		Data: models.Progress{
			Level:      user.Level,
			Experience: user.Experience,
			RequiredXP: services.RequiredXP(user.Level),
		},
	})
}
