package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gift-village/apps/server/internal/codec"
	"gift-village/apps/server/internal/lobby"
	"gift-village/village"
)

// Connection represents a WebSocket client connection
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	Session  *lobby.Session
	LastPing time.Time
}

// Gateway manages WebSocket connections. Every connection plays in its own
// lobby session.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	lobby       *lobby.Lobby
	upgrader    websocket.Upgrader
}

func New(lby *lobby.Lobby, allowedOrigin string) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		lobby:       lby,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	session, err := g.lobby.Open(ctx)
	cancel()
	if err != nil {
		log.Printf("[Gateway] Failed to open session: %v", err)
		http.Error(w, "failed to open session", http.StatusInternalServerError)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		g.lobby.Close(session.ID)
		return
	}

	c := &Connection{
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		Session:  session,
		LastPing: time.Now(),
	}
	g.mu.Lock()
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (session=%s), total: %d", c.ID, session.ID, total)

	c.sendSnapshot(0)
	go c.readPump()
	go c.writePump()
}

func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.BinaryMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		log.Printf("[Gateway] Bad frame from %s: %v", c.ID, err)
		c.sendError(env.Seq, "bad_request", err.Error())
		return
	}

	if env.Type == codec.TypeGiveGift {
		c.handleGiveGift(env)
		return
	}

	err = c.Session.Do(func(w *village.World) error {
		switch env.Type {
		case codec.TypeMove:
			w.Move(village.Vec2{X: env.X, Y: env.Y})
		case codec.TypeMoveBy:
			w.MoveBy(env.DX, env.DY)
		case codec.TypeEnterShop:
			return w.EnterShop(env.ShopID)
		case codec.TypeExitShop:
			w.ExitShop()
		case codec.TypeAddToBag:
			return w.AddToBag(env.GiftID)
		case codec.TypeRemoveFromBag:
			return w.RemoveFromBag(env.GiftID)
		}
		return nil
	})
	if err != nil {
		c.sendError(env.Seq, errorCode(err), err.Error())
		return
	}
	c.sendSnapshot(env.Seq)
}

func (c *Connection) handleGiveGift(env codec.ClientEnvelope) {
	var outcome village.GiftOutcome
	err := c.Session.Do(func(w *village.World) error {
		var err error
		outcome, err = w.GiveGift(env.CharacterID, env.GiftID)
		return err
	})
	if err != nil {
		c.sendError(env.Seq, errorCode(err), err.Error())
		return
	}
	if outcome.QuestCompleted {
		log.Printf("[Gateway] Session %s completed quest %s with %s", c.Session.ID, outcome.Quest.ID, env.GiftID)
	}
	c.send(codec.WrapServerEnvelope(codec.TypeGiftResult, env.Seq, outcome))
	c.sendSnapshot(env.Seq)
}

func (c *Connection) sendSnapshot(seq uint64) {
	var snap village.Snapshot
	_ = c.Session.Do(func(w *village.World) error {
		snap = w.Snapshot()
		return nil
	})
	c.send(codec.WrapServerEnvelope(codec.TypeSnapshot, seq, snap))
}

func (c *Connection) sendError(seq uint64, code, msg string) {
	c.send(codec.WrapServerEnvelope(codec.TypeError, seq, codec.ErrorPayload{Code: code, Message: msg}))
}

func (c *Connection) send(env codec.ServerEnvelope) {
	data, err := codec.EncodeServer(env)
	if err != nil {
		log.Printf("[Gateway] Failed to encode %s: %v", env.Type, err)
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("[Gateway] Send buffer full for %s, dropping %s", c.ID, env.Type)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// removeConnection runs once, from readPump, after the last send.
func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	total := len(g.connections)
	g.mu.Unlock()

	g.lobby.Close(c.Session.ID)
	close(c.Send)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, village.ErrUnknownShop):
		return "unknown_shop"
	case errors.Is(err, village.ErrUnknownGift):
		return "unknown_gift"
	case errors.Is(err, village.ErrUnknownCharacter):
		return "unknown_character"
	case errors.Is(err, village.ErrNotInShop):
		return "not_in_shop"
	case errors.Is(err, village.ErrGiftNotInShop):
		return "gift_not_in_shop"
	case errors.Is(err, village.ErrGiftNotInBag):
		return "gift_not_in_bag"
	case errors.Is(err, village.ErrShopTooFar), errors.Is(err, village.ErrCharacterTooFar):
		return "too_far"
	default:
		return "internal"
	}
}
