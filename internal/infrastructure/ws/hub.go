// Package ws mantiene el hub de WebSocket del dashboard: clientes conectados
// y difusión de eventos (ventas completadas, alertas nuevas).
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// envelope es el mensaje que reciben los clientes del dashboard.
type envelope struct {
	Event string    `json:"event"`
	Data  any       `json:"data"`
	Ts    time.Time `json:"ts"`
}

// Hub registra y da de baja conexiones y difunde mensajes a todas. La difusión
// es best-effort: una conexión que falla al escribir se expulsa.
type Hub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
	}
}

// Run atiende registros, bajas y difusiones hasta que el contexto se cancele.
// Se lanza como goroutine desde main.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("clients", total).Msg("Cliente WebSocket conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializa el evento y lo difunde. Si el hub está saturado el
// mensaje se descarta: el dashboard es un espejo, no la fuente de verdad.
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := json.Marshal(envelope{Event: event, Data: payload, Ts: time.Now()})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("serializar mensaje WebSocket")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("event", event).Msg("Difusión WebSocket descartada, hub saturado")
	}
}

// Handler devuelve el handler Fiber que registra la conexión y la mantiene
// viva leyendo hasta que el cliente cierre.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.register <- c
		defer func() { h.unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}

// UpgradeRequired deja pasar solo peticiones de upgrade WebSocket.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
