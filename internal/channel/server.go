package channel

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Veraticus/money-mage/internal/bot"
)

// readTimeout bounds how long a connection may sit idle before the read
// loop gives up on it.
const readTimeout = 5 * time.Minute

// Server exposes the chat gateway over HTTP: a health endpoint and a
// websocket endpoint where each connection carries one user's
// conversation.
type Server struct {
	handler  *bot.Handler
	registry *Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates the gateway around the conversation handler.
func NewServer(handler *bot.Handler, registry *Registry, logger *slog.Logger) *Server {
	return &Server{
		handler:  handler,
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router builds the gin router for the gateway.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", s.handleWebsocket)

	return router
}

// ValidUserKey rejects structural channel noise before it reaches the
// core: empty keys, group conversations, and broadcast originators are
// filtered here.
func ValidUserKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	if strings.HasSuffix(key, "@g.us") {
		return false
	}
	if strings.Contains(key, "status") && strings.Contains(key, "broadcast") {
		return false
	}
	return true
}

func (s *Server) handleWebsocket(c *gin.Context) {
	userKey := c.Query("user")
	if !ValidUserKey(userKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user key"})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			"user", userKey,
			"error", err)
		return
	}

	conn := s.registry.add(userKey, ws)

	s.logger.Info("connection established",
		"user", userKey,
		"remote", c.Request.RemoteAddr)

	// The request context dies when this handler returns; the hijacked
	// connection outlives it.
	go s.readLoop(context.Background(), userKey, conn)
}

// readLoop consumes inbound frames for one connection. Each message is
// handled on its own goroutine; the bot serializes per user, so a slow
// oracle call for one user never blocks another's messages.
func (s *Server) readLoop(ctx context.Context, userKey string, conn *connection) {
	defer func() {
		_ = conn.ws.Close()
		s.registry.remove(userKey, conn)
		s.logger.Info("connection closed", "user", userKey)
	}()

	for {
		if err := conn.ws.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			s.logger.Warn("failed to set read deadline",
				"user", userKey,
				"error", err)
			return
		}

		msgType, payload, err := conn.ws.ReadMessage()
		if err != nil {
			s.logger.Debug("read failed",
				"user", userKey,
				"error", err)
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		go s.handleInbound(ctx, userKey, conn, string(payload))
	}
}

// handleInbound runs the core for one message and writes the reply back.
// Every message that reaches this point produces exactly one reply frame.
func (s *Server) handleInbound(ctx context.Context, userKey string, conn *connection, text string) {
	reply, err := s.handler.HandleMessage(ctx, userKey, text)
	if err != nil {
		s.logger.Error("message handling failed",
			"user", userKey,
			"error", err)
	}

	if writeErr := conn.writeText(reply); writeErr != nil {
		s.logger.Warn("reply delivery failed",
			"user", userKey,
			"error", writeErr)
	}
}
