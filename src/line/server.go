package line

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"chefbot/src/logger"
	"chefbot/src/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler turns one user message into one reply
type Handler interface {
	Handle(ctx context.Context, userID, text string) (model.Reply, error)
}

// Replier delivers a reply for an event
type Replier interface {
	Reply(ctx context.Context, replyToken string, reply model.Reply) error
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the webhook server
type Deps struct {
	Handler Handler
	Replier Replier
	// Health checks reported by /healthz, keyed by name
	Health map[string]Pinger
	// FallbackText is sent when the handler fails
	FallbackText string
}

// Server is the LINE webhook HTTP server
type Server struct {
	config model.ServerConfig
	secret string
	deps   Deps
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
}

func NewServer(config model.ServerConfig, channelSecret string, deps Deps) *Server {
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		secret: channelSecret,
		deps:   deps,
		engine: gin.New(),
		log:    logger.With("webhook"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())

	s.engine.POST("/callback", s.handleCallback)
	s.engine.GET("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)

		c.Next()

		s.log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

func (s *Server) handleCallback(c *gin.Context) {
	requestID := c.GetString("request_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", requestID).Msg("Failed to read request body")
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}

	if !VerifySignature(s.secret, body, c.GetHeader(SignatureHeader)) {
		s.log.Warn().Str("request_id", requestID).Msg("Signature verification failed")
		c.String(http.StatusBadRequest, "Invalid signature")
		return
	}

	hook, err := ParseWebhook(body)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", requestID).Msg("Failed to parse webhook")
		c.String(http.StatusBadRequest, "Invalid request format")
		return
	}

	for _, event := range hook.TextEvents() {
		s.dispatch(c.Request.Context(), requestID, event)
	}

	c.String(http.StatusOK, "OK")
}

func (s *Server) dispatch(ctx context.Context, requestID string, event TextEvent) {
	log := s.log.With().Str("request_id", requestID).Str("user_id", event.UserID).Logger()

	reply, err := s.deps.Handler.Handle(ctx, event.UserID, event.Text)
	if err != nil {
		log.Error().Err(err).Msg("Failed to handle message")
		reply = model.TextReply(s.deps.FallbackText)
	}

	if err := s.deps.Replier.Reply(ctx, event.ReplyToken, reply); err != nil {
		log.Error().Err(err).Msg("Failed to send reply")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, pinger := range s.deps.Health {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	if status != http.StatusOK {
		c.JSON(status, gin.H{"status": "unhealthy", "checks": checks})
		return
	}
	c.JSON(status, gin.H{"status": "healthy", "checks": checks})
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.config.Addr).Msg("Starting webhook server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
