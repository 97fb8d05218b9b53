// Package server exposes the conversational Q&A pipeline over HTTP.
package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/docsage/docsage/pkg/chat"
)

// QueryService answers one question against one session's conversation
// state. It is implemented by pipeline.Pipeline.
type QueryService interface {
	Answer(ctx context.Context, question string, state *chat.State) (string, error)
}

// Server is the HTTP front of the Q&A service. It owns the session
// registry and serializes requests per session; the pipeline itself is
// stateless across requests.
type Server struct {
	config   Config
	service  QueryService
	sessions *sessionRegistry
	logger   *zap.Logger
	app      *fiber.App
}

// New creates the server and registers its routes.
func New(config Config, service QueryService, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		service:  service,
		sessions: newSessionRegistry(),
		logger:   logger,
		app:      app,
	}

	app.Post("/api/chat", s.handleChat)
	app.Get("/api/sessions/:id/history", s.handleHistory)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting docsage server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("index_backend", s.config.Index.Backend),
		zap.Int("top_k", s.config.TopK),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Messages  string `json:"messages"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	start := time.Now()

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Message: "invalid request body", Error: err.Error()})
	}
	if strings.TrimSpace(req.Messages) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Message: "messages must not be empty"})
	}

	sess := s.sessions.getOrCreate(req.SessionID)

	// One pipeline run at a time per session: the conversation state is
	// mutated in place and is not safe for concurrent mutation.
	sess.mu.Lock()
	answer, err := s.service.Answer(c.Context(), req.Messages, sess.state)
	sess.mu.Unlock()

	if err != nil {
		s.logger.Error("chat request failed",
			zap.String("session_id", sess.id),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}

	s.logger.Info("chat request completed",
		zap.String("session_id", sess.id),
		zap.String("answer_preview", truncate(answer, 100)),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(chatResponse{SessionID: sess.id, Message: answer})
}

type historyResponse struct {
	SessionID string      `json:"session_id"`
	Turns     []chat.Turn `json:"turns"`
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	sess, ok := s.sessions.get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Message: "session not found"})
	}

	sess.mu.Lock()
	turns := sess.state.Snapshot()
	sess.mu.Unlock()

	return c.JSON(historyResponse{SessionID: sess.id, Turns: turns})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
