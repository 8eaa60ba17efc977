// Package web exposes the voicemd HTTP surface: the assistant endpoint,
// the call log read endpoint, and a live call feed for the dashboard.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/voicemd/voicemd/pkg/assistant"
	"github.com/voicemd/voicemd/pkg/calllog"
	"github.com/voicemd/voicemd/pkg/hub"
)

// Server is the voicemd HTTP server.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	pipeline *assistant.Pipeline
	store    calllog.Store
	callHub  *hub.Hub
}

// NewServer wires the fiber app, routes, and the live call feed.
func NewServer(port string, pipeline *assistant.Pipeline, store calllog.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:     port,
		logger:   logger.With("component", "web"),
		pipeline: pipeline,
		store:    store,
		callHub:  hub.New("calls", logger),
	}

	// New records flow to connected dashboard sockets
	pipeline.OnRecord(func(rec calllog.Record) {
		s.callHub.BroadcastJSON(rec)
	})

	app := fiber.New(fiber.Config{
		AppName:               "voicemd",
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024, // audio + image uploads
		StreamRequestBody:     false,
	})

	// CORS for the browser client
	app.Use(cors.New(cors.Config{
		ExposeHeaders: "X-Transcript,X-Response",
	}))

	app.Post("/api", s.handleAssist)
	app.Get("/api", s.handleListCalls)
	app.Get("/healthz", s.handleHealth)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/calls", websocket.New(s.handleCallsWS))

	s.app = app
	return s
}

// Start runs the hub and listens for connections. Blocks.
func (s *Server) Start() error {
	go s.callHub.Run()

	s.logger.Info("listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
