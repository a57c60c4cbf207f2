// Package chat implements the multi-user chat broadcaster: a line
// protocol over TCP where clients claim a display name and exchange
// messages fanned out to every other member of the room.
package chat

import (
	"log/slog"
	"net"

	"budgetchat/internal/tcp"
)

// Server owns the process-wide room state: the membership registry and
// the event bus, both outliving any individual session.
type Server struct {
	tcp      *tcp.Server
	registry *Registry
	bus      *Bus
	logger   *slog.Logger
}

func NewServer(addr string, busDepth int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry: NewRegistry(),
		bus:      NewBus(busDepth),
		logger:   logger,
	}
	s.tcp = tcp.NewServer("chat", addr, logger, s.handle)
	return s
}

func (s *Server) Start() error {
	return s.tcp.Start()
}

func (s *Server) Stop() {
	s.tcp.Stop()
	s.bus.Close()
}

// Addr returns the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	return s.tcp.Addr()
}

func (s *Server) handle(conn net.Conn) {
	NewSession(conn, s.registry, s.bus, s.logger).Run()
}
