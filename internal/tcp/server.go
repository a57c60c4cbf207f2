// Package tcp provides the shared listener scaffolding for the protocol
// services: a sequential accept loop that hands each connection to a
// handler goroutine and never blocks on a connection's lifetime.
package tcp

import (
	"errors"
	"log/slog"
	"net"
)

// Handler serves one accepted connection. It owns the connection and must
// close it before returning.
type Handler func(conn net.Conn)

type Server struct {
	name     string
	addr     string
	logger   *slog.Logger
	handler  Handler
	listener net.Listener
}

// NewServer builds a server for one protocol service. name labels log
// lines and metrics.
func NewServer(name, addr string, logger *slog.Logger, handler Handler) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		name:    name,
		addr:    addr,
		logger:  logger.With("service", name),
		handler: handler,
	}
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.acceptLoop(ln)

	s.logger.Info("service started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.logger.Info("service stopped")
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient accept failures must not take the service down.
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())
		AcceptedConnections.WithLabelValues(s.name).Inc()

		go s.handler(conn)
	}
}
