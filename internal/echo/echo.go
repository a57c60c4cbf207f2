// Package echo implements the raw byte-echo service: everything a client
// sends is written straight back until it closes the stream.
package echo

import (
	"io"
	"log/slog"
	"net"

	"budgetchat/internal/tcp"
)

func NewServer(addr string, logger *slog.Logger) *tcp.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return tcp.NewServer("echo", addr, logger, func(conn net.Conn) {
		serve(conn, logger)
	})
}

func serve(conn net.Conn, logger *slog.Logger) {
	defer func() {
		_ = conn.Close()
	}()

	n, err := io.Copy(conn, conn)
	if err != nil {
		logger.Warn("echo stream failed", "addr", conn.RemoteAddr().String(), "error", err)
		return
	}
	logger.Info("echo stream finished", "addr", conn.RemoteAddr().String(), "bytes", n)
}
