package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/google/uuid"
)

const (
	promptLine    = "Welcome to budgetchat! What shall I call you?"
	rejectionLine = "Illegal username"
	rosterPrefix  = "* The room contains: "
)

// Session drives one client connection through its lifecycle:
// AwaitingName (the naming handshake), Active (the steady-state loop
// multiplexing inbound lines and bus events), Terminated. All failures are
// local to the session; nothing here ever propagates to the listener or
// to other sessions.
type Session struct {
	conn     net.Conn
	registry *Registry
	bus      *Bus
	logger   *slog.Logger
	w        *bufio.Writer
	name     string
}

func NewSession(conn net.Conn, registry *Registry, bus *Bus, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		conn:     conn,
		registry: registry,
		bus:      bus,
		logger: logger.With(
			"session_id", uuid.NewString(),
			"addr", conn.RemoteAddr().String(),
		),
		w: bufio.NewWriter(conn),
	}
}

// Run executes the session to completion and closes the connection.
func (s *Session) Run() {
	defer func() {
		_ = s.conn.Close()
	}()

	lr := NewLineReader(s.conn)

	name, ok := s.awaitName(lr)
	if !ok {
		return
	}
	s.name = name
	s.logger = s.logger.With("user", name)

	roster := s.registry.Snapshot(name)
	ConnectedMembers.Set(float64(s.registry.Len()))
	if err := s.writeLine(rosterPrefix + strings.Join(roster, ", ")); err != nil {
		// Joined was never published, so release the name quietly.
		s.registry.Leave(name)
		ConnectedMembers.Set(float64(s.registry.Len()))
		return
	}

	s.publish(Event{Kind: EventJoined, User: name})
	sub := s.bus.Subscribe()
	defer sub.Close()

	s.logger.Info("user joined")

	s.active(lr, sub)

	// Every Active-phase exit takes the same departure path, framing
	// errors and lag kicks included, so a dead session can never leave a
	// ghost member behind.
	s.registry.Leave(name)
	ConnectedMembers.Set(float64(s.registry.Len()))
	s.publish(Event{Kind: EventLeft, User: name})
	s.logger.Info("user left")
}

// awaitName runs the naming handshake. The second return is false when the
// session must terminate; the caller owns no cleanup at that point, since
// a rejected or unnamed user was never admitted.
func (s *Session) awaitName(lr *LineReader) (string, bool) {
	if err := s.writeLine(promptLine); err != nil {
		return "", false
	}

	line, err := lr.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.logger.Warn("failed to read name", "error", err)
		}
		return "", false
	}

	if !s.registry.TryJoin(line) {
		RejectedNames.Inc()
		s.logger.Info("name rejected", "candidate", line)
		_ = s.writeLine(rejectionLine)
		return "", false
	}
	return line, true
}

type inbound struct {
	line string
	err  error
}

// active is the steady-state loop. Inbound lines arrive on a channel fed
// by a dedicated reader goroutine, so the select can watch the connection
// and the bus subscription at once without starving either.
func (s *Session) active(lr *LineReader, sub *Subscription) {
	lines := make(chan inbound)
	done := make(chan struct{})
	defer close(done)
	go readLines(lr, lines, done)

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				if sub.Lagged() {
					LaggedSessions.Inc()
					s.logger.Warn("subscription lagged, dropping session")
				}
				return
			}
			if ev.User == s.name {
				continue
			}
			if err := s.writeLine(renderEvent(ev)); err != nil {
				s.logger.Warn("write failed", "error", err)
				return
			}

		case in := <-lines:
			if in.err != nil {
				if !errors.Is(in.err, io.EOF) {
					s.logger.Warn("read failed", "error", in.err)
				}
				return
			}
			s.publish(Event{Kind: EventSaid, User: s.name, Text: in.line})
		}
	}
}

// readLines pumps framed lines from the connection into out until the
// stream ends or the session signals done. Closing the connection
// unblocks the pending read, so this goroutine cannot outlive the session
// by more than one iteration.
func readLines(lr *LineReader, out chan<- inbound, done <-chan struct{}) {
	for {
		line, err := lr.Next()
		select {
		case out <- inbound{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) publish(ev Event) {
	EventsPublished.WithLabelValues(ev.Kind.String()).Inc()
	s.bus.Publish(ev)
}

func (s *Session) writeLine(line string) error {
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return s.w.Flush()
}

func renderEvent(ev Event) string {
	switch ev.Kind {
	case EventSaid:
		return "[" + ev.User + "] " + ev.Text
	case EventJoined:
		return "* " + ev.User + " has entered the room"
	case EventLeft:
		return "* " + ev.User + " has left the room"
	default:
		return ""
	}
}
