package means

import (
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"budgetchat/internal/tcp"
)

func startTestServer(t *testing.T) *tcp.Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv
}

func dialService(t *testing.T, srv *tcp.Server) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func frame(typ byte, a, b int32) []byte {
	buf := make([]byte, frameLen)
	buf[0] = typ
	binary.BigEndian.PutUint32(buf[1:5], uint32(a))
	binary.BigEndian.PutUint32(buf[5:9], uint32(b))
	return buf
}

func insert(t *testing.T, conn net.Conn, ts, price int32) {
	t.Helper()
	_, err := conn.Write(frame('I', ts, price))
	require.NoError(t, err)
}

func query(t *testing.T, conn net.Conn, min, max int32) int32 {
	t.Helper()
	_, err := conn.Write(frame('Q', min, max))
	require.NoError(t, err)
	var out [4]byte
	_, err = io.ReadFull(conn, out[:])
	require.NoError(t, err)
	return int32(binary.BigEndian.Uint32(out[:]))
}

func TestMeanOverRange(t *testing.T) {
	srv := startTestServer(t)
	conn := dialService(t, srv)

	insert(t, conn, 12345, 101)
	insert(t, conn, 12346, 102)
	insert(t, conn, 12347, 100)
	insert(t, conn, 40960, 5)

	require.Equal(t, int32(101), query(t, conn, 12288, 16384))
}

func TestMeanEdgeCases(t *testing.T) {
	srv := startTestServer(t)
	conn := dialService(t, srv)

	// Empty store and empty range both yield 0.
	require.Equal(t, int32(0), query(t, conn, 0, 100))

	insert(t, conn, 50, 10)
	require.Equal(t, int32(0), query(t, conn, 60, 100))

	// Inverted range yields 0 even when data would match.
	require.Equal(t, int32(0), query(t, conn, 100, 0))

	// Bounds are inclusive.
	require.Equal(t, int32(10), query(t, conn, 50, 50))

	// Inserting the same timestamp again overwrites.
	insert(t, conn, 50, 30)
	require.Equal(t, int32(30), query(t, conn, 50, 50))
}

func TestMeanWithNegativeValues(t *testing.T) {
	srv := startTestServer(t)
	conn := dialService(t, srv)

	insert(t, conn, -100, -40)
	insert(t, conn, -50, -10)
	insert(t, conn, 0, 20)

	require.Equal(t, int32(-10), query(t, conn, -100, 0))
}

func TestStoresArePerConnection(t *testing.T) {
	srv := startTestServer(t)
	a := dialService(t, srv)
	b := dialService(t, srv)

	insert(t, a, 1, 1000)
	require.Equal(t, int32(0), query(t, b, 0, 10))
	require.Equal(t, int32(1000), query(t, a, 0, 10))
}

func TestUnknownTypeClosesConnection(t *testing.T) {
	srv := startTestServer(t)
	conn := dialService(t, srv)

	_, err := conn.Write(frame('X', 1, 2))
	require.NoError(t, err)

	reply, err := io.ReadAll(conn)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(reply), "Error:"), "reply %q", reply)
}
