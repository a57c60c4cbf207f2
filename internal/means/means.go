// Package means implements the binary asset-price service: 9-byte
// big-endian frames, 'I' to insert a timestamped price into the
// connection's private store, 'Q' to query the mean over a timestamp
// range. Stores are per-connection and die with it.
package means

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"net"
	"sort"

	"budgetchat/internal/tcp"
)

const frameLen = 9

func NewServer(addr string, logger *slog.Logger) *tcp.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return tcp.NewServer("means", addr, logger, func(conn net.Conn) {
		serve(conn, logger)
	})
}

func serve(conn net.Conn, logger *slog.Logger) {
	defer func() {
		_ = conn.Close()
	}()

	var store priceStore
	frame := make([]byte, frameLen)

	for {
		if _, err := io.ReadFull(conn, frame); err != nil {
			// EOF and truncated trailing frames both end the session.
			return
		}

		first := int32(binary.BigEndian.Uint32(frame[1:5]))
		second := int32(binary.BigEndian.Uint32(frame[5:9]))

		switch frame[0] {
		case 'I':
			store.insert(first, second)
		case 'Q':
			var out [4]byte
			binary.BigEndian.PutUint32(out[:], uint32(store.mean(first, second)))
			if _, err := conn.Write(out[:]); err != nil {
				return
			}
		default:
			logger.Info("unknown message type", "addr", conn.RemoteAddr().String(), "type", frame[0])
			_, _ = conn.Write([]byte("Error: unknown message type"))
			return
		}
	}
}

type entry struct {
	ts    int32
	price int32
}

// priceStore keeps entries sorted by timestamp so range queries are a
// pair of binary searches plus a contiguous scan.
type priceStore struct {
	entries []entry
}

// insert adds or overwrites the price at ts.
func (s *priceStore) insert(ts, price int32) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].ts >= ts
	})
	if i < len(s.entries) && s.entries[i].ts == ts {
		s.entries[i].price = price
		return
	}
	s.entries = append(s.entries, entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry{ts: ts, price: price}
}

// mean returns the rounded mean price over min <= ts <= max, 0 when the
// range is empty or inverted.
func (s *priceStore) mean(min, max int32) int32 {
	if min > max {
		return 0
	}
	lo := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].ts >= min
	})
	hi := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].ts > max
	})
	if lo == hi {
		return 0
	}

	var sum int64
	for _, e := range s.entries[lo:hi] {
		sum += int64(e.price)
	}
	m := math.Round(float64(sum) / float64(hi-lo))
	m = math.Min(math.Max(m, math.MinInt32), math.MaxInt32)
	return int32(m)
}
