// Package primetime implements the JSON request/response primality
// service: one request object per line, one response object per line.
package primetime

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net"
	"strconv"

	"budgetchat/internal/tcp"
)

const maxRequestLen = 1 << 20

type request struct {
	Method *string      `json:"method"`
	Number *json.Number `json:"number"`
}

type response struct {
	Method string `json:"method"`
	Prime  bool   `json:"prime"`
}

func NewServer(addr string, logger *slog.Logger) *tcp.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return tcp.NewServer("primetime", addr, logger, func(conn net.Conn) {
		serve(conn, logger)
	})
}

func serve(conn net.Conn, logger *slog.Logger) {
	defer func() {
		_ = conn.Close()
	}()

	w := bufio.NewWriter(conn)
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxRequestLen)

	for sc.Scan() {
		req, ok := parseRequest(sc.Bytes())
		if !ok {
			// A malformed request gets one error object, then the
			// connection is abandoned.
			_, _ = w.WriteString(`{"error":"malformed request"}` + "\n")
			_ = w.Flush()
			logger.Info("malformed request", "addr", conn.RemoteAddr().String())
			return
		}

		out, err := json.Marshal(response{Method: "isPrime", Prime: isPrimeNumber(*req.Number)})
		if err != nil {
			return
		}
		out = append(out, '\n')
		if _, err := w.Write(out); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

func parseRequest(raw []byte) (request, bool) {
	var req request
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&req); err != nil {
		return request{}, false
	}
	if req.Method == nil || *req.Method != "isPrime" || req.Number == nil {
		return request{}, false
	}
	return req, true
}

// isPrimeNumber treats non-integers and negatives as well-formed but not
// prime; only malformed requests are errors.
func isPrimeNumber(n json.Number) bool {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		if i < 0 {
			return false
		}
		return isPrime(uint64(i))
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return isPrime(u)
	}
	return false
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
