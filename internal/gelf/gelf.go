package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it can be
// fanned out next to stderr with io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "balikbayani-engine"
	}

	return &Writer{conn: conn, hostname: hostname}, nil
}

// Write implements io.Writer. Each call sends one GELF message. Lines come
// from logrus; the level field is recovered from the "level=" token of the
// text format.
func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")

	level := 6 // Informational
	switch {
	case strings.Contains(msg, "level=fatal") || strings.Contains(msg, "level=panic"):
		level = 2 // Critical
	case strings.Contains(msg, "level=error"):
		level = 3 // Error
	case strings.Contains(msg, "level=warn"):
		level = 4 // Warning
	case strings.Contains(msg, "level=debug"):
		level = 7 // Debug
	}

	gelf := map[string]interface{}{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": msg,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      "balikbayani-engine",
	}

	payload, err := json.Marshal(gelf)
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}
