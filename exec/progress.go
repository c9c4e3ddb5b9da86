package exec

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ProgressStreamer mirrors Monte Carlo progress over a caller-supplied
// websocket connection. The core never listens for connections itself
// — a host hands it one after accepting it, and the streamer only
// ever writes frames.
type ProgressStreamer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewProgressStreamer wraps an already-established connection.
func NewProgressStreamer(conn *websocket.Conn) *ProgressStreamer {
	return &ProgressStreamer{conn: conn}
}

type progressFrame struct {
	PercentComplete      float64 `json:"percentComplete"`
	IterationsDone       int     `json:"iterationsDone"`
	EstimatedMsRemaining float64 `json:"estimatedMsRemaining"`
}

// Fn adapts the streamer to ProgressFn. A write failure is swallowed —
// a dropped progress socket must never abort the simulation it is
// merely reporting on.
func (s *ProgressStreamer) Fn() ProgressFn {
	return func(pct float64, done int, estMsRemaining float64) {
		payload, err := json.Marshal(progressFrame{
			PercentComplete:      pct,
			IterationsDone:       done,
			EstimatedMsRemaining: estMsRemaining,
		})
		if err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		_ = s.conn.WriteMessage(websocket.TextMessage, payload)
	}
}

// Close releases the underlying connection. Closing is the caller's
// responsibility to coordinate with the rest of the connection's
// lifecycle; this is a convenience passthrough.
func (s *ProgressStreamer) Close() error {
	return s.conn.Close()
}
